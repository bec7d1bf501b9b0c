package domain

// User is a registered park visitor. Username is immutable and case-sensitive.
type User struct {
	Username        string   `json:"username"`
	PasswordHash    string   `json:"password_hash"`
	Email           string   `json:"email"`
	PhoneNumber     string   `json:"phone_number"`
	DateOfBirth     string   `json:"date_of_birth"`
	PurchaseHistory []string `json:"purchase_history"`
}

// Clone returns a deep copy so callers never share the history slice with a store.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.PurchaseHistory = make([]string, len(u.PurchaseHistory))
	copy(cp.PurchaseHistory, u.PurchaseHistory)
	return &cp
}
