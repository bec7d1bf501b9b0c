package dto

// AdminLoginRequest payload.
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SetPriceRequest payload for PUT /admin/tickets/price.
type SetPriceRequest struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

// SalesLineResponse is one row of the sales report.
type SalesLineResponse struct {
	Index     int     `json:"index"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	SoldCount int     `json:"sold_count"`
}

// SalesReportResponse lists sold counts for the whole catalog.
type SalesReportResponse struct {
	Lines     []SalesLineResponse `json:"lines"`
	TotalSold int                 `json:"total_sold"`
}
