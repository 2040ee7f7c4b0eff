package request

// CreateListingRequest 发布房源
type CreateListingRequest struct {
	Title       string  `json:"title" binding:"required,max=100"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"gte=0"`
	Location    string  `json:"location" binding:"max=255"`
	IsRental    *bool   `json:"is_rental"`
}
