package respond

// ListingRespond 房源
type ListingRespond struct {
	Uuid        string  `json:"uuid"`
	OwnerId     string  `json:"owner_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Location    string  `json:"location"`
	IsRental    bool    `json:"is_rental"`
	CreatedAt   string  `json:"created_at"`
}
