package domain

// MenuItem represents a single dish on the restaurant menu. Menu data is
// supplied by the catalog and treated as immutable for the session.
type MenuItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"image_url,omitempty"`
	Category    string `json:"category"`
}
