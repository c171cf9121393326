package domain

import "time"

// Cart represents one session's shopping cart.
type Cart struct {
	SessionID string     `json:"session_id"`
	Lines     []CartLine `json:"lines"`
	Currency  string     `json:"currency"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// CartLine is one aggregated (menu item, quantity) pair. At most one line
// exists per item ID; quantity is always >= 1.
type CartLine struct {
	ItemID      string `json:"item_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
	ImageURL    string `json:"image_url,omitempty"`
}

// LineTotal returns price * quantity for this line, in cents.
func (l CartLine) LineTotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Subtotal computes the exact cart total in cents. Integer cents means no
// intermediate rounding can accumulate across operations.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.LineTotal()
	}
	return total
}

// ItemCount returns the sum of all line quantities (the cart badge number).
func (c *Cart) ItemCount() int {
	var count int
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// FindLine returns the index of the line with the given item ID, or -1.
func (c *Cart) FindLine(itemID string) int {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}
