package domain

import (
	"strings"
	"time"
)

// Order lifecycle status constants. An order moves strictly forward:
// editing -> submitting -> confirmed. Confirmed is terminal.
const (
	StatusEditing    = "editing"
	StatusSubmitting = "submitting"
	StatusConfirmed  = "confirmed"
)

// Fulfillment type constants.
const (
	FulfillmentDelivery = "delivery"
	FulfillmentPickup   = "pickup"
)

// Payment method constants.
const (
	PaymentCard = "card"
	PaymentCash = "cash"
)

// Pricing constants. The delivery fee is flat; tax is a fixed percentage of
// the exact (unrounded) subtotal.
const (
	DeliveryFeeCents = 399
	TaxRatePercent   = 8
)

// AllowedTransitions defines which lifecycle transitions are valid.
func AllowedTransitions() map[string][]string {
	return map[string][]string{
		StatusEditing:    {StatusSubmitting},
		StatusSubmitting: {StatusConfirmed},
		StatusConfirmed:  {},
	}
}

// CanTransition checks whether moving from one lifecycle status to another is allowed.
func CanTransition(from, to string) bool {
	for _, s := range AllowedTransitions()[from] {
		if s == to {
			return true
		}
	}
	return false
}

// OrderDraft holds the customer-entered checkout form. Address fields are
// required only for delivery orders; card fields only for card payment.
// Validation reports every failing field in a single pass.
type OrderDraft struct {
	FirstName           string `json:"firstName" validate:"required"`
	LastName            string `json:"lastName" validate:"required"`
	Email               string `json:"email" validate:"required,email"`
	Phone               string `json:"phone" validate:"required"`
	FulfillmentType     string `json:"orderType" validate:"required,oneof=delivery pickup"`
	Address             string `json:"address" validate:"required_if=FulfillmentType delivery"`
	City                string `json:"city" validate:"required_if=FulfillmentType delivery"`
	ZipCode             string `json:"zipCode" validate:"required_if=FulfillmentType delivery"`
	PaymentMethod       string `json:"paymentMethod" validate:"required,oneof=card cash"`
	CardNumber          string `json:"cardNumber" validate:"required_if=PaymentMethod card"`
	ExpiryDate          string `json:"expiryDate" validate:"required_if=PaymentMethod card"`
	CVV                 string `json:"cvv" validate:"required_if=PaymentMethod card"`
	NameOnCard          string `json:"nameOnCard" validate:"required_if=PaymentMethod card"`
	SpecialInstructions string `json:"specialInstructions"`
}

// Normalize trims surrounding whitespace from every field so that
// whitespace-only input fails the required checks.
func (d *OrderDraft) Normalize() {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)
	d.FulfillmentType = strings.TrimSpace(d.FulfillmentType)
	d.Address = strings.TrimSpace(d.Address)
	d.City = strings.TrimSpace(d.City)
	d.ZipCode = strings.TrimSpace(d.ZipCode)
	d.PaymentMethod = strings.TrimSpace(d.PaymentMethod)
	d.CardNumber = strings.TrimSpace(d.CardNumber)
	d.ExpiryDate = strings.TrimSpace(d.ExpiryDate)
	d.CVV = strings.TrimSpace(d.CVV)
	d.NameOnCard = strings.TrimSpace(d.NameOnCard)
	d.SpecialInstructions = strings.TrimSpace(d.SpecialInstructions)
}

// TotalBreakdown is the priced view of a cart under a fulfillment selection.
// All amounts are in cents.
type TotalBreakdown struct {
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"delivery_fee"`
	Tax         int64 `json:"tax"`
	Total       int64 `json:"total"`
}

// TaxOn computes the tax on an exact subtotal, rounded half-up to a whole
// cent. Rounding happens exactly once, here.
func TaxOn(subtotal int64) int64 {
	return (subtotal*TaxRatePercent + 50) / 100
}

// NewTotalBreakdown prices a subtotal under the given fulfillment type. The
// delivery fee applies only to delivery orders; tax is computed on the
// subtotal before the fee.
func NewTotalBreakdown(subtotal int64, fulfillmentType string) TotalBreakdown {
	var fee int64
	if fulfillmentType == FulfillmentDelivery {
		fee = DeliveryFeeCents
	}
	tax := TaxOn(subtotal)
	return TotalBreakdown{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       subtotal + fee + tax,
	}
}

// Customer is the identity portion of a confirmed order.
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// DeliveryAddress is the destination for delivery orders.
type DeliveryAddress struct {
	Address string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
}

// Order is the confirmation artifact produced by a successful submit: a
// snapshot of the cart lines, the total breakdown, and the fulfillment
// selection. The order number is a display-only receipt value with no
// uniqueness guarantee; it is never used as a storage key.
type Order struct {
	Number              string           `json:"number"`
	SessionID           string           `json:"session_id"`
	Status              string           `json:"status"`
	Lines               []CartLine       `json:"lines"`
	Totals              TotalBreakdown   `json:"totals"`
	Currency            string           `json:"currency"`
	FulfillmentType     string           `json:"fulfillment_type"`
	PaymentMethod       string           `json:"payment_method"`
	Customer            Customer         `json:"customer"`
	DeliveryAddress     *DeliveryAddress `json:"delivery_address,omitempty"`
	SpecialInstructions string           `json:"special_instructions,omitempty"`
	ETA                 string           `json:"eta"`
	ConfirmedAt         time.Time        `json:"confirmed_at"`
}
