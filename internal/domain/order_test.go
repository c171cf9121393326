package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Lifecycle Transition Tests
// ============================================================================

func TestCanTransition_Forward(t *testing.T) {
	assert.True(t, CanTransition(StatusEditing, StatusSubmitting))
	assert.True(t, CanTransition(StatusSubmitting, StatusConfirmed))
}

func TestCanTransition_NoSkipping(t *testing.T) {
	assert.False(t, CanTransition(StatusEditing, StatusConfirmed))
}

func TestCanTransition_NoBackwards(t *testing.T) {
	assert.False(t, CanTransition(StatusSubmitting, StatusEditing))
	assert.False(t, CanTransition(StatusConfirmed, StatusSubmitting))
	assert.False(t, CanTransition(StatusConfirmed, StatusEditing))
}

func TestCanTransition_ConfirmedIsTerminal(t *testing.T) {
	assert.Empty(t, AllowedTransitions()[StatusConfirmed])
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.False(t, CanTransition("canceled", StatusConfirmed))
}

// ============================================================================
// TaxOn Tests
// ============================================================================

func TestTaxOn_ExactPercent(t *testing.T) {
	assert.Equal(t, int64(80), TaxOn(1000))
}

func TestTaxOn_RoundsHalfUp(t *testing.T) {
	// 8% of 1131 = 90.48 -> 90; 8% of 1132 = 90.56 -> 91
	assert.Equal(t, int64(90), TaxOn(1131))
	assert.Equal(t, int64(91), TaxOn(1132))
	// 8% of 625 = 50.00 exactly
	assert.Equal(t, int64(50), TaxOn(625))
}

func TestTaxOn_Zero(t *testing.T) {
	assert.Equal(t, int64(0), TaxOn(0))
}

// ============================================================================
// NewTotalBreakdown Tests
// ============================================================================

func TestNewTotalBreakdown_Delivery(t *testing.T) {
	b := NewTotalBreakdown(1000, FulfillmentDelivery)

	assert.Equal(t, int64(1000), b.Subtotal)
	assert.Equal(t, int64(399), b.DeliveryFee)
	assert.Equal(t, int64(80), b.Tax)
	assert.Equal(t, int64(1479), b.Total)
}

func TestNewTotalBreakdown_Pickup(t *testing.T) {
	b := NewTotalBreakdown(1000, FulfillmentPickup)

	assert.Equal(t, int64(1000), b.Subtotal)
	assert.Equal(t, int64(0), b.DeliveryFee)
	assert.Equal(t, int64(80), b.Tax)
	assert.Equal(t, int64(1080), b.Total)
}

func TestNewTotalBreakdown_TaxExcludesDeliveryFee(t *testing.T) {
	delivery := NewTotalBreakdown(2500, FulfillmentDelivery)
	pickup := NewTotalBreakdown(2500, FulfillmentPickup)

	// Same subtotal, same tax: the fee is never taxed.
	assert.Equal(t, pickup.Tax, delivery.Tax)
	assert.Equal(t, pickup.Total+DeliveryFeeCents, delivery.Total)
}

func TestNewTotalBreakdown_EmptySubtotal(t *testing.T) {
	b := NewTotalBreakdown(0, FulfillmentDelivery)

	assert.Equal(t, int64(0), b.Subtotal)
	assert.Equal(t, int64(399), b.DeliveryFee)
	assert.Equal(t, int64(0), b.Tax)
	assert.Equal(t, int64(399), b.Total)
}

// ============================================================================
// OrderDraft.Normalize Tests
// ============================================================================

func TestNormalize_TrimsAllFields(t *testing.T) {
	d := OrderDraft{
		FirstName:           "  Hana  ",
		LastName:            "\tSato\n",
		Email:               " hana@example.com ",
		Phone:               " 555-0134 ",
		FulfillmentType:     " delivery ",
		Address:             " 12 Rice St ",
		City:                " Osaka ",
		ZipCode:             " 530-0001 ",
		PaymentMethod:       " card ",
		CardNumber:          " 4242424242424242 ",
		ExpiryDate:          " 12/27 ",
		CVV:                 " 123 ",
		NameOnCard:          " Hana Sato ",
		SpecialInstructions: " extra nori ",
	}

	d.Normalize()

	assert.Equal(t, "Hana", d.FirstName)
	assert.Equal(t, "Sato", d.LastName)
	assert.Equal(t, "hana@example.com", d.Email)
	assert.Equal(t, "555-0134", d.Phone)
	assert.Equal(t, "delivery", d.FulfillmentType)
	assert.Equal(t, "12 Rice St", d.Address)
	assert.Equal(t, "Osaka", d.City)
	assert.Equal(t, "530-0001", d.ZipCode)
	assert.Equal(t, "card", d.PaymentMethod)
	assert.Equal(t, "4242424242424242", d.CardNumber)
	assert.Equal(t, "12/27", d.ExpiryDate)
	assert.Equal(t, "123", d.CVV)
	assert.Equal(t, "Hana Sato", d.NameOnCard)
	assert.Equal(t, "extra nori", d.SpecialInstructions)
}

func TestNormalize_WhitespaceOnlyBecomesEmpty(t *testing.T) {
	d := OrderDraft{FirstName: "   ", Email: "\t\n"}
	d.Normalize()

	assert.Empty(t, d.FirstName)
	assert.Empty(t, d.Email)
}
