package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses as recorded by the payment processor.
const (
	PaymentStatusPaid     = "paid"
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusRefunded = "refunded"
)

// PaymentTransaction is a completed checkout session as stored by the payment
// processor integration. This service only reads it.
type PaymentTransaction struct {
	SessionID       string          `json:"session_id"`
	AmountTotal     decimal.Decimal `json:"amount_total"`
	Currency        string          `json:"currency"`
	Description     string          `json:"description"`
	Quantity        int             `json:"quantity"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentIntentID string          `json:"payment_intent_id,omitempty"`
	ChargeID        string          `json:"charge_id,omitempty"`
	CustomerEmail   string          `json:"customer_email,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (t *PaymentTransaction) IsPaid() bool {
	return t.PaymentStatus == PaymentStatusPaid
}

// SessionCursor marks the last session of a page ordered by
// (created_at, session_id). The zero value starts from the beginning.
type SessionCursor struct {
	CreatedAt time.Time
	SessionID string
}

func (c SessionCursor) IsZero() bool {
	return c.SessionID == "" && c.CreatedAt.IsZero()
}

// CursorAfter returns the cursor that continues after t.
func CursorAfter(t *PaymentTransaction) SessionCursor {
	return SessionCursor{CreatedAt: t.CreatedAt, SessionID: t.SessionID}
}

// RateVersion is a row of the rate_versions table.
type RateVersion struct {
	Version                 string          `json:"version"`
	EffectiveFrom           time.Time       `json:"effective_from"`
	ServiceFeeRate          decimal.Decimal `json:"service_fee_rate"`
	FoodVATRate             decimal.Decimal `json:"food_vat_rate"`
	PlatformCommissionRate  decimal.Decimal `json:"platform_commission_rate"`
	PlatformServicesVATRate decimal.Decimal `json:"platform_services_vat_rate"`
	Description             string          `json:"description,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
}
