// internal/models/payment.go
package models

import "time"

// PaymentStatus is the state of a simulated payment. There is no failed
// state: every started payment succeeds unless it is cancelled.
type PaymentStatus string

const (
	PaymentIdle       PaymentStatus = "idle"
	PaymentProcessing PaymentStatus = "processing"
	PaymentSucceeded  PaymentStatus = "succeeded"
)

// Badge maps a payment status onto the status badge variants.
func (s PaymentStatus) Badge() StatusVariant {
	switch s {
	case PaymentProcessing:
		return StatusPending
	case PaymentSucceeded:
		return StatusEscrow
	default:
		return StatusDefault
	}
}

// PaymentMethod is one of the methods offered on the Fund Escrow step.
type PaymentMethod string

const (
	MethodUPI        PaymentMethod = "upi"
	MethodNetBanking PaymentMethod = "netbanking"
	MethodCard       PaymentMethod = "card"
)

// PaymentMethodInfo is the display data for a payment method.
type PaymentMethodInfo struct {
	Method      PaymentMethod `json:"id"`
	Label       string        `json:"label"`
	Description string        `json:"desc"`
}

// PaymentMethods lists the methods in display order.
var PaymentMethods = []PaymentMethodInfo{
	{Method: MethodUPI, Label: "UPI", Description: "Pay using any UPI app"},
	{Method: MethodNetBanking, Label: "Net Banking", Description: "All major banks"},
	{Method: MethodCard, Label: "Debit/Credit Card", Description: "Visa, Mastercard, RuPay"},
}

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodUPI, MethodNetBanking, MethodCard:
		return true
	}
	return false
}

// PaymentResult is the terminal outcome of a simulated payment.
type PaymentResult struct {
	Status        PaymentStatus `json:"status"`
	Method        PaymentMethod `json:"method"`
	Amount        int64         `json:"amount"`
	TransactionID string        `json:"transactionId,omitempty"`
	StartedAt     time.Time     `json:"startedAt"`
	CompletedAt   time.Time     `json:"completedAt,omitempty"`
}
