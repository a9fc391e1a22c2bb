// internal/domain/payment.go
package domain

// Payment is a requested movement of funds on a single account.
// The amount's currency is the only currency of the operation.
type Payment struct {
	Amount Money
}

// NewPayment creates a Payment for amount.
func NewPayment(amount Money) Payment {
	return Payment{Amount: amount}
}

// Currency returns the currency the payment is denominated in.
func (p Payment) Currency() Currency {
	return p.Amount.Currency
}
