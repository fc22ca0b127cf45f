package domain

import "strings"

// BillingInfo is the shipping and billing form captured on the first checkout step.
type BillingInfo struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	Country    string `json:"country" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
}

// PaymentInfo is the card form captured on the payment step.
// It is never persisted; orders keep only the last four digits.
type PaymentInfo struct {
	CardNumber string `json:"cardNumber" validate:"required,cardnumber"`
	CardName   string `json:"cardName" validate:"required"`
	ExpiryDate string `json:"expiryDate" validate:"required,expiry"`
	CVV        string `json:"cvv" validate:"required,cvv"`
}

// CardDigits returns the card number with formatting spaces removed.
func (p PaymentInfo) CardDigits() string {
	return strings.Join(strings.Fields(p.CardNumber), "")
}

// Last4 returns the final four digits of the card number.
func (p PaymentInfo) Last4() string {
	digits := p.CardDigits()
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// Checkout errors.
var (
	ErrPaymentDeclined = &Error{
		Code:    EPAYMENT,
		Message: "Payment validation failed. Please check your card details and try again.",
	}
	ErrCheckoutFailed = &Error{
		Code:    EINTERNAL,
		Message: "An error occurred during checkout. Please try again.",
	}
	ErrSubmissionInProgress = &Error{Code: ECONFLICT, Message: "Order submission already in progress"}
	ErrWrongStep            = &Error{Code: EINVALID, Message: "Action not available on the current checkout step"}
	ErrCheckoutComplete     = &Error{Code: ECONFLICT, Message: "Checkout already completed"}
	ErrCheckoutNotFound     = &Error{Code: ENOTFOUND, Message: "No checkout in progress"}
	ErrUnknownShipping      = &Error{Code: EINVALID, Message: "Unknown shipping method"}
)
