package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/law7a/internal/domain"
)

func validBilling() domain.BillingInfo {
	return domain.BillingInfo{
		FirstName:  "Layla",
		LastName:   "Haddad",
		Email:      "layla@example.com",
		Phone:      "+962790000000",
		Address:    "12 Rainbow St",
		City:       "Amman",
		Country:    "Jordan",
		PostalCode: "11181",
	}
}

func validPayment() domain.PaymentInfo {
	return domain.PaymentInfo{
		CardNumber: "4242 4242 4242 4242",
		CardName:   "Layla Haddad",
		ExpiryDate: "09/28",
		CVV:        "123",
	}
}

func TestValidateBilling(t *testing.T) {
	require.NoError(t, ValidateBilling(validBilling()))

	t.Run("missing field", func(t *testing.T) {
		b := validBilling()
		b.City = ""
		b.Email = "not-an-email"
		err := ValidateBilling(b)
		require.Error(t, err)
		assert.Equal(t, MsgAllRequired, domain.ErrorMessage(err))
		fields := domain.ValidationFields(err)
		assert.Equal(t, MsgFieldRequired, fields["city"])
		assert.Equal(t, MsgInvalidEmail, fields["email"])
	})

	t.Run("invalid email", func(t *testing.T) {
		b := validBilling()
		b.Email = "layla@"
		err := ValidateBilling(b)
		require.Error(t, err)
		assert.Equal(t, MsgInvalidEmail, domain.ErrorMessage(err))
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})
}

func TestValidatePayment(t *testing.T) {
	require.NoError(t, ValidatePayment(validPayment()))

	tests := []struct {
		name   string
		mutate func(p *domain.PaymentInfo)
		want   string
	}{
		{"missing name", func(p *domain.PaymentInfo) { p.CardName = "" }, MsgAllRequired},
		{"15 digit card", func(p *domain.PaymentInfo) { p.CardNumber = "4242 4242 4242 424" }, MsgInvalidCard},
		{"letters in card", func(p *domain.PaymentInfo) { p.CardNumber = "4242 4242 4242 42ab" }, MsgInvalidCard},
		{"expiry format", func(p *domain.PaymentInfo) { p.ExpiryDate = "9/28" }, MsgInvalidExpiry},
		{"expiry with year first", func(p *domain.PaymentInfo) { p.ExpiryDate = "2028/09" }, MsgInvalidExpiry},
		{"short cvv", func(p *domain.PaymentInfo) { p.CVV = "12" }, MsgInvalidCVV},
		{"card before cvv", func(p *domain.PaymentInfo) { p.CardNumber = "4242"; p.CVV = "x" }, MsgInvalidCard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayment()
			tt.mutate(&p)
			err := ValidatePayment(p)
			require.Error(t, err)
			assert.Equal(t, tt.want, domain.ErrorMessage(err))
		})
	}
}

// Only the shape of the card fields is checked: no upper bounds on the
// number or CVV, and no calendar check on the expiry.
func TestValidatePayment_AcceptsUnspacedAndLongCards(t *testing.T) {
	p := validPayment()
	p.CardNumber = "4242424242424242"
	assert.NoError(t, ValidatePayment(p))

	p.CardNumber = "6011 0000 0000 0000 004"
	assert.NoError(t, ValidatePayment(p))

	p.CardNumber = "4111 1111 1111 1111 1111"
	assert.NoError(t, ValidatePayment(p))

	p.CVV = "1234"
	assert.NoError(t, ValidatePayment(p))

	p.CVV = "12345"
	assert.NoError(t, ValidatePayment(p))

	p.ExpiryDate = "13/25"
	assert.NoError(t, ValidatePayment(p))
}
