package checkout

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/law7a/internal/domain"
)

// Form messages shown next to the checkout steps.
const (
	MsgAllRequired   = "All fields are required"
	MsgFieldRequired = "This field is required"
	MsgInvalidEmail  = "Please enter a valid email address"
	MsgInvalidCard   = "Please enter a valid card number"
	MsgInvalidExpiry = "Please enter a valid expiration date"
	MsgInvalidCVV    = "Please enter a valid CVV"
)

const (
	minCardDigits = 16
	minCVVDigits  = 3
)

var (
	expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)
	digitsPattern = regexp.MustCompile(`^\d+$`)
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// formValidator returns the shared validator with the card rules registered.
func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		mustRegister(v, "cardnumber", validCardNumber)
		mustRegister(v, "expiry", validExpiry)
		mustRegister(v, "cvv", validCVV)
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// validCardNumber wants at least 16 digits once spaces are stripped.
func validCardNumber(fl validator.FieldLevel) bool {
	digits := strings.Join(strings.Fields(fl.Field().String()), "")
	return len(digits) >= minCardDigits && digitsPattern.MatchString(digits)
}

// validExpiry checks the MM/YY shape only.
func validExpiry(fl validator.FieldLevel) bool {
	return expiryPattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func validCVV(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	return len(value) >= minCVVDigits && digitsPattern.MatchString(value)
}

// ValidateBilling checks the shipping form.
func ValidateBilling(info domain.BillingInfo) error {
	return validateForm("checkout.ValidateBilling", info, []string{"email"})
}

// ValidatePayment checks the card form.
func ValidatePayment(info domain.PaymentInfo) error {
	return validateForm("checkout.ValidatePayment", info, []string{"cardNumber", "expiryDate", "cvv"})
}

// validateForm runs the struct rules and converts failures into a
// ValidationError. A blank field anywhere summarizes as MsgAllRequired;
// otherwise the first failing field in order supplies the summary.
func validateForm(op string, form any, order []string) error {
	err := formValidator().Struct(form)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.Internal(err, op, "failed to validate form")
	}

	ve := &domain.ValidationError{Op: op, Fields: make(map[string]string, len(fieldErrs))}
	missing := false
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = true
		}
		ve.Fields[fe.Field()] = fieldMessage(fe)
	}

	if missing {
		ve.Message = MsgAllRequired
		return ve
	}
	for _, name := range order {
		if msg, ok := ve.Fields[name]; ok {
			ve.Message = msg
			break
		}
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgFieldRequired
	case "email":
		return MsgInvalidEmail
	case "cardnumber":
		return MsgInvalidCard
	case "expiry":
		return MsgInvalidExpiry
	case "cvv":
		return MsgInvalidCVV
	}
	return "Invalid value"
}
