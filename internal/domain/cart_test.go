package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSummarizeItems(t *testing.T) {
	items := []CartItem{
		{ProductID: "a", Quantity: 2, Product: Product{ID: "a", Price: decimal.NewFromFloat(12.50), Currency: CurrencyJOD}},
		{ProductID: "b", Quantity: 1, Product: Product{ID: "b", Price: decimal.NewFromInt(40), Currency: CurrencyJOD}},
	}

	summary := SummarizeItems(items)

	if !summary.Total.Equal(decimal.NewFromInt(65)) {
		t.Errorf("Total = %s, want 65", summary.Total)
	}
	if summary.Count != 3 {
		t.Errorf("Count = %d, want 3", summary.Count)
	}
	if summary.Currency() != CurrencyJOD {
		t.Errorf("Currency = %q, want JOD", summary.Currency())
	}

	summary.Items[0].Quantity = 99
	if items[0].Quantity != 2 {
		t.Error("SummarizeItems must copy the items slice")
	}
}

func TestSummarizeItems_Empty(t *testing.T) {
	summary := SummarizeItems(nil)

	if !summary.Total.IsZero() {
		t.Errorf("Total = %s, want 0", summary.Total)
	}
	if summary.Count != 0 {
		t.Errorf("Count = %d, want 0", summary.Count)
	}
	if summary.Currency() != CurrencyJOD {
		t.Errorf("Currency = %q, want default JOD", summary.Currency())
	}
}

func TestTranslatedText_In(t *testing.T) {
	text := TranslatedText{EN: "Olive Grove", AR: "بستان الزيتون"}

	if text.In(LanguageArabic) != "بستان الزيتون" {
		t.Errorf("In(ar) = %q", text.In(LanguageArabic))
	}
	if text.In(LanguageEnglish) != "Olive Grove" {
		t.Errorf("In(en) = %q", text.In(LanguageEnglish))
	}

	englishOnly := TranslatedText{EN: "Untitled"}
	if englishOnly.In(LanguageArabic) != "Untitled" {
		t.Errorf("In(ar) should fall back to English, got %q", englishOnly.In(LanguageArabic))
	}
}

func TestPaymentInfo_Last4(t *testing.T) {
	p := PaymentInfo{CardNumber: "4242 4242 4242 1234"}
	if p.CardDigits() != "4242424242421234" {
		t.Errorf("CardDigits = %q", p.CardDigits())
	}
	if p.Last4() != "1234" {
		t.Errorf("Last4 = %q, want 1234", p.Last4())
	}
}

func TestCategoryAndMediumValid(t *testing.T) {
	if !CategoryCalligraphy.Valid() || Category("furniture").Valid() {
		t.Error("Category.Valid mismatch")
	}
	if !MediumMixedMedia.Valid() || Medium("marble").Valid() {
		t.Error("Medium.Valid mismatch")
	}
}
