// Package money formats prices and picks display languages for the bilingual
// storefront.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/dukerupert/law7a/internal/domain"
)

// Locale tags used for number formatting. Jordan is the home market.
var (
	englishJordan = language.MustParse("en-JO")
	arabicJordan  = language.MustParse("ar-JO")
)

var matcher = language.NewMatcher([]language.Tag{
	language.English, // first entry is the matcher's fallback
	language.Arabic,
})

// Format renders amount with exactly two fraction digits in the locale of lang,
// prefixed (English) or suffixed (Arabic) with the ISO currency code.
// Unknown currency codes fall back to JOD.
func Format(amount decimal.Decimal, cur domain.Currency, lang domain.Language) string {
	code := currencyCode(cur)

	tag := englishJordan
	if lang == domain.LanguageArabic {
		tag = arabicJordan
	}

	p := message.NewPrinter(tag)
	digits := p.Sprint(number.Decimal(
		amount.Round(2).InexactFloat64(),
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))

	if lang == domain.LanguageArabic {
		return digits + " " + code
	}
	return code + " " + digits
}

// String renders amount as a plain decimal string with two fraction digits,
// the wire form used in JSON responses.
func String(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

func currencyCode(cur domain.Currency) string {
	unit, err := currency.ParseISO(string(cur))
	if err != nil {
		return string(domain.CurrencyJOD)
	}
	return unit.String()
}

// ParseLanguage picks English or Arabic from an explicit language value such as a
// ?lang= parameter or an Accept-Language header. Anything unrecognised yields
// fallback.
func ParseLanguage(value string, fallback domain.Language) domain.Language {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}

	tags, _, err := language.ParseAcceptLanguage(value)
	if err != nil || len(tags) == 0 {
		return fallback
	}

	tag, _, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}

	base, _ := tag.Base()
	switch base.String() {
	case "ar":
		return domain.LanguageArabic
	case "en":
		return domain.LanguageEnglish
	}
	return fallback
}

// Localized picks the side of text for lang.
func Localized(text domain.TranslatedText, lang domain.Language) string {
	return text.In(lang)
}
