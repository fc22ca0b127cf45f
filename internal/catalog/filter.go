package catalog

import (
	"strings"

	"github.com/dukerupert/law7a/internal/domain"
)

// productMatches applies the residual filters in order: text, category,
// medium, price.
func productMatches(p domain.Product, q Query) bool {
	if !textMatches(q.Text, p.Title, p.Description, p.Tags) {
		return false
	}
	if len(q.Categories) > 0 && !containsCategory(q.Categories, p.Category) {
		return false
	}
	if len(q.Mediums) > 0 && !containsMedium(q.Mediums, p.Medium) {
		return false
	}
	return q.Price.Contains(p.Price)
}

// artistMatches applies the text filter only. Artists carry no category,
// medium or price.
func artistMatches(a domain.Artist, q Query) bool {
	return textMatches(q.Text, a.Name, a.Bio, a.Tags)
}

// textMatches is a case-insensitive substring match over both languages of
// title and body and every tag. An empty needle matches everything.
func textMatches(needle string, title, body domain.TranslatedText, tags []string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}

	for _, field := range []string{title.EN, title.AR, body.EN, body.AR} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func containsCategory(set []domain.Category, c domain.Category) bool {
	for _, s := range set {
		if s == c {
			return true
		}
	}
	return false
}

func containsMedium(set []domain.Medium, m domain.Medium) bool {
	for _, s := range set {
		if s == m {
			return true
		}
	}
	return false
}
