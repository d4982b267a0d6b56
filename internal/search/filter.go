// Package search implements the dashboard's free-text filter over loaded
// family records. Matching is case- and accent-insensitive so "joao" finds
// "João". The filter re-scans the full list on every query; that is fine for
// the few thousand households a community holds, but it is a linear scan and
// an indexed search would be needed well before six digits.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/terra-do-sol/checkin-api/internal/models"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases the input and strips combining diacritical marks.
func Normalize(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Matches reports whether the record contains the normalized query as a
// substring of the father name, mother name, neighborhood, housing type or
// any child's name. An empty query matches everything.
func Matches(rec models.Household, normalizedQuery string) bool {
	if normalizedQuery == "" {
		return true
	}
	if strings.Contains(Normalize(rec.FatherName), normalizedQuery) ||
		strings.Contains(Normalize(rec.MotherName), normalizedQuery) ||
		strings.Contains(Normalize(rec.Neighborhood), normalizedQuery) ||
		strings.Contains(Normalize(rec.HousingType), normalizedQuery) {
		return true
	}
	for _, child := range rec.Children {
		if strings.Contains(Normalize(child.Name), normalizedQuery) {
			return true
		}
	}
	return false
}

// Filter returns the subset of records matching the free-text query,
// preserving the input order.
func Filter(records []models.Household, query string) []models.Household {
	normalized := Normalize(strings.TrimSpace(query))
	if normalized == "" {
		return records
	}
	matched := make([]models.Household, 0, len(records))
	for _, rec := range records {
		if Matches(rec, normalized) {
			matched = append(matched, rec)
		}
	}
	return matched
}
