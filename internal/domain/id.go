package domain

import (
	"fmt"
	"strings"
	"unicode"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// idSuffixAlphabet keeps generated suffixes lowercase alphanumeric so IDs
// stay readable in logs and URLs.
const idSuffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// idSuffixLength matches the 8-character suffixes of previously persisted
// identifiers.
const idSuffixLength = 8

// slugify converts an arbitrary Unicode string into a lowercase
// underscore-separated ASCII slug: accents are decomposed and stripped,
// and every non-alphanumeric run collapses into a single underscore.
// Returns the empty string when nothing alphanumeric survives.
func slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, s)
	if err != nil {
		ascii = s
	}

	ascii = strings.ToLower(ascii)

	var b strings.Builder
	lastUnderscore := true // suppress leading underscore
	for _, r := range ascii {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}

	return strings.Trim(b.String(), "_")
}

// NewCreatorID builds a creator identifier from a human-meaningful handle:
// a normalized slug plus a short random suffix. Leading "@" marks are
// stripped so platform handles and plain names produce the same shape.
// Returns ErrInvalidInput when the handle normalizes to nothing.
func NewCreatorID(handle string) (string, error) {
	slug := slugify(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
	if slug == "" {
		return "", NewValidationError("handle", "cannot be empty", ErrInvalidInput)
	}

	suffix, err := gonanoid.Generate(idSuffixAlphabet, idSuffixLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate ID suffix: %w", err)
	}

	return slug + "_" + suffix, nil
}

// NewSetID builds a set identifier from its owning creator ID and title:
// the creator ID, a normalized title slug, and a short random suffix.
// Returns ErrInvalidInput when either part normalizes to nothing.
func NewSetID(creatorID, title string) (string, error) {
	if strings.TrimSpace(creatorID) == "" {
		return "", NewValidationError("creator_id", "cannot be empty", ErrInvalidInput)
	}

	slug := slugify(title)
	if slug == "" {
		return "", NewValidationError("title", "cannot be empty", ErrInvalidInput)
	}

	suffix, err := gonanoid.Generate(idSuffixAlphabet, idSuffixLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate ID suffix: %w", err)
	}

	return creatorID + "_" + slug + "_" + suffix, nil
}

// NewCardID builds a card identifier from its owning set ID and 1-based
// order index. Card IDs are purely derived, with no random component:
// re-deriving the same ordinal collides intentionally, so a caller that
// wants a new card must bump the ordinal.
func NewCardID(setID string, orderIndex int) (string, error) {
	if strings.TrimSpace(setID) == "" {
		return "", NewValidationError("set_id", "cannot be empty", ErrInvalidInput)
	}
	if orderIndex < 1 {
		return "", NewValidationError("order_index", "must be >= 1", ErrInvalidInput)
	}

	return fmt.Sprintf("%s_card_%03d", setID, orderIndex), nil
}
