package domain

import (
	"errors"
	"strings"
	"time"
)

// MediaType is the type tag of an embedded media reference.
type MediaType string

// Possible media type values.
const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeAudio MediaType = "audio"
)

// IsValid reports whether t is a known media type.
func (t MediaType) IsValid() bool {
	switch t {
	case MediaTypeImage, MediaTypeVideo, MediaTypeAudio:
		return true
	}
	return false
}

// MediaValidationStatus tracks whether a media URL has been checked.
type MediaValidationStatus string

// Possible media validation status values.
const (
	MediaValidationPending  MediaValidationStatus = "pending"
	MediaValidationVerified MediaValidationStatus = "verified"
	MediaValidationFailed   MediaValidationStatus = "failed"
)

// IsValid reports whether s is a known media validation status.
func (s MediaValidationStatus) IsValid() bool {
	switch s {
	case MediaValidationPending, MediaValidationVerified, MediaValidationFailed:
		return true
	}
	return false
}

// MediaReference is a media attachment embedded in a Card. It is not
// independently addressable; its lifecycle is tied to the owning card.
type MediaReference struct {
	MediaType        MediaType             `json:"media_type"`
	URL              string                `json:"url"`
	AltText          string                `json:"alt_text"`
	ValidationStatus MediaValidationStatus `json:"validation_status"`
}

// Validate checks if the MediaReference has valid data.
func (m *MediaReference) Validate() error {
	if !m.MediaType.IsValid() {
		return NewValidationError("media_type", string(m.MediaType), ErrInvalidMediaType)
	}
	if strings.TrimSpace(m.URL) == "" {
		return NewValidationError("url", "media URL cannot be empty", ErrValidation)
	}
	if !m.ValidationStatus.IsValid() {
		return NewValidationError("validation_status", string(m.ValidationStatus), ErrValidation)
	}
	return nil
}

// NavigationContext holds mode-specific context data for one navigation
// mode of a card. The context_data map is deliberately free-form; the
// sequencer only interprets a few well-known keys.
type NavigationContext struct {
	ContextData map[string]any `json:"context_data"`
}

// Well-known context_data keys consumed by the navigation sequencer.
const (
	// ContextKeyChronological is the numeric sort key for timeline mode.
	ContextKeyChronological = "chronological_key"

	// ContextKeyTheme is the grouping label for thematic mode.
	ContextKeyTheme = "theme"

	// ContextKeyDifficulty is the tier label for difficulty mode.
	ContextKeyDifficulty = "difficulty"
)

// DifficultyTier is the three-tier ordinal used by difficulty navigation.
type DifficultyTier int

// Difficulty tiers in ascending order.
const (
	DifficultyBeginner DifficultyTier = iota
	DifficultyIntermediate
	DifficultyAdvanced
)

// ParseDifficultyTier maps a tier label onto its ordinal. Unknown or
// missing labels fall back to intermediate, the default difficulty of a
// set, so unlabeled cards sort into the middle of the sequence.
func ParseDifficultyTier(label string) DifficultyTier {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "beginner":
		return DifficultyBeginner
	case "advanced":
		return DifficultyAdvanced
	default:
		return DifficultyIntermediate
	}
}

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardSetIDEmpty is returned when a card's set ID is empty.
	ErrCardSetIDEmpty = errors.New("card set ID cannot be empty")

	// ErrCardCreatorIDEmpty is returned when a card's creator ID is empty.
	ErrCardCreatorIDEmpty = errors.New("card creator ID cannot be empty")

	// ErrCardTitleEmpty is returned when a card's title is empty.
	ErrCardTitleEmpty = errors.New("card title cannot be empty")

	// ErrCardOrderIndexInvalid is returned when a card's order index is
	// not a positive integer.
	ErrCardOrderIndexInvalid = errors.New("card order index must be >= 1")
)

// Card is a single content unit within a ContentSet. The creator ID is
// denormalized from the owning set and must stay consistent with it.
type Card struct {
	ID                 string                       `json:"card_id"`
	SetID              string                       `json:"set_id"`
	CreatorID          string                       `json:"creator_id"`
	Title              string                       `json:"title"`
	Summary            string                       `json:"summary"`
	DetailedContent    string                       `json:"detailed_content"`
	OrderIndex         int                          `json:"order_index"`
	NavigationContexts map[string]NavigationContext `json:"navigation_contexts"`
	Media              []MediaReference             `json:"media"`
	DomainData         map[string]any               `json:"domain_data"`
	CreatedAt          time.Time                    `json:"created_at"`
	UpdatedAt          time.Time                    `json:"updated_at"`
}

// NewCard creates a new Card with its deterministic identifier derived
// from the owning set ID and order index. Re-deriving a card for the same
// ordinal intentionally produces the same ID.
// Returns an error if validation fails.
func NewCard(
	setID, creatorID, title, summary, detailedContent string,
	orderIndex int,
) (*Card, error) {
	id, err := NewCardID(setID, orderIndex)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	card := &Card{
		ID:              id,
		SetID:           setID,
		CreatorID:       creatorID,
		Title:           strings.TrimSpace(title),
		Summary:         summary,
		DetailedContent: detailedContent,
		OrderIndex:      orderIndex,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == "" {
		return ErrCardIDEmpty
	}

	if c.SetID == "" {
		return ErrCardSetIDEmpty
	}

	if c.CreatorID == "" {
		return ErrCardCreatorIDEmpty
	}

	if strings.TrimSpace(c.Title) == "" {
		return ErrCardTitleEmpty
	}

	if c.OrderIndex < 1 {
		return ErrCardOrderIndexInvalid
	}

	for i := range c.Media {
		if err := c.Media[i].Validate(); err != nil {
			return err
		}
	}

	return nil
}

// contextValue looks up a well-known key in the context data of the given
// navigation mode.
func (c *Card) contextValue(mode NavigationMode, key string) (any, bool) {
	nav, ok := c.NavigationContexts[string(mode)]
	if !ok || nav.ContextData == nil {
		return nil, false
	}
	v, ok := nav.ContextData[key]
	return v, ok
}

// ChronologicalKey returns the numeric timeline sort key for the card, if
// present. JSON numbers decode as float64; integer values are accepted too
// for cards constructed in code.
func (c *Card) ChronologicalKey() (float64, bool) {
	v, ok := c.contextValue(NavigationTimeline, ContextKeyChronological)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Theme returns the thematic grouping label for the card. Cards without a
// theme fall into the empty-label group.
func (c *Card) Theme() string {
	v, ok := c.contextValue(NavigationThematic, ContextKeyTheme)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Difficulty returns the card's difficulty tier for difficulty navigation.
func (c *Card) Difficulty() DifficultyTier {
	v, ok := c.contextValue(NavigationDifficulty, ContextKeyDifficulty)
	if !ok {
		return DifficultyIntermediate
	}
	s, _ := v.(string)
	return ParseDifficultyTier(s)
}

// Touch updates the UpdatedAt timestamp. Call after any full-record
// replacement.
func (c *Card) Touch() {
	c.UpdatedAt = time.Now().UTC()
}
