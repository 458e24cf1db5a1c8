package domain

import (
	"errors"
	"strings"
	"time"
)

// NavigationMode is an ordering strategy over a set's cards.
type NavigationMode string

// Possible navigation mode values.
const (
	NavigationTimeline   NavigationMode = "timeline"
	NavigationThematic   NavigationMode = "thematic"
	NavigationDifficulty NavigationMode = "difficulty"
	NavigationRandom     NavigationMode = "random"
)

// IsValid reports whether m is a known navigation mode.
func (m NavigationMode) IsValid() bool {
	switch m {
	case NavigationTimeline, NavigationThematic, NavigationDifficulty, NavigationRandom:
		return true
	}
	return false
}

// SetStatus represents the lifecycle state of a content set.
type SetStatus string

// Possible set status values.
const (
	SetStatusDraft     SetStatus = "draft"
	SetStatusPublished SetStatus = "published"
	SetStatusArchived  SetStatus = "archived"
)

// IsValid reports whether s is a known set status.
func (s SetStatus) IsValid() bool {
	switch s {
	case SetStatusDraft, SetStatusPublished, SetStatusArchived:
		return true
	}
	return false
}

// ContentSet-specific validation errors
var (
	// ErrSetIDEmpty is returned when a set ID is empty.
	ErrSetIDEmpty = errors.New("set ID cannot be empty")

	// ErrSetCreatorIDEmpty is returned when a set's creator ID is empty.
	ErrSetCreatorIDEmpty = errors.New("set creator ID cannot be empty")

	// ErrSetTitleEmpty is returned when a set's title is empty.
	ErrSetTitleEmpty = errors.New("set title cannot be empty")

	// ErrSetCardCountNegative is returned when a set declares a negative
	// card count.
	ErrSetCardCountNegative = errors.New("set card count cannot be negative")
)

// ContentSet is a named collection of Cards belonging to one Creator.
// Cards reference their set by ID; the set never embeds its cards.
type ContentSet struct {
	ID                  string           `json:"set_id"`
	CreatorID           string           `json:"creator_id"`
	Title               string           `json:"title"`
	Description         string           `json:"description"`
	Category            Category         `json:"category"`
	CardCount           int              `json:"card_count"`
	SupportedNavigation []NavigationMode `json:"supported_navigation"`
	IsHero              bool             `json:"is_hero"`
	Status              SetStatus        `json:"status"`
	Tags                []string         `json:"tags"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// NewContentSet creates a new ContentSet in draft status with a generated
// identifier. Returns an error if validation fails.
func NewContentSet(
	creatorID, title, description string,
	category Category,
	supportedNavigation []NavigationMode,
) (*ContentSet, error) {
	id, err := NewSetID(creatorID, title)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	set := &ContentSet{
		ID:                  id,
		CreatorID:           creatorID,
		Title:               strings.TrimSpace(title),
		Description:         strings.TrimSpace(description),
		Category:            category,
		CardCount:           0,
		SupportedNavigation: supportedNavigation,
		Status:              SetStatusDraft,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}

	return set, nil
}

// Validate checks if the ContentSet has valid data.
// Returns an error if any field fails validation.
func (s *ContentSet) Validate() error {
	if s.ID == "" {
		return ErrSetIDEmpty
	}

	if s.CreatorID == "" {
		return ErrSetCreatorIDEmpty
	}

	if strings.TrimSpace(s.Title) == "" {
		return ErrSetTitleEmpty
	}

	if !s.Category.IsValid() {
		return NewValidationError("category", string(s.Category), ErrInvalidCategory)
	}

	if s.CardCount < 0 {
		return ErrSetCardCountNegative
	}

	for _, mode := range s.SupportedNavigation {
		if !mode.IsValid() {
			return NewValidationError("supported_navigation", string(mode), ErrInvalidNavigationMode)
		}
	}

	if !s.Status.IsValid() {
		return NewValidationError("status", string(s.Status), ErrInvalidSetStatus)
	}

	return nil
}

// SupportsNavigation reports whether mode is in the set's declared
// supported navigation modes.
func (s *ContentSet) SupportsNavigation(mode NavigationMode) bool {
	for _, m := range s.SupportedNavigation {
		if m == mode {
			return true
		}
	}
	return false
}

// HasTag reports whether the set carries the given free-form tag.
// The discovery curator selects row members on these.
func (s *ContentSet) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Touch updates the UpdatedAt timestamp. Call after any full-record
// replacement.
func (s *ContentSet) Touch() {
	s.UpdatedAt = time.Now().UTC()
}
