package domain

import (
	"errors"
	"strings"
	"time"
)

// Creator-specific validation errors
var (
	// ErrCreatorIDEmpty is returned when a creator ID is empty.
	ErrCreatorIDEmpty = errors.New("creator ID cannot be empty")

	// ErrCreatorNameEmpty is returned when a creator's display name is
	// empty or whitespace.
	ErrCreatorNameEmpty = errors.New("creator display name cannot be empty")

	// ErrCreatorNameLength is returned when a display name is shorter than
	// 2 or longer than 100 characters.
	ErrCreatorNameLength = errors.New("creator display name must be 2-100 characters")

	// ErrCreatorDescriptionLength is returned when a description exceeds
	// 500 characters.
	ErrCreatorDescriptionLength = errors.New("creator description must be at most 500 characters")
)

// Creator is the root entity of the content graph: the identity of a
// content author. ContentSets reference a creator by ID; a creator never
// embeds its sets.
type Creator struct {
	ID          string            `json:"creator_id"`
	DisplayName string            `json:"display_name"`
	SocialLinks map[string]string `json:"social_links"`
	Description string            `json:"description"`
	Categories  []Category        `json:"categories"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewCreator creates a new Creator with a generated identifier.
//
// The ID is derived from the first declared social handle (in preferred
// platform order), falling back to the display name when no handle is
// present, matching how IDs appeared in previously persisted containers.
// Returns an error if validation fails.
func NewCreator(
	displayName, description string,
	socialLinks map[string]string,
	categories []Category,
) (*Creator, error) {
	if socialLinks == nil {
		socialLinks = map[string]string{}
	}

	id, err := NewCreatorID(creatorIDBasis(displayName, socialLinks))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	creator := &Creator{
		ID:          id,
		DisplayName: strings.TrimSpace(displayName),
		SocialLinks: socialLinks,
		Description: strings.TrimSpace(description),
		Categories:  categories,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := creator.Validate(); err != nil {
		return nil, err
	}

	return creator, nil
}

// preferredPlatforms is the order in which social handles are considered
// when deriving a creator's identifier.
var preferredPlatforms = []string{"youtube", "instagram", "tiktok", "website"}

// creatorIDBasis picks the human-meaningful string the creator ID slug is
// built from: the first non-empty handle in preferred platform order, then
// any remaining handle, then the display name.
func creatorIDBasis(displayName string, socialLinks map[string]string) string {
	for _, platform := range preferredPlatforms {
		if handle := strings.TrimSpace(socialLinks[platform]); handle != "" {
			return handle
		}
	}
	for _, handle := range socialLinks {
		if strings.TrimSpace(handle) != "" {
			return handle
		}
	}
	return displayName
}

// Validate checks if the Creator has valid data.
// Returns an error if any field fails validation.
func (c *Creator) Validate() error {
	if c.ID == "" {
		return ErrCreatorIDEmpty
	}

	name := strings.TrimSpace(c.DisplayName)
	if name == "" {
		return ErrCreatorNameEmpty
	}
	if len(name) < 2 || len(name) > 100 {
		return ErrCreatorNameLength
	}

	if len(c.Description) > 500 {
		return ErrCreatorDescriptionLength
	}

	for _, cat := range c.Categories {
		if !cat.IsValid() {
			return NewValidationError("categories", string(cat), ErrInvalidCategory)
		}
	}

	return nil
}

// Touch updates the UpdatedAt timestamp. Call after any full-record
// replacement.
func (c *Creator) Touch() {
	c.UpdatedAt = time.Now().UTC()
}
