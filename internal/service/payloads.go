package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/cardgraph/internal/domain"
)

// Payloads are the write-side input records. They are validated with
// struct tags before any domain object is built, so malformed input is
// rejected with field-level errors rather than a half-constructed entity.

// CreatorPayload is the input for creating or replacing a creator.
type CreatorPayload struct {
	DisplayName string            `json:"display_name" validate:"required,min=2,max=100"`
	SocialLinks map[string]string `json:"social_links" validate:"omitempty,dive,keys,required,endkeys,required"`
	Description string            `json:"description"  validate:"max=500"`
	Categories  []string          `json:"categories"   validate:"omitempty,dive,oneof=technology_gaming health_fitness food_cooking travel_lifestyle education_science entertainment_popculture business_finance arts_crafts parenting_family fashion_beauty space_exploration wellness nutrition earth_mysteries general"`
}

// SetPayload is the input for creating or replacing a content set.
type SetPayload struct {
	CreatorID           string   `json:"creator_id"           validate:"required"`
	Title               string   `json:"title"                validate:"required,min=1,max=200"`
	Description         string   `json:"description"          validate:"max=1000"`
	Category            string   `json:"category"             validate:"required,oneof=technology_gaming health_fitness food_cooking travel_lifestyle education_science entertainment_popculture business_finance arts_crafts parenting_family fashion_beauty space_exploration wellness nutrition earth_mysteries general"`
	SupportedNavigation []string `json:"supported_navigation" validate:"required,min=1,dive,oneof=timeline thematic difficulty random"`
	IsHero              bool     `json:"is_hero"`
	Status              string   `json:"status"               validate:"omitempty,oneof=draft published archived"`
	Tags                []string `json:"tags"                 validate:"omitempty,dive,required"`
}

// MediaPayload is the input for one media reference embedded in a card.
type MediaPayload struct {
	MediaType string `json:"media_type" validate:"required,oneof=image video audio"`
	URL       string `json:"url"        validate:"required,url"`
	AltText   string `json:"alt_text"   validate:"max=500"`
}

// CardPayload is the input for creating or replacing a card. The card ID
// is always derived from SetID and OrderIndex, never supplied.
type CardPayload struct {
	SetID              string                               `json:"set_id"          validate:"required"`
	CreatorID          string                               `json:"creator_id"      validate:"required"`
	Title              string                               `json:"title"           validate:"required,min=1,max=200"`
	Summary            string                               `json:"summary"         validate:"max=2000"`
	DetailedContent    string                               `json:"detailed_content"`
	OrderIndex         int                                  `json:"order_index"     validate:"required,gte=1"`
	NavigationContexts map[string]domain.NavigationContext `json:"navigation_contexts" validate:"omitempty,dive,keys,oneof=timeline thematic difficulty random,endkeys"`
	Media              []MediaPayload                       `json:"media"           validate:"omitempty,dive"`
	DomainData         map[string]any                       `json:"domain_data"`
}

// payloadValidator is the shared struct validator instance. validator.New
// is expensive; the package keeps one cached instance like the config
// loader does.
var payloadValidator = validator.New()

// validatePayload runs struct-tag validation and wraps failures in a
// ContentServiceError naming the operation.
func validatePayload(operation string, payload any) error {
	if err := payloadValidator.Struct(payload); err != nil {
		return NewContentServiceError(operation, "payload validation failed", err)
	}
	return nil
}

// toCreator builds a domain Creator from the payload, generating its ID.
func (p CreatorPayload) toCreator() (*domain.Creator, error) {
	categories := make([]domain.Category, 0, len(p.Categories))
	for _, c := range p.Categories {
		categories = append(categories, domain.Category(c))
	}
	return domain.NewCreator(p.DisplayName, p.Description, p.SocialLinks, categories)
}

// toSet builds a domain ContentSet from the payload, generating its ID.
// Status defaults to draft when the payload leaves it empty.
func (p SetPayload) toSet() (*domain.ContentSet, error) {
	modes := make([]domain.NavigationMode, 0, len(p.SupportedNavigation))
	for _, m := range p.SupportedNavigation {
		modes = append(modes, domain.NavigationMode(m))
	}

	set, err := domain.NewContentSet(p.CreatorID, p.Title, p.Description, domain.Category(p.Category), modes)
	if err != nil {
		return nil, err
	}

	set.IsHero = p.IsHero
	set.Tags = p.Tags
	if p.Status != "" {
		set.Status = domain.SetStatus(p.Status)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// toCard builds a domain Card from the payload, deriving its ID from the
// set ID and order index.
func (p CardPayload) toCard() (*domain.Card, error) {
	card, err := domain.NewCard(p.SetID, p.CreatorID, p.Title, p.Summary, p.DetailedContent, p.OrderIndex)
	if err != nil {
		return nil, err
	}

	card.NavigationContexts = p.NavigationContexts
	card.DomainData = p.DomainData
	for _, m := range p.Media {
		card.Media = append(card.Media, domain.MediaReference{
			MediaType:        domain.MediaType(m.MediaType),
			URL:              m.URL,
			AltText:          m.AltText,
			ValidationStatus: domain.MediaValidationPending,
		})
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}
	return card, nil
}

// applyToCreator replaces the mutable fields of an existing creator with
// the payload's values, keeping identity and creation time.
func (p CreatorPayload) applyToCreator(existing *domain.Creator) (*domain.Creator, error) {
	categories := make([]domain.Category, 0, len(p.Categories))
	for _, c := range p.Categories {
		categories = append(categories, domain.Category(c))
	}
	links := p.SocialLinks
	if links == nil {
		links = map[string]string{}
	}

	updated := &domain.Creator{
		ID:          existing.ID,
		DisplayName: p.DisplayName,
		SocialLinks: links,
		Description: p.Description,
		Categories:  categories,
		CreatedAt:   existing.CreatedAt,
	}
	updated.Touch()
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	return updated, nil
}

// applyToSet replaces the mutable fields of an existing set with the
// payload's values. The ID, creation time, and card count are preserved:
// card_count is owned by the card write path, not by set updates.
func (p SetPayload) applyToSet(existing *domain.ContentSet) (*domain.ContentSet, error) {
	modes := make([]domain.NavigationMode, 0, len(p.SupportedNavigation))
	for _, m := range p.SupportedNavigation {
		modes = append(modes, domain.NavigationMode(m))
	}

	status := domain.SetStatus(p.Status)
	if p.Status == "" {
		status = existing.Status
	}

	updated := &domain.ContentSet{
		ID:                  existing.ID,
		CreatorID:           p.CreatorID,
		Title:               p.Title,
		Description:         p.Description,
		Category:            domain.Category(p.Category),
		CardCount:           existing.CardCount,
		SupportedNavigation: modes,
		IsHero:              p.IsHero,
		Status:              status,
		Tags:                p.Tags,
		CreatedAt:           existing.CreatedAt,
	}
	updated.Touch()
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	return updated, nil
}

// applyToCard replaces the mutable fields of an existing card with the
// payload's values. Set membership and order index are immutable through
// this path: moving a card is a delete plus re-create because the ID
// encodes both.
func (p CardPayload) applyToCard(existing *domain.Card) (*domain.Card, error) {
	if p.SetID != existing.SetID {
		return nil, NewIntegrityError("card", existing.ID, "set_id",
			fmt.Sprintf("cannot move card between sets (%s -> %s)", existing.SetID, p.SetID))
	}
	if p.OrderIndex != existing.OrderIndex {
		return nil, NewIntegrityError("card", existing.ID, "order_index",
			fmt.Sprintf("order index is part of the card identity (%d -> %d)", existing.OrderIndex, p.OrderIndex))
	}

	media := make([]domain.MediaReference, 0, len(p.Media))
	for _, m := range p.Media {
		media = append(media, domain.MediaReference{
			MediaType:        domain.MediaType(m.MediaType),
			URL:              m.URL,
			AltText:          m.AltText,
			ValidationStatus: domain.MediaValidationPending,
		})
	}

	updated := &domain.Card{
		ID:                 existing.ID,
		SetID:              existing.SetID,
		CreatorID:          p.CreatorID,
		Title:              p.Title,
		Summary:            p.Summary,
		DetailedContent:    p.DetailedContent,
		OrderIndex:         existing.OrderIndex,
		NavigationContexts: p.NavigationContexts,
		Media:              media,
		DomainData:         p.DomainData,
		CreatedAt:          existing.CreatedAt,
	}
	updated.Touch()
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	return updated, nil
}
