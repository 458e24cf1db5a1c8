package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/cardgraph/internal/domain"
	"github.com/phrazzld/cardgraph/internal/store"
)

// LegacyCard is one record of the flat pre-graph archive format. Known
// fields are lifted into first-class card fields; everything else is
// preserved verbatim in Extra so no archive data is lost on import.
type LegacyCard struct {
	ID              int
	Title           string
	Summary         string
	DetailedContent string
	VideoURL        string
	Extra           map[string]any
}

// legacyKnownFields are the archive keys mapped onto first-class card
// fields; all other keys pass through into domain_data.
var legacyKnownFields = map[string]bool{
	"id":        true,
	"titulo":    true,
	"resumo":    true,
	"detalhado": true,
	"video_url": true,
}

// UnmarshalJSON decodes a legacy archive record, splitting known fields
// from the free-form remainder.
func (lc *LegacyCard) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["id"]; ok {
		if err := json.Unmarshal(v, &lc.ID); err != nil {
			return fmt.Errorf("legacy card id is not a number: %w", err)
		}
	}
	for key, dst := range map[string]*string{
		"titulo":    &lc.Title,
		"resumo":    &lc.Summary,
		"detalhado": &lc.DetailedContent,
		"video_url": &lc.VideoURL,
	} {
		if v, ok := raw[key]; ok {
			if err := json.Unmarshal(v, dst); err != nil {
				return fmt.Errorf("legacy card field %q is not a string: %w", key, err)
			}
		}
	}

	for key, v := range raw {
		if legacyKnownFields[key] {
			continue
		}
		var value any
		if err := json.Unmarshal(v, &value); err != nil {
			return fmt.Errorf("legacy card field %q: %w", key, err)
		}
		if lc.Extra == nil {
			lc.Extra = make(map[string]any)
		}
		lc.Extra[key] = value
	}

	return nil
}

// LegacyArchive is the top-level shape of an archive file.
type LegacyArchive struct {
	Cards []LegacyCard `json:"cards"`
}

// ImporterConfig names the synthetic creator and set that imported
// archive cards are attached to. The IDs are fixed rather than generated
// so repeated imports converge on the same records.
type ImporterConfig struct {
	CreatorID          string
	CreatorDisplayName string
	CreatorDescription string
	SetID              string
	SetTitle           string
	SetDescription     string
	Category           domain.Category
}

// DefaultImporterConfig returns the standard identities for archive
// imports.
func DefaultImporterConfig() ImporterConfig {
	return ImporterConfig{
		CreatorID:          "legacy_archive_original",
		CreatorDisplayName: "Legacy Archive",
		CreatorDescription: "Original content imported from the legacy archive.",
		SetID:              "legacy_archive_v1",
		SetTitle:           "Legacy Archive",
		SetDescription:     "Cards migrated from the flat legacy archive format.",
		Category:           domain.CategoryGeneral,
	}
}

// ImportResult reports what an archive import did.
type ImportResult struct {
	Creator        *domain.Creator
	Set            *domain.ContentSet
	CreatorCreated bool
	SetCreated     bool
	CardsImported  int
	CardsSkipped   int
	Warnings       []string
}

// ImportService migrates legacy archive cards into the content graph.
// Imports are idempotent: card IDs are derived from the archive ordinals,
// so re-running an import skips everything already present and a second
// run is a no-op.
type ImportService interface {
	ImportArchive(ctx context.Context, archive LegacyArchive) (*ImportResult, error)
}

// importServiceImpl implements the ImportService interface.
type importServiceImpl struct {
	creatorStore store.CreatorStore
	setStore     store.SetStore
	cardStore    store.CardStore
	writer       *BatchWriter
	cfg          ImporterConfig
	logger       *slog.Logger
}

// Verify interface satisfaction at compile time.
var _ ImportService = (*importServiceImpl)(nil)

// NewImportService creates a new ImportService with the given
// dependencies. Returns an error if any dependency is nil or the config
// is incomplete.
func NewImportService(
	creatorStore store.CreatorStore,
	setStore store.SetStore,
	cardStore store.CardStore,
	writer *BatchWriter,
	cfg ImporterConfig,
	logger *slog.Logger,
) (ImportService, error) {
	if creatorStore == nil {
		return nil, fmt.Errorf("creator store cannot be nil")
	}
	if setStore == nil {
		return nil, fmt.Errorf("set store cannot be nil")
	}
	if cardStore == nil {
		return nil, fmt.Errorf("card store cannot be nil")
	}
	if writer == nil {
		return nil, fmt.Errorf("batch writer cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.CreatorID == "" || cfg.SetID == "" {
		return nil, fmt.Errorf("importer config must name a creator ID and set ID")
	}
	return &importServiceImpl{
		creatorStore: creatorStore,
		setStore:     setStore,
		cardStore:    cardStore,
		writer:       writer,
		cfg:          cfg,
		logger:       logger.With(slog.String("component", "import_service")),
	}, nil
}

// ImportArchive attaches the archive's cards to the configured synthetic
// creator and set, creating both on first run. All new records of one
// import land in a single atomic batch; a rejected batch imports nothing.
func (s *importServiceImpl) ImportArchive(
	ctx context.Context,
	archive LegacyArchive,
) (*ImportResult, error) {
	result := &ImportResult{}

	creator, created, err := s.ensureCreator(ctx)
	if err != nil {
		return nil, err
	}
	result.Creator = creator
	result.CreatorCreated = created

	set, created, err := s.ensureSet(ctx)
	if err != nil {
		return nil, err
	}
	result.Set = set
	result.SetCreated = created

	existing, err := s.cardStore.ListBySet(ctx, set.ID)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(existing))
	for _, card := range existing {
		present[card.ID] = true
	}

	var newCards []*domain.Card
	var failures []RecordFailure
	for i, legacy := range archive.Cards {
		card, err := s.convertCard(legacy, set)
		if err != nil {
			failures = append(failures, RecordFailure{
				Kind: "card",
				ID:   fmt.Sprintf("archive[%d]", i),
				Err:  err,
			})
			continue
		}
		if present[card.ID] {
			result.CardsSkipped++
			continue
		}
		present[card.ID] = true
		newCards = append(newCards, card)
	}
	if len(failures) > 0 {
		return nil, &BatchError{Failures: failures}
	}

	if len(newCards) == 0 && !result.CreatorCreated && !result.SetCreated {
		s.logger.Info("archive import is a no-op",
			slog.Int("cards_skipped", result.CardsSkipped))
		return result, nil
	}

	batch := Batch{Cards: newCards}
	if result.CreatorCreated {
		batch.Creators = []*domain.Creator{creator}
	}
	if result.SetCreated || len(newCards) > 0 {
		set.CardCount = len(existing) + len(newCards)
		if !result.SetCreated {
			set.Touch()
		}
		batch.Sets = []*domain.ContentSet{set}
	}

	warnings, err := s.writer.WriteAll(ctx, batch)
	if err != nil {
		return nil, err
	}
	result.Warnings = warnings
	result.CardsImported = len(newCards)

	s.logger.Info("archive imported",
		slog.String("set_id", set.ID),
		slog.Int("cards_imported", result.CardsImported),
		slog.Int("cards_skipped", result.CardsSkipped),
		slog.Bool("creator_created", result.CreatorCreated),
		slog.Bool("set_created", result.SetCreated))
	return result, nil
}

// ensureCreator loads the synthetic archive creator, building it with its
// fixed ID on first run.
func (s *importServiceImpl) ensureCreator(ctx context.Context) (*domain.Creator, bool, error) {
	creator, err := s.creatorStore.GetByID(ctx, s.cfg.CreatorID)
	if err == nil {
		return creator, false, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, false, err
	}

	now := time.Now().UTC()
	creator = &domain.Creator{
		ID:          s.cfg.CreatorID,
		DisplayName: s.cfg.CreatorDisplayName,
		SocialLinks: map[string]string{},
		Description: s.cfg.CreatorDescription,
		Categories:  []domain.Category{s.cfg.Category},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := creator.Validate(); err != nil {
		return nil, false, err
	}
	return creator, true, nil
}

// ensureSet loads the synthetic archive set, building it with its fixed
// ID on first run. Imported sets are published immediately and support
// timeline, thematic, and random navigation.
func (s *importServiceImpl) ensureSet(ctx context.Context) (*domain.ContentSet, bool, error) {
	set, err := s.setStore.GetByID(ctx, s.cfg.SetID)
	if err == nil {
		return set, false, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, false, err
	}

	now := time.Now().UTC()
	set = &domain.ContentSet{
		ID:          s.cfg.SetID,
		CreatorID:   s.cfg.CreatorID,
		Title:       s.cfg.SetTitle,
		Description: s.cfg.SetDescription,
		Category:    s.cfg.Category,
		SupportedNavigation: []domain.NavigationMode{
			domain.NavigationTimeline,
			domain.NavigationThematic,
			domain.NavigationRandom,
		},
		Status:    domain.SetStatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := set.Validate(); err != nil {
		return nil, false, err
	}
	return set, true, nil
}

// convertCard maps one archive record onto a Card. The archive ordinal
// becomes the order index, so the derived card ID is stable across runs.
func (s *importServiceImpl) convertCard(legacy LegacyCard, set *domain.ContentSet) (*domain.Card, error) {
	if legacy.ID < 1 {
		return nil, NewIntegrityError("card", fmt.Sprintf("legacy:%d", legacy.ID), "id",
			"archive card id must be a positive integer")
	}
	if strings.TrimSpace(legacy.Title) == "" {
		return nil, NewIntegrityError("card", fmt.Sprintf("legacy:%d", legacy.ID), "titulo",
			"archive card has no title")
	}

	card, err := domain.NewCard(
		set.ID, set.CreatorID,
		legacy.Title, legacy.Summary, legacy.DetailedContent,
		legacy.ID,
	)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(legacy.VideoURL) != "" {
		card.Media = append(card.Media, domain.MediaReference{
			MediaType:        domain.MediaTypeVideo,
			URL:              legacy.VideoURL,
			AltText:          legacy.Title,
			ValidationStatus: domain.MediaValidationPending,
		})
	}
	if len(legacy.Extra) > 0 {
		card.DomainData = legacy.Extra
	}

	return card, nil
}
