package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/cardgraph/internal/config"
	"github.com/phrazzld/cardgraph/internal/domain"
	"github.com/phrazzld/cardgraph/internal/store"
)

// HomepageRow is one curated row of the homepage: a display name and its
// member sets in order.
type HomepageRow struct {
	Name string               `json:"name"`
	Sets []*domain.ContentSet `json:"sets"`
}

// Homepage is the assembled discovery surface: one hero set, a rail of
// featured creators, and the configured rows. A set appears at most once
// across the whole page.
type Homepage struct {
	Hero     *domain.ContentSet `json:"hero"`
	Creators []*domain.Creator  `json:"creators"`
	Rows     []HomepageRow      `json:"rows"`
}

// CuratorService assembles the homepage from the persisted graph. Only
// published sets are eligible; draft and archived sets never surface.
type CuratorService interface {
	BuildHomepage(ctx context.Context) (*Homepage, error)
}

// curatorServiceImpl implements the CuratorService interface.
type curatorServiceImpl struct {
	creatorStore store.CreatorStore
	setStore     store.SetStore
	cfg          config.HomepageConfig
	logger       *slog.Logger
}

// Verify interface satisfaction at compile time.
var _ CuratorService = (*curatorServiceImpl)(nil)

// NewCuratorService creates a new CuratorService with the given
// dependencies. Returns an error if any dependency is nil.
func NewCuratorService(
	creatorStore store.CreatorStore,
	setStore store.SetStore,
	cfg config.HomepageConfig,
	logger *slog.Logger,
) (CuratorService, error) {
	if creatorStore == nil {
		return nil, fmt.Errorf("creator store cannot be nil")
	}
	if setStore == nil {
		return nil, fmt.Errorf("set store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &curatorServiceImpl{
		creatorStore: creatorStore,
		setStore:     setStore,
		cfg:          cfg,
		logger:       logger.With(slog.String("component", "curator_service")),
	}, nil
}

// BuildHomepage selects the hero, fills each configured row from sets
// tagged with the row's name, and backfills thin rows from the remaining
// published sets. Rows that end up empty are omitted entirely.
func (s *curatorServiceImpl) BuildHomepage(ctx context.Context) (*Homepage, error) {
	published, err := s.setStore.List(ctx, func(set *domain.ContentSet) bool {
		return set.Status == domain.SetStatusPublished
	})
	if err != nil {
		return nil, err
	}

	page := &Homepage{}
	placed := make(map[string]bool)

	page.Hero = pickHero(published)
	if page.Hero != nil {
		placed[page.Hero.ID] = true
	}

	for _, name := range s.cfg.Rows {
		row := HomepageRow{Name: name}
		for _, set := range published {
			if len(row.Sets) >= s.cfg.RowSize {
				break
			}
			if placed[set.ID] || !set.HasTag(name) {
				continue
			}
			row.Sets = append(row.Sets, set)
			placed[set.ID] = true
		}

		// Thin rows get backfilled with whatever published sets are still
		// unplaced, so the page does not render rows of one or two items.
		if len(row.Sets) < s.cfg.MinRowMembers {
			for _, set := range published {
				if len(row.Sets) >= s.cfg.RowSize {
					break
				}
				if placed[set.ID] {
					continue
				}
				row.Sets = append(row.Sets, set)
				placed[set.ID] = true
			}
		}

		if len(row.Sets) > 0 {
			page.Rows = append(page.Rows, row)
		}
	}

	creators, err := s.creatorStore.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(creators) > s.cfg.CreatorRailSize {
		creators = creators[:s.cfg.CreatorRailSize]
	}
	page.Creators = creators

	s.logger.Debug("homepage assembled",
		slog.Bool("has_hero", page.Hero != nil),
		slog.Int("rows", len(page.Rows)),
		slog.Int("creators", len(page.Creators)))
	return page, nil
}

// pickHero returns the first hero-flagged published set, falling back to
// the first published set when none is flagged. An empty graph has no
// hero.
func pickHero(published []*domain.ContentSet) *domain.ContentSet {
	for _, set := range published {
		if set.IsHero {
			return set
		}
	}
	if len(published) > 0 {
		return published[0]
	}
	return nil
}
