// Package list manages the collector's missing list: fetching it from the
// source spreadsheet and keeping the persisted copy in sync.
package list

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/sheets"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// SheetFetcher retrieves card names from a spreadsheet source.
type SheetFetcher interface {
	FetchNames(ctx context.Context, src sheets.Source) ([]string, error)
}

// CardStore persists the missing list.
type CardStore interface {
	List(ctx context.Context, collectorID string) ([]models.MissingCard, error)
	Names(ctx context.Context, collectorID string) ([]string, error)
	Replace(ctx context.Context, collectorID string, names []string) ([]models.MissingCard, error)
}

// SettingsStore provides the collector's sheet configuration.
type SettingsStore interface {
	Get(ctx context.Context, collectorID string) (*models.CollectorSettings, error)
	TouchRefreshedAt(ctx context.Context, collectorID string, at time.Time) error
}

// RefreshEmitter announces successful list refreshes.
type RefreshEmitter interface {
	EmitListRefreshed(ctx context.Context, collectorID string, listSize int)
}

// Config holds service-wide sheet defaults, used when a collector has no
// saved settings. An empty DefaultSheetURL disables the fallback.
type Config struct {
	DefaultSheetURL string
	DefaultSheetGID string
	DefaultColumn   string
}

// Service coordinates missing list reads and refreshes.
type Service struct {
	fetcher  SheetFetcher
	cards    CardStore
	settings SettingsStore
	emitter  RefreshEmitter
	cfg      Config
	logger   ectologger.Logger
}

// NewService creates a new list service.
func NewService(fetcher SheetFetcher, cards CardStore, settings SettingsStore, emitter RefreshEmitter, cfg Config, logger ectologger.Logger) *Service {
	return &Service{
		fetcher:  fetcher,
		cards:    cards,
		settings: settings,
		emitter:  emitter,
		cfg:      cfg,
		logger:   logger,
	}
}

// Get returns the persisted missing list for a collector.
func (s *Service) Get(ctx context.Context, collectorID string) (*models.MissingListResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "list.Service.Get")
	defer span.End()

	cards, err := s.cards.List(ctx, collectorID)
	if err != nil {
		return nil, err
	}

	resp := &models.MissingListResponse{
		Items:      cards,
		TotalCount: len(cards),
	}

	settings, err := s.settings.Get(ctx, collectorID)
	if err == nil {
		resp.RefreshedAt = settings.RefreshedAt
	} else if httperror.GetStatusCode(err) != http.StatusNotFound {
		return nil, err
	}

	return resp, nil
}

// Names returns just the canonical card names for matching, preserving
// spreadsheet order.
func (s *Service) Names(ctx context.Context, collectorID string) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "list.Service.Names")
	defer span.End()

	return s.cards.Names(ctx, collectorID)
}

// Refresh re-fetches the collector's spreadsheet and replaces the persisted
// missing list with its contents. The old list is only discarded once the
// fetch succeeds.
func (s *Service) Refresh(ctx context.Context, collectorID string) (*models.MissingListResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "list.Service.Refresh")
	defer span.End()

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"method":       "Refresh",
		"collector_id": collectorID,
	})

	src, err := s.sheetSource(ctx, collectorID)
	if err != nil {
		return nil, err
	}

	names, err := s.fetcher.FetchNames(ctx, src)
	if err != nil {
		log.WithError(err).Error("Failed to fetch sheet")
		return nil, err
	}

	cards, err := s.cards.Replace(ctx, collectorID, names)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.settings.TouchRefreshedAt(ctx, collectorID, now); err != nil {
		// The list itself is already replaced; a stale timestamp is tolerable.
		log.WithError(err).Warn("Failed to record refresh time")
	}

	log.WithFields(map[string]any{"count": len(cards)}).Info("Refreshed missing list")
	s.emitter.EmitListRefreshed(ctx, collectorID, len(cards))

	return &models.MissingListResponse{
		Items:       cards,
		TotalCount:  len(cards),
		RefreshedAt: &now,
	}, nil
}

// sheetSource resolves where to fetch from: the collector's saved settings,
// or the service-wide default sheet when nothing is saved.
func (s *Service) sheetSource(ctx context.Context, collectorID string) (sheets.Source, error) {
	settings, err := s.settings.Get(ctx, collectorID)
	if err == nil {
		return sheets.Source{
			URL:    settings.SheetURL,
			GID:    settings.SheetGID,
			Column: settings.SheetColumn,
		}, nil
	}
	if httperror.GetStatusCode(err) != http.StatusNotFound {
		return sheets.Source{}, err
	}

	if s.cfg.DefaultSheetURL == "" {
		return sheets.Source{}, httperror.NewHTTPError(http.StatusConflict, "collector has no sheet configured")
	}
	return sheets.Source{
		URL:    s.cfg.DefaultSheetURL,
		GID:    s.cfg.DefaultSheetGID,
		Column: s.cfg.DefaultColumn,
	}, nil
}
