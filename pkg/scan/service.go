// Package scan runs the end-to-end scan pipeline: one photo in, a
// reconciled list of missing cards out.
package scan

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/match"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Detector performs vision inference on an image.
type Detector interface {
	DetectNames(ctx context.Context, image []byte, mimeType string, canonical []string, model string) ([]string, error)
}

// ListProvider supplies the collector's canonical missing list.
type ListProvider interface {
	Names(ctx context.Context, collectorID string) ([]string, error)
}

// RecordStore persists scan history.
type RecordStore interface {
	Create(ctx context.Context, record *models.ScanRecord) (*models.ScanRecord, error)
	Get(ctx context.Context, collectorID string, id string) (*models.ScanRecord, error)
	List(ctx context.Context, collectorID string, page, pageSize int) ([]models.ScanRecord, int, error)
}

// ModelProvider resolves per-collector vision model overrides.
type ModelProvider interface {
	Get(ctx context.Context, collectorID string) (*models.CollectorSettings, error)
}

// ScanEmitter announces completed scans.
type ScanEmitter interface {
	EmitScanCompleted(ctx context.Context, collectorID, scanID string, matched []string, detectedCount int)
}

// Service coordinates the scan pipeline.
type Service struct {
	detector Detector
	list     ListProvider
	records  RecordStore
	settings ModelProvider
	emitter  ScanEmitter
	resolver *match.Resolver
	logger   ectologger.Logger
}

// NewService creates a new scan service.
func NewService(detector Detector, list ListProvider, records RecordStore, settings ModelProvider, emitter ScanEmitter, resolver *match.Resolver, logger ectologger.Logger) *Service {
	return &Service{
		detector: detector,
		list:     list,
		records:  records,
		settings: settings,
		emitter:  emitter,
		resolver: resolver,
		logger:   logger,
	}
}

// Run executes one scan: vision inference over the image, reconciliation
// against the collector's missing list, and a persisted scan record.
// Confirmed names are always verbatim entries from the missing list.
func (s *Service) Run(ctx context.Context, collectorID string, image []byte, mimeType string) (*models.ScanResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "scan.Service.Run")
	defer span.End()

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"method":       "Run",
		"collector_id": collectorID,
		"image_bytes":  len(image),
	})

	if len(image) == 0 {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "image is required")
	}

	canonical, err := s.list.Names(ctx, collectorID)
	if err != nil {
		return nil, err
	}
	if len(canonical) == 0 {
		return nil, httperror.NewHTTPError(http.StatusConflict, "missing list is empty, refresh it first")
	}

	model := ""
	if settings, err := s.settings.Get(ctx, collectorID); err == nil && settings.VisionModel != nil {
		model = *settings.VisionModel
	}

	started := time.Now()
	detected, err := s.detector.DetectNames(ctx, image, mimeType, canonical, model)
	if err != nil {
		log.WithError(err).Error("Vision inference failed")
		return nil, err
	}
	duration := time.Since(started)

	confirmed := match.ReconcileBatch(detected, canonical)

	matches := make([]models.ScanMatch, 0, len(detected))
	for _, name := range detected {
		result := s.resolver.Resolve(name, canonical)
		if result.Card != "" {
			matches = append(matches, models.ScanMatch{Card: result.Card, Confidence: result.Confidence})
		}
	}

	rawJSON, err := json.Marshal(detected)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to encode scan result")
	}
	matchesJSON, err := json.Marshal(matches)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to encode scan result")
	}

	record := &models.ScanRecord{
		CollectorID:    collectorID,
		ImageMimeType:  mimeType,
		ImageBytes:     int64(len(image)),
		Model:          model,
		RawDetections:  rawJSON,
		Matches:        matchesJSON,
		DetectedCount:  len(detected),
		MatchedCount:   len(confirmed),
		DurationMillis: duration.Milliseconds(),
	}

	record, err = s.records.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	log.WithFields(map[string]any{
		"scan_id":        record.ID,
		"detected_count": len(detected),
		"matched_count":  len(confirmed),
		"duration_ms":    duration.Milliseconds(),
	}).Info("Scan completed")

	s.emitter.EmitScanCompleted(ctx, collectorID, record.ID, confirmed, len(detected))

	return &models.ScanResponse{
		ScanID:        record.ID,
		Confirmed:     confirmed,
		Matches:       matches,
		RawDetections: detected,
		DetectedCount: len(detected),
		MatchedCount:  len(confirmed),
	}, nil
}

// Get returns one scan record.
func (s *Service) Get(ctx context.Context, collectorID string, id string) (*models.ScanRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "scan.Service.Get")
	defer span.End()

	return s.records.Get(ctx, collectorID, id)
}

// History returns a page of the collector's scan history.
func (s *Service) History(ctx context.Context, collectorID string, page, pageSize int) (*models.ScanListResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "scan.Service.History")
	defer span.End()

	records, total, err := s.records.List(ctx, collectorID, page, pageSize)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return &models.ScanListResponse{
		Items:      records,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}
