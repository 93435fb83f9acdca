package scanrecord

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Repository handles scan history persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new scan record repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create persists a completed scan
func (r *Repository) Create(ctx context.Context, record *models.ScanRecord) (*models.ScanRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "scanrecord.Repository.Create")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":       "Create",
		"collector_id": record.CollectorID,
	})

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("scan_records")
	sb.Cols("id", "collector_id", "image_mime_type", "image_bytes", "model", "raw_detections", "matches", "detected_count", "matched_count", "duration_ms", "created_at")
	sb.Values(record.ID, record.CollectorID, record.ImageMimeType, record.ImageBytes, record.Model, record.RawDetections, record.Matches, record.DetectedCount, record.MatchedCount, record.DurationMillis, record.CreatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.WithError(err).Error("Failed to create scan record")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create scan record")
	}

	log.WithFields(map[string]any{"id": record.ID}).Info("Created scan record")
	return record, nil
}

// Get retrieves a scan record by ID
func (r *Repository) Get(ctx context.Context, collectorID string, id string) (*models.ScanRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "scanrecord.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "collector_id", "image_mime_type", "image_bytes", "model", "raw_detections", "matches", "detected_count", "matched_count", "duration_ms", "created_at")
	sb.From("scan_records")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("collector_id", collectorID),
	)

	query, args := sb.Build()
	var record models.ScanRecord
	if err := r.db.GetContext(ctx, &record, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("scan %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get scan record")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get scan record")
	}

	return &record, nil
}

// List retrieves a collector's scan history, newest first
func (r *Repository) List(ctx context.Context, collectorID string, page, pageSize int) ([]models.ScanRecord, int, error) {
	ctx, span := tracing.StartSpan(ctx, "scanrecord.Repository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	countSb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	countSb.Select("COUNT(*)")
	countSb.From("scan_records")
	countSb.Where(countSb.Equal("collector_id", collectorID))

	countQuery, countArgs := countSb.Build()
	var totalCount int
	if err := r.db.GetContext(ctx, &totalCount, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count scan records")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count scan records")
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "collector_id", "image_mime_type", "image_bytes", "model", "raw_detections", "matches", "detected_count", "matched_count", "duration_ms", "created_at")
	sb.From("scan_records")
	sb.Where(sb.Equal("collector_id", collectorID))
	sb.OrderBy("created_at DESC")
	sb.Limit(pageSize).Offset(offset)

	query, args := sb.Build()
	var records []models.ScanRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list scan records")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list scan records")
	}

	return records, totalCount, nil
}
