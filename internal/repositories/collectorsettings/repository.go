package collectorsettings

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Repository handles collector settings persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new collector settings repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Get retrieves a collector's settings
func (r *Repository) Get(ctx context.Context, collectorID string) (*models.CollectorSettings, error) {
	ctx, span := tracing.StartSpan(ctx, "collectorsettings.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("collector_id", "sheet_url", "sheet_gid", "sheet_column", "vision_model", "created_at", "updated_at", "refreshed_at")
	sb.From("collector_settings")
	sb.Where(sb.Equal("collector_id", collectorID))

	query, args := sb.Build()
	var settings models.CollectorSettings
	if err := r.db.GetContext(ctx, &settings, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, "collector settings not found")
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get collector settings")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get collector settings")
	}

	return &settings, nil
}

// Upsert creates or replaces a collector's settings
func (r *Repository) Upsert(ctx context.Context, collectorID string, req models.UpsertSettingsRequest) (*models.CollectorSettings, error) {
	ctx, span := tracing.StartSpan(ctx, "collectorsettings.Repository.Upsert")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":       "Upsert",
		"collector_id": collectorID,
	})

	now := time.Now().UTC()
	settings := &models.CollectorSettings{
		CollectorID: collectorID,
		SheetURL:    req.SheetURL,
		SheetGID:    req.SheetGID,
		SheetColumn: req.SheetColumn,
		VisionModel: req.VisionModel,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	query := `
		INSERT INTO collector_settings (collector_id, sheet_url, sheet_gid, sheet_column, vision_model, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (collector_id) DO UPDATE SET
			sheet_url = EXCLUDED.sheet_url,
			sheet_gid = EXCLUDED.sheet_gid,
			sheet_column = EXCLUDED.sheet_column,
			vision_model = EXCLUDED.vision_model,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query, settings.CollectorID, settings.SheetURL, settings.SheetGID, settings.SheetColumn, settings.VisionModel, settings.CreatedAt, settings.UpdatedAt); err != nil {
		log.WithError(err).Error("Failed to upsert collector settings")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to save collector settings")
	}

	log.Info("Saved collector settings")
	return r.Get(ctx, collectorID)
}

// TouchRefreshedAt records the time of the latest successful list refresh
func (r *Repository) TouchRefreshedAt(ctx context.Context, collectorID string, at time.Time) error {
	ctx, span := tracing.StartSpan(ctx, "collectorsettings.Repository.TouchRefreshedAt")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("collector_settings")
	sb.Set(
		sb.Assign("refreshed_at", at),
		sb.Assign("updated_at", at),
	)
	sb.Where(sb.Equal("collector_id", collectorID))

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update refreshed_at")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update collector settings")
	}

	return nil
}
