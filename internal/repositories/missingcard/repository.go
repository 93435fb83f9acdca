package missingcard

import (
	"context"
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

// Repository handles missing list persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new missing card repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// List retrieves a collector's missing list in spreadsheet order
func (r *Repository) List(ctx context.Context, collectorID string) ([]models.MissingCard, error) {
	ctx, span := tracing.StartSpan(ctx, "missingcard.Repository.List")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "collector_id", "name", "position", "created_at", "updated_at")
	sb.From("missing_cards")
	sb.Where(sb.Equal("collector_id", collectorID))
	sb.OrderBy("position ASC")

	query, args := sb.Build()
	var cards []models.MissingCard
	if err := r.db.SelectContext(ctx, &cards, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list missing cards")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list missing cards")
	}

	return cards, nil
}

// Names retrieves just the card names in spreadsheet order
func (r *Repository) Names(ctx context.Context, collectorID string) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "missingcard.Repository.Names")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("name")
	sb.From("missing_cards")
	sb.Where(sb.Equal("collector_id", collectorID))
	sb.OrderBy("position ASC")

	query, args := sb.Build()
	var names []string
	if err := r.db.SelectContext(ctx, &names, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list missing card names")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list missing card names")
	}

	return names, nil
}

// Replace atomically swaps a collector's missing list for the given names.
// Positions follow the order of names. Duplicate names are kept, matching
// the source spreadsheet row for row.
func (r *Repository) Replace(ctx context.Context, collectorID string, names []string) ([]models.MissingCard, error) {
	ctx, span := tracing.StartSpan(ctx, "missingcard.Repository.Replace")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":       "Replace",
		"collector_id": collectorID,
		"count":        len(names),
	})

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		log.WithError(err).Error("Failed to begin transaction")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace missing list")
	}
	defer tx.Rollback()

	db := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	db.DeleteFrom("missing_cards")
	db.Where(db.Equal("collector_id", collectorID))

	query, args := db.Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		log.WithError(err).Error("Failed to clear missing list")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace missing list")
	}

	now := time.Now().UTC()
	cards := make([]models.MissingCard, 0, len(names))

	if len(names) > 0 {
		ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
		ib.InsertInto("missing_cards")
		ib.Cols("id", "collector_id", "name", "position", "created_at", "updated_at")
		for i, name := range names {
			card := models.MissingCard{
				ID:          uuid.New().String(),
				CollectorID: collectorID,
				Name:        name,
				Position:    i,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			ib.Values(card.ID, card.CollectorID, card.Name, card.Position, card.CreatedAt, card.UpdatedAt)
			cards = append(cards, card)
		}

		query, args = ib.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			log.WithError(err).Error("Failed to insert missing cards")
			return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace missing list")
		}
	}

	if err := tx.Commit(); err != nil {
		log.WithError(err).Error("Failed to commit missing list replacement")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace missing list")
	}

	log.Info("Replaced missing list")
	return cards, nil
}
