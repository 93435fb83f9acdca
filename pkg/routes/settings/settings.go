package settings

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/internal/repositories/collectorsettings"
	"github.com/Ramsey-B/clover/pkg/appcontext"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/sheets"
)

// Register registers collector settings routes
func Register(g *echo.Group) {
	g.GET("", GetSettings)
	g.PUT("", PutSettings)
}

// GetSettings returns the collector's settings
func GetSettings(c echo.Context) error {
	ctx := c.Request().Context()
	collectorID := appcontext.GetCollectorID(ctx)
	if collectorID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "X-Collector-ID header is required")
	}

	ctx, repo, err := ectoinject.GetContext[*collectorsettings.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	settings, err := repo.Get(ctx, collectorID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, settings)
}

// PutSettings creates or replaces the collector's settings
func PutSettings(c echo.Context) error {
	ctx := c.Request().Context()
	collectorID := appcontext.GetCollectorID(ctx)
	if collectorID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "X-Collector-ID header is required")
	}

	var req models.UpsertSettingsRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, validate, err := ectoinject.GetContext[*validator.Validate](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Reject sheet URLs we cannot turn into a CSV fetch before persisting.
	if _, err := sheets.ExportURL(req.SheetURL, req.SheetGID); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "sheet_url is not a fetchable spreadsheet URL")
	}

	ctx, repo, err := ectoinject.GetContext[*collectorsettings.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	settings, err := repo.Upsert(ctx, collectorID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, settings)
}
