package missing

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/pkg/appcontext"
	"github.com/Ramsey-B/clover/pkg/list"
)

// Register registers missing list routes
func Register(g *echo.Group) {
	g.GET("", GetMissingList)
	g.POST("/refresh", RefreshMissingList)
}

// GetMissingList returns the collector's current missing list
func GetMissingList(c echo.Context) error {
	ctx := c.Request().Context()
	collectorID := appcontext.GetCollectorID(ctx)
	if collectorID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "X-Collector-ID header is required")
	}

	ctx, svc, err := ectoinject.GetContext[*list.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	resp, err := svc.Get(ctx, collectorID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// RefreshMissingList re-ingests the missing list from the collector's sheet
func RefreshMissingList(c echo.Context) error {
	ctx := c.Request().Context()
	collectorID := appcontext.GetCollectorID(ctx)
	if collectorID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "X-Collector-ID header is required")
	}

	ctx, svc, err := ectoinject.GetContext[*list.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	resp, err := svc.Refresh(ctx, collectorID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}
