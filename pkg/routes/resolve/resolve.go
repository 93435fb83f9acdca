package resolve

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/pkg/match"
)

// Register registers match resolution routes
func Register(g *echo.Group) {
	g.POST("/resolve", ResolveNames)
}

// ResolveRequest asks the resolver to match detected names against a
// caller-supplied canonical list. Useful for dry-running matches without a
// scan.
type ResolveRequest struct {
	Detected  []string `json:"detected" validate:"required"`
	Canonical []string `json:"canonical" validate:"required"`
}

// ResolveResponse carries per-name resolution detail plus the reconciled
// batch result.
type ResolveResponse struct {
	Results   []ResolveResult `json:"results"`
	Confirmed []string        `json:"confirmed"`
}

// ResolveResult is the resolution outcome for one detected name
type ResolveResult struct {
	Detected   string  `json:"detected"`
	Card       string  `json:"card,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Matched    bool    `json:"matched"`
}

// ResolveNames resolves detected names against a canonical list
func ResolveNames(c echo.Context) error {
	ctx := c.Request().Context()

	var req ResolveRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Detected) == 0 || len(req.Canonical) == 0 {
		return httperror.NewHTTPError(http.StatusBadRequest, "detected and canonical are required")
	}

	_, resolver, err := ectoinject.GetContext[*match.Resolver](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	results := make([]ResolveResult, 0, len(req.Detected))
	for _, detected := range req.Detected {
		result := resolver.Resolve(detected, req.Canonical)
		results = append(results, ResolveResult{
			Detected:   detected,
			Card:       result.Card,
			Confidence: result.Confidence,
			Matched:    result.Card != "",
		})
	}

	return c.JSON(http.StatusOK, ResolveResponse{
		Results:   results,
		Confirmed: match.ReconcileBatch(req.Detected, req.Canonical),
	})
}
