// Package sheets fetches a collector's missing list from a published
// spreadsheet served as CSV over HTTP.
package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/httpclient"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Source identifies one tab and column of a published spreadsheet.
type Source struct {
	// URL is the CSV export URL, or a Google Sheets document URL that will
	// be rewritten to its CSV export form.
	URL string
	// GID selects the tab for Google Sheets documents. Empty means the
	// first tab.
	GID string
	// Column is the header name of the column holding card names.
	Column string
}

// Client reads card names from one spreadsheet tab.
type Client struct {
	http       *httpclient.Client
	logger     ectologger.Logger
	maxEntries int
}

// NewClient creates a new sheets client. maxEntries caps how many names one
// fetch may yield.
func NewClient(http *httpclient.Client, logger ectologger.Logger, maxEntries int) *Client {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &Client{
		http:       http,
		logger:     logger,
		maxEntries: maxEntries,
	}
}

// FetchNames downloads the sheet and returns the non-empty values of the
// selected column, in source order. The header row is located by
// case-insensitive match on the configured column name; when the sheet has
// no matching header the first column is used and the first row is treated
// as data unless it equals the column name.
func (c *Client) FetchNames(ctx context.Context, src Source) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "sheets.Client.FetchNames")
	defer span.End()

	log := c.logger.WithContext(ctx).WithFields(map[string]any{
		"sheet_gid":    src.GID,
		"sheet_column": src.Column,
	})

	exportURL, err := ExportURL(src.URL, src.GID)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid sheet url: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to build sheet request")
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusBadGateway, "failed to fetch sheet")
	}
	if resp.StatusCode != http.StatusOK {
		log.WithFields(map[string]any{"status": resp.StatusCode}).Error("Sheet fetch returned non-200")
		return nil, httperror.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("sheet fetch returned status %d", resp.StatusCode))
	}

	names, err := c.parseColumn(resp.Body, src.Column)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("failed to parse sheet: %v", err))
	}

	log.WithFields(map[string]any{"name_count": len(names)}).Info("Fetched missing list from sheet")
	return names, nil
}

func (c *Client) parseColumn(body []byte, column string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(string(body)))
	reader.FieldsPerRecord = -1 // published sheets pad rows unevenly

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	if len(records) == 0 {
		return []string{}, nil
	}

	colIdx := 0
	headerRows := 0
	for i, cell := range records[0] {
		if strings.EqualFold(strings.TrimSpace(cell), column) {
			colIdx = i
			headerRows = 1
			break
		}
	}

	names := make([]string, 0, len(records))
	for _, row := range records[headerRows:] {
		if colIdx >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[colIdx])
		if name == "" {
			continue
		}
		names = append(names, name)
		if len(names) >= c.maxEntries {
			break
		}
	}

	return names, nil
}

// ExportURL turns a Google Sheets document URL into its CSV export URL. URLs
// that already point elsewhere are returned unchanged so any CSV-over-HTTP
// source works.
func ExportURL(raw, gid string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	if u.Host != "docs.google.com" || !strings.Contains(u.Path, "/spreadsheets/d/") {
		return raw, nil
	}

	parts := strings.Split(u.Path, "/")
	var docID string
	for i, p := range parts {
		if p == "d" && i+1 < len(parts) {
			docID = parts[i+1]
			break
		}
	}
	if docID == "" {
		return "", fmt.Errorf("could not find document id in %q", raw)
	}

	export := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv", docID)
	if gid != "" {
		export += "&gid=" + url.QueryEscape(gid)
	}
	return export, nil
}
