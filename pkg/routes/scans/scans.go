package scans

import (
	"encoding/base64"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/pkg/appcontext"
	"github.com/Ramsey-B/clover/pkg/scan"
)

// 10 MiB; typical phone photos are well under this after JPEG compression.
const defaultMaxImageBytes = 10 << 20

type handler struct {
	maxImageBytes int64
}

// Register registers scan routes. maxImageBytes caps uploads; zero or
// negative means the default.
func Register(g *echo.Group, maxImageBytes int64) {
	if maxImageBytes <= 0 {
		maxImageBytes = defaultMaxImageBytes
	}
	h := &handler{maxImageBytes: maxImageBytes}
	g.POST("", h.CreateScan)
	g.GET("", h.ListScans)
	g.GET("/:id", h.GetScan)
}

// Base64ScanRequest is the JSON alternative to a multipart upload
type Base64ScanRequest struct {
	Image    string `json:"image" validate:"required"`
	MimeType string `json:"mime_type"`
}

// CreateScan runs one scan over an uploaded photo. Accepts either a
// multipart form with an "image" part or a JSON body with a base64 image.
func (h *handler) CreateScan(c echo.Context) error {
	ctx := c.Request().Context()
	collectorID := appcontext.GetCollectorID(ctx)
	if collectorID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "X-Collector-ID header is required")
	}

	image, mimeType, err := h.readImage(c)
	if err != nil {
		return err
	}

	ctx, svc, err := ectoinject.GetContext[*scan.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	resp, err := svc.Run(ctx, collectorID, image, mimeType)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, resp)
}

// ListScans returns a page of the collector's scan history
func (h *handler) ListScans(c echo.Context) error {
	ctx := c.Request().Context()
	collectorID := appcontext.GetCollectorID(ctx)
	if collectorID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "X-Collector-ID header is required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	ctx, svc, err := ectoinject.GetContext[*scan.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	resp, err := svc.History(ctx, collectorID, page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// GetScan returns one scan record by ID
func (h *handler) GetScan(c echo.Context) error {
	ctx := c.Request().Context()
	collectorID := appcontext.GetCollectorID(ctx)
	if collectorID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "X-Collector-ID header is required")
	}

	id := c.Param("id")

	ctx, svc, err := ectoinject.GetContext[*scan.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	record, err := svc.Get(ctx, collectorID, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}

func (h *handler) readImage(c echo.Context) ([]byte, string, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)

	if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		var req Base64ScanRequest
		if err := c.Bind(&req); err != nil {
			return nil, "", httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		if req.Image == "" {
			return nil, "", httperror.NewHTTPError(http.StatusBadRequest, "image is required")
		}

		// Tolerate data URLs from browser canvas exports.
		payload := req.Image
		if idx := strings.Index(payload, ";base64,"); idx >= 0 && strings.HasPrefix(payload, "data:") {
			if req.MimeType == "" {
				req.MimeType = payload[len("data:"):idx]
			}
			payload = payload[idx+len(";base64,"):]
		}

		image, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", httperror.NewHTTPError(http.StatusBadRequest, "image is not valid base64")
		}
		if int64(len(image)) > h.maxImageBytes {
			return nil, "", httperror.NewHTTPError(http.StatusRequestEntityTooLarge, "image exceeds size limit")
		}

		mimeType := req.MimeType
		if mimeType == "" {
			mimeType = http.DetectContentType(image)
		}
		return image, mimeType, nil
	}

	file, err := c.FormFile("image")
	if err != nil {
		return nil, "", httperror.NewHTTPError(http.StatusBadRequest, "image file is required")
	}
	if file.Size > h.maxImageBytes {
		return nil, "", httperror.NewHTTPError(http.StatusRequestEntityTooLarge, "image exceeds size limit")
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", httperror.NewHTTPError(http.StatusBadRequest, "failed to read image")
	}
	defer src.Close()

	image, err := io.ReadAll(io.LimitReader(src, h.maxImageBytes+1))
	if err != nil {
		return nil, "", httperror.NewHTTPError(http.StatusBadRequest, "failed to read image")
	}
	if int64(len(image)) > h.maxImageBytes {
		return nil, "", httperror.NewHTTPError(http.StatusRequestEntityTooLarge, "image exceeds size limit")
	}

	mimeType := file.Header.Get(echo.HeaderContentType)
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}
	return image, mimeType, nil
}
