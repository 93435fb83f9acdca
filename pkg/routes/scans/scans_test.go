package scans

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonImageContext(t *testing.T, image []byte) echo.Context {
	t.Helper()
	body, err := json.Marshal(Base64ScanRequest{
		Image:    base64.StdEncoding.EncodeToString(image),
		MimeType: "image/jpeg",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scans", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func multipartImageContext(t *testing.T, image []byte) echo.Context {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", "shelf.jpg")
	require.NoError(t, err)
	_, err = part.Write(image)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scans", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestReadImageSizeLimit(t *testing.T) {
	t.Run("configured limit rejects an oversize base64 image", func(t *testing.T) {
		h := &handler{maxImageBytes: 16}

		_, _, err := h.readImage(jsonImageContext(t, make([]byte, 17)))
		require.Error(t, err)
		assert.Equal(t, http.StatusRequestEntityTooLarge, httperror.GetStatusCode(err))
	})

	t.Run("configured limit rejects an oversize multipart upload", func(t *testing.T) {
		h := &handler{maxImageBytes: 16}

		_, _, err := h.readImage(multipartImageContext(t, make([]byte, 17)))
		require.Error(t, err)
		assert.Equal(t, http.StatusRequestEntityTooLarge, httperror.GetStatusCode(err))
	})

	t.Run("image at the limit passes", func(t *testing.T) {
		h := &handler{maxImageBytes: 16}

		image, mimeType, err := h.readImage(jsonImageContext(t, make([]byte, 16)))
		require.NoError(t, err)
		assert.Len(t, image, 16)
		assert.Equal(t, "image/jpeg", mimeType)
	})

	t.Run("registration applies the default when unset", func(t *testing.T) {
		e := echo.New()
		Register(e.Group("/api/v1/scans"), 0)

		// A photo of a few hundred KiB is fine under the default cap.
		h := &handler{maxImageBytes: defaultMaxImageBytes}
		image, _, err := h.readImage(jsonImageContext(t, make([]byte, 512*1024)))
		require.NoError(t, err)
		assert.Len(t, image, 512*1024)
	})
}

func TestReadImageDataURL(t *testing.T) {
	h := &handler{maxImageBytes: defaultMaxImageBytes}

	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("img"))
	body, err := json.Marshal(map[string]string{"image": payload})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scans", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := echo.New().NewContext(req, httptest.NewRecorder())

	image, mimeType, err := h.readImage(c)
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), image)
	assert.Equal(t, "image/png", mimeType)
}
