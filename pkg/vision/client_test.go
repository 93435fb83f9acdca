package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/httpclient"
)

func newTestVisionClient(baseURL string) *Client {
	logger := ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {})
	return NewClient(httpclient.NewClient(httpclient.DefaultConfig(), logger), logger, Config{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Model:       "gemini-2.0-flash",
		Temperature: 0,
		MaxTokens:   1024,
	})
}

func chatReply(content string) string {
	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}, "finish_reason": "stop"},
		},
	}
	b, _ := json.Marshal(reply)
	return string(b)
}

func TestDetectNames(t *testing.T) {
	t.Run("sends the image and canonical list, returns the model's guesses", func(t *testing.T) {
		var captured map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.Write([]byte(chatReply(`["Pikachu", "Blastiose"]`)))
		}))
		defer srv.Close()

		names, err := newTestVisionClient(srv.URL).DetectNames(context.Background(), []byte{0xFF, 0xD8, 0xFF}, "image/jpeg", []string{"Pikachu", "Blastoise"}, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"Pikachu", "Blastiose"}, names)

		assert.Equal(t, "gemini-2.0-flash", captured["model"])

		messages := captured["messages"].([]any)
		require.Len(t, messages, 1)
		content := messages[0].(map[string]any)["content"].([]any)
		require.Len(t, content, 2)

		prompt := content[0].(map[string]any)["text"].(string)
		assert.Contains(t, prompt, "- Pikachu")
		assert.Contains(t, prompt, "- Blastoise")

		image := content[1].(map[string]any)["image_url"].(map[string]any)["url"].(string)
		assert.True(t, strings.HasPrefix(image, "data:image/jpeg;base64,"))
	})

	t.Run("model override replaces the configured default", func(t *testing.T) {
		var captured map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&captured)
			w.Write([]byte(chatReply("[]")))
		}))
		defer srv.Close()

		_, err := newTestVisionClient(srv.URL).DetectNames(context.Background(), []byte("img"), "image/png", []string{"Pikachu"}, "gemini-2.0-pro")
		require.NoError(t, err)
		assert.Equal(t, "gemini-2.0-pro", captured["model"])
	})

	t.Run("fenced reply is still parsed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(chatReply("```json\n[\"Mewtwo\"]\n```")))
		}))
		defer srv.Close()

		names, err := newTestVisionClient(srv.URL).DetectNames(context.Background(), []byte("img"), "image/jpeg", []string{"Mewtwo"}, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"Mewtwo"}, names)
	})

	t.Run("api error payload fails the call", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": {"message": "invalid api key", "type": "auth_error"}}`))
		}))
		defer srv.Close()

		_, err := newTestVisionClient(srv.URL).DetectNames(context.Background(), []byte("img"), "image/jpeg", []string{"Pikachu"}, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid api key")
	})

	t.Run("empty choices fails the call", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices": []}`))
		}))
		defer srv.Close()

		_, err := newTestVisionClient(srv.URL).DetectNames(context.Background(), []byte("img"), "image/jpeg", []string{"Pikachu"}, "")
		require.Error(t, err)
	})

	t.Run("unreadable photo yields no names", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(chatReply("[]")))
		}))
		defer srv.Close()

		names, err := newTestVisionClient(srv.URL).DetectNames(context.Background(), []byte("img"), "image/jpeg", []string{"Pikachu"}, "")
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}
