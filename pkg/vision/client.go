// Package vision calls an OpenAI-compatible chat-completions endpoint with
// an image and returns the card names the model claims to see. Everything it
// returns is untrusted until it passes through pkg/match.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/httpclient"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Config holds vision inference settings.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Client performs one inference call per scan.
type Client struct {
	http   *httpclient.Client
	logger ectologger.Logger
	cfg    Config
}

// NewClient creates a new vision client.
func NewClient(http *httpclient.Client, logger ectologger.Logger, cfg Config) *Client {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	return &Client{
		http:   http,
		logger: logger,
		cfg:    cfg,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// DetectNames sends the image and the canonical list as context and returns
// the model's raw name guesses. The guesses may be misspelled, partial, or
// entirely hallucinated; the caller must reconcile them before use. model
// overrides the configured default when non-empty.
func (c *Client) DetectNames(ctx context.Context, image []byte, mimeType string, canonical []string, model string) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "vision.Client.DetectNames")
	defer span.End()

	if model == "" {
		model = c.cfg.Model
	}

	log := c.logger.WithContext(ctx).WithFields(map[string]any{
		"model":       model,
		"image_bytes": len(image),
		"list_size":   len(canonical),
	})

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	body := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: buildPrompt(canonical)},
					{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
				},
			},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to encode inference request")
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to build inference request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusBadGateway, "inference request failed")
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		log.WithError(err).Error("Inference response is not valid JSON")
		return nil, httperror.NewHTTPError(http.StatusBadGateway, "inference response is not valid JSON")
	}

	if parsed.Error != nil {
		log.WithFields(map[string]any{"error_type": parsed.Error.Type}).Error("Inference service returned an error")
		return nil, httperror.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("inference error: %s", parsed.Error.Message))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, httperror.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("inference returned status %d", resp.StatusCode))
	}
	if len(parsed.Choices) == 0 {
		return nil, httperror.NewHTTPError(http.StatusBadGateway, "inference returned no choices")
	}

	names := ExtractNames(parsed.Choices[0].Message.Content)
	log.WithFields(map[string]any{"detected_count": len(names)}).Info("Vision inference completed")

	return names, nil
}

func buildPrompt(canonical []string) string {
	var b strings.Builder
	b.WriteString("You are identifying trading cards in a photograph. ")
	b.WriteString("Look at every card label visible in the image and list the card names you can read. ")
	b.WriteString("The collector is looking for these cards:\n")
	for _, name := range canonical {
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	b.WriteString("\nRespond with ONLY a JSON array of strings, one entry per card name you can see. ")
	b.WriteString("Include a name even if you are unsure of the exact spelling. ")
	b.WriteString("If no card names are readable, respond with [].")
	return b.String()
}
