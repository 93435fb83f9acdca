package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

// Config holds test configuration
type Config struct {
	CloverURL       string
	KafkaBrokers    []string
	ScanEventsTopic string
	TestCollectorID string
}

// DefaultConfig returns default test configuration
func DefaultConfig() Config {
	return Config{
		CloverURL:       getEnv("CLOVER_URL", "http://localhost:3004"),
		KafkaBrokers:    []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
		ScanEventsTopic: getEnv("SCAN_EVENTS_TOPIC", "scan-events"),
		TestCollectorID: getEnv("TEST_COLLECTOR_ID", "test-collector-e2e"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// HTTPClient wraps http.Client with helper methods
type HTTPClient struct {
	client      *http.Client
	baseURL     string
	collectorID string
}

// NewHTTPClient creates a new HTTP client for the service
func NewHTTPClient(baseURL, collectorID string) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: 120 * time.Second, // scans wait on vision inference
		},
		baseURL:     baseURL,
		collectorID: collectorID,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(path string) (*http.Response, error) {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	c.addHeaders(req)
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(path string, body any) (*http.Response, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest("POST", c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	c.addHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// Put performs a PUT request with JSON body
func (c *HTTPClient) Put(path string, body any) (*http.Response, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest("PUT", c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	c.addHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

func (c *HTTPClient) addHeaders(req *http.Request) {
	req.Header.Set("X-Collector-ID", c.collectorID)
}

// ParseResponse parses a JSON response into the given type
func ParseResponse[T any](resp *http.Response) (T, error) {
	var result T
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, err
	}
	defer resp.Body.Close()

	if err := json.Unmarshal(body, &result); err != nil {
		return result, fmt.Errorf("failed to parse response: %w (body: %s)", err, string(body))
	}
	return result, nil
}

// WaitForService polls the health endpoint until the service is up
func WaitForService(t *testing.T, url string, timeout time.Duration) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 2 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(url + "/api/v1/health/ready")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return false
}

// RequireService skips the test when the service is not reachable
func RequireService(t *testing.T, url string) {
	t.Helper()
	if !WaitForService(t, url, 5*time.Second) {
		t.Skipf("Service at %s is not running, skipping", url)
	}
}

// KafkaHelper provides Kafka testing utilities
type KafkaHelper struct {
	brokers []string
}

// NewKafkaHelper creates a new Kafka helper
func NewKafkaHelper(brokers []string) *KafkaHelper {
	return &KafkaHelper{brokers: brokers}
}

// ScanEvent mirrors the service's event wire format
type ScanEvent struct {
	EventType     string    `json:"event_type"`
	CollectorID   string    `json:"collector_id"`
	ScanID        string    `json:"scan_id,omitempty"`
	Matched       []string  `json:"matched,omitempty"`
	DetectedCount int       `json:"detected_count,omitempty"`
	MatchedCount  int       `json:"matched_count,omitempty"`
	ListSize      int       `json:"list_size,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// ConsumeScanEvents reads events for one collector until maxEvents arrive or
// the timeout expires. Events published before afterTime are dropped so
// earlier runs don't bleed into this one.
func (k *KafkaHelper) ConsumeScanEvents(ctx context.Context, topic, groupID, collectorID string, timeout time.Duration, maxEvents int, afterTime time.Time) ([]ScanEvent, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  k.brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	})
	defer reader.Close()

	events := make([]ScanEvent, 0, maxEvents)
	deadline := time.Now().Add(timeout)

	for len(events) < maxEvents && time.Now().Before(deadline) {
		fetchCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
		msg, err := reader.FetchMessage(fetchCtx)
		cancel()

		if err != nil {
			if fetchCtx.Err() != nil {
				continue
			}
			return events, err
		}

		var event ScanEvent
		if err := json.Unmarshal(msg.Value, &event); err == nil &&
			event.CollectorID == collectorID &&
			event.Timestamp.After(afterTime) {
			events = append(events, event)
		}

		_ = reader.CommitMessages(ctx, msg)
	}

	return events, nil
}
