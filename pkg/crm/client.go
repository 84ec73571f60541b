// Package crm is the client for the CRM's public inquiry endpoint.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/pestpro/pestpro-api/pkg/circuitbreaker"
	"github.com/pestpro/pestpro-api/pkg/httpclient"
	"github.com/pestpro/pestpro-api/pkg/logger"
	"github.com/pestpro/pestpro-api/pkg/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	serviceName     = "crm"
	inquiriesPath   = "/api/inquiries/"
	maxResponseSize = 1 << 20
)

// Inquiry is the body the CRM accepts for a new lead
type Inquiry struct {
	Name            string `json:"name"`
	Mobile          string `json:"mobile"`
	Email           string `json:"email,omitempty"`
	City            string `json:"city"`
	ServiceInterest string `json:"service_interest"`
	Message         string `json:"message"`
}

// InquiryResponse is the CRM's answer to a created inquiry. Fields holds the
// whole decoded body, which echoes the submitted values.
type InquiryResponse struct {
	ID     string
	Fields map[string]any
}

// APIError is a non-2xx answer from the CRM
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("crm returned %d: %s", e.StatusCode, e.Message)
}

// Client creates inquiries in the CRM. Each call is a single attempt; a
// breaker stops calling a CRM that keeps failing.
type Client struct {
	baseURL    string
	httpClient httpclient.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a CRM client for baseURL
func NewClient(baseURL string, httpClient httpclient.Client) *Client {
	breakerCfg := circuitbreaker.DefaultConfig("crm")
	breakerCfg.IsSuccessful = healthyReply

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		breaker:    circuitbreaker.New(breakerCfg),
	}
}

// healthyReply treats a 4xx as the CRM working: it rejected one inquiry's
// data, and the next lead must still be posted. Only transport errors and
// 5xx count toward opening the breaker.
func healthyReply(err error) bool {
	if err == nil {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError
}

// BaseURL returns the CRM base URL the client posts to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateInquiry posts one inquiry
func (c *Client) CreateInquiry(ctx context.Context, inq Inquiry) (*InquiryResponse, error) {
	start := time.Now()

	resp, err := circuitbreaker.Execute(c.breaker, func() (*InquiryResponse, error) {
		return c.createInquiry(ctx, inq)
	})

	duration := metrics.MeasureDuration(start)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordClientCall(serviceName, "create_inquiry", status, duration)
	logger.LogAPICall(serviceName, "create_inquiry", status, duration, zap.Error(err))

	return resp, err
}

func (c *Client) createInquiry(ctx context.Context, inq Inquiry) (*InquiryResponse, error) {
	payload, err := json.Marshal(inq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode inquiry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+inquiriesPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build crm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach crm: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read crm response: %w", err)
	}

	body, decodeErr := decodeBody(resp.Header.Get("Content-Type"), raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr != nil {
			body = textBody(raw)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, body)}
	}
	if decodeErr != nil {
		return nil, decodeErr
	}

	out := &InquiryResponse{ID: stringValue(body["id"]), Fields: body}
	if out.ID == "" {
		logger.Warn("CRM accepted inquiry without an id", zap.Int("status_code", resp.StatusCode))
	}
	return out, nil
}

// decodeBody reads a CRM body. JSON content types must hold a JSON object.
// Anything else is tried as JSON and otherwise wrapped as {message: text}.
func decodeBody(contentType string, raw []byte) (map[string]any, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	isJSON := mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var body map[string]any
	err := dec.Decode(&body)
	if err == nil && body != nil {
		return body, nil
	}

	if isJSON {
		if err == nil {
			err = errors.New("not a JSON object")
		}
		return nil, fmt.Errorf("malformed crm response: %w", err)
	}
	return textBody(raw), nil
}

func textBody(raw []byte) map[string]any {
	return map[string]any{"message": strings.TrimSpace(string(raw))}
}

// errorMessage picks the most useful text out of an error body: a top-level
// error, detail or message string, else the first per-field error.
func errorMessage(status int, body map[string]any) string {
	for _, key := range []string{"error", "detail", "message"} {
		if s := stringValue(body[key]); s != "" {
			return s
		}
	}

	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		list, ok := body[k].([]any)
		if !ok || len(list) == 0 {
			continue
		}
		if s := stringValue(list[0]); s != "" {
			return k + ": " + s
		}
	}

	return http.StatusText(status)
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	}
	return ""
}
