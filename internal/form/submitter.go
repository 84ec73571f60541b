package form

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pestpro/pestpro-api/internal/models"
	"github.com/pestpro/pestpro-api/pkg/httpclient"
)

// Routes maps each form kind to the intake route it posts to.
var Routes = map[Kind]string{
	KindQuote:     "/api/send-quote",
	KindContact:   "/api/contact",
	KindHomeQuote: "/api/home-quote",
}

// HTTPSubmitter posts forms to a running intake API.
type HTTPSubmitter struct {
	baseURL string
	client  httpclient.Client
}

// NewHTTPSubmitter creates a submitter for the API at baseURL
func NewHTTPSubmitter(baseURL string, client httpclient.Client) *HTTPSubmitter {
	return &HTTPSubmitter{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Submit posts d to the route for kind. A 200 maps to a success outcome and
// any other status to a failure carrying the server's error text and field
// errors. Only transport problems are returned as errors.
func (s *HTTPSubmitter) Submit(ctx context.Context, kind Kind, d Data) (*models.SubmissionOutcome, error) {
	route, ok := Routes[kind]
	if !ok {
		return nil, fmt.Errorf("no route for form kind %q", kind)
	}

	body, err := json.Marshal(RequestBody(kind, d))
	if err != nil {
		return nil, fmt.Errorf("failed to encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+route, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to submit form: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		var ok models.SubmissionResponse
		if err := json.Unmarshal(raw, &ok); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		outcome := models.Success(ok.Message, ok.CRMSubmitted)
		outcome.SubmissionID = ok.SubmissionID
		return outcome, nil
	}

	var failed models.ErrorResponse
	if err := json.Unmarshal(raw, &failed); err != nil || failed.Error == "" {
		return models.Failure(GenericFailureMessage), nil
	}
	outcome := models.Failure(failed.Error)
	if len(failed.Details) > 0 {
		outcome.FieldErrors = failed.Details
	}
	return outcome, nil
}
