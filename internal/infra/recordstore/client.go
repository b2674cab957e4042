package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
	"github.com/KasumiMercury/primind-void-timer/internal/observability/logging"
	"github.com/KasumiMercury/primind-void-timer/internal/observability/tracing"
)

const (
	recordsPath   = "/api/v1/records"
	batchSavePath = "/api/v1/records:batchSave"
)

var ErrRecordRejected = errors.New("record rejected by remote store")

// Client talks to the remote record store over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: newHTTPClient(baseURL),
	}
}

// NewClientWithHTTPClient is used with test servers.
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *Client) SaveBatch(ctx context.Context, events []domain.Event) ([]domain.SaveResult, error) {
	u, err := c.endpoint(batchSavePath)
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.StartBatchSaveSpan(ctx, u, len(events))
	defer span.End()

	body, err := json.Marshal(BatchSaveRequest{Records: events})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	slog.DebugContext(ctx, "saving record batch",
		slog.String("url", u),
		slog.Int("record_count", len(events)),
	)

	resp, err := c.do(ctx, http.MethodPost, u, body)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.ErrorContext(ctx, "unexpected status code from record store",
			slog.String("url", u),
			slog.Int("status_code", resp.StatusCode),
		)
		err := fmt.Errorf("%w: unexpected status code: %d", domain.ErrRemoteTransport, resp.StatusCode)
		tracing.RecordError(span, err)
		return nil, err
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", domain.ErrRemoteTransport, err)
	}

	var decoded BatchSaveResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		slog.ErrorContext(ctx, "failed to decode batch save response",
			slog.String("error", err.Error()),
		)
		err = fmt.Errorf("%w: failed to decode response: %w", domain.ErrRemoteTransport, err)
		tracing.RecordError(span, err)
		return nil, err
	}

	results := toSaveResults(ctx, decoded.Results)
	tracing.RecordError(span, nil)
	return results, nil
}

func (c *Client) DeleteAll(ctx context.Context) error {
	u, err := c.endpoint(recordsPath)
	if err != nil {
		return err
	}

	ctx, span := tracing.StartExternalAPISpan(ctx, "delete_all", u)
	defer span.End()

	resp, err := c.do(ctx, http.MethodDelete, u, nil)
	if err != nil {
		tracing.RecordError(span, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		slog.ErrorContext(ctx, "unexpected status code when deleting records",
			slog.String("url", u),
			slog.Int("status_code", resp.StatusCode),
		)
		err := fmt.Errorf("%w: unexpected status code: %d", domain.ErrRemoteTransport, resp.StatusCode)
		tracing.RecordError(span, err)
		return err
	}

	tracing.RecordError(span, nil)
	return nil
}

func (c *Client) Fetch(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	u, err := c.endpoint(recordsPath + "/" + id.String())
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.StartExternalAPISpan(ctx, "fetch", u)
	defer span.End()

	resp, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, domain.ErrEventNotFound
	default:
		err := fmt.Errorf("%w: unexpected status code: %d", domain.ErrRemoteTransport, resp.StatusCode)
		tracing.RecordError(span, err)
		return nil, err
	}

	var event domain.Event
	if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
		return nil, fmt.Errorf("%w: failed to decode record: %w", domain.ErrRemoteTransport, err)
	}

	tracing.RecordError(span, nil)
	return &event, nil
}

func (c *Client) endpoint(path string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.Path = path
	return u.String(), nil
}

// do sends the request with request id and trace headers. Failures to reach
// the server wrap domain.ErrRemoteTransport.
func (c *Client) do(ctx context.Context, method, u string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	requestID := logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx))
	req.Header.Set("x-request-id", requestID)
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send request to record store",
			slog.String("method", method),
			slog.String("url", u),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: failed to send request: %w", domain.ErrRemoteTransport, err)
	}
	return resp, nil
}

func toSaveResults(ctx context.Context, results []RecordResult) []domain.SaveResult {
	out := make([]domain.SaveResult, 0, len(results))
	for _, r := range results {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			slog.WarnContext(ctx, "ignoring result with invalid id",
				slog.String("id", r.ID),
			)
			continue
		}

		result := domain.SaveResult{ID: id}
		if !r.Success {
			reason := r.Error
			if reason == "" {
				reason = "unknown reason"
			}
			result.Err = fmt.Errorf("%w: %s", ErrRecordRejected, reason)
		}
		out = append(out, result)
	}
	return out
}
