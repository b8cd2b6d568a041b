package api

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/covidwatch/internal/models"
	"golang.org/x/net/context/ctxhttp"
)

const (
	userAgent      = "covidwatch/1.0"
	defaultTimeout = 20 * time.Second
	maxErrorBody   = 512 // bytes of an error response kept for the log
)

// StatsClient fetches per-country statistics from a disease.sh compatible endpoint
type StatsClient struct {
	httpClient *http.Client
	endpoint   string
	logger     *log.Logger
}

// NewStatsClient creates a client for endpoint. A nil logger disables logging
// and a non-positive timeout falls back to 20 seconds.
func NewStatsClient(endpoint string, timeout time.Duration, logger *log.Logger) *StatsClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &StatsClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		endpoint: endpoint,
		logger:   logger,
	}
}

// Endpoint returns the URL the client fetches from
func (c *StatsClient) Endpoint() string {
	return c.endpoint
}

// FetchCountries performs one GET against the endpoint and returns the records
// in upstream order. It never retries.
func (c *StatsClient) FetchCountries(ctx context.Context) ([]models.CountryRecord, error) {
	req, err := http.NewRequest(http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, &FetchError{URL: c.endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")

	if c.logger != nil {
		c.logger.Debug("GET", "endpoint", c.endpoint)
	}

	start := time.Now()
	resp, err := ctxhttp.Do(ctx, c.httpClient, req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Request failed", "url", c.endpoint, "error", err)
		}
		return nil, &FetchError{URL: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if c.logger != nil {
			c.logger.Error("API error", "status", resp.StatusCode, "response", string(body))
		}
		return nil, &FetchError{
			URL:        c.endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", http.StatusText(resp.StatusCode)),
		}
	}

	// Go's transport only decompresses transparently when it set the header itself
	var reader io.Reader = resp.Body
	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Encoding")), "gzip") {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, &ParseError{URL: c.endpoint, Err: fmt.Errorf("failed to create gzip reader: %w", err)}
		}
		defer gzReader.Close()
		reader = gzReader
	}

	records, err := DecodeCountries(reader)
	if err != nil {
		// A body cut off by the timeout or a cancelled context is a transport failure
		if isTransportError(ctx, err) {
			return nil, &FetchError{URL: c.endpoint, StatusCode: resp.StatusCode, Err: err}
		}
		if c.logger != nil {
			c.logger.Error("Failed to decode response", "url", c.endpoint, "error", err)
		}
		return nil, &ParseError{URL: c.endpoint, Err: err}
	}

	if c.logger != nil {
		c.logger.Info("Countries fetched", "records", len(records), "status", resp.StatusCode, "elapsed", time.Since(start).Round(time.Millisecond))
	}

	return records, nil
}

// isTransportError reports whether a body read failed because the connection
// timed out or the caller gave up
func isTransportError(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// DecodeCountries parses a JSON array of country payloads
func DecodeCountries(r io.Reader) ([]models.CountryRecord, error) {
	dec := json.NewDecoder(r)
	var payloads []models.CountryPayload
	if err := dec.Decode(&payloads); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if payloads == nil {
		// JSON null decodes without error but is not an array
		return nil, errors.New("response is not a JSON array")
	}
	// The array must be the whole body; only whitespace may follow it
	var extra json.RawMessage
	switch err := dec.Decode(&extra); {
	case err == nil:
		return nil, errors.New("unexpected data after JSON array")
	case !errors.Is(err, io.EOF):
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	records := make([]models.CountryRecord, 0, len(payloads))
	for i := range payloads {
		record, err := payloads[i].ToRecord()
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		records = append(records, record)
	}
	return records, nil
}
