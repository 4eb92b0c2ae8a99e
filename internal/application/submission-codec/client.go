package submissioncodec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	formstate "now-hiring/internal/application/form-state"
	commonhttp "now-hiring/internal/common/http"
	"now-hiring/internal/common/logger"
	"now-hiring/internal/models"
)

var ErrSubmissionRejected = errors.New("submission rejected")

// maxResponseBytes bounds how much of the intake response the client reads.
const maxResponseBytes = 64 << 10

// Client sends a finished form to the intake endpoint.
type Client struct {
	origin    string
	http      *commonhttp.Client
	positions []string
	logger    logger.Logger
}

// NewClient builds a client posting to origin + SubmitPath. positions mirrors
// the catalog the form offers and feeds the pre-send check.
func NewClient(origin string, httpClient *commonhttp.Client, positions []string, log logger.Logger) *Client {
	return &Client{
		origin:    strings.TrimRight(origin, "/"),
		http:      httpClient,
		positions: positions,
		logger:    log.WithFields(map[string]interface{}{"component": "submission-client"}),
	}
}

// Submit validates the record and posts it. A record that fails the pre-send
// check never reaches the network. A non-success response is returned as
// ErrSubmissionRejected together with the decoded Result.
func (c *Client) Submit(ctx context.Context, record *models.ApplicationRecord) (*Result, error) {
	if err := formstate.ValidateForSubmit(record, c.positions); err != nil {
		return nil, err
	}

	payload, err := Encode(record)
	if err != nil {
		return nil, err
	}
	body, contentType, err := payload.Body()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.origin+SubmitPath, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.DoWithContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("post submission: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		result = Result{Error: strings.TrimSpace(string(raw))}
	}

	if resp.StatusCode != http.StatusOK || !result.Success {
		if result.Error == "" {
			result.Error = http.StatusText(resp.StatusCode)
		}
		c.logger.Warn("submission rejected", map[string]interface{}{
			"status": resp.StatusCode,
			"code":   result.Code,
			"error":  result.Error,
		})
		return &result, fmt.Errorf("%w (%d): %s", ErrSubmissionRejected, resp.StatusCode, result.Error)
	}

	c.logger.Info("submission accepted", map[string]interface{}{"id": result.ID})
	return &result, nil
}
