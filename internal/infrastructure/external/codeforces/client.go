// Package codeforces implements the Codeforces public API client.
package codeforces

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/cf-hub/cf-progress-hub/internal/domain/profile"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the Codeforces API client.
type ClientConfig struct {
	// BaseURL is the API base URL, normally https://codeforces.com/api
	BaseURL string

	// Timeout is the HTTP request timeout
	Timeout time.Duration

	// MinRequestInterval is the start-to-start spacing between API calls
	MinRequestInterval time.Duration

	// Logger for structured logging
	Logger *slog.Logger

	// Debug enables per-request debug logging
	Debug bool
}

// DefaultClientConfig returns sensible defaults for the anonymous API.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:            baseURL,
		Timeout:            30 * time.Second,
		MinRequestInterval: DefaultMinInterval,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// APIError is a failed API call: the judge answered with a FAILED envelope,
// the response body did not parse, or the request never completed. For
// envelope failures Comment carries the judge's own explanation
// ("handles: User with handle X not found").
type APIError struct {
	// Endpoint is the API method that failed ("user.info").
	Endpoint string

	// Comment is the judge's failure comment, may be empty.
	Comment string

	// HTTPStatus is the HTTP status code of the response, 0 when the
	// request never completed.
	HTTPStatus int

	// Err is the underlying transport or parse error, nil for envelope
	// failures.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Comment != "" {
		return fmt.Sprintf("codeforces %s: %s", e.Endpoint, e.Comment)
	}
	if e.Err != nil {
		return fmt.Sprintf("codeforces %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("codeforces %s: request failed (http %d)", e.Endpoint, e.HTTPStatus)
}

// Unwrap exposes the underlying transport or parse error.
func (e *APIError) Unwrap() error { return e.Err }

// IsAPIError reports whether err is a failed API call and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the Codeforces API client. All calls pass through a request
// gate that spaces them at least MinRequestInterval apart, and a single
// request is in flight at a time. The client never retries; callers decide
// their own retry policy.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
	gate       *RequestGate
	mapper     *Mapper

	// reqMu serializes the HTTP exchange itself.
	reqMu sync.Mutex
}

// NewClient creates a new Codeforces API client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: config.Logger,
		gate:   NewRequestGate(config.MinRequestInterval),
		mapper: NewMapper(),
	}
}

// call performs one GET against the API and returns the raw result payload.
func (c *Client) call(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	if err := c.gate.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for request slot: %w", err)
	}

	c.reqMu.Lock()
	defer c.reqMu.Unlock()

	fullURL := c.config.BaseURL + "/" + endpoint
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Endpoint: endpoint, HTTPStatus: resp.StatusCode, Err: err}
	}

	if c.config.Debug {
		c.logger.Debug("codeforces api call",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.Duration("elapsed", time.Since(start)))
	}

	// The API reports failures in the envelope, often alongside a non-200
	// status. Prefer the envelope comment when it parses.
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{Endpoint: endpoint, HTTPStatus: resp.StatusCode}
		}
		return nil, &APIError{Endpoint: endpoint, HTTPStatus: resp.StatusCode, Err: fmt.Errorf("parse response: %w", err)}
	}

	if env.Status != statusOK {
		return nil, &APIError{Endpoint: endpoint, Comment: env.Comment, HTTPStatus: resp.StatusCode}
	}

	return env.Result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// USER OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// FetchUser fetches a single user's public profile via user.info.
func (c *Client) FetchUser(ctx context.Context, handle string) (*UserDTO, error) {
	params := url.Values{}
	params.Set("handles", handle)

	result, err := c.call(ctx, "user.info", params)
	if err != nil {
		return nil, fmt.Errorf("fetch user %s: %w", handle, err)
	}

	var users []UserDTO
	if err := json.Unmarshal(result, &users); err != nil {
		return nil, fmt.Errorf("parse user.info result: %w", err)
	}
	if len(users) == 0 {
		return nil, &APIError{Endpoint: "user.info", Comment: "empty result for handle " + handle}
	}

	return &users[0], nil
}

// FetchSubmissions fetches a user's submission history via user.status.
// from is 1-based; count caps the number of returned entries.
func (c *Client) FetchSubmissions(ctx context.Context, handle string, from, count int) ([]SubmissionDTO, error) {
	if from <= 0 {
		from = 1
	}
	params := url.Values{}
	params.Set("handle", handle)
	params.Set("from", strconv.Itoa(from))
	if count > 0 {
		params.Set("count", strconv.Itoa(count))
	}

	result, err := c.call(ctx, "user.status", params)
	if err != nil {
		return nil, fmt.Errorf("fetch submissions for %s: %w", handle, err)
	}

	var subs []SubmissionDTO
	if err := json.Unmarshal(result, &subs); err != nil {
		return nil, fmt.Errorf("parse user.status result: %w", err)
	}
	return subs, nil
}

// FetchRatingHistory fetches a user's contest rating changes via user.rating.
func (c *Client) FetchRatingHistory(ctx context.Context, handle string) ([]RatingChangeDTO, error) {
	params := url.Values{}
	params.Set("handle", handle)

	result, err := c.call(ctx, "user.rating", params)
	if err != nil {
		return nil, fmt.Errorf("fetch rating history for %s: %w", handle, err)
	}

	var changes []RatingChangeDTO
	if err := json.Unmarshal(result, &changes); err != nil {
		return nil, fmt.Errorf("parse user.rating result: %w", err)
	}
	return changes, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CONTEST AND PROBLEMSET OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// FetchContests fetches the contest list via contest.list. Gym contests
// are excluded.
func (c *Client) FetchContests(ctx context.Context) ([]ContestDTO, error) {
	params := url.Values{}
	params.Set("gym", "false")

	result, err := c.call(ctx, "contest.list", params)
	if err != nil {
		return nil, fmt.Errorf("fetch contests: %w", err)
	}

	var contests []ContestDTO
	if err := json.Unmarshal(result, &contests); err != nil {
		return nil, fmt.Errorf("parse contest.list result: %w", err)
	}
	return contests, nil
}

// FetchProblemset fetches the full problem archive via problemset.problems,
// optionally filtered by tags.
func (c *Client) FetchProblemset(ctx context.Context, tags []string) (*ProblemsetDTO, error) {
	params := url.Values{}
	if len(tags) > 0 {
		// The API expects semicolon-separated tags.
		joined := tags[0]
		for _, t := range tags[1:] {
			joined += ";" + t
		}
		params.Set("tags", joined)
	}

	result, err := c.call(ctx, "problemset.problems", params)
	if err != nil {
		return nil, fmt.Errorf("fetch problemset: %w", err)
	}

	var set ProblemsetDTO
	if err := json.Unmarshal(result, &set); err != nil {
		return nil, fmt.Errorf("parse problemset.problems result: %w", err)
	}
	return &set, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN-MAPPED OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════
// These adapt the raw DTO operations to domain types for the application
// layer, which never sees a DTO.

// UserInfo fetches and maps a user's public profile.
func (c *Client) UserInfo(ctx context.Context, handle string) (*profile.UserInfo, error) {
	dto, err := c.FetchUser(ctx, handle)
	if err != nil {
		return nil, err
	}
	info := c.mapper.ToUserInfo(dto)
	return &info, nil
}

// UserSubmissions fetches and maps a user's submission history.
func (c *Client) UserSubmissions(ctx context.Context, handle string, from, count int) ([]profile.Submission, error) {
	dtos, err := c.FetchSubmissions(ctx, handle, from, count)
	if err != nil {
		return nil, err
	}
	return c.mapper.ToSubmissions(dtos), nil
}

// UpcomingContests fetches the contest list and returns the contests that
// have not started yet, mapped for display.
func (c *Client) UpcomingContests(ctx context.Context) ([]ContestInfo, error) {
	dtos, err := c.FetchContests(ctx)
	if err != nil {
		return nil, err
	}

	upcoming := make([]ContestInfo, 0)
	for _, dto := range dtos {
		info := c.mapper.ToContestInfo(dto)
		if info.IsUpcoming {
			upcoming = append(upcoming, info)
		}
	}
	return upcoming, nil
}

// UserRatingHistory fetches and maps a user's contest history.
func (c *Client) UserRatingHistory(ctx context.Context, handle string) ([]profile.ContestResult, error) {
	dtos, err := c.FetchRatingHistory(ctx, handle)
	if err != nil {
		return nil, err
	}
	return c.mapper.ToContestResults(dtos), nil
}
