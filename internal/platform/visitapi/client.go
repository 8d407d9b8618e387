// Package visitapi wraps the external visit-counter endpoint.
package visitapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrMissingField is returned when the endpoint answered successfully but
// the payload did not carry the counter field. Callers fall back to their
// last known value.
var ErrMissingField = errors.New("response missing SuccessfulVisits field")

// StatusError reports a non-success HTTP status from the endpoint.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("visit API returned status %d", e.Code)
}

// Doer is the minimal HTTP client surface the Client needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches the current successful-visit counter for a target uid.
// Every request is bounded by the configured timeout; the client never
// blocks indefinitely.
type Client struct {
	template string
	doer     Doer
}

// NewClient creates a Client for the given URL template. The template must
// contain a {uid} placeholder.
func NewClient(template string, timeout time.Duration) *Client {
	return &Client{
		template: template,
		doer:     &http.Client{Timeout: timeout},
	}
}

// NewClientWithDoer creates a Client that issues requests through the given
// Doer. Used by tests to stub transport behavior.
func NewClientWithDoer(template string, doer Doer) *Client {
	return &Client{template: template, doer: doer}
}

type visitResponse struct {
	SuccessfulVisits *int `json:"SuccessfulVisits"`
}

// SuccessfulVisits returns the counter value for uid.
//
// Non-2xx statuses surface as *StatusError; transport and decode failures
// as plain errors; a success payload without the counter field as
// ErrMissingField.
func (c *Client) SuccessfulVisits(ctx context.Context, uid string) (int, error) {
	endpoint := strings.ReplaceAll(c.template, "{uid}", url.QueryEscape(uid))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build visit API request: %w", err)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return 0, fmt.Errorf("visit API request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &StatusError{Code: resp.StatusCode}
	}

	var body visitResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode visit API response: %w", err)
	}
	if body.SuccessfulVisits == nil {
		return 0, ErrMissingField
	}
	return *body.SuccessfulVisits, nil
}
