// Package remote talks to the system of record that owns deals and
// notifications.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/pipeboard/pipeboard/internal/deal"
)

// Sentinel errors matched with errors.Is against a *StatusError.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidStage = errors.New("invalid stage")
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 4 << 10

// Client is the set of remote operations the board depends on.
type Client interface {
	FetchDeals(ctx context.Context, scope deal.Scope) ([]deal.Deal, error)
	UpdateDealStage(ctx context.Context, dealID string, stage deal.Stage) error
	FetchPendingNotifications(ctx context.Context) ([]deal.Notification, error)
	MarkNotificationsRead(ctx context.Context, ids []string) error
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Reason  string
	Message string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Code)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, msg)
}

// Is maps response statuses onto the package sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	case ErrInvalidStage:
		return e.Reason == ReasonInvalidStage
	}
	return false
}

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	baseURL string
	viewer  deal.Scope
	http    *http.Client
}

// NewHTTPClient creates a client for baseURL acting on behalf of viewer.
// A non-positive timeout leaves requests bounded only by their context.
func NewHTTPClient(baseURL string, timeout time.Duration, viewer deal.Scope) *HTTPClient {
	hc := &http.Client{}
	if timeout > 0 {
		hc.Timeout = timeout
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		viewer:  viewer,
		http:    hc,
	}
}

// Viewer returns the scope the client acts for.
func (c *HTTPClient) Viewer() deal.Scope {
	return c.viewer
}

// FetchDeals returns the deals visible to scope, in server order.
func (c *HTTPClient) FetchDeals(ctx context.Context, scope deal.Scope) ([]deal.Deal, error) {
	q := url.Values{}
	q.Set("user", scope.UserID)
	q.Set("role", string(scope.Role))

	var out DealsResponse
	if err := c.do(ctx, http.MethodGet, PathDeals+"?"+q.Encode(), nil, &out); err != nil {
		return nil, fmt.Errorf("fetch deals: %w", err)
	}
	return out.Deals, nil
}

// UpdateDealStage moves one deal to stage.
func (c *HTTPClient) UpdateDealStage(ctx context.Context, dealID string, stage deal.Stage) error {
	path := PathDeals + "/" + url.PathEscape(dealID) + "/stage"
	return c.do(ctx, http.MethodPatch, path, StageUpdateRequest{Stage: stage}, nil)
}

func (c *HTTPClient) viewerQuery() string {
	q := url.Values{}
	q.Set("user", c.viewer.UserID)
	q.Set("role", string(c.viewer.Role))
	return "?" + q.Encode()
}

// FetchPendingNotifications returns the viewer's unread notifications.
func (c *HTTPClient) FetchPendingNotifications(ctx context.Context) ([]deal.Notification, error) {
	var out NotificationsResponse
	if err := c.do(ctx, http.MethodGet, PathPendingNotification+c.viewerQuery(), nil, &out); err != nil {
		return nil, fmt.Errorf("fetch notifications: %w", err)
	}
	return out.Notifications, nil
}

// MarkNotificationsRead acknowledges ids for the viewer.
func (c *HTTPClient) MarkNotificationsRead(ctx context.Context, ids []string) error {
	return c.do(ctx, http.MethodPost, PathMarkRead+c.viewerQuery(), MarkReadRequest{IDs: ids}, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeStatusError(method, path, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := sonic.ConfigStd.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeStatusError(method, path string, resp *http.Response) error {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	serr := &StatusError{Method: method, Path: path, Code: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body ErrorResponse
	if err := sonic.Unmarshal(raw, &body); err == nil {
		serr.Reason = body.Reason
		serr.Message = body.Error
	} else {
		serr.Message = strings.TrimSpace(string(raw))
	}
	return serr
}
