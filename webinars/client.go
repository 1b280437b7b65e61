// Package webinars is a typed client for the Webex meetings REST API,
// covering the webinar scheduling surface the reconciler needs: meetings
// create/update/get, invitee management and registrant counts. Errors are
// classified by HTTP status into the taxonomy the reconciler's retry policy
// keys on.
package webinars

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"
)

const BaseURL = "https://webexapis.com/v1"

// DefaultTimeout bounds a single API call. Timeouts are classified as
// transport errors and retried once.
const DefaultTimeout = 30 * time.Second

type Client struct {
	base    string
	client  *http.Client
	timeout time.Duration
}

// New creates a client around an authenticated HTTP client (typically
// oauth2.NewClient with the integration token source).
func New(client *http.Client) *Client {
	return &Client{
		base:    BaseURL,
		client:  client,
		timeout: DefaultTimeout,
	}
}

// Create schedules a new webinar.
func (c *Client) Create(ctx context.Context, w *Webinar) (*Webinar, error) {
	created := Webinar{}
	if err := c.do(ctx, http.MethodPost, "/meetings", nil, w, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

// Update reschedules an existing webinar.
func (c *Client) Update(ctx context.Context, id string, w *Webinar) (*Webinar, error) {
	updated := Webinar{}
	if err := c.do(ctx, http.MethodPut, "/meetings/"+url.PathEscape(id), nil, w, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// Get retrieves a webinar by provider identifier.
func (c *Client) Get(ctx context.Context, id string) (*Webinar, error) {
	w := Webinar{}
	if err := c.do(ctx, http.MethodGet, "/meetings/"+url.PathEscape(id), nil, nil, &w); err != nil {
		return nil, err
	}

	return &w, nil
}

// Invitees lists the invitees for a webinar, panelists included, following
// the provider's pagination links.
func (c *Client) Invitees(ctx context.Context, meetingID string) ([]Invitee, error) {
	query := url.Values{}
	query.Set("meetingId", meetingID)
	query.Set("panelist", "true")
	query.Set("max", "100")

	invitees := []Invitee{}

	endpoint := c.base + "/meetingInvitees?" + query.Encode()
	for endpoint != "" {
		page := struct {
			Items []Invitee `json:"items"`
		}{}

		next, err := c.page(ctx, endpoint, &page)
		if err != nil {
			return nil, err
		}

		invitees = append(invitees, page.Items...)
		endpoint = next
	}

	return invitees, nil
}

// Invite adds an invitee to a webinar.
func (c *Client) Invite(ctx context.Context, invitee Invitee) (*Invitee, error) {
	created := Invitee{}
	if err := c.do(ctx, http.MethodPost, "/meetingInvitees", nil, &invitee, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

// UpdateInvitee changes an invitee's display name or privileges.
func (c *Client) UpdateInvitee(ctx context.Context, id string, invitee Invitee) (*Invitee, error) {
	updated := Invitee{}
	if err := c.do(ctx, http.MethodPut, "/meetingInvitees/"+url.PathEscape(id), nil, &invitee, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// Uninvite removes an invitee from a webinar.
func (c *Client) Uninvite(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/meetingInvitees/"+url.PathEscape(id), nil, nil, nil)
}

// Registrants returns the number of registrants for a webinar, counting
// across all pages.
func (c *Client) Registrants(ctx context.Context, meetingID string) (int, error) {
	query := url.Values{}
	query.Set("max", "100")

	count := 0

	endpoint := c.base + "/meetings/" + url.PathEscape(meetingID) + "/registrants?" + query.Encode()
	for endpoint != "" {
		page := struct {
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
		}{}

		next, err := c.page(ctx, endpoint, &page)
		if err != nil {
			return 0, err
		}

		count += len(page.Items)
		endpoint = next
	}

	return count, nil
}

// apiError is the provider's error response body.
type apiError struct {
	Message string `json:"message"`
	Errors  []struct {
		Description string `json:"description"`
	} `json:"errors"`
	TrackingID string `json:"trackingId"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding request (%w)", err)
		}

		payload = bytes.NewReader(encoded)
	}

	endpoint := c.base + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	rq, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}

	rq.Header.Set("Content-Type", "application/json")

	response, err := c.client.Do(rq)
	if err != nil {
		return &TransportError{Err: err}
	}

	defer response.Body.Close()

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		if out == nil {
			return nil
		}

		if err := json.NewDecoder(response.Body).Decode(out); err != nil {
			return fmt.Errorf("error decoding response (%w)", err)
		}

		return nil
	}

	return classify(response)
}

// page fetches one page of a list endpoint and returns the URL of the next
// page from the RFC 5988 Link header, or "" on the last page.
func (c *Client) page(ctx context.Context, endpoint string, out interface{}) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	response, err := c.client.Do(rq)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	defer response.Body.Close()

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		if err := json.NewDecoder(response.Body).Decode(out); err != nil {
			return "", fmt.Errorf("error decoding response (%w)", err)
		}

		return nextLink(response), nil
	}

	return "", classify(response)
}

var link = regexp.MustCompile(`<([^>]+)>\s*;\s*rel="next"`)

func nextLink(response *http.Response) string {
	for _, v := range response.Header.Values("Link") {
		if match := link.FindStringSubmatch(v); match != nil {
			return match[1]
		}
	}

	return ""
}

func classify(response *http.Response) error {
	e := apiError{}
	if encoded, err := io.ReadAll(response.Body); err == nil {
		json.Unmarshal(encoded, &e)
	}

	message := e.Message
	if message == "" {
		message = http.StatusText(response.StatusCode)
	}

	switch response.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{
			Status:  response.StatusCode,
			Message: message,
		}

	case http.StatusTooManyRequests:
		retryAfter := 5 * time.Second
		if v, err := strconv.Atoi(response.Header.Get("Retry-After")); err == nil && v > 0 {
			retryAfter = time.Duration(v) * time.Second
		}

		return &RateLimitError{
			RetryAfter: retryAfter,
			Message:    message,
		}

	case http.StatusBadRequest, http.StatusNotFound, http.StatusConflict:
		details := []string{}
		for _, detail := range e.Errors {
			details = append(details, detail.Description)
		}

		return &ValidationError{
			Status:  response.StatusCode,
			Message: message,
			Details: details,
		}

	default:
		return fmt.Errorf("unexpected response from provider (%d %s)", response.StatusCode, message)
	}
}
