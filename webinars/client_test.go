package webinars

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)

	client := New(srv.Client())
	client.base = srv.URL

	return client, srv
}

func TestCreate(t *testing.T) {
	var request Webinar

	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		if rq.Method != http.MethodPost || rq.URL.Path != "/meetings" {
			t.Errorf("Incorrect request - expected:%v %v, got:%v %v", http.MethodPost, "/meetings", rq.Method, rq.URL.Path)
		}

		if err := json.NewDecoder(rq.Body).Decode(&request); err != nil {
			t.Fatalf("Unexpected error decoding request (%v)", err)
		}

		json.NewEncoder(w).Encode(Webinar{
			ID:      "abc123",
			Title:   request.Title,
			HostKey: "123456",
			WebLink: "https://example.webex.com/join/abc123",
		})
	}))
	defer srv.Close()

	created, err := client.Create(context.Background(), &Webinar{
		Title:         "Q1 Review",
		Start:         "2024-01-10T15:00:00Z",
		End:           "2024-01-10T16:00:00Z",
		ScheduledType: "webinar",
	})
	if err != nil {
		t.Fatalf("Unexpected error returned from Create (%v)", err)
	}

	if request.ScheduledType != "webinar" {
		t.Errorf("Incorrect scheduled type in request - expected:%v, got:%v", "webinar", request.ScheduledType)
	}

	if created.ID != "abc123" || created.HostKey != "123456" {
		t.Errorf("Incorrect response - expected:%v/%v, got:%v/%v", "abc123", "123456", created.ID, created.HostKey)
	}

	if created.AttendeeURL() != "https://example.webex.com/join/abc123" {
		t.Errorf("Incorrect attendee URL - expected:%v, got:%v", "https://example.webex.com/join/abc123", created.AttendeeURL())
	}
}

func TestUpdate(t *testing.T) {
	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		if rq.Method != http.MethodPut || rq.URL.Path != "/meetings/abc123" {
			t.Errorf("Incorrect request - expected:%v %v, got:%v %v", http.MethodPut, "/meetings/abc123", rq.Method, rq.URL.Path)
		}

		json.NewEncoder(w).Encode(Webinar{ID: "abc123", Title: "Q1 Review (updated)"})
	}))
	defer srv.Close()

	updated, err := client.Update(context.Background(), "abc123", &Webinar{Title: "Q1 Review (updated)"})
	if err != nil {
		t.Fatalf("Unexpected error returned from Update (%v)", err)
	}

	if updated.Title != "Q1 Review (updated)" {
		t.Errorf("Incorrect title - expected:%v, got:%v", "Q1 Review (updated)", updated.Title)
	}
}

func TestAuthError(t *testing.T) {
	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "The request requires a valid access token"})
	}))
	defer srv.Close()

	_, err := client.Get(context.Background(), "abc123")

	var auth *AuthError
	if !errors.As(err, &auth) {
		t.Fatalf("Expected AuthError, got %v", err)
	}

	if auth.Status != http.StatusUnauthorized {
		t.Errorf("Incorrect status - expected:%v, got:%v", http.StatusUnauthorized, auth.Status)
	}
}

func TestRateLimitError(t *testing.T) {
	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		w.Header().Set("Retry-After", "17")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := client.Get(context.Background(), "abc123")

	var limited *RateLimitError
	if !errors.As(err, &limited) {
		t.Fatalf("Expected RateLimitError, got %v", err)
	}

	if limited.RetryAfter != 17*time.Second {
		t.Errorf("Incorrect Retry-After - expected:%v, got:%v", 17*time.Second, limited.RetryAfter)
	}
}

func TestValidationError(t *testing.T) {
	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "The request is invalid",
			"errors": []map[string]string{
				{"description": "start must be before end"},
			},
		})
	}))
	defer srv.Close()

	_, err := client.Create(context.Background(), &Webinar{Title: "Q1 Review"})

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}

	if len(validation.Details) != 1 || validation.Details[0] != "start must be before end" {
		t.Errorf("Incorrect details - expected:%v, got:%v", []string{"start must be before end"}, validation.Details)
	}
}

func TestTransportError(t *testing.T) {
	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {}))
	srv.Close()

	_, err := client.Get(context.Background(), "abc123")

	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("Expected TransportError, got %v", err)
	}
}

func TestInvitees(t *testing.T) {
	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		if rq.URL.Path != "/meetingInvitees" {
			t.Errorf("Incorrect path - expected:%v, got:%v", "/meetingInvitees", rq.URL.Path)
		}

		if rq.URL.Query().Get("meetingId") != "abc123" {
			t.Errorf("Incorrect meetingId - expected:%v, got:%v", "abc123", rq.URL.Query().Get("meetingId"))
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []Invitee{
				{ID: "i1", Email: "john.doe@example.com", DisplayName: "John Doe", Panelist: true, CoHost: true},
				{ID: "i2", Email: "alice@example.com", DisplayName: "Alice", Panelist: true},
			},
		})
	}))
	defer srv.Close()

	invitees, err := client.Invitees(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Unexpected error returned from Invitees (%v)", err)
	}

	if len(invitees) != 2 {
		t.Fatalf("Incorrect number of invitees - expected:%v, got:%v", 2, len(invitees))
	}

	if !invitees[0].CoHost || invitees[1].CoHost {
		t.Errorf("Incorrect cohost flags - got:%v %v", invitees[0].CoHost, invitees[1].CoHost)
	}
}

func TestInviteesPagination(t *testing.T) {
	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		switch rq.URL.Query().Get("offset") {
		case "":
			w.Header().Set("Link", "<http://"+rq.Host+"/meetingInvitees?meetingId=abc123&offset=100>; rel=\"next\"")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"items": []Invitee{
					{ID: "i1", Email: "john.doe@example.com", Panelist: true},
				},
			})

		case "100":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"items": []Invitee{
					{ID: "i2", Email: "alice@example.com", Panelist: true},
				},
			})

		default:
			t.Errorf("Unexpected offset %v", rq.URL.Query().Get("offset"))
		}
	}))
	defer srv.Close()

	invitees, err := client.Invitees(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Unexpected error returned from Invitees (%v)", err)
	}

	if len(invitees) != 2 {
		t.Fatalf("Incorrect number of invitees - expected:%v, got:%v", 2, len(invitees))
	}

	if invitees[0].ID != "i1" || invitees[1].ID != "i2" {
		t.Errorf("Incorrect invitees - got:%v %v", invitees[0].ID, invitees[1].ID)
	}
}

func TestRegistrants(t *testing.T) {
	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		if rq.URL.Path != "/meetings/abc123/registrants" {
			t.Errorf("Incorrect path - expected:%v, got:%v", "/meetings/abc123/registrants", rq.URL.Path)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]string{{"id": "r1"}, {"id": "r2"}, {"id": "r3"}},
		})
	}))
	defer srv.Close()

	count, err := client.Registrants(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Unexpected error returned from Registrants (%v)", err)
	}

	if count != 3 {
		t.Errorf("Incorrect registrant count - expected:%v, got:%v", 3, count)
	}
}

func TestRegistrantsPagination(t *testing.T) {
	records := func(n int) []map[string]string {
		items := []map[string]string{}
		for i := 0; i < n; i++ {
			items = append(items, map[string]string{"id": fmt.Sprintf("r%d", i)})
		}

		return items
	}

	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		switch rq.URL.Query().Get("offset") {
		case "":
			w.Header().Set("Link", "<http://"+rq.Host+"/meetings/abc123/registrants?max=100&offset=100>; rel=\"next\"")
			json.NewEncoder(w).Encode(map[string]interface{}{"items": records(100)})

		case "100":
			json.NewEncoder(w).Encode(map[string]interface{}{"items": records(42)})

		default:
			t.Errorf("Unexpected offset %v", rq.URL.Query().Get("offset"))
		}
	}))
	defer srv.Close()

	count, err := client.Registrants(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Unexpected error returned from Registrants (%v)", err)
	}

	if count != 142 {
		t.Errorf("Incorrect registrant count - expected:%v, got:%v", 142, count)
	}
}

func TestNextLink(t *testing.T) {
	response := http.Response{Header: http.Header{}}
	response.Header.Set("Link", `<https://webexapis.com/v1/meetingInvitees?meetingId=abc123&offset=100>; rel="next"`)

	if v := nextLink(&response); v != "https://webexapis.com/v1/meetingInvitees?meetingId=abc123&offset=100" {
		t.Errorf("Incorrect next link - got:%v", v)
	}

	response.Header.Set("Link", `<https://webexapis.com/v1/meetingInvitees?meetingId=abc123>; rel="prev"`)

	if v := nextLink(&response); v != "" {
		t.Errorf("Expected no next link, got:%v", v)
	}
}
