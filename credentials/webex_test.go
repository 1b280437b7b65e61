package credentials

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestStale(t *testing.T) {
	created := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		now      time.Time
		expected bool
	}{
		{created, false},
		{created.Add(24 * time.Hour), false},
		{created.Add(7*24*time.Hour - time.Second), false},
		{created.Add(7 * 24 * time.Hour), true},
		{created.Add(14 * 24 * time.Hour), true},
		{created.Add(90 * 24 * time.Hour), true},
	}

	for _, test := range tests {
		if v := stale(created, test.now); v != test.expected {
			t.Errorf("incorrect staleness at %v - expected %v, got %v", test.now, test.expected, v)
		}
	}
}

func TestAccessTokenWithFreshToken(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "webex.tokens"), "client-id", "client-secret", "")

	created := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return created }

	if err := store.save(webexToken{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		Created:      created,
	}); err != nil {
		t.Fatalf("unexpected error (%v)", err)
	}

	store.now = func() time.Time { return created.Add(24 * time.Hour) }

	token, err := store.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("unexpected error (%v)", err)
	}

	if token != "access-token" {
		t.Errorf("incorrect token - expected 'access-token', got '%v'", token)
	}
}

func TestAccessTokenWithoutCachedToken(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "webex.tokens"), "client-id", "client-secret", "")

	if _, err := store.AccessToken(context.Background()); err == nil {
		t.Errorf("expected an error for a missing token cache, got nil")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "webex.tokens"), "client-id", "client-secret", "")

	expected := webexToken{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		Created:      time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := store.save(expected); err != nil {
		t.Fatalf("unexpected error (%v)", err)
	}

	token, err := store.load()
	if err != nil {
		t.Fatalf("unexpected error (%v)", err)
	}

	if token.AccessToken != expected.AccessToken || token.RefreshToken != expected.RefreshToken || !token.Created.Equal(expected.Created) {
		t.Errorf("incorrect token\n   expected: %+v\n   got:      %+v", expected, *token)
	}
}
