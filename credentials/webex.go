package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// Webex integration refresh tokens are valid for 90 days but the access
// token only for 14 - refreshing at half the access token lifetime leaves
// plenty of slack for a scheduler that only wakes up every few hours.
const tokenLifetime = 14 * 24 * time.Hour

var endpoint = oauth2.Endpoint{
	AuthURL:  "https://webexapis.com/v1/authorize",
	TokenURL: "https://webexapis.com/v1/access_token",
}

var scopes = []string{
	"meeting:schedules_read",
	"meeting:schedules_write",
	"meeting:participants_read",
	"meeting:participants_write",
}

// webexToken is the on-disk token cache.
type webexToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Created      time.Time `json:"created"`
}

// TokenStore manages the Webex integration token file, refreshing the
// access token before it expires. Safe for concurrent use.
type TokenStore struct {
	guard  sync.Mutex
	file   string
	config *oauth2.Config
	now    func() time.Time
}

func NewTokenStore(file, clientID, clientSecret, redirectURL string) *TokenStore {
	return &TokenStore{
		file: file,
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     endpoint,
			RedirectURL:  redirectURL,
			Scopes:       scopes,
		},

		now: time.Now,
	}
}

// AccessToken returns a valid access token, refreshing and re-caching it
// if the stored token is past half its lifetime.
func (s *TokenStore) AccessToken(ctx context.Context) (string, error) {
	s.guard.Lock()
	defer s.guard.Unlock()

	token, err := s.load()
	if err != nil {
		return "", fmt.Errorf("no cached integration token in %s - run 'authorise' first (%w)", s.file, err)
	}

	if !stale(token.Created, s.now()) {
		return token.AccessToken, nil
	}

	refreshed, err := s.config.TokenSource(ctx, &oauth2.Token{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       time.Unix(1, 0),
	}).Token()
	if err != nil {
		return "", fmt.Errorf("unable to refresh the integration token (%w)", err)
	}

	cached := webexToken{
		AccessToken:  refreshed.AccessToken,
		RefreshToken: refreshed.RefreshToken,
		Created:      s.now(),
	}

	if cached.RefreshToken == "" {
		cached.RefreshToken = token.RefreshToken
	}

	if err := s.save(cached); err != nil {
		return "", err
	}

	return cached.AccessToken, nil
}

// AuthURL returns the URL to visit to authorise the integration.
func (s *TokenStore) AuthURL() string {
	return s.config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
}

// Exchange trades an authorisation code for tokens and caches them.
func (s *TokenStore) Exchange(ctx context.Context, code string) error {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("unable to exchange authorisation code (%w)", err)
	}

	s.guard.Lock()
	defer s.guard.Unlock()

	return s.save(webexToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Created:      s.now(),
	})
}

// Client returns an HTTP client that injects the current access token into
// every request.
func (s *TokenStore) Client() *http.Client {
	return &http.Client{
		Transport: &transport{store: s, base: http.DefaultTransport},
	}
}

func (s *TokenStore) load() (*webexToken, error) {
	f, err := os.Open(s.file)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	token := webexToken{}
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, err
	}

	return &token, nil
}

func (s *TokenStore) save(token webexToken) error {
	if err := os.MkdirAll(filepath.Dir(s.file), 0750); err != nil {
		return err
	}

	f, err := os.OpenFile(s.file, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}

func stale(created, now time.Time) bool {
	return now.Sub(created) >= tokenLifetime/2
}

type transport struct {
	store *TokenStore
	base  http.RoundTripper
}

func (t *transport) RoundTrip(rq *http.Request) (*http.Response, error) {
	token, err := t.store.AccessToken(rq.Context())
	if err != nil {
		return nil, err
	}

	authorised := rq.Clone(rq.Context())
	authorised.Header.Set("Authorization", "Bearer "+token)

	return t.base.RoundTrip(authorised)
}
