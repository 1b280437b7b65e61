// Package credentials manages OAuth2 credentials for the spreadsheet and
// webinar services: the Google client credentials/token files and the
// Webex integration token store with its refresh-before-expiry handling.
package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// SHEETS is the OAuth2 scope for spreadsheet access. Read-write - the
// reconciler writes webinar IDs, attendee URLs, host keys and registrant
// counts back to the worksheet.
const SHEETS = "https://www.googleapis.com/auth/spreadsheets"

// GoogleClient returns an HTTP client authorised for the spreadsheet scope,
// using the token cached by a previous 'authorise'.
func GoogleClient(ctx context.Context, credentials, tokens string) (*http.Client, error) {
	config, err := googleConfig(credentials)
	if err != nil {
		return nil, err
	}

	token, err := tokenFromFile(tokens)
	if err != nil {
		return nil, fmt.Errorf("no cached authorisation in %s  - run 'authorise' first (%w)", tokens, err)
	}

	return config.Client(ctx, token), nil
}

// AuthoriseGoogle runs the console authorisation flow and caches the
// retrieved token.
func AuthoriseGoogle(ctx context.Context, credentials, tokens string) error {
	config, err := googleConfig(credentials)
	if err != nil {
		return err
	}

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the authorization code:\n%v\n", authURL)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return fmt.Errorf("unable to read authorization code (%w)", err)
	}

	token, err := config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("unable to retrieve token from web (%w)", err)
	}

	return saveToken(tokens, token)
}

func googleConfig(credentials string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentials)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file (%w)", err)
	}

	config, err := google.ConfigFromJSON(b, SHEETS)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials file (%w)", err)
	}

	return config, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	token := oauth2.Token{}
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, err
	}

	return &token, nil
}

func saveToken(file string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return err
	}

	f, err := os.OpenFile(file, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token (%w)", err)
	}

	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}
