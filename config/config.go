// Package config loads the process configuration from the environment:
// required credentials as plain variables, optional parameter blocks as
// JSON. Everything is parsed and validated once at startup - nothing here
// is re-read per reconciliation run.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"webexsheets/roster"
	"webexsheets/webinars"
)

// Defaults are the provider-level webinar defaults, merged into every
// webinar request where the roster row does not supply a value.
type Defaults struct {
	SiteURL               string                 `json:"siteUrl"`
	Password              string                 `json:"password"`
	PanelistPassword      string                 `json:"panelistPassword"`
	ReminderTime          int                    `json:"reminderTime"`
	ScheduledType         string                 `json:"scheduledType"`
	Timezone              string                 `json:"timezone"`
	Duration              int                    `json:"duration"`
	AlwaysInvitePanelists string                 `json:"alwaysInvitePanelists"`
	NoCohosts             bool                   `json:"noCohosts"`
	EnabledJoinBeforeHost bool                   `json:"enabledJoinBeforeHost"`
	JoinBeforeHostMinutes int                    `json:"joinBeforeHostMinutes"`
	Registration          *webinars.Registration `json:"registration"`
}

type Config struct {
	IntegrationClientID     string
	IntegrationClientSecret string
	BotToken                string
	BotRoomID               string

	Columns   roster.Mapping
	Nicknames roster.Nicknames
	Defaults  Defaults
}

// sheetParams is the SHEETS_PARAMS JSON block.
type sheetParams struct {
	Columns   map[string]string `json:"columns"`
	Nicknames roster.Nicknames  `json:"nicknames"`
}

// Load reads the environment contract:
//
//   - WEBEX_INTEGRATION_CLIENT_ID, WEBEX_INTEGRATION_CLIENT_SECRET,
//     WEBEX_BOT_TOKEN and WEBEX_BOT_ROOM_ID are required
//   - SHEETS_PARAMS optionally overrides column titles and supplies the
//     nickname table
//   - WEBEX_INTEGRATION_PARAMS optionally overrides the webinar defaults
func Load() (*Config, error) {
	cfg := Config{
		IntegrationClientID:     os.Getenv("WEBEX_INTEGRATION_CLIENT_ID"),
		IntegrationClientSecret: os.Getenv("WEBEX_INTEGRATION_CLIENT_SECRET"),
		BotToken:                os.Getenv("WEBEX_BOT_TOKEN"),
		BotRoomID:               os.Getenv("WEBEX_BOT_ROOM_ID"),

		Columns:   roster.DefaultMapping(),
		Nicknames: roster.Nicknames{},
		Defaults: Defaults{
			ScheduledType: "webinar",
			Timezone:      "UTC",
			Duration:      60,
			ReminderTime:  30,
		},
	}

	missing := []string{}
	for _, v := range []struct {
		name  string
		value string
	}{
		{"WEBEX_INTEGRATION_CLIENT_ID", cfg.IntegrationClientID},
		{"WEBEX_INTEGRATION_CLIENT_SECRET", cfg.IntegrationClientSecret},
		{"WEBEX_BOT_TOKEN", cfg.BotToken},
		{"WEBEX_BOT_ROOM_ID", cfg.BotRoomID},
	} {
		if strings.TrimSpace(v.value) == "" {
			missing = append(missing, v.name)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variable(s): %s", strings.Join(missing, ", "))
	}

	if v := os.Getenv("SHEETS_PARAMS"); v != "" {
		params := sheetParams{}
		if err := json.Unmarshal([]byte(v), &params); err != nil {
			return nil, fmt.Errorf("invalid SHEETS_PARAMS (%w)", err)
		}

		cfg.Columns = cfg.Columns.Merge(params.Columns)
		for nickname, contact := range params.Nicknames {
			cfg.Nicknames[strings.ToLower(strings.TrimSpace(nickname))] = contact
		}
	}

	if v := os.Getenv("WEBEX_INTEGRATION_PARAMS"); v != "" {
		if err := json.Unmarshal([]byte(v), &cfg.Defaults); err != nil {
			return nil, fmt.Errorf("invalid WEBEX_INTEGRATION_PARAMS (%w)", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Defaults.Duration <= 0 {
		return fmt.Errorf("invalid default duration %v - expected a positive number of minutes", c.Defaults.Duration)
	}

	if c.Defaults.ReminderTime < 0 {
		return fmt.Errorf("invalid reminder time %v - expected zero or a positive number of minutes", c.Defaults.ReminderTime)
	}

	if c.Defaults.ScheduledType != "webinar" && c.Defaults.ScheduledType != "meeting" {
		return fmt.Errorf("invalid scheduled type '%s' - expected 'webinar' or 'meeting'", c.Defaults.ScheduledType)
	}

	return nil
}
