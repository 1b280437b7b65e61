package config

import (
	"testing"

	"webexsheets/roster"
)

func setRequired(t *testing.T) {
	t.Setenv("WEBEX_INTEGRATION_CLIENT_ID", "client-id")
	t.Setenv("WEBEX_INTEGRATION_CLIENT_SECRET", "client-secret")
	t.Setenv("WEBEX_BOT_TOKEN", "bot-token")
	t.Setenv("WEBEX_BOT_ROOM_ID", "room-id")
	t.Setenv("SHEETS_PARAMS", "")
	t.Setenv("WEBEX_INTEGRATION_PARAMS", "")
}

func TestLoadWithDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error returned from Load (%v)", err)
	}

	if cfg.Defaults.Duration != 60 {
		t.Errorf("Incorrect default duration - expected:%v, got:%v", 60, cfg.Defaults.Duration)
	}

	if cfg.Defaults.ReminderTime != 30 {
		t.Errorf("Incorrect default reminder time - expected:%v, got:%v", 30, cfg.Defaults.ReminderTime)
	}

	if cfg.Defaults.ScheduledType != "webinar" {
		t.Errorf("Incorrect default scheduled type - expected:%v, got:%v", "webinar", cfg.Defaults.ScheduledType)
	}

	if cfg.Columns[roster.FieldTitle] != "Title" {
		t.Errorf("Incorrect default title column - expected:%v, got:%v", "Title", cfg.Columns[roster.FieldTitle])
	}
}

func TestLoadWithMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("WEBEX_BOT_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("Expected error return for missing bot token, got %v", err)
	}
}

func TestLoadWithSheetParams(t *testing.T) {
	setRequired(t)
	t.Setenv("SHEETS_PARAMS", `{
		"columns":   { "title": "Session" },
		"nicknames": { "John": { "email": "john.doe@example.com", "name": "John Doe" } }
	}`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error returned from Load (%v)", err)
	}

	if cfg.Columns[roster.FieldTitle] != "Session" {
		t.Errorf("Incorrect title column override - expected:%v, got:%v", "Session", cfg.Columns[roster.FieldTitle])
	}

	if cfg.Columns[roster.FieldStart] != "Start Date and Time" {
		t.Errorf("Override should not replace unrelated defaults - expected:%v, got:%v", "Start Date and Time", cfg.Columns[roster.FieldStart])
	}

	if c, ok := cfg.Nicknames.Resolve("john"); !ok || c.Email != "john.doe@example.com" {
		t.Errorf("Nickname table not loaded - expected:%v, got:%v (%v)", "john.doe@example.com", c.Email, ok)
	}
}

func TestLoadWithIntegrationParams(t *testing.T) {
	setRequired(t)
	t.Setenv("WEBEX_INTEGRATION_PARAMS", `{
		"siteUrl":      "example.webex.com",
		"reminderTime": 15,
		"noCohosts":    true
	}`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error returned from Load (%v)", err)
	}

	if cfg.Defaults.SiteURL != "example.webex.com" {
		t.Errorf("Incorrect site URL - expected:%v, got:%v", "example.webex.com", cfg.Defaults.SiteURL)
	}

	if cfg.Defaults.ReminderTime != 15 {
		t.Errorf("Incorrect reminder time - expected:%v, got:%v", 15, cfg.Defaults.ReminderTime)
	}

	if !cfg.Defaults.NoCohosts {
		t.Errorf("Expected noCohosts to be set")
	}

	if cfg.Defaults.Duration != 60 {
		t.Errorf("Partial overrides should keep remaining defaults - expected:%v, got:%v", 60, cfg.Defaults.Duration)
	}
}

func TestLoadWithJoinBeforeHostParams(t *testing.T) {
	setRequired(t)
	t.Setenv("WEBEX_INTEGRATION_PARAMS", `{
		"enabledJoinBeforeHost": true,
		"joinBeforeHostMinutes": 5,
		"registration":          { "autoAcceptRequest": false, "requireEmail": true }
	}`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error returned from Load (%v)", err)
	}

	if !cfg.Defaults.EnabledJoinBeforeHost {
		t.Errorf("Expected enabledJoinBeforeHost to be set")
	}

	if cfg.Defaults.JoinBeforeHostMinutes != 5 {
		t.Errorf("Incorrect joinBeforeHostMinutes - expected:%v, got:%v", 5, cfg.Defaults.JoinBeforeHostMinutes)
	}

	if cfg.Defaults.Registration == nil || cfg.Defaults.Registration.AutoAcceptRequest || !cfg.Defaults.Registration.RequireEmail {
		t.Errorf("Incorrect registration override - got:%+v", cfg.Defaults.Registration)
	}
}

func TestLoadWithMalformedParams(t *testing.T) {
	setRequired(t)
	t.Setenv("WEBEX_INTEGRATION_PARAMS", `{"duration": "sixty"}`)

	if _, err := Load(); err == nil {
		t.Fatalf("Expected error return for malformed parameter block, got %v", err)
	}
}

func TestLoadWithInvalidDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("WEBEX_INTEGRATION_PARAMS", `{"duration": -10}`)

	if _, err := Load(); err == nil {
		t.Fatalf("Expected error return for negative duration, got %v", err)
	}
}
