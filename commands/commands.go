// Package commands implements the CLI: scheduling runs (one-shot and
// daemonised), the OAuth2 authorisation flows and a worksheet export.
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"webexsheets/config"
	"webexsheets/credentials"
	"webexsheets/notify"
	"webexsheets/reconcile"
	"webexsheets/webinars"
	"webexsheets/worksheet"
)

const APP = "webexsheets"

var VERSION = "v0.1.0"

var options = struct {
	workdir     string
	credentials string
	url         string
	area        string
	debug       bool
}{
	workdir:     DEFAULT_WORKDIR,
	credentials: DEFAULT_CREDENTIALS,
}

var rootCmd = &cobra.Command{
	Use:   APP,
	Short: "Schedules webinars from a worksheet",
	Long: `webexsheets reads a webinar roster from a Google Sheets worksheet, creates
or updates the webinars on Webex, and writes the webinar IDs, attendee URLs,
host keys and registrant counts back to the worksheet.`,
	SilenceUsage: true,
}

func Execute() {
	rootCmd.Version = VERSION
	rootCmd.SetVersionTemplate(fmt.Sprintf("%s version {{.Version}}\n", APP))

	if err := rootCmd.Execute(); err != nil {
		errorf("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&options.workdir, "workdir", options.workdir, "Directory for working files (tokens, etc)")
	rootCmd.PersistentFlags().StringVar(&options.credentials, "credentials", options.credentials, "Path for the Google 'credentials.json' file")
	rootCmd.PersistentFlags().StringVar(&options.url, "url", options.url, "Spreadsheet URL")
	rootCmd.PersistentFlags().StringVar(&options.area, "range", options.area, "Worksheet range e.g. 'Webinars!A1:K'")
	rootCmd.PersistentFlags().BoolVar(&options.debug, "debug", options.debug, "Enables debugging information")
}

func googleTokens() string {
	return filepath.Join(options.workdir, ".google", "tokens.json")
}

func webexTokens() string {
	return filepath.Join(options.workdir, ".webex", "tokens.json")
}

// open wires the full reconciler stack from the environment configuration
// and the cached credentials.
func open(ctx context.Context) (*reconcile.Reconciler, *notify.Bot, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	spreadsheetId, err := worksheet.ParseURL(options.url)
	if err != nil {
		return nil, nil, err
	}

	client, err := credentials.GoogleClient(ctx, options.credentials, googleTokens())
	if err != nil {
		return nil, nil, fmt.Errorf("authentication/authorization error (%w)", err)
	}

	google, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	source, err := worksheet.Open(google, spreadsheetId, options.area, cfg.Columns)
	if err != nil {
		return nil, nil, err
	}

	store := credentials.NewTokenStore(webexTokens(), cfg.IntegrationClientID, cfg.IntegrationClientSecret, "")
	provider := webinars.New(store.Client())

	bot, err := notify.NewBot(cfg.BotToken, cfg.BotRoomID)
	if err != nil {
		return nil, nil, err
	}

	return reconcile.New(source, provider, cfg.Defaults, cfg.Nicknames), bot, nil
}

func debugf(format string, args ...any) {
	if options.debug {
		log.Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
	}
}

func infof(format string, args ...any) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func warnf(format string, args ...any) {
	log.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}

func errorf(format string, args ...any) {
	log.Printf("%-5s %s", "ERROR", fmt.Sprintf(format, args...))
}
