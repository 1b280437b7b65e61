package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"webexsheets/config"
	"webexsheets/credentials"
)

var redirectURI string

var authoriseCmd = &cobra.Command{
	Use:     "authorise",
	Aliases: []string{"authorize"},
	Short:   "Authorises access to the worksheet and the webinar platform",
	Long: `Runs the OAuth2 console flows for the Google Sheets credentials and the
Webex integration, caching the retrieved tokens in the working directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(options.credentials) == "" {
			return fmt.Errorf("--credentials is a required option")
		}

		ctx := cmd.Context()

		infof("authorising Google Sheets access")
		if err := credentials.AuthoriseGoogle(ctx, options.credentials, googleTokens()); err != nil {
			return fmt.Errorf("authorisation error (%w)", err)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store := credentials.NewTokenStore(webexTokens(), cfg.IntegrationClientID, cfg.IntegrationClientSecret, redirectURI)

		fmt.Printf("Go to the following link in your browser then type the authorization code:\n%v\n", store.AuthURL())

		var code string
		if _, err := fmt.Scan(&code); err != nil {
			return fmt.Errorf("unable to read authorization code (%w)", err)
		}

		if err := store.Exchange(ctx, code); err != nil {
			return fmt.Errorf("authorisation error (%w)", err)
		}

		infof("authorised - tokens cached in %v", options.workdir)

		return nil
	},
}

func init() {
	authoriseCmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "Redirect URI registered with the integration")

	rootCmd.AddCommand(authoriseCmd)
}
