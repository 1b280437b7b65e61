package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"webexsheets/config"
	"webexsheets/credentials"
	"webexsheets/roster"
	"webexsheets/worksheet"
)

var exportFile string

// exported is the column order for TSV exports.
var exported = []string{
	roster.FieldCreate,
	roster.FieldStart,
	roster.FieldDuration,
	roster.FieldTitle,
	roster.FieldAgenda,
	roster.FieldCohosts,
	roster.FieldPanelists,
	roster.FieldWebinarID,
	roster.FieldAttendeeURL,
	roster.FieldHostKey,
	roster.FieldRegistrantCount,
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Retrieves the webinar roster and stores it to a local TSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(options.url) == "" {
			return fmt.Errorf("--url is a required option")
		}

		if strings.TrimSpace(options.area) == "" {
			return fmt.Errorf("--range is a required option")
		}

		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		spreadsheetId, err := worksheet.ParseURL(options.url)
		if err != nil {
			return err
		}

		debugf("spreadsheet - ID:%s  range:%s", spreadsheetId, options.area)

		client, err := credentials.GoogleClient(ctx, options.credentials, googleTokens())
		if err != nil {
			return fmt.Errorf("authentication/authorization error (%w)", err)
		}

		google, err := sheets.NewService(ctx, option.WithHTTPClient(client))
		if err != nil {
			return fmt.Errorf("unable to create new Sheets client (%w)", err)
		}

		source, err := worksheet.Open(google, spreadsheetId, options.area, cfg.Columns)
		if err != nil {
			return err
		}

		rows, err := source.Rows(ctx)
		if err != nil {
			return err
		}

		tmp, err := os.CreateTemp(os.TempDir(), "roster")
		if err != nil {
			return err
		}

		defer func() {
			tmp.Close()
			os.Remove(tmp.Name())
		}()

		if err := rosterToTSV(tmp, rows, cfg.Columns); err != nil {
			return fmt.Errorf("error creating TSV file (%w)", err)
		}

		tmp.Close()

		if err := os.MkdirAll(filepath.Dir(exportFile), 0770); err != nil {
			return err
		}

		if err := os.Rename(tmp.Name(), exportFile); err != nil {
			return err
		}

		infof("retrieved roster to file %s", exportFile)

		return nil
	},
}

func rosterToTSV(f io.Writer, rows []roster.Row, mapping roster.Mapping) error {
	w := csv.NewWriter(f)
	w.Comma = '\t'

	header := []string{}
	for _, field := range exported {
		header = append(header, mapping[field])
	}

	if err := w.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{}
		for _, field := range exported {
			record = append(record, row.Field(field))
		}

		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

func init() {
	getCmd.Flags().StringVar(&exportFile, "file", time.Now().Format("2006-01-02T150405.tsv"), "TSV file name")

	rootCmd.AddCommand(getCmd)
}
