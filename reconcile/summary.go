package reconcile

import (
	"fmt"
	"strings"
	"time"

	"webexsheets/roster"
)

// RowError records a roster row that could not be reconciled.
type RowError struct {
	Row   int
	Title string
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d '%s': %v", e.Row, e.Title, e.Err)
}

// WriteBackError is returned when the webinars were created or updated but
// the results could not be written back to the roster, leaving the sheet
// stale.
type WriteBackError struct {
	Err error
}

func (e *WriteBackError) Error() string {
	return fmt.Sprintf("unable to write results back to the roster (%v)", e.Err)
}

func (e *WriteBackError) Unwrap() error {
	return e.Err
}

// Summary is the outcome of a single reconciliation run.
type Summary struct {
	RunID       string
	Started     time.Time
	Elapsed     time.Duration
	Created     int
	Updated     int
	Failed      []RowError
	Registrants int
	WriteBack   *WriteBackError
	DryRun      bool
}

func (s *Summary) fail(row roster.Row, err error) {
	warnf("row %-3d failed (%v)", row.Offset, err)
	s.Failed = append(s.Failed, RowError{
		Row:   row.Offset,
		Title: row.Field(roster.FieldTitle),
		Err:   err,
	})
}

func (s *Summary) String() string {
	return fmt.Sprintf("created:%d  updated:%d  failed:%d  registrants:%d  (%v)",
		s.Created,
		s.Updated,
		len(s.Failed),
		s.Registrants,
		s.Elapsed.Round(time.Millisecond))
}

// Markdown renders the summary for the messaging channel.
func (s *Summary) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "**Webinar scheduling run complete** (run `%s`, %v)\n", s.RunID, s.Elapsed.Round(time.Millisecond))

	if s.DryRun {
		fmt.Fprintf(&b, "\n_Dry run - no changes were made._\n")
	}

	fmt.Fprintf(&b, "\n- created: %d\n", s.Created)
	fmt.Fprintf(&b, "- updated: %d\n", s.Updated)
	fmt.Fprintf(&b, "- failed: %d\n", len(s.Failed))
	fmt.Fprintf(&b, "- registrants: %d\n", s.Registrants)

	if len(s.Failed) > 0 {
		fmt.Fprintf(&b, "\n**Failures:**\n")
		for _, f := range s.Failed {
			fmt.Fprintf(&b, "- row %d '%s': %v\n", f.Row, f.Title, f.Err)
		}
	}

	if s.WriteBack != nil {
		fmt.Fprintf(&b, "\n**Write-back failed:** %v. The webinars exist but the roster is stale and should be reconciled manually.\n", s.WriteBack.Err)
	}

	return b.String()
}
