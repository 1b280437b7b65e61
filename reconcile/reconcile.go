// Package reconcile implements the webinar scheduling pass: roster rows
// flagged for creation are matched against the provider's webinar catalog,
// created or updated as needed, and the results staged back onto the roster.
// Failures are recorded per row - a run is never all-or-nothing.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"webexsheets/config"
	"webexsheets/roster"
	"webexsheets/webinars"
)

// Source is the list data source holding the webinar roster.
type Source interface {
	Rows(ctx context.Context) ([]roster.Row, error)
	Apply(ctx context.Context, updates []roster.Update) error
}

// Provider is the remote webinar platform.
type Provider interface {
	Create(ctx context.Context, w *webinars.Webinar) (*webinars.Webinar, error)
	Update(ctx context.Context, id string, w *webinars.Webinar) (*webinars.Webinar, error)
	Get(ctx context.Context, id string) (*webinars.Webinar, error)
	Invitees(ctx context.Context, meetingID string) ([]webinars.Invitee, error)
	Invite(ctx context.Context, invitee webinars.Invitee) (*webinars.Invitee, error)
	UpdateInvitee(ctx context.Context, id string, invitee webinars.Invitee) (*webinars.Invitee, error)
	Uninvite(ctx context.Context, id string) error
	Registrants(ctx context.Context, meetingID string) (int, error)
}

// Notifier reports a completed run. Best-effort - implementations never
// return an error.
type Notifier interface {
	Report(ctx context.Context, summary *Summary)
}

type Reconciler struct {
	Source    Source
	Provider  Provider
	Defaults  config.Defaults
	Nicknames roster.Nicknames
	DryRun    bool

	now   func() time.Time
	sleep func(ctx context.Context, delay time.Duration) error
}

func New(source Source, provider Provider, defaults config.Defaults, nicknames roster.Nicknames) *Reconciler {
	return &Reconciler{
		Source:    source,
		Provider:  provider,
		Defaults:  defaults,
		Nicknames: nicknames,

		now: time.Now,
	}
}

// Run executes one reconciliation pass. Rows not flagged for creation are
// never sent to the provider; rows with a webinar ID are updated, the rest
// created. Write-backs are staged per row and applied in a single pass at
// the end - a failed write-back is surfaced in the summary since the
// webinars then exist without being reflected in the roster.
func (r *Reconciler) Run(ctx context.Context, runID string) (*Summary, error) {
	summary := Summary{
		RunID:   runID,
		Started: r.now(),
		DryRun:  r.DryRun,
	}

	finish := func() *Summary {
		summary.Elapsed = r.now().Sub(summary.Started)
		return &summary
	}

	rows, err := r.Source.Rows(ctx)
	if err != nil {
		return finish(), fmt.Errorf("unable to read the webinar roster (%w)", err)
	}

	updates := []roster.Update{}

	var abort error

	for _, row := range rows {
		if !row.Create() {
			continue
		}

		webinar, invites, err := r.build(row)
		if err != nil {
			summary.fail(row, err)
			continue
		}

		var staged []roster.Update
		if id := row.WebinarID(); id == "" {
			staged, err = r.create(ctx, row, webinar, invites, &summary)
		} else {
			staged, err = r.update(ctx, row, id, webinar, invites, &summary)
		}

		if err != nil {
			summary.fail(row, err)
			if isAuthError(err) {
				// credentials are process-wide - the remaining rows would all fail
				abort = fmt.Errorf("run aborted - %w", err)
				break
			}

			continue
		}

		updates = append(updates, staged...)
	}

	if r.DryRun {
		infof("dry run - skipping write-back of %d staged value(s)", len(updates))
		return finish(), abort
	}

	// results from rows that did succeed are written back even on an
	// aborted run - otherwise the next run would recreate those webinars
	if len(updates) > 0 {
		if err := r.Source.Apply(ctx, updates); err != nil {
			summary.WriteBack = &WriteBackError{Err: err}
		}
	}

	return finish(), abort
}

func (r *Reconciler) create(ctx context.Context, row roster.Row, webinar *webinars.Webinar, invites *plan, summary *Summary) ([]roster.Update, error) {
	if r.DryRun {
		infof("row %-3d would create webinar '%s'", row.Offset, webinar.Title)
		summary.Created++
		return nil, nil
	}

	var created *webinars.Webinar

	if err := r.call(ctx, func() error {
		w, err := r.Provider.Create(ctx, webinar)
		created = w
		return err
	}); err != nil {
		return nil, err
	}

	infof("row %-3d created webinar '%s' (%s)", row.Offset, created.Title, created.ID)
	summary.Created++

	if err := r.syncInvitees(ctx, created.ID, invites); err != nil {
		warnf("row %-3d could not reconcile invitees for '%s' (%v)", row.Offset, webinar.Title, err)
	}

	// a just-created webinar has no registrants yet
	return []roster.Update{
		{Offset: row.Offset, Field: roster.FieldWebinarID, Value: created.ID},
		{Offset: row.Offset, Field: roster.FieldAttendeeURL, Value: created.AttendeeURL()},
		{Offset: row.Offset, Field: roster.FieldHostKey, Value: created.HostKey},
		{Offset: row.Offset, Field: roster.FieldRegistrantCount, Value: "0"},
	}, nil
}

func (r *Reconciler) update(ctx context.Context, row roster.Row, id string, webinar *webinars.Webinar, invites *plan, summary *Summary) ([]roster.Update, error) {
	if r.DryRun {
		infof("row %-3d would update webinar '%s' (%s)", row.Offset, webinar.Title, id)
		summary.Updated++
		return nil, nil
	}

	var current *webinars.Webinar

	if err := r.call(ctx, func() error {
		w, err := r.Provider.Get(ctx, id)
		current = w
		return err
	}); err != nil {
		return nil, err
	}

	rescheduled := webinar.Title != current.Title ||
		!sameTime(webinar.Start, current.Start) ||
		!sameTime(webinar.End, current.End)

	if rescheduled || webinar.Agenda != current.Agenda {
		// the provider requires a password on update
		if webinar.Password == "" {
			webinar.Password = current.Password
		}

		webinar.SendEmail = &rescheduled

		if err := r.call(ctx, func() error {
			_, err := r.Provider.Update(ctx, id, webinar)
			return err
		}); err != nil {
			return nil, err
		}

		infof("row %-3d updated webinar '%s' (%s)", row.Offset, webinar.Title, id)
	} else {
		infof("row %-3d webinar '%s' (%s) is unchanged", row.Offset, webinar.Title, id)
	}

	summary.Updated++

	staged := []roster.Update{}

	count := 0
	if err := r.call(ctx, func() error {
		n, err := r.Provider.Registrants(ctx, id)
		count = n
		return err
	}); err != nil {
		warnf("row %-3d could not refresh registrant count for '%s' (%v)", row.Offset, webinar.Title, err)
	} else {
		summary.Registrants += count
		staged = append(staged, roster.Update{Offset: row.Offset, Field: roster.FieldRegistrantCount, Value: strconv.Itoa(count)})
	}

	if err := r.syncInvitees(ctx, id, invites); err != nil {
		warnf("row %-3d could not reconcile invitees for '%s' (%v)", row.Offset, webinar.Title, err)
	}

	return staged, nil
}

// plan is the invite list for one webinar, resolved from the roster row and
// the 'always invite' defaults.
type plan struct {
	cohosts   []roster.Contact
	panelists []roster.Contact
}

func (r *Reconciler) build(row roster.Row) (*webinars.Webinar, *plan, error) {
	title := row.Field(roster.FieldTitle)
	if title == "" {
		return nil, nil, fmt.Errorf("title is required")
	}

	v := row.Field(roster.FieldStart)
	if v == "" {
		return nil, nil, fmt.Errorf("start date/time is required")
	}

	start, err := parseStart(v)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid start date/time '%s'", v)
	}

	duration := r.Defaults.Duration
	if v := row.Field(roster.FieldDuration); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return nil, nil, fmt.Errorf("invalid duration '%s'", v)
		}

		duration = int(f)
	}

	timezone := r.Defaults.Timezone
	if v := row.Field(roster.FieldTimezone); v != "" {
		timezone = v
	}

	reminder := r.Defaults.ReminderTime
	if !r.now().Before(start.Add(-time.Duration(reminder) * time.Minute)) {
		// too late for a reminder
		reminder = 0
	}

	// registration is enabled by default unless overridden site-wide
	registration := r.Defaults.Registration
	if registration == nil {
		registration = &webinars.Registration{
			AutoAcceptRequest: true,
			RequireFirstName:  true,
			RequireLastName:   true,
			RequireEmail:      true,
		}
	}

	webinar := webinars.Webinar{
		Title:                 title,
		Agenda:                row.Field(roster.FieldAgenda),
		Start:                 start.UTC().Format(timestamp),
		End:                   start.Add(time.Duration(duration) * time.Minute).UTC().Format(timestamp),
		Timezone:              timezone,
		ScheduledType:         r.Defaults.ScheduledType,
		SiteURL:               r.Defaults.SiteURL,
		Password:              r.Defaults.Password,
		PanelistPassword:      r.Defaults.PanelistPassword,
		ReminderTime:          reminder,
		EnabledJoinBeforeHost: r.Defaults.EnabledJoinBeforeHost,
		JoinBeforeHostMinutes: r.Defaults.JoinBeforeHostMinutes,
		Registration:          registration,
	}

	invites := plan{
		cohosts:   roster.ParseContacts(row.Field(roster.FieldCohosts), r.Nicknames),
		panelists: roster.ParseContacts(row.Field(roster.FieldPanelists), r.Nicknames),
	}

	for _, c := range roster.ParseContacts(r.Defaults.AlwaysInvitePanelists, r.Nicknames) {
		c.Presenter = true
		invites.panelists = append(invites.panelists, c)
	}

	return &webinar, &invites, nil
}

const timestamp = "2006-01-02T15:04:05Z"

var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseStart parses a start date/time cell. Values without an explicit
// offset are taken as UTC.
func parseStart(v string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unparseable date/time '%s'", v)
}

func sameTime(p, q string) bool {
	u, err := parseStart(p)
	if err != nil {
		return p == q
	}

	v, err := parseStart(q)
	if err != nil {
		return p == q
	}

	return u.Equal(v)
}

func isAuthError(err error) bool {
	var auth *webinars.AuthError
	return errors.As(err, &auth)
}

func infof(format string, args ...interface{}) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func warnf(format string, args ...interface{}) {
	log.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}
