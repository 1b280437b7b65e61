package reconcile

import (
	"context"
	"strings"

	"webexsheets/roster"
	"webexsheets/webinars"
)

// syncInvitees diffs the desired invite list against the provider's current
// invitees. Missing contacts are invited, changed ones updated, and current
// panelists/cohosts no longer on the roster are uninvited. Ordinary
// attendees who registered themselves are left alone.
func (r *Reconciler) syncInvitees(ctx context.Context, meetingID string, invites *plan) error {
	desired := r.desired(meetingID, invites)

	var current []webinars.Invitee
	if err := r.call(ctx, func() error {
		list, err := r.Provider.Invitees(ctx, meetingID)
		current = list
		return err
	}); err != nil {
		return err
	}

	index := map[string]webinars.Invitee{}
	for _, invitee := range current {
		index[strings.ToLower(invitee.Email)] = invitee
	}

	privileged := map[string]webinars.Invitee{}
	for k, invitee := range index {
		if invitee.Panelist || invitee.CoHost {
			privileged[k] = invitee
		}
	}

	for _, d := range desired {
		k := strings.ToLower(d.Email)
		delete(privileged, k)

		if invitee, ok := index[k]; ok {
			if invitee.DisplayName != d.DisplayName || invitee.Panelist != d.Panelist || invitee.CoHost != d.CoHost {
				if err := r.call(ctx, func() error {
					_, err := r.Provider.UpdateInvitee(ctx, invitee.ID, d)
					return err
				}); err != nil {
					warnf("could not update invitee %s (%v)", d.Email, err)
				}
			}
		} else {
			if err := r.call(ctx, func() error {
				_, err := r.Provider.Invite(ctx, d)
				return err
			}); err != nil {
				warnf("could not invite %s (%v)", d.Email, err)
			}
		}
	}

	for _, invitee := range privileged {
		if err := r.call(ctx, func() error {
			return r.Provider.Uninvite(ctx, invitee.ID)
		}); err != nil {
			warnf("could not uninvite %s (%v)", invitee.Email, err)
		}
	}

	return nil
}

// desired resolves the invite plan into concrete invitees, deduplicated by
// email. Starred panelist contacts get panelist status, the rest are invited
// as ordinary attendees. Cohosts get cohost + panelist status; when cohosts
// are disabled site-wide they are folded into the panelist list instead.
func (r *Reconciler) desired(meetingID string, invites *plan) []webinars.Invitee {
	list := []webinars.Invitee{}
	seen := map[string]int{}

	add := func(invitee webinars.Invitee) {
		k := strings.ToLower(invitee.Email)
		if ix, ok := seen[k]; ok {
			list[ix] = invitee
		} else {
			seen[k] = len(list)
			list = append(list, invitee)
		}
	}

	invite := func(c roster.Contact, panelist, cohost bool) {
		add(webinars.Invitee{
			MeetingID:   meetingID,
			Email:       c.Email,
			DisplayName: c.Name,
			Panelist:    panelist,
			CoHost:      cohost,
			SendEmail:   true,
		})
	}

	for _, c := range invites.panelists {
		invite(c, c.Presenter, false)
	}

	for _, c := range invites.cohosts {
		if r.Defaults.NoCohosts {
			invite(c, true, false)
		} else {
			invite(c, true, true)
		}
	}

	return list
}
