package webinars

// Webinar is the provider representation of a scheduled session. Field names
// follow the Webex meetings API schema.
type Webinar struct {
	ID                    string        `json:"id,omitempty"`
	Title                 string        `json:"title,omitempty"`
	Agenda                string        `json:"agenda,omitempty"`
	Start                 string        `json:"start,omitempty"`
	End                   string        `json:"end,omitempty"`
	Timezone              string        `json:"timezone,omitempty"`
	ScheduledType         string        `json:"scheduledType,omitempty"`
	SiteURL               string        `json:"siteUrl,omitempty"`
	Password              string        `json:"password,omitempty"`
	PanelistPassword      string        `json:"panelistPassword,omitempty"`
	ReminderTime          int           `json:"reminderTime,omitempty"`
	EnabledJoinBeforeHost bool          `json:"enabledJoinBeforeHost,omitempty"`
	JoinBeforeHostMinutes int           `json:"joinBeforeHostMinutes,omitempty"`
	Registration          *Registration `json:"registration,omitempty"`
	SendEmail             *bool         `json:"sendEmail,omitempty"`

	// read-only, populated from provider responses
	HostKey      string `json:"hostKey,omitempty"`
	WebLink      string `json:"webLink,omitempty"`
	RegisterLink string `json:"registerLink,omitempty"`
	State        string `json:"state,omitempty"`
}

// AttendeeURL is the link written back to the roster: the registration link
// when registration is enabled, otherwise the plain web link.
func (w *Webinar) AttendeeURL() string {
	if w.RegisterLink != "" {
		return w.RegisterLink
	}

	return w.WebLink
}

type Registration struct {
	AutoAcceptRequest bool `json:"autoAcceptRequest"`
	RequireFirstName  bool `json:"requireFirstName"`
	RequireLastName   bool `json:"requireLastName"`
	RequireEmail      bool `json:"requireEmail"`
}

// Invitee is a webinar invitee. Panelist and CoHost are privilege flags; a
// cohost is always also a panelist (provider requirement).
type Invitee struct {
	ID          string `json:"id,omitempty"`
	MeetingID   string `json:"meetingId,omitempty"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	Panelist    bool   `json:"panelist,omitempty"`
	CoHost      bool   `json:"coHost,omitempty"`
	SendEmail   bool   `json:"sendEmail,omitempty"`
}
