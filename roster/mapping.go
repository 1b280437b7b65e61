package roster

import (
	"strings"
)

// Logical roster fields. The mapping below associates each of these with a
// worksheet column title.
const (
	FieldCreate          = "create"
	FieldStart           = "startdatetime"
	FieldDuration        = "duration"
	FieldTimezone        = "timezone"
	FieldTitle           = "title"
	FieldAgenda          = "agenda"
	FieldCohosts         = "cohosts"
	FieldPanelists       = "panelists"
	FieldWebinarID       = "webinarId"
	FieldAttendeeURL     = "attendeeUrl"
	FieldHostKey         = "hostKey"
	FieldRegistrantCount = "registrantCount"
)

// Mapping associates logical roster fields with worksheet column titles.
type Mapping map[string]string

// DefaultMapping returns the out-of-the-box column titles.
func DefaultMapping() Mapping {
	return Mapping{
		FieldCreate:          "Create",
		FieldStart:           "Start Date and Time",
		FieldDuration:        "Duration",
		FieldTitle:           "Title",
		FieldAgenda:          "Agenda",
		FieldCohosts:         "Cohosts",
		FieldPanelists:       "Panelists",
		FieldWebinarID:       "Webinar ID",
		FieldAttendeeURL:     "Attendee URL",
		FieldHostKey:         "Host Key",
		FieldRegistrantCount: "Registrant Count",
	}
}

// Merge overlays user supplied column titles on the mapping, returning a new
// mapping. Blank overrides are ignored; overrides for fields not present in
// the base mapping (e.g. 'timezone') are added.
func (m Mapping) Merge(overrides map[string]string) Mapping {
	merged := Mapping{}
	for k, v := range m {
		merged[k] = v
	}

	for k, v := range overrides {
		if title := strings.TrimSpace(v); title != "" {
			merged[strings.TrimSpace(k)] = title
		}
	}

	return merged
}
