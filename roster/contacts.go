package roster

import (
	"net/mail"
	"strings"
)

// Contact is a resolved cohost/panelist entry. Presenter marks entries
// prefixed with '*' in the worksheet - they are invited with panelist
// privileges rather than as ordinary attendees.
type Contact struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Presenter bool   `json:"-"`
}

// Nicknames maps a short name to the contact it stands for.
type Nicknames map[string]Contact

// Resolve looks up a nickname, case-insensitively.
func (n Nicknames) Resolve(name string) (Contact, bool) {
	c, ok := n[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// ParseContacts parses a comma-separated list of contacts, each either
// 'Name <email>', a bare email address, or a nickname. Unknown nicknames
// pass through unchanged as a literal email/name. Later duplicates of the
// same email replace earlier ones, preserving position.
func ParseContacts(s string, nicknames Nicknames) []Contact {
	contacts := []Contact{}
	seen := map[string]int{}

	add := func(c Contact) {
		c.Email = strings.ToLower(strings.TrimSpace(c.Email))
		if c.Email == "" {
			return
		}

		if ix, ok := seen[c.Email]; ok {
			contacts[ix] = c
		} else {
			seen[c.Email] = len(contacts)
			contacts = append(contacts, c)
		}
	}

	for _, entry := range splitContacts(s) {
		entry = strings.TrimSpace(entry)

		presenter := strings.HasPrefix(entry, "*")
		entry = strings.TrimSpace(strings.TrimPrefix(entry, "*"))
		if entry == "" {
			continue
		}

		if addr, err := mail.ParseAddress(entry); err == nil && strings.Contains(addr.Address, "@") {
			name := strings.TrimSpace(addr.Name)
			if name == "" {
				name = "Panelist"
			}

			add(Contact{Email: addr.Address, Name: name, Presenter: presenter})
			continue
		}

		if c, ok := nicknames.Resolve(entry); ok {
			c.Presenter = presenter
			add(c)
			continue
		}

		add(Contact{Email: entry, Name: entry, Presenter: presenter})
	}

	return contacts
}

// splitContacts splits a contact list on commas, ignoring commas inside
// double quotes or angle brackets so that entries like '"Doe, John"
// <john@example.com>' stay intact.
func splitContacts(s string) []string {
	entries := []string{}
	quoted := false
	angled := false
	start := 0

	for ix, ch := range s {
		switch {
		case ch == '"':
			quoted = !quoted

		case quoted:

		case ch == '<':
			angled = true

		case ch == '>':
			angled = false

		case ch == ',' && !angled:
			entries = append(entries, s[start:ix])
			start = ix + 1
		}
	}

	return append(entries, s[start:])
}
