// Package session owns the auth session: the access/refresh token pair, the
// logged-in user's details, and the short-lived handoff stash pages use to
// pass data between each other. All reads and writes go through the Manager;
// nothing else touches session storage.
package session

import (
	"encoding/json"
	"time"

	"github.com/mssola/useragent"
)

// Session is one logged-in user's state. Presence of Access, Refresh, and
// UserDetails together means "logged in".
type Session struct {
	ID          string          `json:"id"`
	Access      string          `json:"access"`
	Refresh     string          `json:"refresh"`
	UserDetails json.RawMessage `json:"user_details,omitempty"`
	Device      Device          `json:"device"`

	// Stash holds transient page-to-page handoff values (pending
	// registration data, bought leads) keyed by name.
	Stash map[string]json.RawMessage `json:"stash,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoggedIn reports whether the session carries a complete credential set.
func (s *Session) LoggedIn() bool {
	return s.Access != "" && s.Refresh != "" && len(s.UserDetails) > 0
}

// Well-known stash keys, mirroring the handoff slots the web client used.
const (
	StashTempUser         = "temp_user_data"
	StashRegistrationUser = "registration_user_data"
	StashBoughtLeads      = "bought_leads"
	StashPurchasedLeads   = "purchased_leads"
)

// Device is the client metadata recorded at login.
type Device struct {
	Name    string `json:"name,omitempty"`
	OS      string `json:"os,omitempty"`
	Browser string `json:"browser,omitempty"`
	Mobile  bool   `json:"mobile,omitempty"`
}

// ParseDevice extracts device metadata from a User-Agent header.
func ParseDevice(userAgent string) Device {
	if userAgent == "" {
		return Device{}
	}
	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	return Device{
		Name:    ua.Platform(),
		OS:      ua.OS(),
		Browser: browser,
		Mobile:  ua.Mobile(),
	}
}

// EventKind classifies a session change for subscribers.
type EventKind string

const (
	EventStarted   EventKind = "started"
	EventRefreshed EventKind = "refreshed"
	EventCleared   EventKind = "cleared"
)

// Event notifies subscribers of a session change.
type Event struct {
	Kind      EventKind
	SessionID string
	At        time.Time
}
