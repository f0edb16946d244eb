package domain

import (
	"strings"
	"time"
)

// MetadataItem is one name/value pair an agent attached to a session.
type MetadataItem struct {
	Name  string
	Value string
}

// SessionMetadata groups the metadata recorded for one agent session.
type SessionMetadata struct {
	SessionID string
	Metadata  []MetadataItem
}

// SessionScoped is implemented by records that carry agent session data.
type SessionScoped interface {
	SessionMetadata() []SessionMetadata
}

// AgentSession is an agent run against an application.
type AgentSession struct {
	ID        string
	AppID     string
	StartedAt time.Time
	Metadata  []MetadataItem
}

// SessionFilter holds the optional agent-session criteria of a search.
type SessionFilter struct {
	// SessionID must equal one of the item's session ids.
	SessionID string

	// MetadataName must equal, ignoring case, the name of one of the item's
	// session metadata entries.
	MetadataName string

	// MetadataValue must equal, ignoring case, the value of that entry.
	// Ignored without MetadataName.
	MetadataValue string
}

// Normalise trims the criteria and drops a value given without a name.
func (f SessionFilter) Normalise() SessionFilter {
	f.SessionID = strings.TrimSpace(f.SessionID)
	f.MetadataName = strings.TrimSpace(f.MetadataName)
	f.MetadataValue = strings.TrimSpace(f.MetadataValue)
	if f.MetadataName == "" {
		f.MetadataValue = ""
	}
	return f
}

// IsEmpty reports whether no criterion is supplied.
func (f SessionFilter) IsEmpty() bool {
	n := f.Normalise()
	return n.SessionID == "" && n.MetadataName == ""
}
