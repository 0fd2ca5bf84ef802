package audit

import (
	"sync"
	"time"
)

// Action classifies one audited event.
type Action string

const (
	ActionLoginSuccess    Action = "LOGIN_SUCCESS"
	ActionLoginFailed     Action = "LOGIN_FAILED"
	ActionLogout          Action = "LOGOUT"
	ActionAccessDenied    Action = "ACCESS_DENIED"
	ActionAttributeAccess Action = "ATTRIBUTE_ACCESS"
	ActionMethodCall      Action = "METHOD_CALL"
	ActionMethodSuccess   Action = "METHOD_SUCCESS"
	ActionMethodError     Action = "METHOD_ERROR"
)

// Entry is one immutable audit record. User is empty when no identity was
// active at record time.
type Entry struct {
	Time    time.Time
	Action  Action
	User    string
	Details string
}

// Log is an append-only audit log. Each Record call is atomic and entries
// stay in chronological append order; there is no deletion operation.
type Log struct {
	mu      sync.Mutex
	entries []Entry

	now func() time.Time // injectable for deterministic tests
}

// NewLog creates an empty audit log.
func NewLog() *Log {
	return &Log{now: time.Now}
}

// Record appends an entry stamped with the current time.
func (l *Log) Record(action Action, user, details string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{
		Time:    l.now(),
		Action:  action,
		User:    user,
		Details: details,
	})
}

// Entries returns a copy of the log in chronological order. A positive
// limit restricts the result to the most recent limit entries; limit <= 0
// returns everything. Callers cannot mutate history through the returned
// slice.
func (l *Log) Entries(limit int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
