// Package audit provides an append-only, timestamped record of
// security-relevant actions.
//
// Entries are never mutated or removed; readers always receive copies.
package audit
