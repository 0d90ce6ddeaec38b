// Package presence tracks each user's live status and current activity.
package presence

import (
	"time"

	"resona/pkg/domain"
)

// Status is a user's presence state.
//
// StatusAway is part of the wire vocabulary and may exist in durable rows,
// but no transition in this service produces it: there is deliberately no
// idle timer. Parsers accept it; nothing emits it.
type Status string

const (
	StatusOnline  Status = "online"
	StatusAway    Status = "away"
	StatusOffline Status = "offline"
)

// Valid reports whether s is a recognized status.
func (s Status) Valid() bool {
	switch s {
	case StatusOnline, StatusAway, StatusOffline:
		return true
	}
	return false
}

// Activity describes what a user is currently doing ("listening to X").
type Activity struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Presence is the durable presence row for one user. It is mirrored to the
// persistence layer before any live push so a catch-up read always sees the
// same state a push would have carried.
type Presence struct {
	UserID   domain.UserID `json:"userId"`
	Status   Status        `json:"status"`
	LastSeen time.Time     `json:"lastSeen"`
	Activity *Activity     `json:"currentActivity,omitempty"`
}
