package domain

import (
	"strings"
	"time"
)

const maxEventRange = 366 * 24 * time.Hour

type EventKind string

const (
	EventTasting  EventKind = "tasting"
	EventWorkshop EventKind = "workshop"
	EventClosure  EventKind = "closure"
	EventPickup   EventKind = "pickup"
)

type Event struct {
	ID          string
	Title       string
	Description string
	Kind        EventKind
	StartsAt    time.Time
	EndsAt      time.Time
	Location    string
}

func (e *Event) Normalize() {
	e.Title = strings.TrimSpace(e.Title)
	e.Location = strings.TrimSpace(e.Location)
	e.Kind = EventKind(strings.ToLower(strings.TrimSpace(string(e.Kind))))
}

func (e Event) Validate() error {
	if e.Title == "" {
		return invalid("title", "required")
	}
	switch e.Kind {
	case EventTasting, EventWorkshop, EventClosure, EventPickup:
	default:
		return invalid("kind", "must be tasting, workshop, closure or pickup")
	}
	if e.StartsAt.IsZero() {
		return invalid("starts_at", "required")
	}
	if !e.EndsAt.After(e.StartsAt) {
		return invalid("ends_at", "must be after starts_at")
	}
	return nil
}

// EventRange is the half-open interval [From, To).
type EventRange struct {
	From time.Time
	To   time.Time
}

// NewEventRange defaults missing bounds to the month containing now.
func NewEventRange(from, to time.Time, now time.Time) (EventRange, error) {
	if from.IsZero() {
		y, m, _ := now.Date()
		from = time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	}
	if to.IsZero() {
		to = from.AddDate(0, 1, 0)
	}
	if !to.After(from) {
		return EventRange{}, invalid("to", "must be after from")
	}
	if to.Sub(from) > maxEventRange {
		return EventRange{}, invalid("to", "range must not exceed 366 days")
	}
	return EventRange{From: from, To: to}, nil
}
