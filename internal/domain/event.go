package domain

import (
	"context"
	"time"
)

// EventType controls who may attend an event.
type EventType string

const (
	EventTypePublic      EventType = "PUBLIC"
	EventTypePrivate     EventType = "PRIVATE"
	EventTypeMembersOnly EventType = "MEMBERS_ONLY"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventStatusDraft   EventStatus = "DRAFT"
	EventStatusOpen    EventStatus = "OPEN"
	EventStatusClosed  EventStatus = "CLOSED"
	EventStatusDeleted EventStatus = "DELETED"
)

// Event represents a community event users can RSVP to or buy tickets for.
// swagger:model Event
type Event struct {
	ID             string      `json:"id"`
	OrganizationID string      `json:"organization_id"`
	Name           string      `json:"name"`
	EventType      EventType   `json:"event_type"`
	Status         EventStatus `json:"status"`
	RequiresTicket bool        `json:"requires_ticket"`

	// MaxAttendees is the attendance ceiling; 0 means unlimited.
	MaxAttendees int `json:"max_attendees"`
	// VenueCapacity is the linked venue's capacity; 0 means no venue limit.
	VenueCapacity int  `json:"venue_capacity"`
	WaitlistOpen  bool `json:"waitlist_open"`

	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	RSVPBefore  *time.Time `json:"rsvp_before"`
	ApplyBefore *time.Time `json:"apply_before"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectiveCapacity returns the hard attendance ceiling: the lesser of
// MaxAttendees and VenueCapacity, where 0 on either side means unbounded.
func (e *Event) EffectiveCapacity() int {
	switch {
	case e.MaxAttendees == 0:
		return e.VenueCapacity
	case e.VenueCapacity == 0:
		return e.MaxAttendees
	case e.VenueCapacity < e.MaxAttendees:
		return e.VenueCapacity
	default:
		return e.MaxAttendees
	}
}

// EffectiveApplyDeadline returns ApplyBefore, falling back to the event start.
func (e *Event) EffectiveApplyDeadline() time.Time {
	if e.ApplyBefore != nil {
		return *e.ApplyBefore
	}
	return e.Start
}

// Ended reports whether the event is over at the given instant.
func (e *Event) Ended(now time.Time) bool {
	return !e.End.IsZero() && now.After(e.End)
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	GetByID(ctx context.Context, id string) (*Event, error)
}
