package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind classifies a user-reported care event.
type EventKind string

const (
	EventKindPee        EventKind = "pee"
	EventKindPoop       EventKind = "poop"
	EventKindMedication EventKind = "medication"
)

func (k EventKind) String() string {
	return string(k)
}

func (k EventKind) IsValid() bool {
	switch k {
	case EventKindPee, EventKindPoop, EventKindMedication:
		return true
	default:
		return false
	}
}

func ParseEventKind(s string) (EventKind, error) {
	k := EventKind(s)
	if !k.IsValid() {
		return "", ErrInvalidEventKind
	}
	return k, nil
}

// Event is a single logged occurrence. ID is assigned once at creation and
// identifies the event in local history, in the pending queue and remotely.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Kind      EventKind `json:"type"`
	Timestamp time.Time `json:"date"`
	Extra     *string   `json:"extraData,omitempty"`
}

func NewEvent(kind EventKind, at time.Time, extra *string) Event {
	return Event{
		ID:        uuid.New(),
		Kind:      kind,
		Timestamp: at,
		Extra:     extra,
	}
}

// SaveResult is the remote outcome for one event of a batch save.
// A nil Err means the remote store confirmed the record.
type SaveResult struct {
	ID  uuid.UUID
	Err error
}

func (r SaveResult) Confirmed() bool {
	return r.Err == nil
}
