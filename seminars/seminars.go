package seminars

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Seminar is the read-model of a listed seminar. Its lifecycle (creation,
// editing, images, search) is owned by the listings subsystem; registration
// only ever reads it.
type Seminar struct {
	ID             uuid.UUID
	Version        int
	Kind           Kind
	Title          string
	Description    string
	Styles         []string
	StartTime      time.Time
	LocalDateTime  string
	TimeZone       string
	Venue          string
	// Price is the organizer-entered price text, e.g. "15", "15,50" or "€20".
	// Empty or unparseable means the seminar is free.
	Price          string
	OrganizerName  string
	OrganizerEmail string
	ImageName      *string
}

type Repository interface {
	GetSeminar(ctx context.Context, id uuid.UUID) (Seminar, error)
	CreateSeminar(ctx context.Context, seminar Seminar) error
}
