package roster

import "time"

// Status marks whether a roster entry came from a legacy import that has
// not yet been confirmed against a scraped scorecard, or is fully active.
type Status string

const (
	StatusLegacy Status = "LEGACY"
	StatusActive Status = "ACTIVE"
)

// Entry links a player to the club it was imported under, tracking whether
// identity has been confirmed by at least one successful name match against
// a scraped scorecard.
type Entry struct {
	PlayerID   string
	Club       string
	Status     Status
	ImportedAt time.Time
	ConfirmedAt *time.Time
}

// Promote marks a legacy entry active once its player has been matched
// against a live scorecard at least once.
func (e Entry) Promote(at time.Time) Entry {
	e.Status = StatusActive
	e.ConfirmedAt = &at
	return e
}
