package league

import (
	"fmt"
	"time"
)

// Status is a position in the league lifecycle state machine.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusActive    Status = "ACTIVE"
	StatusLocked    Status = "LOCKED"
	StatusCompleted Status = "COMPLETED"
)

// allowedTransitions enumerates the only legal moves between states. Any
// pair not listed here is an illegal transition.
var allowedTransitions = map[Status]Status{
	StatusDraft:  StatusActive,
	StatusActive: StatusLocked,
	StatusLocked: StatusCompleted,
}

// CanTransitionTo reports whether moving from from to to is legal.
func CanTransitionTo(from, to Status) bool {
	next, ok := allowedTransitions[from]
	return ok && next == to
}

// Rules is the squad/transfer quota configuration a league draft phase
// fixes. Once a league leaves draft the rules are frozen for its lifetime.
// The validate tags cover shape (presence, non-negativity); the cross-field
// business rules below in Validate still apply on top.
type Rules struct {
	SquadSize               int  `validate:"required,gt=0"`
	MinBatsmen              int  `validate:"gte=0"`
	MinBowlers              int  `validate:"gte=0"`
	MaxPlayersPerRealTeam   int  `validate:"required,gt=0"`
	RequireFromEachRealTeam bool
	MinPlayersPerRealTeam   int `validate:"gte=0"`
}

func (r Rules) Validate() error {
	if r.SquadSize <= 0 {
		return fmt.Errorf("squad size must be positive")
	}
	if r.MinBatsmen < 0 || r.MinBowlers < 0 {
		return fmt.Errorf("minimum role counts cannot be negative")
	}
	if r.MinBatsmen+r.MinBowlers > r.SquadSize {
		return fmt.Errorf("minimum role counts exceed squad size")
	}
	if r.MaxPlayersPerRealTeam <= 0 {
		return fmt.Errorf("max players per real team must be positive")
	}
	if r.RequireFromEachRealTeam && r.MinPlayersPerRealTeam <= 0 {
		return fmt.Errorf("min players per real team must be positive when required")
	}
	return nil
}

// League is a self-contained fantasy competition. Its rules and, once
// confirmed, its per-player scoring multipliers are frozen for the rest of
// its life so every joined team is scored against the same yardstick.
type League struct {
	ID                  string
	Name                string
	Status              Status
	Rules               Rules
	// RosterPlayerIDs is the pool of players eligible to be picked into this
	// league's teams. Mutable only while Status is draft; confirm reads it
	// to size-check and to seed the multiplier snapshot.
	RosterPlayerIDs     []string
	MultipliersSnapshot map[string]float64
	MultipliersFrozenAt *time.Time
	CreatedAt           time.Time
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	switch l.Status {
	case StatusDraft, StatusActive, StatusLocked, StatusCompleted:
	default:
		return fmt.Errorf("invalid league status: %s", l.Status)
	}
	if err := l.Rules.Validate(); err != nil {
		return fmt.Errorf("league rules: %w", err)
	}
	return nil
}

// RulesFrozen reports whether the league has left draft, after which Rules
// must not change.
func (l League) RulesFrozen() bool {
	return l.Status != StatusDraft
}

// HasSnapshot reports whether multipliers have been captured. Every league
// past draft must have one.
func (l League) HasSnapshot() bool {
	return l.MultipliersSnapshot != nil
}
