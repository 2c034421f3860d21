package entity

import "time"

type Alignment string

const (
	AlignmentTown    Alignment = "TOWN"
	AlignmentMafia   Alignment = "MAFIA"
	AlignmentNeutral Alignment = "NEUTRAL"
)

// Role is a game role from the catalog (Godfather, Doctor, ...).
type Role struct {
	ID          string
	Name        string
	Alignment   Alignment
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
