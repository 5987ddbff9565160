package domain

import (
	"time"

	"github.com/google/uuid"
)

// SupplementStatus is the intake state of a supplement for the current day.
type SupplementStatus string

const (
	StatusPending SupplementStatus = "pending"
	StatusTaken   SupplementStatus = "taken"
	StatusLate    SupplementStatus = "late"
	StatusMissed  SupplementStatus = "missed"
)

// Valid reports whether s is one of the known statuses.
func (s SupplementStatus) Valid() bool {
	switch s {
	case StatusPending, StatusTaken, StatusLate, StatusMissed:
		return true
	}
	return false
}

// CountsAsTaken reports whether s contributes to daily progress.
func (s SupplementStatus) CountsAsTaken() bool {
	return s == StatusTaken || s == StatusLate
}

// Supplement represents one entry of the intake routine
type Supplement struct {
	ID           uuid.UUID
	Name         string
	Dosage       string
	Instructions string
	Time         TimeOfDay
	Status       SupplementStatus
	DateAdded    time.Time
	Recurrence   Recurrence
}

// ActiveOn reports whether the supplement is due on the calendar day of now.
func (s Supplement) ActiveOn(now time.Time) bool {
	return s.Recurrence.Contains(now)
}

// Appointment is the single upcoming doctor visit
type Appointment struct {
	DoctorName string    `json:"doctorName"`
	Location   string    `json:"location"`
	Date       time.Time `json:"date"`
}

// ChecklistItem is one line of the visit preparation checklist
type ChecklistItem struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	IsCompleted bool      `json:"isCompleted"`
}

// NotificationRequest is a concrete reminder handed to the delivery side
type NotificationRequest struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	FireDate time.Time `json:"fireDate"`
}

// BabySize is the fruit-comparison label shown for a pregnancy week
type BabySize struct {
	Name string
	Icon string
}
