package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// supplementRecord is the stored shape. A missing startDate/endDate pair
// means the legacy "every day" mode.
type supplementRecord struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Dosage       string           `json:"dosage"`
	Instructions string           `json:"instructions"`
	Time         TimeOfDay        `json:"time"`
	Status       SupplementStatus `json:"status"`
	DateAdded    time.Time        `json:"dateAdded"`
	StartDate    *time.Time       `json:"startDate,omitempty"`
	EndDate      *time.Time       `json:"endDate,omitempty"`
}

func (s Supplement) MarshalJSON() ([]byte, error) {
	rec := supplementRecord{
		ID:           s.ID,
		Name:         s.Name,
		Dosage:       s.Dosage,
		Instructions: s.Instructions,
		Time:         s.Time,
		Status:       s.Status,
		DateAdded:    s.DateAdded,
	}
	if start, end, ok := s.Recurrence.Bounds(); ok {
		if !start.IsZero() {
			rec.StartDate = &start
		}
		if !end.IsZero() {
			rec.EndDate = &end
		}
	}
	return json.Marshal(rec)
}

func (s *Supplement) UnmarshalJSON(data []byte) error {
	var rec supplementRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	status := rec.Status
	if !status.Valid() {
		status = StatusPending
	}

	recurrence := Always()
	if rec.StartDate != nil || rec.EndDate != nil {
		// A single bound is kept so it survives a save, but Valid() reports false.
		var start, end time.Time
		if rec.StartDate != nil {
			start = *rec.StartDate
		}
		if rec.EndDate != nil {
			end = *rec.EndDate
		}
		recurrence = Range(start, end)
	}

	*s = Supplement{
		ID:           rec.ID,
		Name:         rec.Name,
		Dosage:       rec.Dosage,
		Instructions: rec.Instructions,
		Time:         rec.Time,
		Status:       status,
		DateAdded:    rec.DateAdded,
		Recurrence:   recurrence,
	}
	return nil
}
