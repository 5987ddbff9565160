package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vladimiradmaev/mammafy-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/mammafy-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/mammafy-helper/internal/errors"
	"github.com/vladimiradmaev/mammafy-helper/internal/utils"
)

const argSeparator = ";"

func splitArgs(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	parts := strings.Split(args, argSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

const (
	supplementUsage = "Expected: name; dosage; HH:MM[; start; end][; instructions]"
	editUsage       = "Expected: n; name; dosage; HH:MM[; start; end][; instructions]"

	// maxRangeDays bounds how many daily reminders one supplement can produce.
	maxRangeDays = 731
)

// supplementArgs is a parsed /add or /edit. The flags tell /edit which
// optional parts were given so the others can be kept.
type supplementArgs struct {
	input           domain.SupplementInput
	hasRange        bool
	hasInstructions bool
}

// parseSupplement reads "name; dosage; HH:MM[; YYYY-MM-DD; YYYY-MM-DD][; instructions]".
// Without dates the supplement is active every day.
func parseSupplement(args string, loc *time.Location) (supplementArgs, error) {
	parts := splitArgs(args)
	if len(parts) < 3 || len(parts) > 6 {
		return supplementArgs{}, apperrors.NewValidationError(supplementUsage)
	}

	at, err := domain.ParseTimeOfDay(parts[2])
	if err != nil {
		return supplementArgs{}, apperrors.NewValidationError("Time must look like 09:00")
	}

	parsed := supplementArgs{input: domain.SupplementInput{
		Name:       parts[0],
		Dosage:     parts[1],
		Time:       at,
		Recurrence: domain.Always(),
	}}

	rest := parts[3:]
	if len(rest) >= 2 {
		recurrence, err := parseRange(rest[0], rest[1], loc)
		if err != nil {
			return supplementArgs{}, err
		}
		parsed.input.Recurrence = recurrence
		parsed.hasRange = true
		rest = rest[2:]
	}
	if len(rest) == 1 {
		parsed.input.Instructions = rest[0]
		parsed.hasInstructions = true
	}
	return parsed, nil
}

// parseRange reads an inclusive day range. Inverted and overly long ranges are rejected.
func parseRange(startArg, endArg string, loc *time.Location) (domain.Recurrence, error) {
	start, err := utils.ParseDate(startArg, loc)
	if err != nil {
		return domain.Recurrence{}, apperrors.NewValidationError("Start date must look like 2026-03-10")
	}
	end, err := utils.ParseDate(endArg, loc)
	if err != nil {
		return domain.Recurrence{}, apperrors.NewValidationError("End date must look like 2026-03-10")
	}

	days := utils.DaysBetween(start, end)
	if days < 0 {
		return domain.Recurrence{}, apperrors.ErrInvalidRange
	}
	if days > maxRangeDays {
		return domain.Recurrence{}, apperrors.NewValidationError(fmt.Sprintf("A date range can span at most %d days", maxRangeDays))
	}
	return domain.Range(start, end), nil
}

// parseEdit reads "n; name; dosage; HH:MM[; start; end][; instructions]" where n is 1-based.
func parseEdit(args string, loc *time.Location) (int, supplementArgs, error) {
	head, rest, ok := strings.Cut(args, argSeparator)
	if !ok {
		return 0, supplementArgs{}, apperrors.NewValidationError(editUsage)
	}
	index, err := parsePosition(head)
	if err != nil {
		return 0, supplementArgs{}, err
	}
	parsed, err := parseSupplement(rest, loc)
	return index, parsed, err
}

// parseAppointment reads "doctor; location; YYYY-MM-DD HH:MM".
func parseAppointment(args string, loc *time.Location) (doctor, location string, date time.Time, err error) {
	parts := splitArgs(args)
	if len(parts) != 3 {
		return "", "", time.Time{}, apperrors.NewValidationError("Expected: doctor; location; YYYY-MM-DD HH:MM")
	}
	date, err = utils.ParseDateTime(parts[2], loc)
	if err != nil {
		return "", "", time.Time{}, apperrors.NewValidationError("Date must look like 2026-03-20 10:30")
	}
	return parts[0], parts[1], date, nil
}

// parseBegin reads "YYYY-MM-DD [name]".
func parseBegin(args string, loc *time.Location) (time.Time, string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return time.Time{}, "", apperrors.NewValidationError("Expected: YYYY-MM-DD [name]")
	}
	start, err := utils.ParseDate(fields[0], loc)
	if err != nil {
		return time.Time{}, "", apperrors.NewValidationError("Date must look like 2026-01-15")
	}
	return start, strings.Join(fields[1:], " "), nil
}

// parsePosition converts a 1-based list position to an index.
func parsePosition(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return 0, apperrors.NewValidationError("Expected a list number like 1")
	}
	return n - 1, nil
}

// callbackAction is decoded inline button data
type callbackAction struct {
	Kind   string
	ID     uuid.UUID
	Status domain.SupplementStatus
}

func parseCallback(data string) (callbackAction, error) {
	parts := strings.Split(data, "|")
	if len(parts) < 2 {
		return callbackAction{}, apperrors.ErrInvalidInput
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return callbackAction{}, apperrors.ErrInvalidInput
	}

	switch {
	case parts[0] == keyboards.CallbackStatus && len(parts) == 3:
		status := domain.SupplementStatus(parts[2])
		if !status.Valid() {
			return callbackAction{}, apperrors.ErrInvalidStatus
		}
		return callbackAction{Kind: keyboards.CallbackStatus, ID: id, Status: status}, nil
	case parts[0] == keyboards.CallbackToggle && len(parts) == 2:
		return callbackAction{Kind: keyboards.CallbackToggle, ID: id}, nil
	}
	return callbackAction{}, apperrors.ErrInvalidInput
}
