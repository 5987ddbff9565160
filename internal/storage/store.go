package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys of the persisted records. One logical record per key.
const (
	KeySupplements            = "supplements"
	KeyLastOpenedDate         = "lastOpenedDate"
	KeyPregnancyStartDate     = "pregnancyStartDate"
	KeySavedAppointment       = "savedAppointment"
	KeySavedChecklist         = "savedChecklist"
	KeySavedQuestions         = "savedQuestions"
	KeyHasCompletedOnboarding = "hasCompletedOnboarding"
	KeyUserName               = "userName"
)

// ErrUndecodable marks a stored value that exists but cannot be decoded.
var ErrUndecodable = errors.New("failed to decode")

// Store is opaque key to blob storage.
// Get reports ok=false for a missing key; Remove of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// LoadJSON decodes the value under key into v.
func LoadJSON(ctx context.Context, s Store, key string, v interface{}) (bool, error) {
	data, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w %s: %w", ErrUndecodable, key, err)
	}
	return true, nil
}

// UnreadableKey is where an undecodable value of key is kept aside.
func UnreadableKey(key string) string {
	return key + ".unreadable"
}

// Preserve copies the raw value of key to UnreadableKey(key) so a later write
// to key does not destroy it. A missing key is not an error.
func Preserve(ctx context.Context, s Store, key string) error {
	data, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return err
	}
	return s.Set(ctx, UnreadableKey(key), data)
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, s Store, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
