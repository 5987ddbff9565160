package notifications

import (
	"fmt"
	"math/rand"
	"time"
)

// Picker returns an index in [0, n).
type Picker func(n int) int

// RandomPicker returns a Picker backed by its own source.
// The source is not safe for concurrent use; callers hold the store lock.
func RandomPicker(seed int64) Picker {
	rng := rand.New(rand.NewSource(seed))
	return rng.Intn
}

// FirstPicker always picks the first option.
func FirstPicker(int) int { return 0 }

var supplementTitles = []string{
	"Time for your %s 💊",
	"%s reminder",
	"Don't forget your %s",
}

var supplementBodies = []string{
	"Take %s now. Every dose counts for you and your baby.",
	"A small step for a healthy pregnancy: %s.",
	"Your routine says %s. You are doing great!",
	"Quick check-in: have you taken %s yet?",
}

// SupplementContent builds the copy for a supplement's daily reminders.
func SupplementContent(name, dosage string, pick Picker) ContentFunc {
	if pick == nil {
		pick = FirstPicker
	}
	dose := name
	if dosage != "" {
		dose = fmt.Sprintf("%s (%s)", name, dosage)
	}
	return func(day time.Time) (string, string) {
		title := fmt.Sprintf(supplementTitles[pick(len(supplementTitles))], name)
		body := fmt.Sprintf(supplementBodies[pick(len(supplementBodies))], dose)
		return title, body
	}
}
