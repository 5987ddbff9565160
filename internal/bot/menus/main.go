package menus

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/mammafy-helper/internal/domain"
)

// Sender is the part of the Telegram client the menus need
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

const HelpText = `Available commands:
/begin YYYY-MM-DD [name] - set the first day of the pregnancy
/week - current week and baby size
/today - supplements due today
/add name; dosage; HH:MM[; start; end][; instructions] - add a supplement
/edit n; name; dosage; HH:MM[; start; end][; instructions] - change supplement n, keeping dates and instructions left out
/remove n - delete supplement n
/visit - next appointment, checklist and questions
/schedule doctor; location; YYYY-MM-DD HH:MM - set the appointment
/resetvisit - clear the appointment, checklist and questions
/check [title] - add a checklist item
/toggle n - mark checklist item n done or not done
/uncheck n - delete checklist item n
/questions [text] - questions for the doctor
/restart - run the first-time setup again`

// SendText sends a plain message
func SendText(api Sender, chatID int64, text string) error {
	_, err := api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// SendWithKeyboard sends a message with an inline keyboard attached
func SendWithKeyboard(api Sender, chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := api.Send(msg)
	return err
}

// WelcomeText greets the user, or explains the first step when setup is not done
func WelcomeText(name string, onboarded bool) string {
	if !onboarded {
		return "👶 Welcome to Mammafy!\n\nTell me when your pregnancy started:\n/begin YYYY-MM-DD [your name]"
	}
	if name == "" {
		return "👶 Welcome back!\n\n/help lists everything I can do."
	}
	return fmt.Sprintf("👶 Welcome back, %s!\n\n/help lists everything I can do.", name)
}

// WeekText describes the current pregnancy week
func WeekText(week int, size domain.BabySize, start time.Time) string {
	return fmt.Sprintf("🗓 Week %d\nYour baby is about the size of a %s.\nStarted on %s.",
		week, strings.ToLower(size.Name), start.Format("2 Jan 2006"))
}

var statusIcons = map[domain.SupplementStatus]string{
	domain.StatusPending: "⏳",
	domain.StatusTaken:   "✅",
	domain.StatusLate:    "⏰",
	domain.StatusMissed:  "❌",
}

// TodayText lists the supplements due today with their status
func TodayText(active []domain.Supplement, taken, total int) string {
	if total == 0 {
		return "💊 Nothing to take today."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💊 Today: %d of %d taken\n\n", taken, total)
	for _, sup := range active {
		fmt.Fprintf(&b, "%s %s %s", statusIcons[sup.Status], sup.Time, sup.Name)
		if sup.Dosage != "" {
			fmt.Fprintf(&b, " (%s)", sup.Dosage)
		}
		if sup.Instructions != "" {
			fmt.Fprintf(&b, ", %s", sup.Instructions)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// SupplementListText shows every supplement with its 1-based position
func SupplementListText(supplements []domain.Supplement) string {
	if len(supplements) == 0 {
		return "No supplements yet. Add one with /add."
	}

	var b strings.Builder
	b.WriteString("Your supplements:\n")
	for i, sup := range supplements {
		fmt.Fprintf(&b, "%d. %s %s", i+1, sup.Time, sup.Name)
		if sup.Dosage != "" {
			fmt.Fprintf(&b, " (%s)", sup.Dosage)
		}
		if start, end, ok := sup.Recurrence.Bounds(); ok {
			if sup.Recurrence.Valid() {
				fmt.Fprintf(&b, " from %s to %s", start.Format("2 Jan"), end.Format("2 Jan"))
			} else {
				b.WriteString(" (invalid dates, never due)")
			}
		}
		if sup.Instructions != "" {
			fmt.Fprintf(&b, ", %s", sup.Instructions)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// VisitSummary is everything the visit screen shows
type VisitSummary struct {
	Appointment    domain.Appointment
	HasAppointment bool
	Countdown      string
	Checklist      []domain.ChecklistItem
	Done           int
	Questions      string
}

// VisitText renders the appointment, its countdown, the checklist and the questions
func VisitText(v VisitSummary) string {
	var b strings.Builder
	if v.HasAppointment {
		fmt.Fprintf(&b, "🩺 %s\n📍 %s\n🕒 %s\n⏳ %s\n",
			v.Appointment.DoctorName,
			v.Appointment.Location,
			v.Appointment.Date.Format("Mon 2 Jan 2006 15:04"),
			v.Countdown)
	} else {
		b.WriteString("No appointment scheduled. Use /schedule.\n")
	}

	if len(v.Checklist) > 0 {
		fmt.Fprintf(&b, "\n📋 Checklist %d/%d\n", v.Done, len(v.Checklist))
		for i, item := range v.Checklist {
			mark := "⬜"
			if item.IsCompleted {
				mark = "☑️"
			}
			fmt.Fprintf(&b, "%d. %s %s\n", i+1, mark, item.Title)
		}
	}

	if strings.TrimSpace(v.Questions) != "" {
		fmt.Fprintf(&b, "\n❓ Questions\n%s\n", v.Questions)
	}
	return strings.TrimRight(b.String(), "\n")
}
