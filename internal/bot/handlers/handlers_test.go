package handlers

import (
	"context"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/mammafy-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/mammafy-helper/internal/bot/state"
	"github.com/vladimiradmaev/mammafy-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/mammafy-helper/internal/errors"
	"github.com/vladimiradmaev/mammafy-helper/internal/logger"
	"github.com/vladimiradmaev/mammafy-helper/internal/notifications"
	"github.com/vladimiradmaev/mammafy-helper/internal/services"
	"github.com/vladimiradmaev/mammafy-helper/internal/storage"
)

const ownerChat int64 = 42

type fakeAPI struct {
	sent     []tgbotapi.Chattable
	requests int
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) lastText(t *testing.T) string {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("nothing was sent")
	}
	switch c := f.sent[len(f.sent)-1].(type) {
	case tgbotapi.MessageConfig:
		return c.Text
	case tgbotapi.EditMessageTextConfig:
		return c.Text
	}
	t.Fatalf("unexpected message type %T", f.sent[len(f.sent)-1])
	return ""
}

type fixture struct {
	api      *fakeAPI
	now      time.Time
	handler  *UpdateHandler
	supps    *services.SupplementService
	visits   *services.VisitService
	registry *notifications.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		api: &fakeAPI{},
		now: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }

	store := storage.NewMemoryStore()
	errs := apperrors.NewHandler(logger.Discard())
	f.registry = notifications.NewRegistry(clock, logger.Discard())
	scheduler := notifications.NewScheduler(clock)

	f.supps = services.NewSupplementService(ctx, store, f.registry, scheduler, errs, clock,
		services.WithPicker(notifications.FirstPicker))
	f.visits = services.NewVisitService(ctx, store, f.registry, scheduler, errs)

	deps := Dependencies{
		Pregnancy:   services.NewPregnancyService(ctx, store, errs, clock),
		Supplements: f.supps,
		Visits:      f.visits,
		Clock:       clock,
		Location:    time.UTC,
		Errors:      errs,
	}
	f.handler = NewUpdateHandler(f.api, ownerChat, deps, state.NewManager())
	return f
}

func commandUpdate(chatID int64, text string) tgbotapi.Update {
	name := strings.Fields(text)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func textUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{Text: text, Chat: &tgbotapi.Chat{ID: chatID}}}
}

func callbackUpdate(chatID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    data,
		Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: chatID}},
	}}
}

func (f *fixture) send(t *testing.T, update tgbotapi.Update) string {
	t.Helper()
	if err := f.handler.Handle(context.Background(), update); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	return f.api.lastText(t)
}

func TestForeignChatIsIgnored(t *testing.T) {
	f := newFixture(t)
	if err := f.handler.Handle(context.Background(), commandUpdate(7, "/add Iron; 1 Tablet; 09:00")); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if len(f.api.sent) != 0 || len(f.supps.List()) != 0 {
		t.Fatal("updates from other chats must not be served")
	}
}

func TestSupplementFlow(t *testing.T) {
	f := newFixture(t)

	reply := f.send(t, commandUpdate(ownerChat, "/add Iron; 1 Tablet; 09:00; 2026-03-10; 2026-03-12"))
	if !strings.Contains(reply, "Added Iron") || !strings.Contains(reply, "1. 09:00 Iron (1 Tablet)") {
		t.Fatalf("unexpected reply %q", reply)
	}
	if len(f.registry.Pending()) != 3 {
		t.Fatalf("expected 3 reminders, got %d", len(f.registry.Pending()))
	}

	reply = f.send(t, commandUpdate(ownerChat, "/today"))
	if !strings.Contains(reply, "0 of 1 taken") {
		t.Fatalf("unexpected today view %q", reply)
	}
	msg, ok := f.api.sent[len(f.api.sent)-1].(tgbotapi.MessageConfig)
	if !ok || msg.ReplyMarkup == nil {
		t.Fatal("today view should carry status buttons")
	}

	iron := f.supps.List()[0]
	reply = f.send(t, callbackUpdate(ownerChat, keyboards.StatusData(iron.ID, domain.StatusTaken)))
	if !strings.Contains(reply, "1 of 1 taken") {
		t.Fatalf("callback should redraw progress, got %q", reply)
	}
	if f.api.requests != 1 {
		t.Fatal("callback query should be answered")
	}

	f.send(t, commandUpdate(ownerChat, "/edit 1; Iron; 2 Tablets; 20:00; 2026-03-11; 2026-03-11"))
	if got := f.supps.List()[0]; got.Dosage != "2 Tablets" || got.Status != domain.StatusTaken {
		t.Fatalf("edit should replace fields and keep the status, got %+v", got)
	}
	if pending := f.registry.Pending(); len(pending) != 1 || pending[0].FireDate.Hour() != 20 {
		t.Fatalf("edit should reschedule reminders, got %+v", pending)
	}

	f.send(t, commandUpdate(ownerChat, "/remove 1"))
	if len(f.supps.List()) != 0 || len(f.registry.Pending()) != 0 {
		t.Fatal("remove should delete the supplement and its reminders")
	}
}

func TestValidationErrorsAreReported(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		text string
		want string
	}{
		{"/add Iron; 1 Tablet", "Expected: name; dosage"},
		{"/add ; 1 Tablet; 09:00", "Name must not be empty"},
		{"/add Iron; 1 Tablet; 9am", "Time must look like"},
		{"/remove zero", "Expected a list number"},
		{"/schedule Dr. X; Clinic; tomorrow", "Date must look like"},
		{"/begin soon", "Date must look like"},
		{"/add Iron; 1 Tablet; 09:00; 2026-03-12; 2026-03-10", "Date range is inverted"},
		{"/add Iron; 1 Tablet; 09:00; 2026-01-01; 9999-12-31", "at most 731 days"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			reply := f.send(t, commandUpdate(ownerChat, tt.text))
			if !strings.HasPrefix(reply, "⚠️") || !strings.Contains(reply, tt.want) {
				t.Fatalf("reply %q should contain %q", reply, tt.want)
			}
		})
	}
	if len(f.supps.List()) != 0 {
		t.Fatal("invalid input must not change state")
	}
}

func TestVisitFlow(t *testing.T) {
	f := newFixture(t)

	reply := f.send(t, commandUpdate(ownerChat, "/schedule Dr. X; Clinic; 2026-03-12 10:00"))
	if !strings.Contains(reply, "Dr. X") || !strings.Contains(reply, "50:00:00") {
		t.Fatalf("unexpected visit view %q", reply)
	}

	f.send(t, commandUpdate(ownerChat, "/check"))
	reply = f.send(t, textUpdate(ownerChat, "Insurance card"))
	if !strings.Contains(reply, "1. ⬜ Insurance card") {
		t.Fatalf("text answer should become a checklist item, got %q", reply)
	}
	reply = f.send(t, textUpdate(ownerChat, "random chatter"))
	if !strings.Contains(reply, "/help") {
		t.Fatalf("prompt should be consumed after one answer, got %q", reply)
	}

	item := f.visits.Checklist()[0]
	reply = f.send(t, callbackUpdate(ownerChat, keyboards.ToggleData(item.ID)))
	if !strings.Contains(reply, "Checklist 1/1") {
		t.Fatalf("toggle should redraw the checklist, got %q", reply)
	}

	f.send(t, commandUpdate(ownerChat, "/questions"))
	f.send(t, textUpdate(ownerChat, "Is coffee ok?"))
	if f.visits.Questions() != "Is coffee ok?" {
		t.Fatalf("questions not saved: %q", f.visits.Questions())
	}

	f.send(t, commandUpdate(ownerChat, "/resetvisit"))
	if _, ok := f.visits.Appointment(); ok || len(f.visits.Checklist()) != 0 || f.visits.Questions() != "" {
		t.Fatal("reset should clear the visit scope")
	}
	if len(f.registry.Pending()) != 0 {
		t.Fatal("reset should retract the appointment reminders")
	}
}

func TestOnboardingCommands(t *testing.T) {
	f := newFixture(t)

	if reply := f.send(t, commandUpdate(ownerChat, "/start")); !strings.Contains(reply, "/begin") {
		t.Fatalf("first start should ask for the start date, got %q", reply)
	}

	reply := f.send(t, commandUpdate(ownerChat, "/begin 2025-12-29 Anna"))
	if !strings.Contains(reply, "Week 11") {
		t.Fatalf("unexpected week reply %q", reply)
	}
	if reply := f.send(t, commandUpdate(ownerChat, "/start")); !strings.Contains(reply, "Anna") {
		t.Fatalf("welcome should use the name, got %q", reply)
	}

	f.send(t, commandUpdate(ownerChat, "/restart"))
	if reply := f.send(t, commandUpdate(ownerChat, "/start")); !strings.Contains(reply, "/begin") {
		t.Fatalf("restart should bring back the first-run prompt, got %q", reply)
	}
}

func TestUpdateRunsDayRollover(t *testing.T) {
	f := newFixture(t)
	f.send(t, commandUpdate(ownerChat, "/add Folic Acid; 400 mcg; 08:00"))
	sup := f.supps.List()[0]
	f.send(t, callbackUpdate(ownerChat, keyboards.StatusData(sup.ID, domain.StatusMissed)))

	f.now = f.now.AddDate(0, 0, 1)
	reply := f.send(t, commandUpdate(ownerChat, "/today"))
	if !strings.Contains(reply, "0 of 1 taken") || !strings.Contains(reply, "⏳") {
		t.Fatalf("statuses should be back to pending, got %q", reply)
	}
}

func TestParseSupplement(t *testing.T) {
	parsed, err := parseSupplement("Iron ; 1 Tablet ; 09:30", time.UTC)
	if err != nil {
		t.Fatalf("parseSupplement returned error: %v", err)
	}
	input := parsed.input
	if input.Name != "Iron" || input.Dosage != "1 Tablet" || input.Time != (domain.TimeOfDay{Hour: 9, Minute: 30}) || !input.Recurrence.IsAlways() {
		t.Fatalf("unexpected input %+v", input)
	}
	if parsed.hasRange || parsed.hasInstructions {
		t.Fatalf("no optional parts were given: %+v", parsed)
	}

	parsed, err = parseSupplement("Iron; 1 Tablet; 09:30; with juice", time.UTC)
	if err != nil || !parsed.hasInstructions || parsed.hasRange || parsed.input.Instructions != "with juice" {
		t.Fatalf("instructions without dates: %+v, %v", parsed, err)
	}

	parsed, err = parseSupplement("Iron; 1 Tablet; 09:30; 2026-03-10; 2026-03-12; after lunch", time.UTC)
	if err != nil || !parsed.hasRange || parsed.input.Instructions != "after lunch" {
		t.Fatalf("range with instructions: %+v, %v", parsed, err)
	}
	if start, end, ok := parsed.input.Recurrence.Bounds(); !ok || start.Day() != 10 || end.Day() != 12 {
		t.Fatalf("unexpected range %v %v", start, end)
	}

	index, _, err := parseEdit("3; Iron; 1 Tablet; 09:30", time.UTC)
	if err != nil || index != 2 {
		t.Fatalf("parseEdit = %d, %v", index, err)
	}
}

func TestParseSupplementRejectsBadRanges(t *testing.T) {
	tests := []struct {
		name string
		args string
		kind apperrors.ErrorType
	}{
		{"inverted", "Iron; 1 Tablet; 09:30; 2026-03-12; 2026-03-10", apperrors.ErrorTypeInvalidRange},
		{"far future end", "Iron; 1 Tablet; 09:30; 2026-01-01; 9999-12-31", apperrors.ErrorTypeValidation},
		{"just over two years", "Iron; 1 Tablet; 09:30; 2026-01-01; 2028-01-03", apperrors.ErrorTypeValidation},
		{"bad end", "Iron; 1 Tablet; 09:30; 2026-01-01; soon", apperrors.ErrorTypeValidation},
		{"too many parts", "Iron; 1 Tablet; 09:30; 2026-01-01; 2026-01-02; a; b", apperrors.ErrorTypeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseSupplement(tt.args, time.UTC); !apperrors.IsType(err, tt.kind) {
				t.Fatalf("expected %s error, got %v", tt.kind, err)
			}
		})
	}

	if _, err := parseSupplement("Iron; 1 Tablet; 09:30; 2026-01-01; 2028-01-01", time.UTC); err != nil {
		t.Fatalf("a two year range should be accepted: %v", err)
	}
}

func TestEditKeepsOmittedParts(t *testing.T) {
	f := newFixture(t)
	f.send(t, commandUpdate(ownerChat, "/add Iron; 1 Tablet; 09:00; 2026-03-10; 2026-03-12; with juice"))

	reply := f.send(t, commandUpdate(ownerChat, "/edit 1; Iron; 2 Tablets; 20:00"))
	if !strings.Contains(reply, "Updated Iron") {
		t.Fatalf("unexpected reply %q", reply)
	}
	got := f.supps.List()[0]
	start, end, ok := got.Recurrence.Bounds()
	if !ok || start.Day() != 10 || end.Day() != 12 {
		t.Fatalf("edit without dates should keep the range, got %+v", got.Recurrence)
	}
	if got.Instructions != "with juice" || got.Dosage != "2 Tablets" {
		t.Fatalf("unexpected supplement %+v", got)
	}
	for _, req := range f.registry.Pending() {
		if req.FireDate.Hour() != 20 {
			t.Fatalf("reminders should follow the new time, got %+v", req)
		}
	}

	f.send(t, commandUpdate(ownerChat, "/edit 1; Iron; 2 Tablets; 20:00; before bed"))
	if got := f.supps.List()[0]; got.Instructions != "before bed" || got.Recurrence.IsAlways() {
		t.Fatalf("instructions should change and the range stay, got %+v", got)
	}
}

func TestParseCallback(t *testing.T) {
	sup := domain.Supplement{ID: [16]byte{1}}

	action, err := parseCallback(keyboards.StatusData(sup.ID, domain.StatusLate))
	if err != nil || action.Kind != keyboards.CallbackStatus || action.Status != domain.StatusLate || action.ID != sup.ID {
		t.Fatalf("parseCallback = %+v, %v", action, err)
	}

	for _, data := range []string{"", "status|nope|taken", "status|" + sup.ID.String() + "|skipped", "delete|" + sup.ID.String()} {
		if _, err := parseCallback(data); err == nil {
			t.Errorf("expected error for %q", data)
		}
	}
}
