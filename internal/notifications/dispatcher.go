package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vladimiradmaev/mammafy-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/mammafy-helper/internal/errors"
	"github.com/vladimiradmaev/mammafy-helper/internal/utils"
)

// Sender delivers a due notification to the user.
type Sender interface {
	Send(ctx context.Context, req domain.NotificationRequest) error
}

// DispatcherConfig holds the cron specs of the periodic jobs
type DispatcherConfig struct {
	DispatchSpec string
	RolloverSpec string
	Location     *time.Location
	Clock        utils.Clock
}

// Dispatcher periodically drains due requests from the registry into the senders
// and runs the midnight day-rollover hook.
type Dispatcher struct {
	cron     *cron.Cron
	registry *Registry
	senders  []Sender
	rollover func(ctx context.Context) bool
	now      utils.Clock
	errs     *apperrors.Handler
	logger   *slog.Logger
}

// NewDispatcher registers the cron jobs. rollover may be nil.
func NewDispatcher(cfg DispatcherConfig, registry *Registry, senders []Sender, rollover func(ctx context.Context) bool, logger *slog.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	clock := cfg.Clock
	if clock == nil {
		clock = utils.SystemClock(loc)
	}

	d := &Dispatcher{
		cron:     cron.New(cron.WithLocation(loc)),
		registry: registry,
		senders:  senders,
		rollover: rollover,
		now:      clock,
		errs:     apperrors.NewHandler(logger),
		logger:   logger,
	}

	if _, err := d.cron.AddFunc(cfg.DispatchSpec, func() {
		d.DeliverDue(context.Background())
	}); err != nil {
		return nil, fmt.Errorf("invalid dispatch schedule %q: %w", cfg.DispatchSpec, err)
	}

	if rollover != nil && cfg.RolloverSpec != "" {
		if _, err := d.cron.AddFunc(cfg.RolloverSpec, func() {
			if d.rollover(context.Background()) {
				d.logger.Info("Daily supplement statuses reset")
			}
		}); err != nil {
			return nil, fmt.Errorf("invalid rollover schedule %q: %w", cfg.RolloverSpec, err)
		}
	}

	return d, nil
}

// Start runs the scheduler in its own goroutine
func (d *Dispatcher) Start() {
	d.logger.Info("Notification dispatcher started", "senders", len(d.senders))
	d.cron.Start()
}

// Stop stops the scheduler and waits for running jobs
func (d *Dispatcher) Stop() {
	<-d.cron.Stop().Done()
	d.logger.Info("Notification dispatcher stopped")
}

// DeliverDue sends every due request to every sender and returns how many were due.
// A failing sender does not stop the others.
func (d *Dispatcher) DeliverDue(ctx context.Context) int {
	due := d.registry.TakeDue(d.now())
	for _, req := range due {
		for _, sender := range d.senders {
			if err := sender.Send(ctx, req); err != nil {
				d.errs.Handle(ctx, apperrors.NewDeliveryError(err, req.ID))
			}
		}
	}
	if len(due) > 0 {
		d.logger.InfoContext(ctx, "Delivered notifications", "count", len(due))
	}
	return len(due)
}

// LogSender writes notifications to the log. Useful when no chat is configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(ctx context.Context, req domain.NotificationRequest) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "Notification", "id", req.ID, "title", req.Title, "body", req.Body)
	return nil
}
