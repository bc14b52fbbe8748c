package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mandolon/rehome-platform-sub001/internal/config"
	"github.com/mandolon/rehome-platform-sub001/internal/domain"
	"github.com/mandolon/rehome-platform-sub001/internal/notify"
)

// OverdueTaskSource lists tasks whose due date has passed without completion.
type OverdueTaskSource interface {
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Task, error)
}

// Manager owns the background jobs: the email retry sweep and the daily
// overdue-task reminder.
type Manager struct {
	scheduler  gocron.Scheduler
	dispatcher *notify.Dispatcher
	tasks      OverdueTaskSource
	store      notify.NotificationStore
	cfg        config.NotifyConfig
}

// NewManager creates a job manager. Jobs are registered but not running until
// Start is called.
func NewManager(cfg config.NotifyConfig, dispatcher *notify.Dispatcher, tasks OverdueTaskSource, store notify.NotificationStore) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	m := &Manager{
		scheduler:  s,
		dispatcher: dispatcher,
		tasks:      tasks,
		store:      store,
		cfg:        cfg,
	}

	if err := m.registerJobs(); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Manager) registerJobs() error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(m.cfg.RetryInterval),
		gocron.NewTask(m.retryPendingEmails),
		gocron.WithName("notification-email-retry"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to register email retry job: %w", err)
	}

	_, err = m.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(7, 0, 0))),
		gocron.NewTask(m.sweepOverdueTasks),
		gocron.WithName("overdue-task-reminder"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to register overdue sweep job: %w", err)
	}

	return nil
}

// Start launches the scheduler.
func (m *Manager) Start() {
	m.scheduler.Start()
	log.Info().Msg("background job manager started")
}

// Stop shuts the scheduler down, waiting for running jobs.
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		log.Error().Err(err).Msg("failed to shut down job manager")
	}
}

func (m *Manager) retryPendingEmails() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	m.dispatcher.RetryPendingEmails(ctx)
}

// sweepOverdueTasks creates an in-app reminder for the assignee of every task
// past its due date and not yet done.
func (m *Manager) sweepOverdueTasks() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	overdue, err := m.tasks.ListOverdue(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("overdue sweep failed to list tasks")
		return
	}

	created := 0
	for i := range overdue {
		t := &overdue[i]
		if t.AssigneeID == nil {
			continue
		}

		n := &domain.Notification{
			ID:     uuid.New(),
			UserID: *t.AssigneeID,
			Type:   domain.NotificationTaskOverdue,
			Payload: map[string]any{
				"task_id":    t.ID.String(),
				"project_id": t.ProjectID.String(),
				"title":      t.Title,
				"due_date":   t.DueDate.Format(time.RFC3339),
				"status":     string(t.Status),
			},
			EmailState: domain.EmailStatePending,
		}
		if err := m.store.Create(ctx, n); err != nil {
			log.Error().Err(err).Str("task_id", t.ID.String()).Msg("failed to create overdue notification")
			continue
		}
		created++
	}

	log.Info().Int("overdue", len(overdue)).Int("notified", created).Msg("overdue task sweep finished")
}
