package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"

	"github.com/mandolon/rehome-platform-sub001/internal/config"
	"github.com/mandolon/rehome-platform-sub001/internal/domain"
)

// StatusChange is the in-process event raised after a status mutation has been
// committed. Exactly one event is published per committed transition.
type StatusChange struct {
	Entity     string
	EntityID   uuid.UUID
	ProjectID  uuid.UUID
	Title      string
	ActorID    uuid.UUID
	From       string
	To         string
	Recipients []uuid.UUID
}

// NotificationStore persists in-app notifications and email delivery state.
type NotificationStore interface {
	Create(ctx context.Context, n *domain.Notification) error
	UpdateEmailState(ctx context.Context, id uuid.UUID, state domain.NotificationEmailState, attempts int) error
	ListPendingEmail(ctx context.Context, maxAttempts, limit int) ([]domain.Notification, error)
}

// UserDirectory resolves recipient addresses.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Mailer sends a single transactional email.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Dispatcher consumes status-change events and fans each one out to its
// recipients: one in-app notification row plus one best-effort email per
// recipient. Delivery failures are logged and left for the retry sweep;
// nothing propagates back to the publisher.
type Dispatcher struct {
	events chan StatusChange
	pool   *ants.Pool
	store  NotificationStore
	users  UserDirectory
	mailer Mailer

	maxEmailAttempts int
	done             chan struct{}
}

// NewDispatcher creates a dispatcher with a bounded event buffer and a bounded
// delivery pool.
func NewDispatcher(cfg config.NotifyConfig, store NotificationStore, users UserDirectory, mailer Mailer) (*Dispatcher, error) {
	pool, err := ants.NewPool(cfg.WorkerPoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create delivery pool: %w", err)
	}

	return &Dispatcher{
		events:           make(chan StatusChange, cfg.BufferSize),
		pool:             pool,
		store:            store,
		users:            users,
		mailer:           mailer,
		maxEmailAttempts: cfg.MaxEmailAttempts,
		done:             make(chan struct{}),
	}, nil
}

// Start launches the consumer goroutine.
func (d *Dispatcher) Start() {
	go func() {
		defer close(d.done)
		for ev := range d.events {
			d.handle(ev)
		}
	}()
}

// Stop drains the event buffer and releases the delivery pool.
func (d *Dispatcher) Stop() {
	close(d.events)
	<-d.done
	d.pool.Release()
}

// Publish enqueues an event without blocking the caller. If the buffer is
// full the event is dropped and logged; a notification must never stall or
// fail the mutation that produced it.
func (d *Dispatcher) Publish(ev StatusChange) {
	select {
	case d.events <- ev:
	default:
		log.Warn().
			Str("entity", ev.Entity).
			Str("entity_id", ev.EntityID.String()).
			Msg("notification buffer full, dropping status-change event")
	}
}

func (d *Dispatcher) handle(ev StatusChange) {
	ctx := context.Background()

	seen := make(map[uuid.UUID]bool, len(ev.Recipients))
	for _, recipient := range ev.Recipients {
		if recipient == uuid.Nil || seen[recipient] {
			continue
		}
		seen[recipient] = true

		n := &domain.Notification{
			ID:     uuid.New(),
			UserID: recipient,
			Type:   notificationType(ev.Entity),
			Payload: map[string]any{
				"entity":     ev.Entity,
				"entity_id":  ev.EntityID.String(),
				"project_id": ev.ProjectID.String(),
				"title":      ev.Title,
				"from":       ev.From,
				"to":         ev.To,
				"actor_id":   ev.ActorID.String(),
			},
			EmailState: domain.EmailStatePending,
			CreatedAt:  time.Now(),
		}

		if err := d.store.Create(ctx, n); err != nil {
			log.Error().Err(err).
				Str("recipient", recipient.String()).
				Msg("failed to persist notification")
			continue
		}

		notification := n
		if err := d.pool.Submit(func() { d.deliverEmail(notification) }); err != nil {
			// Pool is released or overloaded; the retry sweep picks it up.
			log.Warn().Err(err).Msg("failed to submit email delivery job")
		}
	}
}

func (d *Dispatcher) deliverEmail(n *domain.Notification) {
	ctx := context.Background()

	user, err := d.users.GetByID(ctx, n.UserID)
	if err != nil || user == nil {
		log.Error().Err(err).Str("user_id", n.UserID.String()).Msg("failed to resolve notification recipient")
		d.recordAttempt(ctx, n, false)
		return
	}

	subject, html := renderEmail(n)
	if err := d.mailer.Send(ctx, user.Email, subject, html); err != nil {
		log.Warn().Err(err).Str("to", user.Email).Msg("email delivery failed")
		d.recordAttempt(ctx, n, false)
		return
	}

	d.recordAttempt(ctx, n, true)
}

func (d *Dispatcher) recordAttempt(ctx context.Context, n *domain.Notification, delivered bool) {
	n.EmailAttempts++
	state := domain.EmailStatePending
	if delivered {
		state = domain.EmailStateSent
	} else if n.EmailAttempts >= d.maxEmailAttempts {
		state = domain.EmailStateFailed
	}

	if err := d.store.UpdateEmailState(ctx, n.ID, state, n.EmailAttempts); err != nil {
		log.Error().Err(err).Str("notification_id", n.ID.String()).Msg("failed to record email state")
	}
}

// RetryPendingEmails re-sends notifications whose email never went out. Run
// periodically by the scheduler.
func (d *Dispatcher) RetryPendingEmails(ctx context.Context) {
	pending, err := d.store.ListPendingEmail(ctx, d.maxEmailAttempts, 100)
	if err != nil {
		log.Error().Err(err).Msg("failed to list pending notification emails")
		return
	}

	for i := range pending {
		notification := pending[i]
		if err := d.pool.Submit(func() { d.deliverEmail(&notification) }); err != nil {
			log.Warn().Err(err).Msg("failed to submit email retry job")
			return
		}
	}
}

func notificationType(entity string) string {
	switch entity {
	case "request":
		return domain.NotificationRequestStatusChanged
	default:
		return domain.NotificationTaskStatusChanged
	}
}

func renderEmail(n *domain.Notification) (subject, html string) {
	title, _ := n.Payload["title"].(string)
	from, _ := n.Payload["from"].(string)
	to, _ := n.Payload["to"].(string)

	switch n.Type {
	case domain.NotificationRequestStatusChanged:
		subject = fmt.Sprintf("Request updated: %s", title)
	case domain.NotificationTaskOverdue:
		subject = fmt.Sprintf("Task overdue: %s", title)
		html = fmt.Sprintf("<p>The task <strong>%s</strong> is past its due date.</p>", title)
		return subject, html
	default:
		subject = fmt.Sprintf("Task updated: %s", title)
	}

	html = fmt.Sprintf(
		"<p><strong>%s</strong> moved from <em>%s</em> to <em>%s</em>.</p>",
		title, from, to,
	)
	return subject, html
}
