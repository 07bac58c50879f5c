// Package notification subscribes to domain events and sends email
// notifications in response. Domain modules publish events without
// knowing about email providers or templates.
package notification

import (
	"context"
	"fmt"
	"strings"

	"wholesale_crm_backend/internal/email"
	"wholesale_crm_backend/internal/events"
	"wholesale_crm_backend/platform/config"
	"wholesale_crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module handles all notification-related event subscriptions. It is
// not HTTP-facing; it only reacts to events on the bus.
type Module struct {
	pool        *pgxpool.Pool
	sender      email.Sender
	notifyEmail string
	log         *logger.Logger
}

// New creates a new notification module. The notify address falls back
// to the sender address when NOTIFY_EMAIL is unset.
func New(pool *pgxpool.Pool, sender email.Sender, cfg config.EmailConfig, log *logger.Logger) *Module {
	notifyEmail := strings.TrimSpace(cfg.GetNotifyEmail())
	if notifyEmail == "" {
		notifyEmail = strings.TrimSpace(cfg.GetEmailFromAddress())
	}

	return &Module{
		pool:        pool,
		sender:      sender,
		notifyEmail: notifyEmail,
		log:         log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.TaskDue{}.EventName(), m)
	bus.Subscribe(events.OfferAccepted{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.TaskDue:
		return m.handleTaskDue(ctx, e)
	case events.OfferAccepted:
		return m.handleOfferAccepted(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleTaskDue(ctx context.Context, e events.TaskDue) error {
	if m.notifyEmail == "" {
		m.log.Debug("task due notification skipped, no notify address", "taskId", e.TaskID)
		return nil
	}

	leadLabel := m.resolveLeadLabel(ctx, e.LeadID)
	dueAt := e.DueDate.Format("Mon, 02 Jan 2006 15:04 MST")

	if err := m.sender.SendTaskDueEmail(ctx, m.notifyEmail, e.Title, e.Priority, dueAt, leadLabel); err != nil {
		m.log.Error("failed to send task due email",
			"taskId", e.TaskID,
			"email", m.notifyEmail,
			"error", err,
		)
		return err
	}
	m.log.Info("task due email sent", "taskId", e.TaskID, "email", m.notifyEmail)
	return nil
}

func (m *Module) handleOfferAccepted(ctx context.Context, e events.OfferAccepted) error {
	if m.notifyEmail == "" {
		m.log.Debug("offer accepted notification skipped, no notify address", "offerId", e.OfferID)
		return nil
	}

	buyerName := m.resolveBuyerName(ctx, e.BuyerID)
	leadLabel := m.resolveLeadLabel(ctx, e.LeadID)
	amount := fmt.Sprintf("$%.0f", e.Amount)

	if err := m.sender.SendOfferAcceptedEmail(ctx, m.notifyEmail, buyerName, amount, leadLabel); err != nil {
		m.log.Error("failed to send offer accepted email",
			"offerId", e.OfferID,
			"email", m.notifyEmail,
			"error", err,
		)
		return err
	}
	m.log.Info("offer accepted email sent", "offerId", e.OfferID, "email", m.notifyEmail)
	return nil
}

// resolveLeadLabel builds a short "seller, address" label for emails.
// Lookups are best effort; an empty label hides the line in the template.
func (m *Module) resolveLeadLabel(ctx context.Context, leadID uuid.UUID) string {
	if m.pool == nil || leadID == uuid.Nil {
		return ""
	}

	var sellerName, addressLine, city string
	err := m.pool.QueryRow(ctx,
		`SELECT l.seller_name, COALESCE(p.address_line, ''), COALESCE(p.city, '')
		   FROM wcrm_leads l
		   LEFT JOIN wcrm_properties p ON p.lead_id = l.id
		  WHERE l.id = $1`,
		leadID,
	).Scan(&sellerName, &addressLine, &city)
	if err != nil {
		return ""
	}

	address := strings.TrimSpace(addressLine + " " + city)
	if address == "" {
		return strings.TrimSpace(sellerName)
	}
	return strings.TrimSpace(sellerName) + ", " + address
}

func (m *Module) resolveBuyerName(ctx context.Context, buyerID uuid.UUID) string {
	if m.pool == nil || buyerID == uuid.Nil {
		return ""
	}

	var name string
	if err := m.pool.QueryRow(ctx, `SELECT name FROM wcrm_buyers WHERE id = $1`, buyerID).Scan(&name); err != nil {
		return ""
	}
	return strings.TrimSpace(name)
}
