// Package conversation is the booking state machine: it turns one inbound
// WhatsApp message plus the stored session into outbound messages and a new
// session state.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	coreconfig "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/config"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/logger"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/interactive"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/message"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/middleware"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/options"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/internal/booking"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/internal/session"
)

const scheduleKeyword = "agendar"

// Catalog is the booking API as seen by the flow.
type Catalog interface {
	Categories(ctx context.Context) ([]booking.Category, error)
	Services(ctx context.Context, categoryID int) ([]booking.Service, error)
	AvailableHours(ctx context.Context, serviceID int, date string) ([]booking.Slot, error)
	Professional(ctx context.Context, serviceID, professionalID int) (*booking.Professional, error)
	CreateReservation(ctx context.Context, req booking.ReservationRequest) ([]booking.Booking, error)
}

// Messenger delivers outbound WhatsApp messages.
type Messenger interface {
	SendText(ctx context.Context, to, text string) error
	SendButtons(ctx context.Context, to string, msg interactive.Buttons) error
	SendList(ctx context.Context, to string, msg interactive.List) error
	SendLink(ctx context.Context, to string, msg interactive.Link) error
}

// Sessions loads and stores conversation progress.
type Sessions interface {
	GetOrCreate(ctx context.Context, phone string) (*session.Session, bool, error)
	Update(ctx context.Context, s *session.Session) error
}

// Engine runs the booking flow.
type Engine struct {
	catalog  Catalog
	sender   Messenger
	sessions Sessions
	business coreconfig.BusinessConfig
}

// New builds an Engine.
func New(catalog Catalog, sender Messenger, sessions Sessions, business coreconfig.BusinessConfig) *Engine {
	return &Engine{catalog: catalog, sender: sender, sessions: sessions, business: business}
}

// HandleMessage processes one inbound message. Any step error is answered
// with the generic failure reply and returned; the session is not persisted
// in that case.
func (e *Engine) HandleMessage(ctx context.Context, msg message.Inbound) error {
	err := e.handle(ctx, msg)
	if err == nil {
		return nil
	}
	attrs := []slog.Attr{slog.String("status", "fail")}
	attrs = append(attrs, logger.ErrAttrs(err)...)
	logger.Error(ctx, logger.CompFlow, "step.failed", attrs...)

	var notified *notifiedError
	if errors.As(err, &notified) {
		return err
	}
	if sendErr := e.sendFailure(ctx, msg.From); sendErr != nil {
		return errors.Join(err, fmt.Errorf("send failure reply: %w", sendErr))
	}
	return err
}

func (e *Engine) handle(ctx context.Context, msg message.Inbound) error {
	to := msg.From
	sess, created, err := e.sessions.GetOrCreate(ctx, to)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	ctx = logger.WithStep(ctx, sess.Step)
	middleware.RecordStep(ctx, sess.Step)

	if created {
		return e.welcome(ctx, to)
	}

	option := strings.TrimSpace(msg.OptionID)
	// Interactive replies carry the button title in Text, so the keyword
	// only applies to typed messages.
	if option == options.Schedule || (option == "" && strings.Contains(strings.ToLower(msg.Text), scheduleKeyword)) {
		return e.startScheduling(ctx, sess)
	}
	if option == options.Instagram {
		return e.instagram(ctx, to)
	}

	st, ok := Decode(sess)
	if !ok {
		return e.resetToWelcome(ctx, sess)
	}
	if option == "" && st.Step() > StepWelcome && st.Step() != StepDate {
		return e.Resend(ctx, to, st)
	}

	switch st := st.(type) {
	case Welcome:
		return e.welcome(ctx, to)
	case AwaitingCategory:
		return e.selectCategory(ctx, sess, option)
	case AwaitingService:
		return e.selectService(ctx, sess, st, option)
	case AwaitingDate:
		return e.selectDate(ctx, sess, st, msg.Text)
	case AwaitingHour:
		return e.selectHour(ctx, sess, st, option)
	case AwaitingProfessional:
		return e.selectProfessional(ctx, sess, st, option)
	case AwaitingConfirmation:
		return e.confirm(ctx, sess, st, option)
	}
	return e.resetToWelcome(ctx, sess)
}

// advance persists next after its prompt was sent.
func (e *Engine) advance(ctx context.Context, sess *session.Session, next State) error {
	from := sess.Step
	Encode(next, sess)
	if err := e.sessions.Update(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	outcome := "advanced"
	if next.Step() <= from {
		outcome = "reset"
	}
	logger.Info(ctx, logger.CompFlow, "step.handled",
		slog.String("status", "ok"),
		slog.Int("next_step", next.Step()),
		slog.String("outcome", outcome),
	)
	return nil
}

func (e *Engine) stay(ctx context.Context, cause string) {
	logger.Info(ctx, logger.CompFlow, "step.handled",
		slog.String("status", "ok"),
		slog.String("outcome", "stayed"),
		slog.String("cause", cause),
	)
}

func (e *Engine) welcome(ctx context.Context, to string) error {
	return e.sender.SendButtons(ctx, to, welcomeMessage(e.business.Name))
}

func (e *Engine) resetToWelcome(ctx context.Context, sess *session.Session) error {
	logger.Warn(ctx, logger.CompFlow, "state.unrecognized",
		slog.String("status", "skip"),
		slog.Int("step", sess.Step),
	)
	if err := e.welcome(ctx, sess.Phone); err != nil {
		return err
	}
	return e.advance(ctx, sess, Welcome{})
}

func (e *Engine) instagram(ctx context.Context, to string) error {
	url := strings.TrimSpace(e.business.InstagramURL)
	if url == "" {
		logger.Warn(ctx, logger.CompFlow, "instagram.unconfigured", slog.String("status", "skip"))
		return nil
	}
	return e.sender.SendLink(ctx, to, instagramLink(url))
}

// sendFailure sends the generic failure text followed by the fallback booking
// link. When the link button cannot be sent the bare url is sent instead.
func (e *Engine) sendFailure(ctx context.Context, to string) error {
	if err := e.sender.SendText(ctx, to, failureText); err != nil {
		return err
	}
	url := strings.TrimSpace(e.business.ScheduleURL)
	if url == "" {
		return nil
	}
	if err := e.sender.SendLink(ctx, to, failureLink(url)); err != nil {
		logger.Warn(ctx, logger.CompFlow, "failure.link",
			append([]slog.Attr{slog.String("status", "fail")}, logger.ErrAttrs(err)...)...)
		return e.sender.SendText(ctx, to, url)
	}
	return nil
}

func warnDropped(ctx context.Context, what string, dropped int) {
	if dropped <= 0 {
		return
	}
	logger.Warn(ctx, logger.CompFlow, "list.truncated",
		slog.String("status", "ok"),
		slog.String("cause", what),
		slog.Int("count", dropped),
	)
}
