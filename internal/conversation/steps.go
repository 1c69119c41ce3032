package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/logger"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/format"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/options"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/internal/booking"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/internal/session"
)

func (e *Engine) startScheduling(ctx context.Context, sess *session.Session) error {
	if err := e.sendCategories(ctx, sess.Phone); err != nil {
		return err
	}
	return e.advance(ctx, sess, AwaitingCategory{})
}

func (e *Engine) selectCategory(ctx context.Context, sess *session.Session, option string) error {
	id, err := options.Parse(option, options.Category)
	if err != nil {
		e.stay(ctx, "malformed_option")
		return e.sendCategories(ctx, sess.Phone)
	}
	svcs, err := e.catalog.Services(ctx, id)
	if err != nil {
		return fmt.Errorf("services of category %d: %w", id, err)
	}
	if len(svcs) == 0 {
		e.stay(ctx, "no_services")
		return e.sendCategories(ctx, sess.Phone)
	}

	cat := CategoryRef{ID: id, Name: e.categoryName(ctx, id)}
	list, dropped := servicesList(svcs)
	warnDropped(ctx, "services", dropped)
	if err := e.sender.SendList(ctx, sess.Phone, list); err != nil {
		return err
	}
	return e.advance(ctx, sess, AwaitingService{Category: cat})
}

func (e *Engine) selectService(ctx context.Context, sess *session.Session, st AwaitingService, option string) error {
	id, err := options.Parse(option, options.Service)
	if err != nil {
		e.stay(ctx, "malformed_option")
		return e.sendServices(ctx, sess.Phone, st.Category.ID)
	}
	svc := e.serviceDetails(ctx, st.Category.ID, id)
	if err := e.sender.SendText(ctx, sess.Phone, datePromptText); err != nil {
		return err
	}
	return e.advance(ctx, sess, AwaitingDate{AwaitingService: st, Service: svc})
}

func (e *Engine) selectDate(ctx context.Context, sess *session.Session, st AwaitingDate, text string) error {
	date, ok := format.ParseDate(text)
	if !ok {
		e.stay(ctx, "invalid_date")
		return e.sender.SendText(ctx, sess.Phone, dateFormatText)
	}
	slots, err := e.catalog.AvailableHours(ctx, st.Service.ID, date)
	if err != nil {
		return fmt.Errorf("hours of service %d on %s: %w", st.Service.ID, date, err)
	}
	if len(slots) == 0 {
		e.stay(ctx, "no_availability")
		return e.sender.SendText(ctx, sess.Phone, noAvailabilityText)
	}
	if err := e.sendHoursList(ctx, sess.Phone, slots); err != nil {
		return err
	}
	return e.advance(ctx, sess, AwaitingHour{AwaitingDate: st, Date: date})
}

func (e *Engine) selectHour(ctx context.Context, sess *session.Session, st AwaitingHour, option string) error {
	minutes, err := options.Parse(option, options.Hour)
	if err != nil {
		e.stay(ctx, "malformed_option")
		return e.sendHours(ctx, sess.Phone, st.Service.ID, st.Date)
	}
	slots, err := e.catalog.AvailableHours(ctx, st.Service.ID, st.Date)
	if err != nil {
		return fmt.Errorf("hours of service %d on %s: %w", st.Service.ID, st.Date, err)
	}
	slot, found := findSlot(slots, minutes)
	if !found || len(slot.Professionals) == 0 {
		e.stay(ctx, "slot_gone")
		return e.sendHoursList(ctx, sess.Phone, slots)
	}

	pros := e.professionals(ctx, st.Service.ID, slot.Professionals)
	if len(pros) == 0 {
		return ErrNoProfessionals
	}
	if err := e.sendProfessionalsList(ctx, sess.Phone, pros); err != nil {
		return err
	}
	return e.advance(ctx, sess, AwaitingProfessional{AwaitingHour: st, Hour: minutes})
}

func (e *Engine) selectProfessional(ctx context.Context, sess *session.Session, st AwaitingProfessional, option string) error {
	id, err := options.Parse(option, options.Professional)
	if err != nil {
		e.stay(ctx, "malformed_option")
		return e.sendProfessionals(ctx, sess.Phone, st)
	}
	name := ""
	if p, ok := e.professional(ctx, st.Service.ID, id); ok {
		name = p.DisplayName()
	}
	next := AwaitingConfirmation{
		AwaitingProfessional: st,
		Professional:         ProfessionalRef{ID: id, Name: name},
	}
	if !summaryComplete(next) {
		return ErrIncomplete
	}
	if err := e.sender.SendButtons(ctx, sess.Phone, confirmationMessage(next)); err != nil {
		return err
	}
	return e.advance(ctx, sess, next)
}

// confirm handles its own failures: the failure reply is sent here and the
// session is reset in every outcome except a re-sent summary.
func (e *Engine) confirm(ctx context.Context, sess *session.Session, st AwaitingConfirmation, option string) error {
	var err error
	switch option {
	case options.Confirm:
		err = e.reserve(ctx, sess.Phone, st)
	case options.Cancel:
		logger.Info(ctx, logger.CompFlow, "reservation.cancelled",
			slog.String("status", "cancelled"),
			slog.String("outcome", "cancelled"),
		)
		err = e.sender.SendText(ctx, sess.Phone, cancelledText)
	default:
		e.stay(ctx, "unexpected_option")
		return e.sendConfirmation(ctx, sess.Phone, st)
	}

	if err != nil {
		attrs := []slog.Attr{slog.String("status", "fail")}
		attrs = append(attrs, logger.ErrAttrs(err)...)
		logger.Error(ctx, logger.CompFlow, "confirmation.failed", attrs...)
		if sendErr := e.sendFailure(ctx, sess.Phone); sendErr != nil {
			logger.Warn(ctx, logger.CompFlow, "failure.reply",
				append([]slog.Attr{slog.String("status", "fail")}, logger.ErrAttrs(sendErr)...)...)
		}
	}
	resetErr := e.advance(ctx, sess, Welcome{})
	if err != nil || resetErr != nil {
		return &notifiedError{err: errors.Join(err, resetErr)}
	}
	return nil
}

func (e *Engine) reserve(ctx context.Context, to string, st AwaitingConfirmation) error {
	req := booking.ReservationRequest{
		ProfessionalID: st.Professional.ID,
		ServiceID:      st.Service.ID,
		Date:           st.Date,
		StartMinutes:   st.Hour,
	}
	if _, err := e.catalog.CreateReservation(ctx, req); err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return e.sender.SendText(ctx, to, successText)
}

func summaryComplete(st AwaitingConfirmation) bool {
	return st.Date != "" && st.Service.Name != "" && st.Professional.Name != ""
}

func findSlot(slots []booking.Slot, minutes int) (booking.Slot, bool) {
	for _, s := range slots {
		if s.Minutes == minutes {
			return s, true
		}
	}
	return booking.Slot{}, false
}
