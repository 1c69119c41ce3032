package conversation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/logger"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/internal/booking"
)

// Resend repeats the prompt of st from its stored selections, refetching
// list data. It never modifies or persists the session.
func (e *Engine) Resend(ctx context.Context, to string, st State) error {
	logger.Info(ctx, logger.CompFlow, "step.handled",
		slog.String("status", "ok"),
		slog.String("outcome", "resent"),
	)
	switch st := st.(type) {
	case Welcome:
		return e.welcome(ctx, to)
	case AwaitingCategory:
		return e.sendCategories(ctx, to)
	case AwaitingService:
		return e.sendServices(ctx, to, st.Category.ID)
	case AwaitingDate:
		return e.sender.SendText(ctx, to, datePromptText)
	case AwaitingHour:
		return e.sendHours(ctx, to, st.Service.ID, st.Date)
	case AwaitingProfessional:
		return e.sendProfessionals(ctx, to, st)
	case AwaitingConfirmation:
		return e.sendConfirmation(ctx, to, st)
	}
	return fmt.Errorf("resend: unknown state %T", st)
}

func (e *Engine) sendCategories(ctx context.Context, to string) error {
	cats, err := e.catalog.Categories(ctx)
	if err != nil {
		return fmt.Errorf("categories: %w", err)
	}
	if len(cats) == 0 {
		return ErrNoCategories
	}
	list, dropped := categoriesList(cats)
	warnDropped(ctx, "categories", dropped)
	return e.sender.SendList(ctx, to, list)
}

func (e *Engine) sendServices(ctx context.Context, to string, categoryID int) error {
	svcs, err := e.catalog.Services(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("services of category %d: %w", categoryID, err)
	}
	if len(svcs) == 0 {
		return ErrNoServices
	}
	list, dropped := servicesList(svcs)
	warnDropped(ctx, "services", dropped)
	return e.sender.SendList(ctx, to, list)
}

func (e *Engine) sendHours(ctx context.Context, to string, serviceID int, date string) error {
	slots, err := e.catalog.AvailableHours(ctx, serviceID, date)
	if err != nil {
		return fmt.Errorf("hours of service %d on %s: %w", serviceID, date, err)
	}
	return e.sendHoursList(ctx, to, slots)
}

func (e *Engine) sendHoursList(ctx context.Context, to string, slots []booking.Slot) error {
	if len(slots) == 0 {
		return ErrNoHours
	}
	lists, dropped := hoursLists(slots)
	warnDropped(ctx, "hours", dropped)
	for _, list := range lists {
		if err := e.sender.SendList(ctx, to, list); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) sendProfessionals(ctx context.Context, to string, st AwaitingProfessional) error {
	slots, err := e.catalog.AvailableHours(ctx, st.Service.ID, st.Date)
	if err != nil {
		return fmt.Errorf("hours of service %d on %s: %w", st.Service.ID, st.Date, err)
	}
	slot, found := findSlot(slots, st.Hour)
	if !found {
		return ErrNoProfessionals
	}
	pros := e.professionals(ctx, st.Service.ID, slot.Professionals)
	if len(pros) == 0 {
		return ErrNoProfessionals
	}
	return e.sendProfessionalsList(ctx, to, pros)
}

func (e *Engine) sendProfessionalsList(ctx context.Context, to string, pros []booking.Professional) error {
	buttons, list, dropped := professionalsOptions(pros)
	warnDropped(ctx, "professionals", dropped)
	if buttons != nil {
		return e.sender.SendButtons(ctx, to, *buttons)
	}
	return e.sender.SendList(ctx, to, *list)
}

func (e *Engine) sendConfirmation(ctx context.Context, to string, st AwaitingConfirmation) error {
	if !summaryComplete(st) {
		return ErrIncomplete
	}
	return e.sender.SendButtons(ctx, to, confirmationMessage(st))
}
