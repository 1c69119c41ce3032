package conversation

import (
	"context"
	"log/slog"

	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/logger"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/internal/booking"
)

// Enrichment lookups are best effort: a failed or empty fetch leaves the
// display field unset and never fails the step.

func (e *Engine) categoryName(ctx context.Context, id int) string {
	cats, err := e.catalog.Categories(ctx)
	if err != nil {
		enrichFailed(ctx, "category", err)
		return ""
	}
	for _, c := range cats {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

func (e *Engine) serviceDetails(ctx context.Context, categoryID, serviceID int) ServiceRef {
	ref := ServiceRef{ID: serviceID}
	svcs, err := e.catalog.Services(ctx, categoryID)
	if err != nil {
		enrichFailed(ctx, "service", err)
		return ref
	}
	for _, s := range svcs {
		if s.ID != serviceID {
			continue
		}
		ref.Name = s.Name
		ref.Description = s.Description
		if s.Duration > 0 {
			d := s.Duration
			ref.Duration = &d
		}
		ref.Price = s.Price
		break
	}
	return ref
}

func (e *Engine) professional(ctx context.Context, serviceID, professionalID int) (booking.Professional, bool) {
	p, err := e.catalog.Professional(ctx, serviceID, professionalID)
	if err != nil || p == nil {
		enrichFailed(ctx, "professional", err)
		return booking.Professional{}, false
	}
	return *p, true
}

// professionals resolves ids in order, skipping the ones that cannot be fetched.
func (e *Engine) professionals(ctx context.Context, serviceID int, ids []int) []booking.Professional {
	out := make([]booking.Professional, 0, len(ids))
	for _, id := range ids {
		if p, ok := e.professional(ctx, serviceID, id); ok {
			out = append(out, p)
		}
	}
	return out
}

func enrichFailed(ctx context.Context, what string, err error) {
	attrs := []slog.Attr{
		slog.String("status", "skip"),
		slog.String("cause", what),
	}
	attrs = append(attrs, logger.ErrAttrs(err)...)
	logger.Debug(ctx, logger.CompFlow, "enrich", attrs...)
}
