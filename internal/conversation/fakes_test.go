package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/interactive"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/internal/booking"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/internal/session"
)

var errAPI = errors.New("api down")

type fakeCatalog struct {
	categories    []booking.Category
	categoriesErr error
	services      map[int][]booking.Service
	servicesErr   error
	hours         map[string][]booking.Slot
	hoursErr      error
	professionals map[int]booking.Professional
	reserveErr    error

	reservations []booking.ReservationRequest
	calls        []string
}

func hoursKey(serviceID int, date string) string { return fmt.Sprintf("%d/%s", serviceID, date) }

func (f *fakeCatalog) Categories(context.Context) ([]booking.Category, error) {
	f.calls = append(f.calls, "categories")
	return f.categories, f.categoriesErr
}

func (f *fakeCatalog) Services(_ context.Context, categoryID int) ([]booking.Service, error) {
	f.calls = append(f.calls, fmt.Sprintf("services:%d", categoryID))
	if f.servicesErr != nil {
		return nil, f.servicesErr
	}
	return f.services[categoryID], nil
}

func (f *fakeCatalog) AvailableHours(_ context.Context, serviceID int, date string) ([]booking.Slot, error) {
	f.calls = append(f.calls, "hours:"+hoursKey(serviceID, date))
	if f.hoursErr != nil {
		return nil, f.hoursErr
	}
	return f.hours[hoursKey(serviceID, date)], nil
}

func (f *fakeCatalog) Professional(_ context.Context, _ int, professionalID int) (*booking.Professional, error) {
	f.calls = append(f.calls, fmt.Sprintf("professional:%d", professionalID))
	p, ok := f.professionals[professionalID]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return &p, nil
}

func (f *fakeCatalog) CreateReservation(_ context.Context, req booking.ReservationRequest) ([]booking.Booking, error) {
	f.reservations = append(f.reservations, req)
	if f.reserveErr != nil {
		return nil, f.reserveErr
	}
	return []booking.Booking{{ID: 1}}, nil
}

type sent struct {
	kind    string
	to      string
	text    string
	buttons interactive.Buttons
	list    interactive.List
	link    interactive.Link
}

func (s sent) ids() []string {
	var out []string
	for _, b := range s.buttons.Buttons {
		out = append(out, b.ID)
	}
	for _, r := range s.list.Rows {
		out = append(out, r.ID)
	}
	return out
}

type fakeSender struct {
	out     []sent
	failAll error
}

func (f *fakeSender) record(m sent) error {
	if f.failAll != nil {
		return f.failAll
	}
	f.out = append(f.out, m)
	return nil
}

func (f *fakeSender) SendText(_ context.Context, to, text string) error {
	return f.record(sent{kind: "text", to: to, text: text})
}

func (f *fakeSender) SendButtons(_ context.Context, to string, msg interactive.Buttons) error {
	return f.record(sent{kind: "buttons", to: to, text: msg.Body, buttons: msg})
}

func (f *fakeSender) SendList(_ context.Context, to string, msg interactive.List) error {
	return f.record(sent{kind: "list", to: to, text: msg.Body, list: msg})
}

func (f *fakeSender) SendLink(_ context.Context, to string, msg interactive.Link) error {
	return f.record(sent{kind: "link", to: to, text: msg.Body, link: msg})
}

func (f *fakeSender) last() sent {
	if len(f.out) == 0 {
		return sent{}
	}
	return f.out[len(f.out)-1]
}

func (f *fakeSender) reset() { f.out = nil }

// fakeClock drives the session manager in engine tests.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newSessions(clock *fakeClock) (*session.Manager, *session.MemoryStore) {
	store := session.NewMemoryStore()
	return session.NewManager(store, 30*time.Minute, session.WithClock(clock.now)), store
}
