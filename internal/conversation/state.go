package conversation

import (
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/format"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/internal/session"
)

// Steps of the booking flow as stored in the session document.
const (
	StepWelcome      = 1
	StepCategory     = 2
	StepService      = 3
	StepDate         = 4
	StepHour         = 5
	StepProfessional = 6
	StepConfirmation = 7
)

// State is the decoded position of a conversation. Each step type carries
// only the selections made before it.
type State interface {
	Step() int
	encode(s *session.Session)
}

// CategoryRef is the chosen category.
type CategoryRef struct {
	ID   int
	Name string
}

// ServiceRef is the chosen service with its best-effort display fields.
type ServiceRef struct {
	ID          int
	Name        string
	Description string
	Duration    *int
	Price       *float64
}

// ProfessionalRef is the chosen professional.
type ProfessionalRef struct {
	ID   int
	Name string
}

// Welcome waits for the user to start scheduling.
type Welcome struct{}

// AwaitingCategory has sent the categories list.
type AwaitingCategory struct{}

// AwaitingService has sent the services of Category.
type AwaitingService struct {
	Category CategoryRef
}

// AwaitingDate has asked for a date.
type AwaitingDate struct {
	AwaitingService
	Service ServiceRef
}

// AwaitingHour has sent the open slots of Date.
type AwaitingHour struct {
	AwaitingDate
	Date string
}

// AwaitingProfessional has sent the professionals free at Hour.
type AwaitingProfessional struct {
	AwaitingHour
	// Hour is in minutes since midnight.
	Hour int
}

// AwaitingConfirmation has sent the booking summary.
type AwaitingConfirmation struct {
	AwaitingProfessional
	Professional ProfessionalRef
}

func (Welcome) Step() int              { return StepWelcome }
func (AwaitingCategory) Step() int     { return StepCategory }
func (AwaitingService) Step() int      { return StepService }
func (AwaitingDate) Step() int         { return StepDate }
func (AwaitingHour) Step() int         { return StepHour }
func (AwaitingProfessional) Step() int { return StepProfessional }
func (AwaitingConfirmation) Step() int { return StepConfirmation }

func (Welcome) encode(*session.Session)          {}
func (AwaitingCategory) encode(*session.Session) {}

func (st AwaitingService) encode(s *session.Session) {
	s.CategoryID = format.IntPtr(st.Category.ID)
	s.CategoryName = st.Category.Name
}

func (st AwaitingDate) encode(s *session.Session) {
	st.AwaitingService.encode(s)
	s.ServiceID = format.IntPtr(st.Service.ID)
	s.ServiceName = st.Service.Name
	s.ServiceDescription = st.Service.Description
	if st.Service.Duration != nil {
		s.ServiceDuration = format.IntPtr(*st.Service.Duration)
	}
	s.ServicePrice = format.FloatPtr(st.Service.Price)
}

func (st AwaitingHour) encode(s *session.Session) {
	st.AwaitingDate.encode(s)
	s.Date = st.Date
}

func (st AwaitingProfessional) encode(s *session.Session) {
	st.AwaitingHour.encode(s)
	s.Hour = format.IntPtr(st.Hour)
	s.HourFormatted = format.Hour(st.Hour)
}

func (st AwaitingConfirmation) encode(s *session.Session) {
	st.AwaitingProfessional.encode(s)
	s.ProfessionalID = format.IntPtr(st.Professional.ID)
	s.ProfessionalName = st.Professional.Name
}

// Encode writes st into s, clearing every selection st does not carry.
// Phone and timestamps are kept.
func Encode(st State, s *session.Session) {
	s.Reset()
	s.Step = st.Step()
	st.encode(s)
}

// Decode reads the typed state out of s. ok is false when the step is out of
// range or a selection required by the step is missing.
func Decode(s *session.Session) (st State, ok bool) {
	if s == nil {
		return nil, false
	}
	switch s.Step {
	case StepWelcome:
		return Welcome{}, true
	case StepCategory:
		return AwaitingCategory{}, true
	}

	if s.CategoryID == nil {
		return nil, false
	}
	svc := AwaitingService{Category: CategoryRef{ID: *s.CategoryID, Name: s.CategoryName}}
	if s.Step == StepService {
		return svc, true
	}

	if s.ServiceID == nil {
		return nil, false
	}
	date := AwaitingDate{
		AwaitingService: svc,
		Service: ServiceRef{
			ID:          *s.ServiceID,
			Name:        s.ServiceName,
			Description: s.ServiceDescription,
			Duration:    s.ServiceDuration,
			Price:       s.ServicePrice,
		},
	}
	if s.Step == StepDate {
		return date, true
	}

	if _, valid := format.ParseDate(s.Date); !valid {
		return nil, false
	}
	hour := AwaitingHour{AwaitingDate: date, Date: s.Date}
	if s.Step == StepHour {
		return hour, true
	}

	if s.Hour == nil {
		return nil, false
	}
	prof := AwaitingProfessional{AwaitingHour: hour, Hour: *s.Hour}
	if s.Step == StepProfessional {
		return prof, true
	}

	if s.ProfessionalID == nil || s.Step != StepConfirmation {
		return nil, false
	}
	return AwaitingConfirmation{
		AwaitingProfessional: prof,
		Professional:         ProfessionalRef{ID: *s.ProfessionalID, Name: s.ProfessionalName},
	}, true
}
