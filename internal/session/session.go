// Package session persists per-phone conversation progress between webhook
// deliveries and expires it after a period of inactivity.
package session

import (
	"errors"
	"time"
)

// ErrNotFound reports that no live session exists for a phone number.
var ErrNotFound = errors.New("session: not found")

// FirstStep is the step every new or reset conversation starts at.
const FirstStep = 1

// Session is the stored conversation document for one phone number.
// Optional selections are pointers so that an absent value differs from zero.
type Session struct {
	Phone string `json:"phoneNumber" firestore:"phoneNumber"`
	Step  int    `json:"step" firestore:"step"`

	CategoryID   *int   `json:"selectedCategoryId,omitempty" firestore:"selectedCategoryId,omitempty"`
	CategoryName string `json:"selectedCategoryName,omitempty" firestore:"selectedCategoryName,omitempty"`

	ServiceID          *int     `json:"selectedServiceId,omitempty" firestore:"selectedServiceId,omitempty"`
	ServiceName        string   `json:"selectedService,omitempty" firestore:"selectedService,omitempty"`
	ServiceDescription string   `json:"selectedServiceDescription,omitempty" firestore:"selectedServiceDescription,omitempty"`
	ServiceDuration    *int     `json:"selectedServiceDuration,omitempty" firestore:"selectedServiceDuration,omitempty"`
	ServicePrice       *float64 `json:"selectedServicePrice,omitempty" firestore:"selectedServicePrice,omitempty"`

	Date          string `json:"selectedDate,omitempty" firestore:"selectedDate,omitempty"`
	Hour          *int   `json:"selectedHour,omitempty" firestore:"selectedHour,omitempty"`
	HourFormatted string `json:"selectedHourFormatted,omitempty" firestore:"selectedHourFormatted,omitempty"`

	ProfessionalID   *int   `json:"selectedProfessionalId,omitempty" firestore:"selectedProfessionalId,omitempty"`
	ProfessionalName string `json:"selectedProfessional,omitempty" firestore:"selectedProfessional,omitempty"`

	CreatedAt         time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt" firestore:"updatedAt"`
	LastInteractionAt time.Time `json:"lastInteractionAt" firestore:"lastInteractionAt"`
}

// Clone returns a deep copy so callers can mutate selections freely.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.CategoryID = cloneInt(s.CategoryID)
	c.ServiceID = cloneInt(s.ServiceID)
	c.ServiceDuration = cloneInt(s.ServiceDuration)
	c.Hour = cloneInt(s.Hour)
	c.ProfessionalID = cloneInt(s.ProfessionalID)
	if s.ServicePrice != nil {
		p := *s.ServicePrice
		c.ServicePrice = &p
	}
	return &c
}

// Reset clears every selection and returns the session to FirstStep.
func (s *Session) Reset() {
	*s = Session{
		Phone:             s.Phone,
		Step:              FirstStep,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
		LastInteractionAt: s.LastInteractionAt,
	}
}

// IsExpired reports whether the last interaction is older than ttl at now.
// A session that never recorded an interaction is expired.
func IsExpired(s *Session, ttl time.Duration, now time.Time) bool {
	if s == nil || s.LastInteractionAt.IsZero() {
		return true
	}
	return now.Sub(s.LastInteractionAt) > ttl
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
