package conversation

import (
	"testing"

	"github.com/matheusfcorreia/barbershop-whatsapp-bot/internal/session"
)

func TestEncodeDecodeRoundTripPerStep(t *testing.T) {
	states := []State{
		Welcome{},
		AwaitingCategory{},
		serviceState(),
		dateState(),
		hourState(),
		professionalState(),
		confirmationState(),
	}
	for _, st := range states {
		s := &session.Session{Phone: phone}
		Encode(st, s)
		if s.Step != st.Step() {
			t.Fatalf("%T: step = %d", st, s.Step)
		}
		got, ok := Decode(s)
		if !ok {
			t.Fatalf("%T: decode failed for %+v", st, s)
		}
		if got.Step() != st.Step() {
			t.Fatalf("%T: decoded step %d", st, got.Step())
		}
		if s.Step < 1 || s.Step > 7 {
			t.Fatalf("%T: step out of range", st)
		}
	}
}

func TestEncodeClearsLaterSelections(t *testing.T) {
	s := &session.Session{Phone: phone}
	Encode(confirmationState(), s)
	Encode(serviceState(), s)
	if s.ServiceID != nil || s.Date != "" || s.Hour != nil || s.HourFormatted != "" || s.ProfessionalID != nil || s.ProfessionalName != "" {
		t.Fatalf("later selections kept: %+v", s)
	}
	if s.CategoryID == nil || *s.CategoryID != 1 || s.Phone != phone {
		t.Fatalf("carried selections lost: %+v", s)
	}
}

func TestMidnightHourSurvives(t *testing.T) {
	st := professionalState()
	st.Hour = 0
	s := &session.Session{Phone: phone}
	Encode(st, s)
	if s.Hour == nil || *s.Hour != 0 || s.HourFormatted != "00:00" {
		t.Fatalf("midnight lost: %+v", s)
	}
	got, ok := Decode(s)
	if !ok || got.(AwaitingProfessional).Hour != 0 {
		t.Fatalf("decode midnight = %+v, %v", got, ok)
	}
}

func TestDecodeRejectsInconsistentSessions(t *testing.T) {
	cases := []*session.Session{
		nil,
		{Step: 0},
		{Step: 8},
		{Step: -1, CategoryID: intp(1)},
		{Step: StepService},
		{Step: StepDate, CategoryID: intp(1)},
		{Step: StepHour, CategoryID: intp(1), ServiceID: intp(9), Date: "01/05/2025"},
		{Step: StepProfessional, CategoryID: intp(1), ServiceID: intp(9), Date: "2025-05-01"},
		{Step: StepConfirmation, CategoryID: intp(1), ServiceID: intp(9), Date: "2025-05-01", Hour: intp(780)},
		{Step: 12, CategoryID: intp(1), ServiceID: intp(9), Date: "2025-05-01", Hour: intp(780), ProfessionalID: intp(3)},
	}
	for i, s := range cases {
		if st, ok := Decode(s); ok {
			t.Fatalf("case %d decoded to %T", i, st)
		}
	}
}

func TestDecodeCarriesSelections(t *testing.T) {
	s := &session.Session{Phone: phone}
	Encode(confirmationState(), s)
	got, ok := Decode(s)
	if !ok {
		t.Fatal("decode failed")
	}
	c := got.(AwaitingConfirmation)
	if c.Category.Name != "Hair" || c.Service.ID != 9 || c.Date != "2025-05-01" || c.Hour != 780 || c.Professional.Name != "João" {
		t.Fatalf("decoded = %+v", c)
	}
}
