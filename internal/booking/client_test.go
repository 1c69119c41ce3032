package booking

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	coreconfig "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/config"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(coreconfig.BookingConfig{
		BaseURL:   srv.URL,
		VenueID:   101539,
		AuthToken: "raw-token",
	}, srv.Client())
}

func TestCategoriesSendsAuthAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/salao/101539/categorias" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "raw-token" {
			t.Errorf("authorization = %q", got)
		}
		_, _ = io.WriteString(w, `{"code":200,"data":{"categories":[{"id":1,"categoria":"Hair","ordem":1,"salao_id":101539,"status":1}]}}`)
	})
	cats, err := c.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) != 1 || cats[0].ID != 1 || cats[0].Name != "Hair" {
		t.Fatalf("unexpected categories: %+v", cats)
	}
}

func TestServicesQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/salao/101539/categoria/5/servicos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("agendamento_online") != "1" || q.Get("status") != "1" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `{"code":200,"data":{"salonServices":[{"id":9,"categoria_id":5,"servico":"Corte","descricao":"Corte masculino","tempo":30,"valor":null}]}}`)
	})
	svcs, err := c.Services(context.Background(), 5)
	if err != nil {
		t.Fatalf("services: %v", err)
	}
	if len(svcs) != 1 || svcs[0].Name != "Corte" || svcs[0].Price != nil || svcs[0].Duration != 30 {
		t.Fatalf("unexpected services: %+v", svcs)
	}
}

func TestAvailableHoursAndProfessional(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/salao/101539/servico/9/horarios":
			if r.URL.Query().Get("data") != "2025-05-01" {
				t.Errorf("unexpected date %s", r.URL.RawQuery)
			}
			_, _ = io.WriteString(w, `{"code":200,"data":{"available":[{"schedule":540,"professionals":[3,4]}],"interval":"30","service_time":null}}`)
		case "/salao/101539/servico/9/profissionais":
			if r.URL.Query().Get("profissional_id") == "4" {
				_, _ = io.WriteString(w, `{"code":200,"data":{"professionals":[]}}`)
				return
			}
			_, _ = io.WriteString(w, `{"code":200,"data":{"professionals":[{"id":3,"nome":"Ana","apelido":"Aninha","valor":50}]}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()
	slots, err := c.AvailableHours(ctx, 9, "2025-05-01")
	if err != nil {
		t.Fatalf("hours: %v", err)
	}
	if len(slots) != 1 || slots[0].Minutes != 540 || len(slots[0].Professionals) != 2 {
		t.Fatalf("unexpected slots: %+v", slots)
	}
	p, err := c.Professional(ctx, 9, 3)
	if err != nil {
		t.Fatalf("professional: %v", err)
	}
	if p.DisplayName() != "Ana" {
		t.Fatalf("name = %q", p.DisplayName())
	}
	if _, err := c.Professional(ctx, 9, 4); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateReservationBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/salao/101539/reservas" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body map[string][]map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
			return
		}
		items := body["agendamentos"]
		if len(items) != 1 {
			t.Errorf("expected one appointment, got %v", body)
			return
		}
		item := items[0]
		want := map[string]any{
			"profissional_id":          float64(3),
			"servico_id":               float64(9),
			"salao_id":                 float64(101539),
			"data":                     "2025-05-01",
			"hora_ini":                 float64(0),
			"profissional_indiferente": float64(0),
			"obs":                      "",
			"pagamento_reserva":        float64(0),
			"email":                    float64(1),
			"email_agendamento":        float64(1),
		}
		for k, v := range want {
			if item[k] != v {
				t.Errorf("%s = %v, want %v", k, item[k], v)
			}
		}
		_, _ = io.WriteString(w, `{"code":200,"data":{"bookings":[{"id":77,"cliente_id":5,"reserva":{"id":88,"hora_ini":0,"hora_fim":30}}]}}`)
	})
	bookings, err := c.CreateReservation(context.Background(), ReservationRequest{
		ProfessionalID: 3, ServiceID: 9, Date: "2025-05-01", StartMinutes: 0,
	})
	if err != nil {
		t.Fatalf("reservation: %v", err)
	}
	if len(bookings) != 1 || bookings[0].Reservation.EndMinutes != 30 {
		t.Fatalf("unexpected bookings: %+v", bookings)
	}
}

func TestNonSuccessCodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/salao/101539/categorias" {
			_, _ = io.WriteString(w, `{"code":400,"data":{}}`)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream down")
	})
	ctx := context.Background()

	_, err := c.Categories(ctx)
	var se *StatusError
	if !errors.As(err, &se) || se.BodyCode != 400 || se.Code() != "BOOKING_STATUS" {
		t.Fatalf("expected body status error, got %v", err)
	}

	_, err = c.Services(ctx, 1)
	if !errors.As(err, &se) || se.HTTPStatus() != http.StatusBadGateway || se.Code() != "BOOKING_HTTP_5XX" {
		t.Fatalf("expected http status error, got %v", err)
	}
}
