// Package booking is a typed client for the salon booking REST API.
package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/buildinfo"
	coreconfig "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/config"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/logger"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/netutil"
)

const successCode = 200

// Client calls the booking API for one venue.
type Client struct {
	baseURL string
	venueID int
	token   string
	http    *http.Client
}

// New builds a Client. A nil httpClient gets a tuned default with cfg's timeout.
func New(cfg coreconfig.BookingConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = netutil.BuildHTTPClient(time.Duration(cfg.TimeoutSeconds) * time.Second)
	}
	return &Client{
		baseURL: cfg.BaseURL,
		venueID: cfg.VenueID,
		token:   cfg.AuthToken,
		http:    httpClient,
	}
}

// VenueID returns the venue every call is scoped to.
func (c *Client) VenueID() int { return c.venueID }

// Categories lists the venue's service categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out envelope[categoriesData]
	if err := c.do(ctx, "categories", http.MethodGet, "/categorias", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Data.Categories, nil
}

// Services lists online-bookable, active services of a category.
func (c *Client) Services(ctx context.Context, categoryID int) ([]Service, error) {
	q := url.Values{}
	q.Set("agendamento_online", "1")
	q.Set("status", "1")
	var out envelope[servicesData]
	path := "/categoria/" + strconv.Itoa(categoryID) + "/servicos"
	if err := c.do(ctx, "services", http.MethodGet, path, q, nil, &out); err != nil {
		return nil, err
	}
	return out.Data.Services, nil
}

// AvailableHours lists open slots for a service on date (YYYY-MM-DD).
func (c *Client) AvailableHours(ctx context.Context, serviceID int, date string) ([]Slot, error) {
	q := url.Values{}
	q.Set("data", date)
	var out envelope[hoursData]
	path := "/servico/" + strconv.Itoa(serviceID) + "/horarios"
	if err := c.do(ctx, "hours", http.MethodGet, path, q, nil, &out); err != nil {
		return nil, err
	}
	return out.Data.Available, nil
}

// Professional fetches one professional able to perform serviceID.
// ErrNotFound is returned when the API answers with an empty list.
func (c *Client) Professional(ctx context.Context, serviceID, professionalID int) (*Professional, error) {
	q := url.Values{}
	q.Set("profissional_id", strconv.Itoa(professionalID))
	var out envelope[professionalsData]
	path := "/servico/" + strconv.Itoa(serviceID) + "/profissionais"
	if err := c.do(ctx, "professional", http.MethodGet, path, q, nil, &out); err != nil {
		return nil, err
	}
	if len(out.Data.Professionals) == 0 {
		return nil, fmt.Errorf("professional %d: %w", professionalID, ErrNotFound)
	}
	p := out.Data.Professionals[0]
	return &p, nil
}

// CreateReservation books a single appointment.
func (c *Client) CreateReservation(ctx context.Context, req ReservationRequest) ([]Booking, error) {
	body := reservationBody{Appointments: []reservationItem{{
		ProfessionalID:   req.ProfessionalID,
		ServiceID:        req.ServiceID,
		VenueID:          c.venueID,
		Date:             req.Date,
		StartMinutes:     req.StartMinutes,
		AnyProfessional:  0,
		Notes:            "",
		PrePayment:       0,
		Email:            1,
		EmailAppointment: 1,
	}}}
	var out envelope[reservationData]
	if err := c.do(ctx, "reservation", http.MethodPost, "/reservas", nil, body, &out); err != nil {
		return nil, err
	}
	logger.Info(ctx, logger.CompBooking, "reservation.created",
		slog.String("status", "ok"),
		slog.Int("count", len(out.Data.Bookings)),
		slog.Int("service_id", req.ServiceID),
		slog.Int("professional_id", req.ProfessionalID),
		slog.String("date", req.Date),
		slog.Int("hour", req.StartMinutes),
	)
	return out.Data.Bookings, nil
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := c.baseURL + "/salao/" + strconv.Itoa(c.venueID) + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// do performs one call and decodes the JSON envelope into out.
func (c *Client) do(ctx context.Context, op, method, path string, q url.Values, body any, out any) (err error) {
	start := time.Now()
	httpCode := 0
	defer func() {
		attrs := []slog.Attr{
			slog.String("status", logger.Status(err)),
			slog.String("operation", op),
			slog.String("method", method),
			slog.Duration("duration", logger.Took(start)),
			slog.Int("http_code", httpCode),
		}
		if err != nil {
			attrs = append(attrs, logger.ErrAttrs(err)...)
			attrs = append(attrs,
				slog.String("err_kind", netutil.ErrorKind(err)),
				slog.Bool("retryable", netutil.IsTransient(err)),
			)
			logger.Warn(ctx, logger.CompBooking, "booking.call", attrs...)
			return
		}
		logger.Debug(ctx, logger.CompBooking, "booking.call", attrs...)
	}()

	var reader io.Reader
	if body != nil {
		payload, mErr := json.Marshal(body)
		if mErr != nil {
			return fmt.Errorf("booking %s: encode: %w", op, mErr)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, q), reader)
	if err != nil {
		return fmt.Errorf("booking %s: %w", op, err)
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("booking %s: %w", op, err)
	}
	defer resp.Body.Close()
	httpCode = resp.StatusCode

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("booking %s: read body: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: op, HTTPCode: resp.StatusCode, BodySample: logger.SanitizeLimit(string(raw), 256)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("booking %s: decode: %w", op, err)
	}
	if code := codeOf(out); code != successCode {
		return &StatusError{Op: op, HTTPCode: resp.StatusCode, BodyCode: code, BodySample: logger.SanitizeLimit(string(raw), 256)}
	}
	return nil
}

type coded interface {
	code() int
}

func (e *envelope[T]) code() int { return e.Code }

func codeOf(out any) int {
	if c, ok := out.(coded); ok {
		return c.code()
	}
	return successCode
}
