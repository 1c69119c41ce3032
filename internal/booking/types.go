package booking

// Category groups services on the booking platform.
type Category struct {
	ID      int    `json:"id"`
	Name    string `json:"categoria"`
	Order   int    `json:"ordem"`
	VenueID int    `json:"salao_id"`
	Status  int    `json:"status"`
}

// Service is a bookable offering inside a category.
type Service struct {
	ID          int      `json:"id"`
	CategoryID  int      `json:"categoria_id"`
	VenueID     int      `json:"salao_id"`
	Name        string   `json:"servico"`
	Description string   `json:"descricao"`
	Duration    int      `json:"tempo"`
	Price       *float64 `json:"valor"`
}

// Slot is an available start time, in minutes since midnight, and the
// professionals who can take it.
type Slot struct {
	Minutes       int   `json:"schedule"`
	Professionals []int `json:"professionals"`
}

// Professional performs services.
type Professional struct {
	ID       int      `json:"id"`
	Name     string   `json:"nome"`
	Photo    *string  `json:"foto"`
	Bio      *string  `json:"bio"`
	Nickname string   `json:"apelido"`
	Duration *int     `json:"tempo"`
	Price    *float64 `json:"valor"`
}

// DisplayName returns the name, falling back to the nickname.
func (p Professional) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Nickname
}

// ReservationRequest is what the bot knows when the user confirms.
type ReservationRequest struct {
	ProfessionalID int
	ServiceID      int
	Date           string
	StartMinutes   int
}

// Booking is one created appointment.
type Booking struct {
	ID          int         `json:"id"`
	ClientID    int         `json:"cliente_id"`
	Reservation Reservation `json:"reserva"`
}

// Reservation is the stored appointment record.
type Reservation struct {
	ID             int     `json:"id"`
	VenueID        int     `json:"salao_id"`
	ServiceID      int     `json:"servico_id"`
	ProfessionalID int     `json:"profissional_id"`
	Date           string  `json:"data"`
	StartMinutes   int     `json:"hora_ini"`
	EndMinutes     int     `json:"hora_fim"`
	Price          float64 `json:"valor"`
	ClientName     string  `json:"cliente_nome"`
	ClientPhone    string  `json:"cliente_tel"`
	Services       string  `json:"servicos"`
	Status         int     `json:"status"`
}

type envelope[T any] struct {
	Code int `json:"code"`
	Data T   `json:"data"`
}

type categoriesData struct {
	Categories []Category `json:"categories"`
}

type servicesData struct {
	Services []Service `json:"salonServices"`
}

type hoursData struct {
	Available   []Slot `json:"available"`
	Interval    string `json:"interval"`
	ServiceTime *int   `json:"service_time"`
}

type professionalsData struct {
	Professionals []Professional `json:"professionals"`
}

type reservationItem struct {
	ProfessionalID   int    `json:"profissional_id"`
	ServiceID        int    `json:"servico_id"`
	VenueID          int    `json:"salao_id"`
	Date             string `json:"data"`
	StartMinutes     int    `json:"hora_ini"`
	AnyProfessional  int    `json:"profissional_indiferente"`
	Notes            string `json:"obs"`
	PrePayment       int    `json:"pagamento_reserva"`
	Email            int    `json:"email"`
	EmailAppointment int    `json:"email_agendamento"`
}

type reservationBody struct {
	Appointments []reservationItem `json:"agendamentos"`
}

type reservationData struct {
	Bookings []Booking `json:"bookings"`
}
