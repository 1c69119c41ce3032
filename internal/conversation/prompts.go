package conversation

import (
	"fmt"
	"strings"

	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/format"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/interactive"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/options"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/internal/booking"
)

// Outbound copy.
const (
	welcomeText        = "Olá, bem vindo a %s!\nEm que podemos te ajudar?"
	categoriesText     = "Selecione uma categoria:"
	servicesText       = "Selecione um serviço:"
	datePromptText     = "Por favor, informe a data desejada no formato YYYY-MM-DD (exemplo: 2025-05-01):"
	dateFormatText     = "Por favor, forneça a data no formato YYYY-MM-DD (exemplo: 2025-05-01):"
	noAvailabilityText = "Não há horários disponíveis para esta data. Por favor, escolha outra data:"
	hoursText          = "Selecione um horário:"
	professionalsText  = "Selecione um profissional:"
	confirmationText   = "Data %s - %s\nServiço: %s\nProfissional: %s"
	successText        = "Horário reservado com sucesso. Obrigado."
	cancelledText      = "Agendamento cancelado. Obrigado pelo contato!"
	failureText        = "Não foi possível realizar o agendamento, por favor, agende por esse link:"
	failureLinkBody    = "Agende por aqui:"
	instagramText      = "Clique no botão abaixo para acessar nosso Instagram:"
)

func welcomeMessage(businessName string) interactive.Buttons {
	msg, _ := interactive.NewButtons(fmt.Sprintf(welcomeText, businessName),
		interactive.Button{ID: options.Schedule, Title: "Agendar"},
		interactive.Button{ID: options.Instagram, Title: "Instagram"},
	)
	return msg
}

func categoriesList(cats []booking.Category) (interactive.List, int) {
	rows := make([]interactive.Row, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, interactive.Row{ID: options.ID(options.Category, c.ID), Title: c.Name})
	}
	return interactive.NewList(categoriesText, "Ver categorias", "Categorias disponíveis", rows)
}

func servicesList(svcs []booking.Service) (interactive.List, int) {
	rows := make([]interactive.Row, 0, len(svcs))
	for _, s := range svcs {
		rows = append(rows, interactive.Row{
			ID:          options.ID(options.Service, s.ID),
			Title:       s.Name,
			Description: serviceDescription(s),
		})
	}
	return interactive.NewList(servicesText, "Ver serviços", "Serviços disponíveis", rows)
}

// serviceDescription falls back to duration and price when the service has
// no description of its own.
func serviceDescription(s booking.Service) string {
	if d := strings.TrimSpace(s.Description); d != "" {
		return d
	}
	var parts []string
	if d := format.Duration(s.Duration); d != "" {
		parts = append(parts, d)
	}
	if p := format.Price(s.Price); p != "" {
		parts = append(parts, p)
	}
	return strings.Join(parts, " · ")
}

// maxHourLists bounds how many list messages one day of slots may take.
const maxHourLists = 3

func hoursLists(slots []booking.Slot) ([]interactive.List, int) {
	rows := make([]interactive.Row, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, interactive.Row{ID: options.ID(options.Hour, s.Minutes), Title: format.Hour(s.Minutes)})
	}
	return interactive.NewLists(hoursText, "Ver horários", "Horários disponíveis", rows, maxHourLists)
}

func professionalsOptions(pros []booking.Professional) (*interactive.Buttons, *interactive.List, int) {
	rows := make([]interactive.Row, 0, len(pros))
	for _, p := range pros {
		rows = append(rows, interactive.Row{ID: options.ID(options.Professional, p.ID), Title: p.DisplayName()})
	}
	return interactive.ChooseOptions(professionalsText, "Ver profissionais", "Profissionais disponíveis", rows)
}

func confirmationMessage(st AwaitingConfirmation) interactive.Buttons {
	body := fmt.Sprintf(confirmationText, st.Date, format.Hour(st.Hour), st.Service.Name, st.Professional.Name)
	msg, _ := interactive.NewButtons(body,
		interactive.Button{ID: options.Confirm, Title: "Confirmar e Agendar"},
		interactive.Button{ID: options.Cancel, Title: "Cancelar"},
	)
	return msg
}

func instagramLink(url string) interactive.Link {
	return interactive.NewLink(instagramText, "Abrir Instagram", url)
}

func failureLink(url string) interactive.Link {
	return interactive.NewLink(failureLinkBody, "Agendar", url)
}
