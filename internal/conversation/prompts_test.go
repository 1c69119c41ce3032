package conversation

import (
	"strings"
	"testing"

	"github.com/matheusfcorreia/barbershop-whatsapp-bot/internal/booking"
)

func TestCategoriesListCapsRows(t *testing.T) {
	cats := make([]booking.Category, 12)
	for i := range cats {
		cats[i] = booking.Category{ID: i + 1, Name: "Categoria com um nome bem comprido"}
	}
	list, dropped := categoriesList(cats)
	if len(list.Rows) != 10 || dropped != 2 {
		t.Fatalf("rows=%d dropped=%d", len(list.Rows), dropped)
	}
	if n := len([]rune(list.Rows[0].Title)); n > 24 {
		t.Fatalf("title not truncated: %d runes", n)
	}
}

func TestServiceDescriptionFallback(t *testing.T) {
	price := 45.5
	got := serviceDescription(booking.Service{Duration: 30, Price: &price})
	if got != "30 min · R$ 45,50" {
		t.Fatalf("description = %q", got)
	}
	if serviceDescription(booking.Service{}) != "" {
		t.Fatal("empty service should have no description")
	}
}

func TestWelcomeUsesBusinessName(t *testing.T) {
	msg := welcomeMessage("Barbearia Central")
	if !strings.HasPrefix(msg.Body, "Olá, bem vindo a Barbearia Central!") || len(msg.Buttons) != 2 {
		t.Fatalf("welcome = %+v", msg)
	}
}
