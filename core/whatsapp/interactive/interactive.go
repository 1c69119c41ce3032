// Package interactive builds WhatsApp interactive messages within the
// Cloud API limits: at most three reply buttons, at most ten list rows, and
// bounded title lengths.
package interactive

import (
	"fmt"

	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/format"
)

// Cloud API limits.
const (
	MaxButtons        = 3
	MaxRows           = 10
	MaxButtonTitle    = 20
	MaxRowTitle       = 24
	MaxRowDescription = 72
	MaxSectionTitle   = 24
	MaxListButton     = 20
	MaxBody           = 1024
	MaxLinkLabel      = 20
)

// Button is a quick reply button.
type Button struct {
	ID    string
	Title string
}

// Buttons is a body text with one to three reply buttons.
type Buttons struct {
	Body    string
	Buttons []Button
}

// Row is one selectable list entry.
type Row struct {
	ID          string
	Title       string
	Description string
}

// List is a single-section list message.
type List struct {
	Body         string
	ButtonLabel  string
	SectionTitle string
	Rows         []Row
}

// Link is a call-to-action button that opens url.
type Link struct {
	Body  string
	Label string
	URL   string
}

// NewButtons truncates titles and keeps the first MaxButtons buttons.
// dropped reports how many buttons did not fit.
func NewButtons(body string, buttons ...Button) (msg Buttons, dropped int) {
	if len(buttons) > MaxButtons {
		dropped = len(buttons) - MaxButtons
		buttons = buttons[:MaxButtons]
	}
	out := make([]Button, len(buttons))
	for i, b := range buttons {
		out[i] = Button{ID: b.ID, Title: format.Truncate(b.Title, MaxButtonTitle)}
	}
	return Buttons{Body: format.Truncate(body, MaxBody), Buttons: out}, dropped
}

// NewList truncates texts and keeps the first MaxRows rows.
// dropped reports how many rows did not fit.
func NewList(body, buttonLabel, sectionTitle string, rows []Row) (msg List, dropped int) {
	if len(rows) > MaxRows {
		dropped = len(rows) - MaxRows
		rows = rows[:MaxRows]
	}
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = Row{
			ID:          r.ID,
			Title:       format.Truncate(r.Title, MaxRowTitle),
			Description: format.Truncate(r.Description, MaxRowDescription),
		}
	}
	return List{
		Body:         format.Truncate(body, MaxBody),
		ButtonLabel:  format.Truncate(buttonLabel, MaxListButton),
		SectionTitle: format.Truncate(sectionTitle, MaxSectionTitle),
		Rows:         out,
	}, dropped
}

// NewLists spreads rows over up to maxLists list messages of MaxRows rows
// each. When more than one list is needed the body of each carries a
// "(i/n)" page marker. dropped reports rows beyond the last list.
func NewLists(body, buttonLabel, sectionTitle string, rows []Row, maxLists int) (lists []List, dropped int) {
	if maxLists <= 0 {
		maxLists = 1
	}
	if limit := maxLists * MaxRows; len(rows) > limit {
		dropped = len(rows) - limit
		rows = rows[:limit]
	}
	pages := (len(rows) + MaxRows - 1) / MaxRows
	for i := 0; i < pages; i++ {
		end := min((i+1)*MaxRows, len(rows))
		pageBody := body
		if pages > 1 {
			pageBody = fmt.Sprintf("%s (%d/%d)", body, i+1, pages)
		}
		l, _ := NewList(pageBody, buttonLabel, sectionTitle, rows[i*MaxRows:end])
		lists = append(lists, l)
	}
	return lists, dropped
}

// NewLink truncates the label to the platform limit.
func NewLink(body, label, url string) Link {
	return Link{
		Body:  format.Truncate(body, MaxBody),
		Label: format.Truncate(label, MaxLinkLabel),
		URL:   url,
	}
}

// ChooseOptions renders options as buttons when they fit, otherwise as a list.
func ChooseOptions(body, buttonLabel, sectionTitle string, rows []Row) (buttons *Buttons, list *List, dropped int) {
	if len(rows) <= MaxButtons {
		btns := make([]Button, len(rows))
		for i, r := range rows {
			btns[i] = Button{ID: r.ID, Title: r.Title}
		}
		b, _ := NewButtons(body, btns...)
		return &b, nil, 0
	}
	l, dropped := NewList(body, buttonLabel, sectionTitle, rows)
	return nil, &l, dropped
}
