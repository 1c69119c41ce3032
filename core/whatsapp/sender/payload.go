package sender

import "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/interactive"

const messagingProduct = "whatsapp"

type outbound struct {
	MessagingProduct string              `json:"messaging_product"`
	RecipientType    string              `json:"recipient_type"`
	To               string              `json:"to"`
	Type             string              `json:"type"`
	Text             *textBody           `json:"text,omitempty"`
	Interactive      *interactivePayload `json:"interactive,omitempty"`
}

type textBody struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type bodyText struct {
	Text string `json:"text"`
}

type interactivePayload struct {
	Type   string   `json:"type"`
	Body   bodyText `json:"body"`
	Action action   `json:"action"`
}

type action struct {
	Buttons    []replyButton `json:"buttons,omitempty"`
	Button     string        `json:"button,omitempty"`
	Sections   []section     `json:"sections,omitempty"`
	Name       string        `json:"name,omitempty"`
	Parameters *ctaParams    `json:"parameters,omitempty"`
}

type replyButton struct {
	Type  string `json:"type"`
	Reply reply  `json:"reply"`
}

type reply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type section struct {
	Title string `json:"title,omitempty"`
	Rows  []row  `json:"rows"`
}

type row struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type ctaParams struct {
	DisplayText string `json:"display_text"`
	URL         string `json:"url"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type errorResponse struct {
	Error *APIError `json:"error"`
}

func newOutbound(to, kind string) outbound {
	return outbound{MessagingProduct: messagingProduct, RecipientType: "individual", To: to, Type: kind}
}

func textPayload(to, text string) outbound {
	out := newOutbound(to, "text")
	out.Text = &textBody{Body: text}
	return out
}

func buttonsPayload(to string, msg interactive.Buttons) outbound {
	buttons := make([]replyButton, len(msg.Buttons))
	for i, b := range msg.Buttons {
		buttons[i] = replyButton{Type: "reply", Reply: reply{ID: b.ID, Title: b.Title}}
	}
	out := newOutbound(to, "interactive")
	out.Interactive = &interactivePayload{
		Type:   "button",
		Body:   bodyText{Text: msg.Body},
		Action: action{Buttons: buttons},
	}
	return out
}

func listPayload(to string, msg interactive.List) outbound {
	rows := make([]row, len(msg.Rows))
	for i, r := range msg.Rows {
		rows[i] = row{ID: r.ID, Title: r.Title, Description: r.Description}
	}
	out := newOutbound(to, "interactive")
	out.Interactive = &interactivePayload{
		Type: "list",
		Body: bodyText{Text: msg.Body},
		Action: action{
			Button:   msg.ButtonLabel,
			Sections: []section{{Title: msg.SectionTitle, Rows: rows}},
		},
	}
	return out
}

func linkPayload(to string, msg interactive.Link) outbound {
	out := newOutbound(to, "interactive")
	out.Interactive = &interactivePayload{
		Type: "cta_url",
		Body: bodyText{Text: msg.Body},
		Action: action{
			Name:       "cta_url",
			Parameters: &ctaParams{DisplayText: msg.Label, URL: msg.URL},
		},
	}
	return out
}
