package webhook

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/message"
)

const (
	objectBusinessAccount = "whatsapp_business_account"
	fieldMessages         = "messages"
)

type notification struct {
	Object string  `json:"object"`
	Entry  []entry `json:"entry"`
}

type entry struct {
	ID      string   `json:"id"`
	Changes []change `json:"changes"`
}

type change struct {
	Field string      `json:"field"`
	Value changeValue `json:"value"`
}

type changeValue struct {
	MessagingProduct string       `json:"messaging_product"`
	Contacts         []contact    `json:"contacts"`
	Messages         []rawMessage `json:"messages"`
}

type contact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

type rawMessage struct {
	From        string          `json:"from"`
	ID          string          `json:"id"`
	Timestamp   string          `json:"timestamp"`
	Type        string          `json:"type"`
	Text        *rawText        `json:"text"`
	Button      *rawButton      `json:"button"`
	Interactive *rawInteractive `json:"interactive"`
}

type rawText struct {
	Body string `json:"body"`
}

type rawButton struct {
	Payload string `json:"payload"`
	Text    string `json:"text"`
}

type rawInteractive struct {
	Type        string    `json:"type"`
	ButtonReply *rawReply `json:"button_reply"`
	ListReply   *rawReply `json:"list_reply"`
}

type rawReply struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Parse extracts user messages from a webhook notification body.
// Notifications for other objects or fields yield no messages; status
// updates are ignored as well.
func Parse(body []byte) ([]message.Inbound, error) {
	var n notification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("webhook: decode notification: %w", err)
	}
	if n.Object != objectBusinessAccount {
		return nil, nil
	}
	var out []message.Inbound
	for _, e := range n.Entry {
		for _, ch := range e.Changes {
			if ch.Field != fieldMessages {
				continue
			}
			names := contactNames(ch.Value.Contacts)
			for _, raw := range ch.Value.Messages {
				msg, ok := convert(raw)
				if !ok {
					continue
				}
				msg.Name = names[msg.From]
				out = append(out, msg)
			}
		}
	}
	return out, nil
}

func contactNames(contacts []contact) map[string]string {
	if len(contacts) == 0 {
		return nil
	}
	names := make(map[string]string, len(contacts))
	for _, c := range contacts {
		names[c.WaID] = c.Profile.Name
	}
	return names
}

func convert(raw rawMessage) (message.Inbound, bool) {
	msg := message.Inbound{
		From:      strings.TrimSpace(raw.From),
		MessageID: raw.ID,
		Type:      raw.Type,
		Timestamp: parseTimestamp(raw.Timestamp),
	}
	switch raw.Type {
	case message.TypeText:
		if raw.Text != nil {
			msg.Text = raw.Text.Body
		}
	case message.TypeButton:
		if raw.Button != nil {
			msg.OptionID = raw.Button.Payload
			msg.OptionTitle = raw.Button.Text
			msg.Text = raw.Button.Text
		}
	case message.TypeInteractive:
		if raw.Interactive != nil {
			reply := raw.Interactive.ButtonReply
			if reply == nil {
				reply = raw.Interactive.ListReply
			}
			if reply != nil {
				msg.OptionID = reply.ID
				msg.OptionTitle = reply.Title
				msg.Text = reply.Title
			}
		}
	}
	if msg.From == "" || (msg.Text == "" && msg.OptionID == "") {
		return message.Inbound{}, false
	}
	return msg, true
}

func parseTimestamp(s string) time.Time {
	sec, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
