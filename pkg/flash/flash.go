// Package flash models the one-shot messages shown after a redirect and the
// (message, redirect target) outcome returned by mutating services.
package flash

import (
	"encoding/base64"
	"encoding/json"
)

// Category is the flash level rendered by the front-end.
type Category string

const (
	Success Category = "success"
	Info    Category = "info"
	Warning Category = "warning"
	Danger  Category = "danger"
)

// Message is a single flash entry.
type Message struct {
	Category Category `json:"category"`
	Text     string   `json:"message"`
}

// Outcome is what a mutation hands back to the HTTP boundary: a message to
// queue and where to send the caller next.
type Outcome struct {
	Message  Message
	Redirect string
}

// IsZero reports whether o carries no redirect.
func (o Outcome) IsZero() bool { return o.Redirect == "" }

// New builds an Outcome.
func New(redirect string, category Category, text string) Outcome {
	return Outcome{Message: Message{Category: category, Text: text}, Redirect: redirect}
}

// Encode serialises messages for a cookie value.
func Encode(msgs []Message) (string, error) {
	raw, err := json.Marshal(msgs)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode is the inverse of Encode. A tampered or empty value yields no messages.
func Decode(value string) []Message {
	if value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var msgs []Message
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil
	}
	return msgs
}
