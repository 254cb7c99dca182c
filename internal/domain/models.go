package domain

import (
	"encoding/json"
	"fmt"
)

// Role says who authored a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Part is one content unit of a message. The set of parts is closed:
// TextPart, InlineDataPart and EmptyPart.
type Part interface{ isPart() }

// TextPart is plain UTF-8 text.
type TextPart struct {
	Text string
}

// InlineDataPart is binary content (an image) carried inline as base64.
type InlineDataPart struct {
	MimeType string
	Data     string // base64
}

// EmptyPart is a part that had neither text nor inline data on the wire.
// It is kept as a no-op so a round trip does not change the part count.
type EmptyPart struct{}

func (TextPart) isPart()       {}
func (InlineDataPart) isPart() {}
func (EmptyPart) isPart()      {}

// Source is a web citation the provider attached to an answer.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Image is an optional image attached to a new user turn.
type Image struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mimeType"`
}

// Message is one entry in a conversation. Messages are never edited after
// they are appended to a history.
type Message struct {
	Role    Role
	Parts   []Part
	Sources []Source
}

// NewUserMessage builds the user turn for a submission: the text first (when
// non-empty), then the image (when present).
func NewUserMessage(text string, image *Image) Message {
	msg := Message{Role: RoleUser}
	if text != "" {
		msg.Parts = append(msg.Parts, TextPart{Text: text})
	}
	if image != nil {
		msg.Parts = append(msg.Parts, InlineDataPart{MimeType: image.MimeType, Data: image.Base64})
	}
	return msg
}

// NewModelMessage builds a model turn with a single text part.
func NewModelMessage(text string, sources []Source) Message {
	return Message{
		Role:    RoleModel,
		Parts:   []Part{TextPart{Text: text}},
		Sources: sources,
	}
}

// Text joins every text part of the message.
func (m Message) Text() string {
	var out string
	for _, p := range m.Parts {
		if t, ok := p.(TextPart); ok {
			out += t.Text
		}
	}
	return out
}

// Images returns the inline data parts of the message.
func (m Message) Images() []InlineDataPart {
	var out []InlineDataPart
	for _, p := range m.Parts {
		if d, ok := p.(InlineDataPart); ok {
			out = append(out, d)
		}
	}
	return out
}

// --- JSON wire form ---

type inlineDataJSON struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type partJSON struct {
	Text       *string         `json:"text,omitempty"`
	InlineData *inlineDataJSON `json:"inlineData,omitempty"`
}

type messageJSON struct {
	Role    Role       `json:"role"`
	Parts   []partJSON `json:"parts"`
	Sources []Source   `json:"sources,omitempty"`
}

// MarshalJSON writes the message in the {role, parts, sources} wire shape.
func (m Message) MarshalJSON() ([]byte, error) {
	out := messageJSON{Role: m.Role, Parts: make([]partJSON, 0, len(m.Parts)), Sources: m.Sources}
	for _, p := range m.Parts {
		switch v := p.(type) {
		case TextPart:
			text := v.Text
			out.Parts = append(out.Parts, partJSON{Text: &text})
		case InlineDataPart:
			out.Parts = append(out.Parts, partJSON{InlineData: &inlineDataJSON{MimeType: v.MimeType, Data: v.Data}})
		default:
			out.Parts = append(out.Parts, partJSON{})
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the wire shape. A part with neither text nor inline
// data decodes to EmptyPart.
func (m *Message) UnmarshalJSON(data []byte) error {
	var in messageJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Role {
	case RoleUser, RoleModel:
	default:
		return fmt.Errorf("unknown message role %q", in.Role)
	}

	m.Role = in.Role
	m.Sources = in.Sources
	m.Parts = make([]Part, 0, len(in.Parts))
	for _, p := range in.Parts {
		switch {
		case p.Text != nil:
			m.Parts = append(m.Parts, TextPart{Text: *p.Text})
		case p.InlineData != nil:
			m.Parts = append(m.Parts, InlineDataPart{MimeType: p.InlineData.MimeType, Data: p.InlineData.Data})
		default:
			m.Parts = append(m.Parts, EmptyPart{})
		}
	}
	return nil
}
