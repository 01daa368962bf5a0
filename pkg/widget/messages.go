package widget

import (
	"encoding/json"
	"fmt"
)

// Message types exchanged with the host page over postMessage when the
// widget runs inside an iframe.
const (
	MessageReady   = "wtc:ready"
	MessageResize  = "wtc:resize"
	MessageSuccess = "wtc:success"
	MessageError   = "wtc:error"
)

// Message is one typed host-page signal. Only the fields relevant to the
// type are populated.
type Message struct {
	Type string `json:"type"`
	// Height accompanies wtc:resize, in CSS pixels.
	Height int `json:"height,omitempty"`
	// RecordNumber accompanies wtc:success.
	RecordNumber string `json:"recordNumber,omitempty"`
	// Text accompanies wtc:error.
	Text string `json:"message,omitempty"`
}

// Ready signals that the widget finished rendering and accepts input.
func Ready() Message {
	return Message{Type: MessageReady}
}

// Resize asks the host to adjust the iframe to the given content height.
func Resize(height int) Message {
	return Message{Type: MessageResize, Height: height}
}

// Success carries the created record's number to the host.
func Success(recordNumber string) Message {
	return Message{Type: MessageSuccess, RecordNumber: recordNumber}
}

// Failure carries a terminal error message to the host.
func Failure(text string) Message {
	return Message{Type: MessageError, Text: text}
}

// Encode serialises the message for postMessage delivery.
func (m Message) Encode() ([]byte, error) {
	switch m.Type {
	case MessageReady, MessageResize, MessageSuccess, MessageError:
	default:
		return nil, fmt.Errorf("widget: unknown message type %q", m.Type)
	}
	return json.Marshal(m)
}

// DecodeMessage parses a host-page payload, rejecting unknown types so
// unrelated postMessage traffic never reaches widget handlers.
func DecodeMessage(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("widget: decode message: %w", err)
	}
	switch m.Type {
	case MessageReady, MessageResize, MessageSuccess, MessageError:
		return m, nil
	default:
		return Message{}, fmt.Errorf("widget: unknown message type %q", m.Type)
	}
}
