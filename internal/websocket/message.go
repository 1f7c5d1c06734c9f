package websocket

import (
	"encoding/json"
	"fmt"
)

// builds a frame with payload encoded as its data. a nil payload leaves data out.
func NewMessage(event string, payload any) (*Message, error) {
	msg := &Message{Event: event}

	if payload == nil {
		return msg, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", event, err)
	}

	msg.Data = data
	return msg, nil
}

// decodes the frame's data into v
func (m *Message) UnmarshalPayload(v any) error {
	if len(m.Data) == 0 {
		return ErrInvalidMessage
	}

	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	return nil
}

// parses one inbound text frame
func ParseMessage(raw []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	if msg.Event == "" {
		return nil, fmt.Errorf("%w: missing event", ErrInvalidMessage)
	}

	return &msg, nil
}
