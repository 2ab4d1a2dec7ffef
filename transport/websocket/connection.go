package websocket

import (
	"encoding/json"
	"fmt"

	ws "github.com/gorilla/websocket"
)

// connection is written only from the goroutine reading it.
type connection struct {
	ws        *ws.Conn
	sessionID string
}

func (that *connection) send(action string, payload ResponsePayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = that.ws.WriteJSON(Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *connection) sendError(request, message string) error {
	return that.send(actionError, ResponsePayload{Request: request, Error: message})
}
