package connection

import "encoding/json"

// Message is one decoded text frame. Type drives routing; Raw retains the
// full frame so consumers can decode domain fields themselves.
type Message struct {
	Type string
	Raw  json.RawMessage
}

// envelope extracts the dispatch tag without decoding domain fields.
type envelope struct {
	Type string `json:"type"`
}

// pongFrame is the reply to a server heartbeat.
var pongFrame = []byte(`{"type":"pong"}`)
