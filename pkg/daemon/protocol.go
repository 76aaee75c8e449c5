// Package daemon serves scaffolding requests over a unix socket as newline delimited JSON.
package daemon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type MessageType string

const (
	CreateTemplateFiles MessageType = "createTemplateFiles"
	CreateRelatedFiles  MessageType = "createRelatedFiles"
	CreateDirectories   MessageType = "createDirectories"
	UndoOrRedo          MessageType = "undoOrRedo"
)

func (t MessageType) Valid() bool {
	switch t {
	case CreateTemplateFiles, CreateRelatedFiles, CreateDirectories, UndoOrRedo:
		return true
	}
	return false
}

// Message is one request line. Data holds a list of paths for createTemplateFiles and
// createDirectories, a single path for createRelatedFiles, and nothing for undoOrRedo.
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Reply is written back for every message.
type Reply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func NewMessage(t MessageType, data any) (Message, error) {
	if !t.Valid() {
		return Message{}, fmt.Errorf("unknown message type %q", t)
	}
	if data == nil {
		return Message{Type: t}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Message{}, fmt.Errorf("encoding %s data: %w", t, err)
	}
	return Message{Type: t, Data: raw}, nil
}

// DefaultSocketFile is the socket used when none is given.
func DefaultSocketFile() string {
	return filepath.Join(os.TempDir(), "dtpl.socket")
}
