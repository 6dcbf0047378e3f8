package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// NoteID identifies a note. It is assigned by the remote store and never
// changes. The server emits integers; the client keeps them opaque.
type NoteID string

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *NoteID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode note id: %w", err)
		}
		*id = NoteID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode note id: %w", err)
	}
	*id = NoteID(n.String())
	return nil
}

// MarshalJSON emits numeric ids as numbers so they round-trip with the server.
func (id NoteID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id NoteID) String() string { return string(id) }

// Note is the central entity of the domain.
// A note only exists on the client once the server has acknowledged it,
// so ID is never empty for notes held by the collection.
type Note struct {
	ID      NoteID `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NoteInput is the payload for creating or updating a note.
type NoteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
