package cartclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// State is what survives a restart: the session identity and the last
// known item list.
type State struct {
	SessionID string `json:"sessionId"`
	Items     []Item `json:"items"`
}

// SessionStore persists controller state across runs.
type SessionStore interface {
	Load() (State, error)
	Save(state State) error
}

// FileSessionStore keeps the state as a JSON file, the desktop-client
// equivalent of browser local storage.
type FileSessionStore struct {
	path string
}

func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

func (s *FileSessionStore) Load() (State, error) {
	var state State

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return state, nil
		}
		return state, fmt.Errorf("read session state failed: %w", err)
	}

	if err := json.Unmarshal(data, &state); err != nil {
		// A corrupt state file is discarded, not fatal.
		return State{}, nil
	}
	return state, nil
}

func (s *FileSessionStore) Save(state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session state failed: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create session dir failed: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session state failed: %w", err)
	}
	return nil
}
