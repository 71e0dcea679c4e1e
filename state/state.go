// Package state remembers, per multiplexer workspace, whether the running
// session has been announced and which title the workspace was given.
//
// Every operation is best effort: reads of a missing or corrupt file return
// an empty Session, failed writes and removals are logged and dropped.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/grovetools/cmux-notify/errors"
	"github.com/sirupsen/logrus"
)

// DefaultPrefix names state files in the temp directory.
const DefaultPrefix = "cmux-copilot-"

// Session is the cross-invocation memory of one workspace.
type Session struct {
	Started bool   `json:"started,omitempty"`
	Title   string `json:"title,omitempty"`
}

// Store persists a Session.
type Store interface {
	Load() Session
	Save(Session)
	Remove()
}

var unsafeChars = strings.NewReplacer("/", "_", ":", "_", " ", "_")

// SafeFilename replaces characters that would break a file name.
func SafeFilename(ref string) string {
	return unsafeChars.Replace(ref)
}

// FilePath returns the state file for a workspace, or "" when the workspace
// is unknown and persistence is disabled.
func FilePath(dir, prefix, workspaceRef string) string {
	if workspaceRef == "" {
		return ""
	}
	if dir == "" {
		dir = os.TempDir()
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return filepath.Join(dir, prefix+SafeFilename(workspaceRef)+".json")
}

// FileStore keeps a Session as a small JSON file.
type FileStore struct {
	path string
	log  *logrus.Entry
}

// NewFileStore creates a store for the given workspace. An empty workspace
// reference yields a store that never touches the filesystem.
func NewFileStore(dir, prefix, workspaceRef string, log *logrus.Entry) *FileStore {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &FileStore{
		path: FilePath(dir, prefix, workspaceRef),
		log:  log,
	}
}

// Path returns the backing file, "" when persistence is disabled.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the session. Missing, unreadable and corrupt files all read as
// an empty Session.
func (s *FileStore) Load() Session {
	if s.path == "" {
		return Session{}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.WithError(errors.StateIO(s.path, err)).Debug("Failed to read session state")
		}
		return Session{}
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		s.log.WithError(errors.StateIO(s.path, err)).Debug("Ignoring corrupt session state")
		return Session{}
	}
	return session
}

// Save writes the session, dropping failures.
func (s *FileStore) Save(session Session) {
	if s.path == "" {
		return
	}

	data, err := json.Marshal(session)
	if err != nil {
		s.log.WithError(err).Debug("Failed to marshal session state")
		return
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		s.log.WithError(errors.StateIO(s.path, err)).Debug("Failed to write session state")
	}
}

// Remove deletes the session file. A missing file is not an error.
func (s *FileStore) Remove() {
	if s.path == "" {
		return
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.log.WithError(errors.StateIO(s.path, err)).Debug("Failed to remove session state")
	}
}

// MemoryStore is an in-process Store, used when a caller wants the policy
// without any filesystem side effects.
type MemoryStore struct {
	mu      sync.Mutex
	session *Session
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored session or an empty one.
func (m *MemoryStore) Load() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return Session{}
	}
	return *m.session
}

// Save replaces the stored session.
func (m *MemoryStore) Save(session Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &session
}

// Remove forgets the stored session.
func (m *MemoryStore) Remove() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
}

// Exists reports whether anything has been saved since the last Remove.
func (m *MemoryStore) Exists() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}
