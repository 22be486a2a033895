package session

import (
	"sync"
	"time"

	"github.com/kbukum/identity/auth/password"
	apperrors "github.com/kbukum/identity/errors"
	"github.com/kbukum/identity/metadata"
	"github.com/kbukum/identity/token"
	"github.com/kbukum/identity/user"
)

// Directory is a session's workspace assignment for one application.
type Directory struct {
	AppID      int64     `json:"app_id"`
	UserID     int64     `json:"user_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

// Session is the server-side record of an authenticated principal.
// The sid and principal never change; every other field is guarded by mu.
type Session struct {
	sid       string
	principal *user.User

	mu          sync.RWMutex
	deadline    time.Time
	directories map[int64]Directory
	sandbox     map[string]string
	meta        metadata.Metadata
}

// New builds a session for principal that lives for timeout from now.
func New(sid string, principal *user.User, timeout time.Duration) (*Session, error) {
	if timeout <= 0 {
		return nil, apperrors.PreconditionFailed("Session timeout must be positive.")
	}
	now := time.Now()
	return &Session{
		sid:         sid,
		principal:   principal,
		deadline:    now.Add(timeout),
		directories: make(map[int64]Directory),
		sandbox:     make(map[string]string),
		meta:        metadata.New(now),
	}, nil
}

func (s *Session) SID() string { return s.sid }

func (s *Session) Principal() *user.User { return s.principal }

func (s *Session) Deadline() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deadline
}

// Expired reports whether the deadline is not after now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.Deadline())
}

// Extend moves the deadline to d if d is later. It reports whether the
// deadline changed.
func (s *Session) Extend(d time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !d.After(s.deadline) {
		return false
	}
	s.deadline = d
	s.meta.Touch(time.Now())
	return true
}

// SetDirectory assigns dir to the session. A second directory for the same
// app fails with ALREADY_EXISTS.
func (s *Session) SetDirectory(dir Directory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.directories[dir.AppID]; ok {
		return apperrors.AlreadyExists("directory")
	}
	s.directories[dir.AppID] = dir
	s.meta.Touch(time.Now())
	return nil
}

// Directory returns the assignment for appID, if any.
func (s *Session) Directory(appID int64) (Directory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dir, ok := s.directories[appID]
	return dir, ok
}

// Directories returns a snapshot of all assignments.
func (s *Session) Directories() []Directory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dirs := make([]Directory, 0, len(s.directories))
	for _, d := range s.directories {
		dirs = append(dirs, d)
	}
	return dirs
}

// SetSandbox stores a scratch value on the session.
func (s *Session) SetSandbox(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sandbox[key] = value
	s.meta.Touch(time.Now())
}

func (s *Session) Sandbox(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.sandbox[key]
	return v, ok
}

func (s *Session) Metadata() metadata.Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta
}

// Token mints an app-scoped token for this session. The deadline is used
// as given.
func (s *Session) Token(app string, deadline time.Time) *token.Token {
	return token.New(s.sid, app, time.Now(), deadline)
}

// NewSID returns a random hex session id of exactly length characters.
func NewSID(length int) (string, error) {
	raw, err := password.GenerateToken((length + 1) / 2)
	if err != nil {
		return "", err
	}
	return raw[:length], nil
}

// ValidSID reports whether sid is syntactically a session id of the given
// length. It says nothing about whether the session exists.
func ValidSID(sid string, length int) bool {
	if len(sid) != length {
		return false
	}
	for i := 0; i < len(sid); i++ {
		c := sid[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
