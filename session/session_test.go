package session

import (
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/kbukum/identity/errors"
	"github.com/kbukum/identity/user"
)

func alice() *user.User {
	u := user.New("alice", "alice@example.com", "hash", time.Now())
	u.ID = 1
	return u
}

func TestNew_DeadlineBounds(t *testing.T) {
	const timeout = 10 * time.Second

	before := time.Now()
	sess, err := New("sid", alice(), timeout)
	after := time.Now()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	d := sess.Deadline()
	if d.Before(before.Add(timeout)) || d.After(after.Add(timeout)) {
		t.Errorf("deadline %v outside [%v, %v]", d, before.Add(timeout), after.Add(timeout))
	}
	if sess.Expired(after) {
		t.Error("new session must not be expired")
	}
	if len(sess.Directories()) != 0 {
		t.Error("new session must have no directories")
	}
	if _, ok := sess.Sandbox("anything"); ok {
		t.Error("new session must have an empty sandbox")
	}
}

func TestNew_NonPositiveTimeout(t *testing.T) {
	if _, err := New("sid", alice(), 0); !apperrors.IsCode(err, apperrors.ErrCodePreconditionFailed) {
		t.Errorf("expected PRECONDITION_FAILED, got %v", err)
	}
}

func TestSetDirectory_OncePerApp(t *testing.T) {
	sess, _ := New("sid", alice(), time.Minute)
	before := sess.Metadata().UpdatedAt

	dir := Directory{AppID: 7, UserID: 1, AssignedAt: time.Now()}
	if err := sess.SetDirectory(dir); err != nil {
		t.Fatalf("SetDirectory: %v", err)
	}
	if err := sess.SetDirectory(Directory{AppID: 7, UserID: 1}); !apperrors.IsCode(err, apperrors.ErrCodeAlreadyExists) {
		t.Errorf("expected ALREADY_EXISTS for the same app, got %v", err)
	}
	if err := sess.SetDirectory(Directory{AppID: 8, UserID: 1}); err != nil {
		t.Errorf("a different app must be accepted: %v", err)
	}

	got, ok := sess.Directory(7)
	if !ok || !got.AssignedAt.Equal(dir.AssignedAt) {
		t.Errorf("expected the first assignment to be kept, got %+v", got)
	}
	if len(sess.Directories()) != 2 {
		t.Errorf("expected 2 directories, got %d", len(sess.Directories()))
	}
	if sess.Metadata().UpdatedAt.Before(before) {
		t.Error("SetDirectory must touch metadata")
	}
}

func TestSetDirectory_Concurrent(t *testing.T) {
	sess, _ := New("sid", alice(), time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sess.SetDirectory(Directory{AppID: 1}) == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
			sess.Directories()
		}()
	}
	wg.Wait()
	if succeeded != 1 {
		t.Errorf("expected exactly one assignment to win, got %d", succeeded)
	}
}

func TestExtend_ForwardOnly(t *testing.T) {
	sess, _ := New("sid", alice(), time.Minute)
	d := sess.Deadline()

	if sess.Extend(d.Add(-time.Second)) {
		t.Error("Extend must not rewind the deadline")
	}
	if !sess.Deadline().Equal(d) {
		t.Error("deadline changed on a rejected extend")
	}
	if !sess.Extend(d.Add(time.Hour)) || !sess.Deadline().Equal(d.Add(time.Hour)) {
		t.Error("Extend must move the deadline forward")
	}
}

func TestSandbox(t *testing.T) {
	sess, _ := New("sid", alice(), time.Minute)
	sess.SetSandbox("state", "xyz")
	if v, ok := sess.Sandbox("state"); !ok || v != "xyz" {
		t.Errorf("Sandbox = %q, %v", v, ok)
	}
}

func TestToken(t *testing.T) {
	sess, _ := New("abc123", alice(), time.Minute)
	deadline := time.Now().Add(30 * time.Second)

	tok := sess.Token("app-1", deadline)
	if tok.App != "app-1" || tok.Subject != "abc123" {
		t.Errorf("unexpected token %+v", tok)
	}
	if tok.ExpiresAt != deadline.Unix() {
		t.Errorf("expected exp %d, got %d", deadline.Unix(), tok.ExpiresAt)
	}
}

func TestNewSID(t *testing.T) {
	for _, length := range []int{16, 31, 64, 127} {
		sid, err := NewSID(length)
		if err != nil {
			t.Fatalf("NewSID(%d): %v", length, err)
		}
		if len(sid) != length {
			t.Errorf("NewSID(%d) has length %d", length, len(sid))
		}
		if !ValidSID(sid, length) {
			t.Errorf("NewSID(%d) = %q is not a valid sid", length, sid)
		}
	}
}

func TestValidSID(t *testing.T) {
	tests := []struct {
		sid  string
		want bool
	}{
		{strings.Repeat("a", 32), true},
		{strings.Repeat("0f", 16), true},
		{strings.Repeat("a", 31), false},
		{strings.Repeat("A", 32), false},
		{strings.Repeat("g", 32), false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidSID(tt.sid, 32); got != tt.want {
			t.Errorf("ValidSID(%q) = %v, want %v", tt.sid, got, tt.want)
		}
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	bad := cfg
	bad.SIDLength = 8
	if bad.Validate() == nil {
		t.Error("expected error for short sid")
	}
	bad = cfg
	bad.Shards = 0
	if bad.Validate() == nil {
		t.Error("expected error for zero shards")
	}
}
