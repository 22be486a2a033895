package session

import (
	"context"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/kbukum/identity/errors"
	"github.com/kbukum/identity/logger"
	"github.com/kbukum/identity/user"
)

const resource = "session"

type shard struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// Registry is the concurrency-safe store of live sessions.
//
// Sessions are spread over shards by a hash of their sid so that lookups on
// unrelated sessions never contend. The identity index has its own lock.
// When both are needed the index lock is taken first.
type Registry struct {
	shards    []*shard
	sidLength int

	idxMu      sync.RWMutex
	byIdentity map[string]string

	group  singleflight.Group
	newSID func() (string, error)
	log    *logger.Logger
}

// NewRegistry creates an empty registry laid out per cfg.
func NewRegistry(cfg Config, log *logger.Logger) *Registry {
	cfg.ApplyDefaults()
	r := &Registry{
		shards:     make([]*shard, cfg.Shards),
		sidLength:  cfg.SIDLength,
		byIdentity: make(map[string]string),
		log:        log.WithComponent("session.registry"),
	}
	for i := range r.shards {
		r.shards[i] = &shard{sessions: make(map[string]*Session)}
	}
	r.newSID = func() (string, error) { return NewSID(cfg.SIDLength) }
	return r
}

// SIDLength is the length every session id issued by r has.
func (r *Registry) SIDLength() int { return r.sidLength }

func (r *Registry) shardFor(sid string) *shard {
	return r.shards[xxhash.Sum64String(sid)%uint64(len(r.shards))]
}

// Create registers a new session for principal. It fails with COLLISION if
// the generated sid is taken and with ALREADY_EXISTS if the principal
// already has a live session.
func (r *Registry) Create(ctx context.Context, principal *user.User, timeout time.Duration) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Unknown(err)
	}
	sid, err := r.newSID()
	if err != nil {
		return nil, apperrors.Unknown(err)
	}
	sess, err := New(sid, principal, timeout)
	if err != nil {
		return nil, err
	}
	identity := principal.Identity()

	r.idxMu.Lock()
	defer r.idxMu.Unlock()

	if prev, ok := r.byIdentity[identity]; ok {
		if r.liveLocked(prev) {
			return nil, apperrors.AlreadyExists(resource)
		}
		r.evictLocked(prev)
		delete(r.byIdentity, identity)
	}

	sh := r.shardFor(sid)
	sh.mu.Lock()
	if _, taken := sh.sessions[sid]; taken {
		sh.mu.Unlock()
		r.log.Warn("Generated session id collided with a live session", map[string]interface{}{
			logger.FieldPrincipal: identity,
		})
		return nil, apperrors.Collision(resource)
	}
	sh.sessions[sid] = sess
	sh.mu.Unlock()

	r.byIdentity[identity] = sid

	r.log.WithContext(ctx).Debug("Session created", map[string]interface{}{
		logger.FieldSessionID: logger.SessionRef(sid),
		logger.FieldPrincipal: identity,
		"deadline":            sess.Deadline().UTC().Format(time.RFC3339),
	})
	return sess, nil
}

// liveLocked reports whether sid names an unexpired session. Caller holds idxMu.
func (r *Registry) liveLocked(sid string) bool {
	sh := r.shardFor(sid)
	sh.mu.RLock()
	sess, ok := sh.sessions[sid]
	sh.mu.RUnlock()
	return ok && !sess.Expired(time.Now())
}

// evictLocked drops sid from its shard. Caller holds idxMu.
func (r *Registry) evictLocked(sid string) {
	sh := r.shardFor(sid)
	sh.mu.Lock()
	delete(sh.sessions, sid)
	sh.mu.Unlock()
}

// FindBySID returns the live session with the given id. Expired sessions
// are removed and reported as NOT_FOUND.
func (r *Registry) FindBySID(sid string) (*Session, error) {
	sh := r.shardFor(sid)
	sh.mu.RLock()
	sess, ok := sh.sessions[sid]
	sh.mu.RUnlock()

	if !ok {
		return nil, apperrors.NotFound(resource, "")
	}
	if now := time.Now(); sess.Expired(now) {
		r.removeIf(sid, func(s *Session) bool { return s.Expired(now) })
		return nil, apperrors.NotFound(resource, "")
	}
	return sess, nil
}

// FindByIdentity returns the live session of the principal with the given
// identity.
func (r *Registry) FindByIdentity(identity string) (*Session, error) {
	r.idxMu.RLock()
	sid, ok := r.byIdentity[identity]
	r.idxMu.RUnlock()

	if !ok {
		return nil, apperrors.NotFound(resource, identity)
	}
	sess, err := r.FindBySID(sid)
	if err != nil {
		return nil, apperrors.NotFound(resource, identity)
	}
	return sess, nil
}

// FindOrCreate returns the principal's live session, creating one if there
// is none. Concurrent calls for the same principal share a single creation,
// so they all observe the same session.
//
// Creation is detached from ctx cancellation once started: a session that
// made it into the registry stays there until it expires or is removed.
func (r *Registry) FindOrCreate(ctx context.Context, principal *user.User, timeout time.Duration) (*Session, error) {
	identity := principal.Identity()
	if sess, err := r.FindByIdentity(identity); err == nil {
		return sess, nil
	}

	detached := context.WithoutCancel(ctx)
	v, err, _ := r.group.Do(identity, func() (interface{}, error) {
		if sess, err := r.FindByIdentity(identity); err == nil {
			return sess, nil
		}
		sess, err := r.Create(detached, principal, timeout)
		if apperrors.IsCode(err, apperrors.ErrCodeAlreadyExists) {
			return r.FindByIdentity(identity)
		}
		return sess, err
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// Remove deletes the session from both indices. It reports whether a
// session was removed; removing an unknown sid is a no-op.
func (r *Registry) Remove(sid string) bool {
	return r.removeIf(sid, nil)
}

// removeIf removes sid if cond is nil or holds for the stored session.
func (r *Registry) removeIf(sid string, cond func(*Session) bool) bool {
	sh := r.shardFor(sid)
	sh.mu.Lock()
	sess, ok := sh.sessions[sid]
	if ok && cond != nil && !cond(sess) {
		ok = false
	}
	if ok {
		delete(sh.sessions, sid)
	}
	sh.mu.Unlock()

	if !ok {
		return false
	}

	identity := sess.Principal().Identity()
	r.idxMu.Lock()
	if r.byIdentity[identity] == sid {
		delete(r.byIdentity, identity)
	}
	r.idxMu.Unlock()
	return true
}

// Sweep removes every session expired at now and returns how many were
// removed.
func (r *Registry) Sweep(now time.Time) int {
	var expired []string
	for _, sh := range r.shards {
		sh.mu.RLock()
		for sid, sess := range sh.sessions {
			if sess.Expired(now) {
				expired = append(expired, sid)
			}
		}
		sh.mu.RUnlock()
	}

	removed := 0
	stillExpired := func(s *Session) bool { return s.Expired(now) }
	for _, sid := range expired {
		if r.removeIf(sid, stillExpired) {
			removed++
		}
	}
	return removed
}

// Len returns the number of registered sessions, expired ones included
// until they are evicted.
func (r *Registry) Len() int {
	n := 0
	for _, sh := range r.shards {
		sh.mu.RLock()
		n += len(sh.sessions)
		sh.mu.RUnlock()
	}
	return n
}
