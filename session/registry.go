// Package session tracks authenticated users and resolves their roles.
//
// Role rows live in their own table and are looked up lazily after a session
// is established: the registry records the session immediately and queues the
// user id on a channel consumed by a dedicated resolver goroutine, so sign-in
// never blocks on the role query and the resolver never re-enters the caller.
package session

import (
	"log"
	"sync"
	"time"

	"yerli-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session describes one authenticated user known to the registry. Role is ""
// until the resolver has run, and stays "" when no role row exists.
type Session struct {
	UserID        uuid.UUID
	Email         string
	Role          string
	EstablishedAt time.Time
}

type Registry struct {
	db *gorm.DB

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	lookups chan uuid.UUID
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewRegistry starts the resolver goroutine. Close must be called on
// shutdown.
func NewRegistry(db *gorm.DB) *Registry {
	r := &Registry{
		db:       db,
		sessions: make(map[uuid.UUID]*Session),
		lookups:  make(chan uuid.UUID, 64),
		done:     make(chan struct{}),
	}

	r.wg.Add(1)
	go r.resolve()

	return r
}

func (r *Registry) resolve() {
	defer r.wg.Done()

	for {
		select {
		case <-r.done:
			return
		case userID := <-r.lookups:
			role, err := models.LookupUserRole(r.db, userID)
			if err != nil {
				// Soft failure: the session stays usable without a role.
				log.Printf("session: role lookup failed for %s: %v", userID, err)
				continue
			}

			r.mu.Lock()
			if s, ok := r.sessions[userID]; ok {
				s.Role = role
			}
			r.mu.Unlock()
		}
	}
}

// Establish records a session and queues a role lookup. Safe to call again
// for an already-known user; the existing role is kept until the fresh
// lookup lands.
func (r *Registry) Establish(userID uuid.UUID, email string) {
	r.mu.Lock()
	if existing, ok := r.sessions[userID]; ok {
		existing.Email = email
		existing.EstablishedAt = time.Now()
	} else {
		r.sessions[userID] = &Session{
			UserID:        userID,
			Email:         email,
			EstablishedAt: time.Now(),
		}
	}
	r.mu.Unlock()

	r.enqueue(userID)
}

// Refresh queues a fresh role lookup for a known user, e.g. after a customer
// was promoted to a business owner.
func (r *Registry) Refresh(userID uuid.UUID) {
	r.mu.RLock()
	_, known := r.sessions[userID]
	r.mu.RUnlock()
	if known {
		r.enqueue(userID)
	}
}

func (r *Registry) enqueue(userID uuid.UUID) {
	select {
	case r.lookups <- userID:
	case <-r.done:
	default:
		// Queue full; the role will be resolved on the next Establish/Refresh.
		log.Printf("session: lookup queue full, dropping role refresh for %s", userID)
	}
}

// Get returns the tracked session for a user.
func (r *Registry) Get(userID uuid.UUID) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[userID]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Revoke drops a session on logout.
func (r *Registry) Revoke(userID uuid.UUID) {
	r.mu.Lock()
	delete(r.sessions, userID)
	r.mu.Unlock()
}

// Close stops the resolver goroutine and forgets all sessions.
func (r *Registry) Close() {
	close(r.done)
	r.wg.Wait()

	r.mu.Lock()
	r.sessions = make(map[uuid.UUID]*Session)
	r.mu.Unlock()
}
