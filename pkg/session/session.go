// pkg/session/session.go

package session

import (
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quotation-billing/pkg/invoice"
	"github.com/quotation-billing/pkg/ledger"
)

// Session is one person's quotation in progress. Its mutex serialises
// every change to the details, the logo and the ledger.
type Session struct {
	ID uuid.UUID

	mu       sync.Mutex
	details  invoice.Details
	logoPath string
	ledger   *ledger.Ledger
	lastUsed time.Time
}

func newSession(details invoice.Details, now time.Time) *Session {
	return &Session{
		ID:       uuid.New(),
		details:  details,
		ledger:   ledger.New(),
		lastUsed: now,
	}
}

// View is a read-only copy of a session for display.
type View struct {
	ID         uuid.UUID        `json:"id"`
	HasLogo    bool             `json:"has_logo"`
	LastUsedAt time.Time        `json:"last_used_at"`
	Invoice    invoice.Snapshot `json:"invoice"`
}

// Do runs fn with exclusive access to the session's ledger.
func (s *Session) Do(fn func(l *ledger.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.ledger)
}

// Clear empties the ledger.
func (s *Session) Clear() {
	s.mu.Lock()
	s.ledger.Clear()
	s.mu.Unlock()
}

// SetDetails replaces the company, customer and bank details.
func (s *Session) SetDetails(d invoice.Details) {
	s.mu.Lock()
	s.details = d
	s.mu.Unlock()
}

// Details returns the current details.
func (s *Session) Details() invoice.Details {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.details
}

// SetLogo records the path of an uploaded logo, removing any previous
// upload.
func (s *Session) SetLogo(path string) {
	s.mu.Lock()
	old := s.logoPath
	s.logoPath = path
	s.mu.Unlock()

	if old != "" && old != path {
		_ = os.Remove(old)
	}
}

// Capture takes the snapshot and logo path under the session lock. The
// caller renders after the lock is released.
func (s *Session) Capture() (invoice.Snapshot, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Capture(s.details), s.logoPath
}

// View returns a display copy of the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		ID:         s.ID,
		HasLogo:    s.logoPath != "",
		LastUsedAt: s.lastUsed,
		Invoice:    s.ledger.Capture(s.details),
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// release deletes temporary files owned by the session.
func (s *Session) release() {
	s.SetLogo("")
}
