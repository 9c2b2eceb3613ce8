package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/bnshell/bnshell/internal/scriptservice"
)

var (
	// ErrSessionNotFound is returned when a session is not found
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionAlreadyExists is returned when trying to create a session with an existing ID
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// Session represents an active script debugging session.
type Session struct {
	ID        string
	Service   *scriptservice.Service
	CreatedAt time.Time
}

// SessionManager manages multiple script sessions.
type SessionManager struct {
	sessions    map[string]*Session
	broadcaster *Broadcaster
	mu          sync.RWMutex
}

// NewSessionManager creates a new session manager.
func NewSessionManager(broadcaster *Broadcaster) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		broadcaster: broadcaster,
	}
}

// CreateSession creates a new session with a unique ID. If opts.Source is
// set, it is loaded immediately so a caller can create-and-load in one call.
func (sm *SessionManager) CreateSession(opts SessionCreateRequest) (*Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	svc := scriptservice.New()

	// Wire output and state-change broadcasting through the service's
	// callback hooks rather than an io.Writer shim: scriptservice.Service
	// already hands back formatted strings, so there is no byte-stream to
	// adapt.
	if sm.broadcaster != nil {
		broadcaster := sm.broadcaster
		sid := sessionID
		prevSysvars := make(map[string]string)
		var prevMu sync.Mutex
		svc.SetOutputCallback(func(text string) {
			broadcaster.BroadcastOutput(sid, "stdout", text)
		})
		svc.SetStateChangedCallback(func() {
			data := map[string]interface{}{
				"status":      string(svc.GetExecutionState()),
				"pc":          svc.PC(),
				"opcodeCount": svc.OpcodeCount(),
			}
			broadcaster.BroadcastState(sid, data)

			// Scriptservice only notifies that *something* changed, not
			// which sysvar; diff against the last snapshot so a client
			// that subscribed to a handful of sysvar names only gets
			// traffic for the ones that actually moved.
			prevMu.Lock()
			for _, v := range svc.GetSysvars() {
				wire := ToSysvarResponse(v)
				if prevSysvars[wire.Name] != wire.Value {
					prevSysvars[wire.Name] = wire.Value
					broadcaster.BroadcastSysvarChange(sid, wire.Name, wire.Value, wire.Type)
				}
			}
			prevMu.Unlock()
		})
		debugLog("Session %s: output and state broadcasting wired", sessionID)
	} else {
		debugLog("Session %s: WARNING - no broadcaster available for output", sessionID)
	}

	if opts.Source != "" {
		if err := svc.LoadSource(opts.Source); err != nil {
			return nil, err
		}
	}

	session := &Session{
		ID:        sessionID,
		Service:   svc,
		CreatedAt: time.Now(),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; exists {
		return nil, ErrSessionAlreadyExists
	}

	sm.sessions[sessionID] = session
	return session, nil
}

// GetSession retrieves a session by ID.
func (sm *SessionManager) GetSession(sessionID string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

// DestroySession removes a session by ID.
func (sm *SessionManager) DestroySession(sessionID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}

	delete(sm.sessions, sessionID)
	return nil
}

// ListSessions returns a list of all session IDs.
func (sm *SessionManager) ListSessions() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of active sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}

// generateSessionID generates a unique session ID.
func generateSessionID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
