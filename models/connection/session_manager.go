package connection

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	cerr "github.com/saeidalz13/battleship-board/internal/error"
)

const (
	defaultCleanupInterval time.Duration = time.Minute * 20
	defaultGracePeriod     time.Duration = time.Minute * 2
)

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	CleanupPeriodically(ctx context.Context)

	FindSession(sessionId string) (*Session, error)
	TerminateSession(sessionId string)
	ReconnectSession(sessionId string, conn *websocket.Conn) error
	SessionCount() int

	WriteToSessionConn(session *Session, msg interface{}) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
	FetchCodeFromMsg(payload []byte) (uint8, error)
}

type BattleshipSessionManager struct {
	cleanupInterval time.Duration
	gracePeriod     time.Duration
	sessions        map[string]*Session
	mu              sync.RWMutex
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

type SessionManagerOption func(*BattleshipSessionManager)

func WithGracePeriod(d time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		bsm.gracePeriod = d
	}
}

func WithCleanupInterval(d time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		bsm.cleanupInterval = d
	}
}

func NewBattleshipSessionManager(opts ...SessionManagerOption) *BattleshipSessionManager {
	initMapSize := 10

	bsm := &BattleshipSessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		cleanupInterval: defaultCleanupInterval,
		gracePeriod:     defaultGracePeriod,
	}
	for _, opt := range opts {
		opt(bsm)
	}
	return bsm
}

// Session ids are URL safe so clients can pass them back as a query
// parameter when reconnecting.
func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
	session := NewSession(sessionId, conn)

	bsm.mu.Lock()
	bsm.sessions[sessionId] = session
	bsm.mu.Unlock()

	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionNotFound(sessionId)
	}

	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}

	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(sessionId string) {
	bsm.mu.Lock()
	delete(bsm.sessions, sessionId)
	bsm.mu.Unlock()
	log.Printf("session deleted: %s", sessionId)
}

func (bsm *BattleshipSessionManager) SessionCount() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return len(bsm.sessions)
}

// ReconnectSession attaches conn to a session that lost its connection
// abnormally and is inside its grace period.
func (bsm *BattleshipSessionManager) ReconnectSession(sessionId string, conn *websocket.Conn) error {
	session, err := bsm.FindSession(sessionId)
	if err != nil {
		return err
	}

	if !session.reconnect(conn) {
		return NewConnErr(ConnLoopBreak).AddDesc("session is not waiting for reconnection: " + sessionId)
	}
	return nil
}

// To ensure that there are no dangling sessions, sessions that have not
// received a message for the cleanup interval are removed.
func (bsm *BattleshipSessionManager) CleanupPeriodically(ctx context.Context) {
	ticker := time.NewTicker(bsm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			bsm.removeInactiveSessions(now)
		}
	}
}

func (bsm *BattleshipSessionManager) removeInactiveSessions(now time.Time) int {
	assumedClosedConns := 10

	bsm.mu.Lock()
	defer bsm.mu.Unlock()

	toDelete := make([]string, 0, assumedClosedConns)
	for ID, session := range bsm.sessions {
		if now.Sub(session.LastActiveAt()) > bsm.cleanupInterval {
			toDelete = append(toDelete, ID)
		}
	}

	for _, ID := range toDelete {
		delete(bsm.sessions, ID)
		log.Printf("cleanup removed inactive session: %s", ID)
	}
	return len(toDelete)
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}) error {
	for {
		err := session.writeToConnWithRetry(msg)
		if err == nil {
			return nil
		}

		var connErr ConnErr
		if !errors.As(err, &connErr) || connErr.Code() != ConnLoopAbnormalClosureRetry {
			return err
		}

		// Write again on the new connection
		if err := session.awaitReconnection(bsm.gracePeriod); err != nil {
			return err
		}
	}
}

func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	for {
		conn := session.Conn()
		if conn == nil {
			return -1, nil, NewConnErr(ConnLoopBreak).AddDesc("session has no connection")
		}

		messageType, payload, err := conn.ReadMessage()
		if err == nil {
			session.touch()
			return messageType, payload, nil
		}

		switch session.handleReadFromConnErr(err) {
		case ConnLoopAbnormalClosureRetry:
			if err := session.awaitReconnection(bsm.gracePeriod); err != nil {
				return -1, nil, err
			}

		default:
			return -1, nil, err
		}
	}
}

var errSignalAbsent = errors.New("incoming req payload must contain 'code' field")

func (bsm *BattleshipSessionManager) FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal struct {
		Code *uint8 `json:"code"`
	}
	if err := json.Unmarshal(payload, &signal); err != nil {
		return CodeSignalAbsent, err
	}
	if signal.Code == nil {
		return CodeSignalAbsent, errSignalAbsent
	}
	return *signal.Code, nil
}
