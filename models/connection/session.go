package connection

import (
	"errors"
	"log"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	cerr "github.com/saeidalz13/battleship-board/internal/error"
	mb "github.com/saeidalz13/battleship-board/models/board"
)

const (
	maxWriteWsRetries uint8         = 2
	backOffFactor     uint8         = 2
	writeWait         time.Duration = time.Second * 10
)

type ConnectionHandler interface {
	handleReadFromConnErr(err error) uint8
	writeToConnWithRetry(msg interface{}) error
	onConnErr(err error) uint8
}

// Session is one client connection together with the two boards of its
// game: the player's own board and the bot's board the player attacks.
// Boards are only touched by the goroutine serving the session.
type Session struct {
	id string

	mu           sync.Mutex
	conn         *websocket.Conn
	lastActiveAt time.Time

	// Receives a fresh connection while the session waits out an
	// abnormal closure.
	reconnectChan chan *websocket.Conn

	playerBoard *mb.Board
	botBoard    *mb.Board
}

func NewSession(id string, conn *websocket.Conn) *Session {
	return &Session{
		id:            id,
		conn:          conn,
		reconnectChan: make(chan *websocket.Conn),
		lastActiveAt:  time.Now(),
	}
}

var _ ConnectionHandler = (*Session)(nil)

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Conn() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

func (s *Session) setConn(conn *websocket.Conn) {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActiveAt = time.Now()
	s.mu.Unlock()
}

func (s *Session) LastActiveAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActiveAt
}

func (s *Session) remoteAddr() string {
	conn := s.Conn()
	if conn == nil {
		return "<nil>"
	}
	return conn.RemoteAddr().String()
}

func (s *Session) SetBoards(playerBoard, botBoard *mb.Board) {
	s.playerBoard = playerBoard
	s.botBoard = botBoard
}

func (s *Session) PlayerBoard() *mb.Board {
	return s.playerBoard
}

func (s *Session) BotBoard() *mb.Board {
	return s.botBoard
}

func (s *Session) Board(target uint8) (*mb.Board, error) {
	switch target {
	case TargetPlayerBoard:
		return s.playerBoard, nil
	case TargetBotBoard:
		return s.botBoard, nil
	default:
		return nil, cerr.ErrInvalidShotTarget(target)
	}
}

func (s *Session) onConnErr(err error) uint8 {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		log.Println("timeout error:", err)
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseTryAgainLater) {
		log.Println("high server load/traffic error:", err)
		return ConnLoopRetry
	}

	// Mobile clients going to background end up here
	if websocket.IsCloseError(err, websocket.CloseAbnormalClosure) {
		log.Println("abnormal closure error:", err)
		return ConnLoopAbnormalClosureRetry
	}

	if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		log.Println("close error:", err)
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseProtocolError, websocket.CloseInternalServerErr, websocket.CloseTLSHandshake, websocket.CloseMandatoryExtension) {
		log.Println("critical error:", err)
		return ConnLoopBreak
	}

	// Invalid payloads (binary data, bad UTF-8, oversized frames) mean the
	// client is not ours; stop serving it.
	if websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData, websocket.CloseUnsupportedData, websocket.CloseMessageTooBig, websocket.ClosePolicyViolation, websocket.CloseServiceRestart, websocket.CloseNoStatusReceived) {
		log.Println("non-critical error:", err)
		return ConnLoopBreak
	}

	log.Println("unexpected error:", err)
	return ConnLoopBreak
}

// Writes msg as JSON to the session connection, retrying with a linear
// back off on timeouts.
func (s *Session) writeToConnWithRetry(msg interface{}) error {
	var retries uint8

	for {
		conn := s.Conn()
		if conn == nil {
			return NewConnErr(ConnLoopBreak).AddDesc("session has no connection")
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := conn.WriteJSON(msg)
		if err == nil {
			return nil
		}

		switch s.onConnErr(err) {
		case ConnLoopRetry:
			if retries < maxWriteWsRetries {
				retries++
				log.Printf("writing json failed to ws [%s]; retrying... (retry no. %d)\n", s.remoteAddr(), retries)
				time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
				continue
			}
			log.Printf("max retries reached for writing to ws [%s]: %s", s.remoteAddr(), err)
			return NewConnErr(ConnLoopBreak).WithCause(err)

		case ConnLoopAbnormalClosureRetry:
			return NewConnErr(ConnLoopAbnormalClosureRetry).WithCause(err)

		default:
			return NewConnErr(ConnLoopBreak).AddDesc("breaking write loop").WithCause(err)
		}
	}
}

// Decides what the read loop does after err. ConnLoopBreak ends the
// session. A connection that timed out on a read is unusable afterwards,
// so timeouts end the session too.
func (s *Session) handleReadFromConnErr(err error) uint8 {
	switch s.onConnErr(err) {
	case ConnLoopAbnormalClosureRetry:
		return ConnLoopAbnormalClosureRetry

	default:
		log.Printf("break ws conn loop [%s] due to: %s\n", s.remoteAddr(), err)
		return ConnLoopBreak
	}
}

// Waits up to gracePeriod for the client to come back with the session
// id. Returns an error when it does not.
func (s *Session) awaitReconnection(gracePeriod time.Duration) error {
	timer := time.NewTimer(gracePeriod)
	defer timer.Stop()

	select {
	case <-timer.C:
		log.Printf("session terminated: %s\n", s.id)
		return NewConnErr(ConnLoopBreak).AddDesc("grace period is over for session: " + s.id)

	case conn := <-s.reconnectChan:
		old := s.Conn()
		s.setConn(conn)
		s.touch()
		if old != nil {
			_ = old.Close()
		}
		log.Printf("player reconnected, session: %s\n", s.id)
		return nil
	}
}

// Hands conn to a session waiting for reconnection. Fails if the
// session is not waiting.
func (s *Session) reconnect(conn *websocket.Conn) bool {
	select {
	case s.reconnectChan <- conn:
		return true
	default:
		return false
	}
}
