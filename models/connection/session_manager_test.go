package connection

import (
	"errors"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	cerr "github.com/saeidalz13/battleship-board/internal/error"
)

func TestFetchCodeFromMsg(t *testing.T) {
	bsm := NewBattleshipSessionManager()

	tests := []struct {
		name         string
		payload      string
		expectedCode uint8
		expectErr    bool
	}{
		{name: "session id code", payload: `{"code":0}`, expectedCode: CodeSessionID},
		{name: "shoot", payload: `{"code":7,"payload":{"target":1}}`, expectedCode: CodeShoot},
		{name: "no code", payload: `{"payload":{}}`, expectedCode: CodeSignalAbsent, expectErr: true},
		{name: "not json", payload: `code`, expectedCode: CodeSignalAbsent, expectErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			code, err := bsm.FetchCodeFromMsg([]byte(test.payload))
			if test.expectErr != (err != nil) {
				t.Fatalf("expected error: %t\tgot: %v", test.expectErr, err)
			}
			if code != test.expectedCode {
				t.Fatalf("expected code: %d\tgot: %d", test.expectedCode, code)
			}
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	bsm := NewBattleshipSessionManager(WithGracePeriod(50 * time.Millisecond))

	session := bsm.GenerateNewSession(nil)
	if bsm.SessionCount() != 1 {
		t.Fatalf("expected 1 session\tgot: %d", bsm.SessionCount())
	}

	found, err := bsm.FindSession(session.Id())
	if err != nil || found != session {
		t.Fatalf("expected to find session %s: %v", session.Id(), err)
	}

	// Not waiting for a reconnection
	if err := bsm.ReconnectSession(session.Id(), &websocket.Conn{}); err == nil {
		t.Fatal("expected reconnection to be refused")
	}

	if err := session.awaitReconnection(10 * time.Millisecond); err == nil {
		t.Fatal("expected grace period to run out")
	}

	done := make(chan error)
	go func() { done <- session.awaitReconnection(time.Second) }()

	conn := &websocket.Conn{}
	deadline := time.Now().Add(time.Second)
	for bsm.ReconnectSession(session.Id(), conn) != nil {
		if time.Now().After(deadline) {
			t.Fatal("session never accepted the reconnection")
		}
		time.Sleep(time.Millisecond)
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if session.Conn() != conn {
		t.Fatal("expected the new connection to be attached")
	}

	bsm.TerminateSession(session.Id())
	if _, err := bsm.FindSession(session.Id()); err == nil {
		t.Fatal("expected session to be gone")
	}
}

func TestSessionBoardTarget(t *testing.T) {
	session := NewSession("id", nil)

	if _, err := session.Board(TargetPlayerBoard); err != nil {
		t.Fatal(err)
	}
	if _, err := session.Board(5); err == nil {
		t.Fatal("expected an invalid target error")
	}
}

func TestConnErrUnwrap(t *testing.T) {
	err := NewConnErr(ConnLoopBreak).AddDesc("closing").WithCause(cerr.ErrSessionNotFound("x"))

	var connErr ConnErr
	if !errors.As(err, &connErr) || connErr.Code() != ConnLoopBreak {
		t.Fatalf("expected ConnErr with break code\tgot: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Fatal("expected a wrapped cause")
	}
}

func TestRemoveInactiveSessions(t *testing.T) {
	interval := time.Minute
	bsm := NewBattleshipSessionManager(WithCleanupInterval(interval))

	idle := bsm.GenerateNewSession(nil)
	active := bsm.GenerateNewSession(nil)

	// A long running game keeps its session as long as messages arrive
	idle.lastActiveAt = time.Now().Add(-2 * interval)
	active.lastActiveAt = time.Now().Add(-2 * interval)
	active.touch()

	if removed := bsm.removeInactiveSessions(time.Now()); removed != 1 {
		t.Fatalf("expected removed sessions: 1\tgot: %d", removed)
	}
	if _, err := bsm.FindSession(idle.Id()); err == nil {
		t.Fatal("expected idle session to be removed")
	}
	if _, err := bsm.FindSession(active.Id()); err != nil {
		t.Fatalf("expected active session to stay: %v", err)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestHandleReadFromConnErr(t *testing.T) {
	session := NewSession("id", nil)

	tests := []struct {
		name         string
		err          error
		expectedCode uint8
	}{
		{
			name:         "read timeout",
			err:          timeoutErr{},
			expectedCode: ConnLoopBreak,
		},
		{
			name:         "abnormal closure",
			err:          &websocket.CloseError{Code: websocket.CloseAbnormalClosure},
			expectedCode: ConnLoopAbnormalClosureRetry,
		},
		{
			name:         "normal closure",
			err:          &websocket.CloseError{Code: websocket.CloseNormalClosure},
			expectedCode: ConnLoopBreak,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if code := session.handleReadFromConnErr(test.err); code != test.expectedCode {
				t.Fatalf("expected code: %d\tgot: %d", test.expectedCode, code)
			}
		})
	}
}
