package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/websocket"
	"github.com/sqlc-dev/pqtype"

	"github.com/saeidalz13/battleship-board/db/sqlc"
	"github.com/saeidalz13/battleship-board/internal/config"
	mb "github.com/saeidalz13/battleship-board/models/board"
	mc "github.com/saeidalz13/battleship-board/models/connection"
	"github.com/saeidalz13/battleship-board/models/layout"
)

var dialer = websocket.Dialer{
	HandshakeTimeout: 10 * time.Second,
}

type rawMessage = mc.Message[json.RawMessage]

type testClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func newTestServer(t *testing.T, queries sqlc.Querier, opts ...mc.SessionManagerOption) (RequestProcessor, string) {
	t.Helper()

	boardConfig := config.DefaultBoardConfig()
	rp := NewRequestProcessor(mc.NewBattleshipSessionManager(opts...), queries, &boardConfig, layout.Default())

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return rp, "ws" + strings.TrimPrefix(server.URL, "http") + "/battleship"
}

func dial(t *testing.T, url string) *testClient {
	t.Helper()

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		// normal closure ends the session loop without a grace period
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	})

	return &testClient{t: t, conn: conn}
}

func (c *testClient) send(msg interface{}) {
	c.t.Helper()
	if err := c.conn.WriteJSON(msg); err != nil {
		c.t.Fatal(err)
	}
}

func (c *testClient) read(expectedCode uint8) rawMessage {
	c.t.Helper()

	_ = c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg rawMessage
	if err := c.conn.ReadJSON(&msg); err != nil {
		c.t.Fatal(err)
	}
	if msg.Code != expectedCode {
		c.t.Fatalf("expected code: %d\tgot: %d (error: %+v)", expectedCode, msg.Code, msg.Error)
	}
	return msg
}

func (c *testClient) readOK(expectedCode uint8, payload interface{}) {
	c.t.Helper()

	msg := c.read(expectedCode)
	if msg.Error != nil {
		c.t.Fatalf("unexpected error: %s", msg.Error.ErrorDetails)
	}
	if payload != nil {
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			c.t.Fatal(err)
		}
	}
}

func (c *testClient) readErr(expectedCode uint8) *mc.RespErr {
	c.t.Helper()

	msg := c.read(expectedCode)
	if msg.Error == nil {
		c.t.Fatalf("expected an error for code %d", expectedCode)
	}
	return msg.Error
}

func request[T any](code uint8, payload T) mc.Message[T] {
	msg := mc.NewMessage[T](code)
	msg.AddPayload(payload)
	return msg
}

func TestPlacementAndCombat(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rp, url := newTestServer(t, sqlc.New(db))
	serverIp := pqtype.Inet{IPNet: rp.GetIpNet(), Valid: true}

	for i := 0; i < 3; i++ {
		mock.ExpectExec(`INSERT INTO game_server_analytics \(server_ip, ships_placed\)`).
			WithArgs(serverIp).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec(`INSERT INTO game_server_analytics \(server_ip, ships_sunk\)`).
		WithArgs(serverIp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO game_server_analytics \(server_ip, bonuses_unlocked\)`).
		WithArgs(serverIp).
		WillReturnResult(sqlmock.NewResult(0, 1))

	client := dial(t, url)

	var respSessionId mc.RespSessionId
	client.readOK(mc.CodeSessionID, &respSessionId)
	if respSessionId.SessionID == "" {
		t.Fatal("expected a session id")
	}

	/*
	   Placement
	*/
	client.send(request(mc.CodeStartCell, mc.ReqStartCell{Position: mb.Vec2{X: 1.5, Y: 0.5}, Size: 3, IsHorizontal: true}))
	var respStartCell mc.RespStartCell
	client.readOK(mc.CodeStartCell, &respStartCell)
	if respStartCell.Cell != mb.NewCell(0, 0) {
		t.Fatalf("expected start cell: (0,0)\tgot: %v", respStartCell.Cell)
	}

	client.send(request(mc.CodeTryPlaceShip, mc.ReqPlaceShip{Col: 0, Row: 0, Size: 3, IsHorizontal: true}))
	var respTry mc.RespTryPlaceShip
	client.readOK(mc.CodeTryPlaceShip, &respTry)
	if len(respTry.Cells) != 3 || respTry.Centers[2] != (mb.Vec2{X: 2.5, Y: 0.5}) {
		t.Fatalf("unexpected dry run: %+v", respTry)
	}

	client.send(request(mc.CodeTryPlaceShip, mc.ReqPlaceShip{Col: 4, Row: 0, Size: 3, IsHorizontal: true}))
	client.readErr(mc.CodeTryPlaceShip)

	placements := []mc.ReqPlaceShip{
		{Col: 0, Row: 0, Size: 3, IsHorizontal: true},
		{Col: 5, Row: 1, Size: 3, IsHorizontal: false},
		{Col: 0, Row: 5, Size: 2, IsHorizontal: true},
	}
	var ships []mc.ShipView
	for i, placement := range placements {
		client.send(request(mc.CodePlaceShip, placement))
		var respPlace mc.RespPlaceShip
		client.readOK(mc.CodePlaceShip, &respPlace)
		if respPlace.PlacedShipCount != i+1 {
			t.Fatalf("expected placed ship count: %d\tgot: %d", i+1, respPlace.PlacedShipCount)
		}
		ships = append(ships, respPlace.Ship)

		if i == 0 {
			client.send(request(mc.CodePlaceShip, mc.ReqPlaceShip{Col: 1, Row: 0, Size: 2, IsHorizontal: true}))
			if respErr := client.readErr(mc.CodePlaceShip); !strings.Contains(respErr.ErrorDetails, "occupied") {
				t.Fatalf("expected occupied error\tgot: %s", respErr.ErrorDetails)
			}

			client.send(request(mc.CodeShoot, mc.ReqShoot{Target: mc.TargetBotBoard}))
			client.readErr(mc.CodeShoot)
		}
	}

	var allPlaced mc.RespBoardEvent
	client.readOK(mc.CodeAllShipsPlaced, &allPlaced)
	if allPlaced.Target != mc.TargetPlayerBoard {
		t.Fatalf("expected target: %d\tgot: %d", mc.TargetPlayerBoard, allPlaced.Target)
	}

	client.send(request(mc.CodeBoardState, mc.ReqTarget{Target: mc.TargetPlayerBoard}))
	var playerState mc.RespBoardState
	client.readOK(mc.CodeBoardState, &playerState)
	if len(playerState.Ships) != 3 || len(playerState.OccupiedCells) != 8 {
		t.Fatalf("unexpected player board: %+v", playerState)
	}

	client.send(mc.NewMessage[mc.NoPayload](mc.CodeLockShips))
	var respLock mc.RespLockShips
	client.readOK(mc.CodeLockShips, &respLock)
	if respLock.Phase != mb.PhaseCombat {
		t.Fatalf("expected phase: %d\tgot: %d", mb.PhaseCombat, respLock.Phase)
	}

	client.send(request(mc.CodeLiftShip, mc.ReqLiftShip{ShipId: ships[0].Id}))
	client.readErr(mc.CodeLiftShip)

	/*
	   Combat against the default bot layout
	*/
	client.send(request(mc.CodeShoot, mc.ReqShoot{Target: mc.TargetBotBoard, Col: 3, Row: 3}))
	var respShot mc.RespShot
	client.readOK(mc.CodeShoot, &respShot)
	if respShot.Result != mb.ShotMiss {
		t.Fatalf("expected miss\tgot: %+v", respShot)
	}

	for col := 0; col < 3; col++ {
		client.send(request(mc.CodeShoot, mc.ReqShoot{Target: mc.TargetBotBoard, Col: col, Row: 0}))
		client.readOK(mc.CodeShoot, &respShot)
	}
	if respShot.Result != mb.ShotDestroyedThisTurn || !respShot.BonusUnlocked || respShot.SunkenShips != 1 {
		t.Fatalf("expected destroyed this turn with bonus\tgot: %+v", respShot)
	}

	var sunk mc.RespBoardEvent
	client.readOK(mc.CodeShipSunk, &sunk)
	if sunk.Target != mc.TargetBotBoard || sunk.Ship == nil || len(sunk.Ship.Cells) != 3 {
		t.Fatalf("unexpected sunk event: %+v", sunk)
	}
	client.readOK(mc.CodeBonusUnlocked, nil)

	client.send(request(mc.CodeShoot, mc.ReqShoot{Target: mc.TargetBotBoard, Col: 1, Row: 0}))
	client.readOK(mc.CodeShoot, &respShot)
	if !respShot.Repeated || respShot.Result != mb.ShotSunk {
		t.Fatalf("expected repeated shot on sunk ship\tgot: %+v", respShot)
	}

	client.send(request(mc.CodeShoot, mc.ReqShoot{Target: mc.TargetBotBoard, Col: 9, Row: 9}))
	client.readErr(mc.CodeShoot)

	client.send(request(mc.CodeShoot, mc.ReqShoot{Target: 7, Col: 0, Row: 0}))
	client.readErr(mc.CodeShoot)

	client.send(request(mc.CodeBoardState, mc.ReqTarget{Target: mc.TargetBotBoard}))
	var botState mc.RespBoardState
	client.readOK(mc.CodeBoardState, &botState)
	if botState.SunkenShips != 1 || len(botState.OccupiedCells) != 0 {
		t.Fatalf("unexpected bot board: %+v", botState)
	}
	for _, ship := range botState.Ships {
		if ship.State != mb.ShipStateSunk && len(ship.Cells) != 0 {
			t.Fatalf("bot ship %s leaked its cells", ship.Id)
		}
	}

	client.send(request(mc.CodeResetTurn, mc.ReqTarget{Target: mc.TargetBotBoard}))
	client.readOK(mc.CodeResetTurn, nil)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

func TestInvalidSignals(t *testing.T) {
	_, url := newTestServer(t, nil)
	client := dial(t, url)
	client.readOK(mc.CodeSessionID, nil)

	tests := []struct {
		name         string
		reqPayload   interface{}
		expectedCode uint8
	}{
		{
			name:         "random invalid code",
			reqPayload:   mc.NewMessage[mc.NoPayload](255),
			expectedCode: mc.CodeInvalidSignal,
		},
		{
			name:         "missing code",
			reqPayload:   map[string]int{"x": 1},
			expectedCode: mc.CodeSignalAbsent,
		},
		{
			name:         "lock before placing",
			reqPayload:   mc.NewMessage[mc.NoPayload](mc.CodeLockShips),
			expectedCode: mc.CodeLockShips,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client.t = t
			client.send(test.reqPayload)
			client.readErr(test.expectedCode)
		})
	}
}

func TestReconnectUnknownSession(t *testing.T) {
	_, url := newTestServer(t, nil)
	client := dial(t, url+"?"+URLQuerySessionIDKeyword+"=doesnotexist")
	client.readErr(mc.CodeReceivedInvalidSessionID)
}

func TestReconnectWithinGracePeriod(t *testing.T) {
	_, url := newTestServer(t, nil, mc.WithGracePeriod(3*time.Second))
	client := dial(t, url)

	var respSessionId mc.RespSessionId
	client.readOK(mc.CodeSessionID, &respSessionId)

	client.send(request(mc.CodePlaceShip, mc.ReqPlaceShip{Col: 0, Row: 0, Size: 3, IsHorizontal: true}))
	var respPlace mc.RespPlaceShip
	client.readOK(mc.CodePlaceShip, &respPlace)

	// Drop the connection without a close frame, like a mobile client
	// going to background
	client.conn.UnderlyingConn().Close()

	resumeUrl := url + "?" + URLQuerySessionIDKeyword + "=" + respSessionId.SessionID
	deadline := time.Now().Add(2 * time.Second)

	var state mc.RespBoardState
	for resumed := false; !resumed; {
		if time.Now().After(deadline) {
			t.Fatal("session was never resumed")
		}
		time.Sleep(20 * time.Millisecond)

		conn, _, err := dialer.Dial(resumeUrl, nil)
		if err != nil {
			t.Fatal(err)
		}

		// Refused while the server has not noticed the drop yet
		var msg rawMessage
		if err := conn.WriteJSON(request(mc.CodeBoardState, mc.ReqTarget{Target: mc.TargetPlayerBoard})); err == nil {
			_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
			err = conn.ReadJSON(&msg)
			if err == nil && msg.Code == mc.CodeBoardState {
				resumed = true
				if err := json.Unmarshal(msg.Payload, &state); err != nil {
					t.Fatal(err)
				}
			}
		}

		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}

	if state.PlacedShipCount != 1 || len(state.Ships) != 1 || state.Ships[0].Id != respPlace.Ship.Id {
		t.Fatalf("expected the board from before the drop\tgot: %+v", state)
	}
}
