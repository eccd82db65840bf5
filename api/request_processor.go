package api

import (
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/saeidalz13/battleship-board/db/sqlc"
	"github.com/saeidalz13/battleship-board/internal/config"
	mb "github.com/saeidalz13/battleship-board/models/board"
	mc "github.com/saeidalz13/battleship-board/models/connection"
	"github.com/saeidalz13/battleship-board/models/layout"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"
)

var (
	upgrader = websocket.Upgrader{
		// good average time since this is not a high-latency operation such as video streaming
		HandshakeTimeout: time.Second * 5,

		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

type RequestProcessor struct {
	sessionManager mc.SessionManager
	dbManager      sqlc.DbManager
	boardConfig    *config.BoardConfig
	botLayout      *layout.BotShipPlacement
	ipnet          net.IPNet
}

// queries may be nil; analytics are skipped then.
func NewRequestProcessor(
	sessionManager mc.SessionManager,
	queries sqlc.Querier,
	boardConfig *config.BoardConfig,
	botLayout *layout.BotShipPlacement,
) RequestProcessor {
	ipnet := serverIpNet()

	return RequestProcessor{
		sessionManager: sessionManager,
		dbManager:      sqlc.NewDbManager(queries, ipnet),
		boardConfig:    boardConfig,
		botLayout:      botLayout,
		ipnet:          ipnet,
	}
}

// Expose this method to use it in testing
func (rp RequestProcessor) GetIpNet() net.IPNet {
	return rp.ipnet
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		http.Error(w, "could not open websocket connection", http.StatusBadRequest)
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	switch sessionIdQuery {
	case "":
		log.Println("a new connection established\tRemote Addr: ", conn.RemoteAddr().String())
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))

	default:
		if err := rp.sessionManager.ReconnectSession(sessionIdQuery, conn); err != nil {
			log.Println(err)
			msg := mc.NewErrorMessage[mc.NoPayload](mc.CodeReceivedInvalidSessionID, err, "session cannot be resumed")
			_ = conn.WriteJSON(msg)
			conn.Close()
		}
	}
}

// Creates both boards of a new game. The bot fleet is placed and
// locked before listeners are attached so its setup raises no events.
func (rp RequestProcessor) setUpBoards(session *mc.Session, events *eventQueue) error {
	analytics := rp.dbManager.Analytics

	playerBoard, err := rp.boardConfig.NewBoard(
		mb.WithListener(newBoardListener(mc.TargetPlayerBoard, events, analytics)),
	)
	if err != nil {
		return err
	}

	botBoard, err := rp.boardConfig.NewBoard()
	if err != nil {
		return err
	}
	if _, err := rp.botLayout.Apply(botBoard); err != nil {
		return err
	}
	botBoard.Subscribe(newBoardListener(mc.TargetBotBoard, events, analytics))

	session.SetBoards(playerBoard, botBoard)
	return nil
}

func (rp RequestProcessor) processSessionRequests(session *mc.Session) {
	sessionId := session.Id()

	defer func() {
		if conn := session.Conn(); conn != nil {
			conn.Close()
		}
		rp.sessionManager.TerminateSession(sessionId)
	}()

	events := &eventQueue{}
	if err := rp.setUpBoards(session, events); err != nil {
		log.Printf("failed to set up boards for session %s: %v", sessionId, err)
		msg := mc.NewErrorMessage[mc.NoPayload](mc.CodeSessionID, err, "failed to set up the game")
		_ = rp.sessionManager.WriteToSessionConn(session, msg)
		return
	}

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.sessionManager.WriteToSessionConn(session, resp); err != nil {
		return
	}

sessionLoop:
	for {
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// Retries are exhausted or the client is gone
			break sessionLoop
		}

		code, err := rp.sessionManager.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewErrorMessage[mc.NoPayload](mc.CodeSignalAbsent, err, "")
			if err = rp.sessionManager.WriteToSessionConn(session, msg); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		var respMsg interface{}
		req := NewRequest(payload)

		switch code {
		case mc.CodeStartCell:
			respMsg = req.HandleStartCell(session)

		case mc.CodeTryPlaceShip:
			respMsg = req.HandleTryPlaceShip(session)

		case mc.CodePlaceShip:
			respMsg = req.HandlePlaceShip(session, rp.dbManager.Analytics)

		case mc.CodeLiftShip:
			respMsg = req.HandleLiftShip(session)

		case mc.CodeLockShips:
			respMsg = req.HandleLockShips(session)

		case mc.CodeShoot:
			respMsg = req.HandleShoot(session, events)

		case mc.CodeResetTurn:
			respMsg = req.HandleResetTurn(session)

		case mc.CodeBoardState:
			respMsg = req.HandleBoardState(session)

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			respMsg = respInvalidSignal
		}

		if err := rp.sessionManager.WriteToSessionConn(session, respMsg); err != nil {
			break sessionLoop
		}

		for _, eventMsg := range events.drain() {
			if err := rp.sessionManager.WriteToSessionConn(session, eventMsg); err != nil {
				break sessionLoop
			}
		}
	}
}
