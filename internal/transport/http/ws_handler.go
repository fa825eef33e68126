package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"daily-quiz-service/internal/app"
	"daily-quiz-service/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.DailyQuizService
	logger   *slog.Logger
	upgrader websocket.Upgrader

	connMu sync.Mutex
	conns  map[string]int
}

func NewWSHandler(service *app.DailyQuizService, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns: make(map[string]int),
	}
}

func (h *WSHandler) attach(playerID string) {
	h.connMu.Lock()
	h.conns[playerID]++
	h.connMu.Unlock()
}

// detach drops the player's session once their last connection closes.
func (h *WSHandler) detach(playerID string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.conns[playerID]--
	if h.conns[playerID] > 0 {
		return
	}
	delete(h.conns, playerID)
	h.service.Leave(playerID)
}

func (h *WSHandler) connections(playerID string) int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.conns[playerID]
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Option *int `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type joinedPayload struct {
	PlayerID string             `json:"playerId"`
	Quiz     domain.CurrentQuiz `json:"quiz"`
	State    domain.AnswerView  `json:"state"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the daily quiz.
// A playerId is generated when the client does not supply one. Connections
// sharing a playerId share one session, dropped when the last one closes.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		playerID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	h.attach(playerID)
	defer h.detach(playerID)

	state, err := h.service.Join(r.Context(), playerID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: toErrorPayload(err)})
		return
	}
	current, err := h.service.Current(r.Context())
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: toErrorPayload(err)})
		return
	}

	updates, cancel := h.service.Subscribe()
	defer cancel()

	h.logger.Info("player connected", "player", playerID)
	defer h.logger.Info("player disconnected", "player", playerID)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// one writer goroutine: gorilla connections do not allow concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", "player", playerID, "error", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case event, ok := <-updates:
				if !ok {
					return
				}
				msgs := []outboundMessage[any]{{Type: string(event.Type), Payload: event}}
				if event.Type == domain.EventRollover {
					if view, err := h.service.State(playerID); err == nil {
						msgs = append(msgs, outboundMessage[any]{Type: "state", Payload: view})
					}
				}
				for _, msg := range msgs {
					select {
					case send <- msg:
					case <-closeSignals:
						return
					}
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "joined", Payload: joinedPayload{PlayerID: playerID, Quiz: current, State: state}}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		send <- h.handle(playerID, inbound)
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) handle(playerID string, inbound inboundMessage) outboundMessage[any] {
	var (
		view domain.AnswerView
		err  error
	)
	switch inbound.Type {
	case "select":
		var payload selectPayload
		if jsonErr := json.Unmarshal(inbound.Payload, &payload); jsonErr != nil || payload.Option == nil {
			return outboundMessage[any]{Type: "error", Payload: errorPayload{Code: "bad_request", Message: "invalid select payload"}}
		}
		view, err = h.service.Select(playerID, *payload.Option)
	case "submit":
		view, err = h.service.Submit(playerID)
	case "state":
		view, err = h.service.State(playerID)
	default:
		return outboundMessage[any]{Type: "error", Payload: errorPayload{Code: "bad_request", Message: "unsupported message type"}}
	}
	if err != nil {
		return outboundMessage[any]{Type: "error", Payload: toErrorPayload(err)}
	}
	return outboundMessage[any]{Type: "state", Payload: view}
}
