package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"literary-flow/internal/app"
	"literary-flow/internal/domain"
	"literary-flow/internal/game"
)

type WSHandler struct {
	service     *app.GameService
	defaultBank string
	upgrader    websocket.Upgrader
}

func NewWSHandler(service *app.GameService, defaultBank string) *WSHandler {
	return &WSHandler{
		service:     service,
		defaultBank: defaultBank,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type entityPayload struct {
	EntityID string `json:"entityId"`
}

type pointPayload struct {
	EntityID string  `json:"entityId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type hoverResult struct {
	Zone   domain.Category `json:"zone,omitempty"`
	Inside bool            `json:"inside"`
}

type dropResult struct {
	EntityID string         `json:"entityId"`
	Outcome  domain.Outcome `json:"outcome"`
	Score    int            `json:"score"`
	Lives    int            `json:"lives"`
	Phase    domain.Phase   `json:"phase"`
}

type soundPayload struct {
	Kind domain.Sound `json:"kind"`
}

type phasePayload struct {
	Phase domain.Phase `json:"phase"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func errorMessage(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
}

// ServeWS upgrades HTTP requests to websockets and wires them into the game use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	player := domain.Player{ID: q.Get("playerId"), Name: q.Get("name"), ClassName: q.Get("class")}
	bankID := q.Get("bank")
	if bankID == "" {
		bankID = h.defaultBank
	}
	if player.ID == "" || bankID == "" {
		http.Error(w, "missing playerId or bank", http.StatusBadRequest)
		return
	}
	if err := player.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	joined, err := h.service.Join(ctx, bankID, player)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err))
		return
	}

	updates, cancel, err := h.service.Subscribe(ctx, player.ID)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err))
		return
	}

	send := make(chan outboundMessage[any], 32)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Only this goroutine writes to conn.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				slog.Debug("ws write error", "player_id", player.ID, "err", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				msg, ok := toOutbound(update)
				if !ok {
					continue
				}
				select {
				case send <- msg:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "joined", Payload: joined}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if reply, ok := h.handle(ctx, player.ID, inbound); ok {
			select {
			case send <- reply:
			case <-writerDone:
			}
		}
	}

	close(closeSignals)
	<-updatesDone
	cancel()
	// Navigating away ends the match; the session goes once nobody watches it.
	h.service.Leave(ctx, player.ID)
	close(send)
	<-writerDone
}

func (h *WSHandler) handle(ctx context.Context, playerID string, inbound inboundMessage) (outboundMessage[any], bool) {
	switch inbound.Type {
	case "start":
		snap, err := h.service.Start(ctx, playerID)
		if err != nil {
			return errorMessage(err), true
		}
		return outboundMessage[any]{Type: "state", Payload: snap}, true
	case "dragStart":
		var payload entityPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid dragStart payload"}}, true
		}
		if err := h.service.BeginDrag(ctx, playerID, payload.EntityID); err != nil {
			return errorMessage(err), true
		}
		return outboundMessage[any]{}, false
	case "dragMove":
		var payload pointPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid dragMove payload"}}, true
		}
		zone, inside, err := h.service.Hover(ctx, playerID, domain.Point{X: payload.X, Y: payload.Y})
		if err != nil {
			return errorMessage(err), true
		}
		return outboundMessage[any]{Type: "hover", Payload: hoverResult{Zone: zone, Inside: inside}}, true
	case "drop":
		var payload pointPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid drop payload"}}, true
		}
		outcome, snap, err := h.service.Drop(ctx, playerID, payload.EntityID, domain.Point{X: payload.X, Y: payload.Y})
		if err != nil {
			return errorMessage(err), true
		}
		return outboundMessage[any]{Type: "dropResult", Payload: dropResult{
			EntityID: payload.EntityID,
			Outcome:  outcome,
			Score:    snap.Score,
			Lives:    snap.Lives,
			Phase:    snap.Phase,
		}}, true
	case "leave":
		h.service.Leave(ctx, playerID)
		snap, err := h.service.Snapshot(ctx, playerID)
		if err != nil {
			return errorMessage(err), true
		}
		return outboundMessage[any]{Type: "state", Payload: snap}, true
	default:
		return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}, true
	}
}

// toOutbound maps session updates onto wire messages.
func toOutbound(u app.Update) (outboundMessage[any], bool) {
	switch u.Type {
	case app.UpdateState:
		return outboundMessage[any]{Type: "state", Payload: u.State}, true
	case app.UpdateFinished:
		return outboundMessage[any]{Type: "finished", Payload: u.Result}, true
	case app.UpdateEvent:
		switch u.Event.Kind {
		case game.EventFeedback:
			return outboundMessage[any]{Type: "feedback", Payload: u.Event.Feedback}, true
		case game.EventSound:
			return outboundMessage[any]{Type: "sound", Payload: soundPayload{Kind: u.Event.Sound}}, true
		case game.EventPhase:
			return outboundMessage[any]{Type: "phase", Payload: phasePayload{Phase: u.Event.Phase}}, true
		case game.EventMissed:
			return outboundMessage[any]{Type: "missed", Payload: u.Event.Entity}, true
		}
	}
	return outboundMessage[any]{}, false
}
