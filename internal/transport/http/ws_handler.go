package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"challenge-session-service/internal/app"
	"challenge-session-service/internal/domain"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.ChallengeService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.ChallengeService) *WSHandler {
	return &WSHandler{
		service: service,
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

type submitPayload struct {
	ProblemID string `json:"problemId"`
	Code      string `json:"code"`
	Language  string `json:"language"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the
// session use cases. The connection joins the session, receives a hydrate
// (or a backfill when reconnecting with lastSeq), then streams live events
// while accepting start/submit/forfeit/end commands.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	userID := r.URL.Query().Get("userId")
	accessCode := r.URL.Query().Get("accessCode")
	if sessionID == "" || userID == "" {
		http.Error(w, "missing sessionId or userId", http.StatusBadRequest)
		return
	}
	var fromSeq *uint64
	if raw := r.URL.Query().Get("lastSeq"); raw != "" {
		seq, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid lastSeq", http.StatusBadRequest)
			return
		}
		fromSeq = &seq
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// A connection with lastSeq is a reconnect: the user already joined, and
	// must still be able to view an Ended session's final leaderboard, so we
	// skip the join. Fresh connections join; once the session has Ended they
	// degrade to read-only viewers of the final snapshot.
	var snapshot domain.Snapshot
	if fromSeq != nil {
		snapshot, err = h.service.Snapshot(r.Context(), sessionID)
	} else {
		snapshot, err = h.service.Join(r.Context(), sessionID, userID, accessCode)
		if errors.Is(err, domain.ErrSessionClosed) {
			snapshot, err = h.service.Snapshot(r.Context(), sessionID)
		}
	}
	if err != nil {
		_ = conn.WriteJSON(outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	// Reconnects resume from the client's last sequence when the replay
	// buffer still covers it; otherwise fall back to a fresh hydrate.
	resumeFrom := fromSeq
	needHydrate := fromSeq == nil
	if resumeFrom == nil {
		seq := snapshot.LastSeq
		resumeFrom = &seq
	}
	events, cancel, err := h.service.Subscribe(r.Context(), sessionID, resumeFrom)
	if errors.Is(err, domain.ErrStaleSequence) {
		needHydrate = true
		seq := snapshot.LastSeq
		events, cancel, err = h.service.Subscribe(r.Context(), sessionID, &seq)
	}
	if err != nil {
		_ = conn.WriteJSON(outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	send := make(chan any, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- ev:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	if needHydrate {
		send <- domain.Event{
			SessionID: sessionID,
			Seq:       snapshot.LastSeq,
			Type:      domain.EventHydrate,
			Payload:   snapshot,
		}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			if err := h.service.Start(r.Context(), sessionID, userID); err != nil {
				send <- outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "submit":
			var payload submitPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage{Type: "error", Payload: errorPayload{Message: "invalid submit payload"}}
				continue
			}
			if err := h.service.SubmitSolution(r.Context(), sessionID, userID, payload.ProblemID, payload.Code, payload.Language); err != nil {
				send <- outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "forfeit":
			if err := h.service.Forfeit(r.Context(), sessionID, userID); err != nil {
				send <- outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "end":
			if err := h.service.End(r.Context(), sessionID, userID); err != nil {
				send <- outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		default:
			send <- outboundMessage{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}
