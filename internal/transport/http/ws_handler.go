package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"persona-quiz-service/internal/app"
)

type WSHandler struct {
	service  *app.PlayService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.PlayService) *WSHandler {
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

type startPayload struct {
	Name string `json:"name"`
}

type selectPayload struct {
	OptionID string `json:"optionId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type sessionPayload struct {
	SessionID     string `json:"sessionId"`
	QuizID        string `json:"quizId"`
	Title         string `json:"title"`
	QuestionCount int    `json:"questionCount"`
}

type introPayload struct {
	QuestionCount int `json:"questionCount"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and drives one play session
// per connection. All outbound frames are direct replies to inbound frames,
// so a single read loop owns the connection and no write fan-in is needed.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session, err := h.service.NewSession(r.Context(), quizID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.EndSession(session.ID())

	quiz := session.Quiz()
	_ = conn.WriteJSON(outboundMessage[sessionPayload]{Type: "session", Payload: sessionPayload{
		SessionID:     session.ID(),
		QuizID:        quiz.ID,
		Title:         quiz.Title,
		QuestionCount: len(quiz.Questions),
	}})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}

		switch inbound.Type {
		case "start":
			var payload startPayload
			_ = json.Unmarshal(inbound.Payload, &payload)
			view, err := h.service.Start(session.ID(), payload.Name)
			h.reply(conn, view, err)
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.writeError(conn, "invalid select payload")
				continue
			}
			view, err := h.service.Select(session.ID(), payload.OptionID)
			h.reply(conn, view, err)
		case "next":
			view, _, err := h.service.Next(session.ID())
			// A rejected advance still re-sends the current question.
			h.reply(conn, view, err)
		case "back":
			view, atIntro, err := h.service.Back(session.ID())
			if err != nil {
				h.writeError(conn, err.Error())
				continue
			}
			if atIntro {
				_ = conn.WriteJSON(outboundMessage[introPayload]{Type: "intro", Payload: introPayload{QuestionCount: view.Total}})
				continue
			}
			_ = conn.WriteJSON(outboundMessage[app.QuestionView]{Type: "question", Payload: view})
		case "submit":
			outcome, err := h.service.Submit(r.Context(), quizID, session.ID())
			if err != nil {
				h.writeError(conn, err.Error())
				continue
			}
			_ = conn.WriteJSON(outboundMessage[app.Outcome]{Type: "result", Payload: outcome})
		default:
			h.writeError(conn, "unsupported message type")
		}
	}
}

func (h *WSHandler) reply(conn *websocket.Conn, view app.QuestionView, err error) {
	if err != nil {
		h.writeError(conn, err.Error())
		return
	}
	_ = conn.WriteJSON(outboundMessage[app.QuestionView]{Type: "question", Payload: view})
}

func (h *WSHandler) writeError(conn *websocket.Conn, message string) {
	_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}})
}
