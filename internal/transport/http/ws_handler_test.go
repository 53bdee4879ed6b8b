package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"persona-quiz-service/internal/app"
	"persona-quiz-service/internal/domain"
	"persona-quiz-service/internal/infra/memory"
)

func TestWebSocketPlayFlow(t *testing.T) {
	recorder := memory.NewAttemptRecorder()
	quizzes := memory.NewQuizRepository(memory.NewStaticQuizLoader(sampleQuizzes()), time.Minute)
	service := app.NewPlayService(memory.NewSessionStore(), quizzes, recorder)
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?quizId=quiz-1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Connection opens with a session envelope.
	_, payload := readNext(conn, t, "session")
	if payload["sessionId"] == "" || payload["questionCount"] != float64(2) {
		t.Fatalf("unexpected session payload %+v", payload)
	}

	send(conn, t, map[string]any{"type": "start", "payload": map[string]any{"name": "Alice"}})
	_, payload = readNext(conn, t, "question")
	if payload["index"] != float64(0) {
		t.Fatalf("expected question 0, got %+v", payload)
	}

	// Advancing without a selection re-sends the current question.
	send(conn, t, map[string]any{"type": "next"})
	_, payload = readNext(conn, t, "question")
	if payload["index"] != float64(0) {
		t.Fatalf("expected rejected advance to stay on question 0, got %+v", payload)
	}

	send(conn, t, map[string]any{"type": "select", "payload": map[string]any{"optionId": "o2"}})
	_, payload = readNext(conn, t, "question")
	if payload["selectedOptionId"] != "o2" {
		t.Fatalf("expected selection echoed, got %+v", payload)
	}

	send(conn, t, map[string]any{"type": "next"})
	_, payload = readNext(conn, t, "question")
	if payload["index"] != float64(1) {
		t.Fatalf("expected question 1, got %+v", payload)
	}

	// Back restores question 0 with the recorded selection.
	send(conn, t, map[string]any{"type": "back"})
	_, payload = readNext(conn, t, "question")
	if payload["index"] != float64(0) || payload["selectedOptionId"] != "o2" {
		t.Fatalf("expected question 0 with selection restored, got %+v", payload)
	}

	send(conn, t, map[string]any{"type": "next"})
	_, _ = readNext(conn, t, "question")
	send(conn, t, map[string]any{"type": "select", "payload": map[string]any{"optionId": "o4"}})
	_, _ = readNext(conn, t, "question")

	send(conn, t, map[string]any{"type": "submit"})
	_, payload = readNext(conn, t, "result")
	result, ok := payload["result"].(map[string]any)
	if !ok || result["id"] != "r2" {
		t.Fatalf("expected water result, got %+v", payload)
	}

	// The attempt lands without blocking the result frame.
	deadline := time.Now().Add(2 * time.Second)
	for len(recorder.Attempts()) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("attempt was never recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocketUnknownQuiz(t *testing.T) {
	quizzes := memory.NewQuizRepository(memory.NewStaticQuizLoader(sampleQuizzes()), time.Minute)
	service := app.NewPlayService(memory.NewSessionStore(), quizzes, memory.NewAttemptRecorder())
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?quizId=quiz-missing"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	msgType, _ := readNext(conn, t, "")
	if msgType != "error" {
		t.Fatalf("expected error envelope, got %s", msgType)
	}
}

func send(conn *websocket.Conn, t *testing.T, msg map[string]any) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %v: %v", msg["type"], err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (payload %v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}

func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:    "quiz-1",
			Title: "Which element are you?",
			Questions: []domain.Question{
				{
					ID: "q1", Order: 0, Text: "Pick a season",
					Options: []domain.Option{
						{ID: "o1", Order: 0, Text: "Summer", Scores: domain.ScoreMap{"fire": 2}},
						{ID: "o2", Order: 1, Text: "Winter", Scores: domain.ScoreMap{"water": 2}},
					},
				},
				{
					ID: "q2", Order: 1, Text: "Pick a pace",
					Options: []domain.Option{
						{ID: "o3", Order: 0, Text: "Sprint", Scores: domain.ScoreMap{"fire": 3}},
						{ID: "o4", Order: 1, Text: "Stroll", Scores: domain.ScoreMap{"water": 3}},
					},
				},
			},
			Results: []domain.Result{
				{ID: "r1", PersonalityLabel: "fire", Title: "Fire"},
				{ID: "r2", PersonalityLabel: "water", Title: "Water"},
			},
		},
	}
}
