package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GhadeBhavesh/QZone/internal/app"
	"github.com/GhadeBhavesh/QZone/internal/domain"
	"github.com/GhadeBhavesh/QZone/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, timing app.Timing) *httptest.Server {
	t.Helper()
	rooms := app.NewRoomRegistry()
	hub := NewHub()
	gateway := NewGateway(hub, rooms)
	sets := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(map[string]domain.QuestionSet{
		"general": {
			ID: "general",
			Questions: []domain.Question{
				{
					Prompt:  "What is 2 + 2?",
					Choices: []string{"3", "4", "5"},
					Correct: 1,
				},
			},
		},
	}), time.Minute)
	service := app.NewGameService(rooms, memory.NewGameStore(), sets, gateway, timing, "general")
	wsHandler := NewWSHandler(service, hub, gateway)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, eventType string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": eventType, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", eventType, err)
	}
}

// readUntil scans frames until it sees the wanted type, returning its payload.
func readUntil(t *testing.T, conn *websocket.Conn, want string) json.RawMessage {
	t.Helper()
	for {
		var msg struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read while waiting for %s: %v", want, err)
		}
		if msg.Type == want {
			return msg.Payload
		}
	}
}

func TestRoomLifecycleOverWebsocket(t *testing.T) {
	server := newTestServer(t, app.DefaultTiming())

	alice := dial(t, server)
	readUntil(t, alice, domain.EventConnected)
	sendEvent(t, alice, "create-room", map[string]string{"roomId": "R1", "userName": "Alice"})
	created := readUntil(t, alice, domain.EventRoomCreated)

	var createdPayload domain.RoomCreatedPayload
	if err := json.Unmarshal(created, &createdPayload); err != nil {
		t.Fatalf("decode room-created: %v", err)
	}
	if createdPayload.RoomID != "R1" || len(createdPayload.Room.Participants) != 1 {
		t.Fatalf("unexpected room-created: %+v", createdPayload)
	}

	bob := dial(t, server)
	readUntil(t, bob, domain.EventConnected)
	sendEvent(t, bob, "join-room", map[string]string{"roomId": "R1", "userName": "Bob"})

	var joinedPayload domain.RoomJoinedPayload
	if err := json.Unmarshal(readUntil(t, bob, domain.EventRoomJoined), &joinedPayload); err != nil {
		t.Fatalf("decode room-joined: %v", err)
	}
	if len(joinedPayload.Room.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(joinedPayload.Room.Participants))
	}

	var userJoined domain.UserJoinedPayload
	if err := json.Unmarshal(readUntil(t, alice, domain.EventUserJoined), &userJoined); err != nil {
		t.Fatalf("decode user-joined: %v", err)
	}
	if userJoined.UserName != "Bob" {
		t.Fatalf("expected Bob in user-joined, got %s", userJoined.UserName)
	}
}

func TestJoinMissingRoomOverWebsocket(t *testing.T) {
	server := newTestServer(t, app.DefaultTiming())

	bob := dial(t, server)
	readUntil(t, bob, domain.EventConnected)
	sendEvent(t, bob, "join-room", map[string]string{"roomId": "ghost", "userName": "Bob"})

	var errPayload domain.RoomErrorPayload
	if err := json.Unmarshal(readUntil(t, bob, domain.EventRoomError), &errPayload); err != nil {
		t.Fatalf("decode room-error: %v", err)
	}
	if errPayload.Message != domain.ErrRoomNotFound.Error() {
		t.Fatalf("unexpected error message: %s", errPayload.Message)
	}
}

func TestFullGameOverWebsocket(t *testing.T) {
	server := newTestServer(t, app.Timing{
		AnnounceDelay: 10 * time.Millisecond,
		QuestionTime:  2 * time.Second,
		RevealDelay:   10 * time.Millisecond,
	})

	alice := dial(t, server)
	readUntil(t, alice, domain.EventConnected)
	sendEvent(t, alice, "create-room", map[string]string{"roomId": "R1", "userName": "Alice"})
	readUntil(t, alice, domain.EventRoomCreated)

	bob := dial(t, server)
	readUntil(t, bob, domain.EventConnected)
	sendEvent(t, bob, "join-room", map[string]string{"roomId": "R1", "userName": "Bob"})
	readUntil(t, bob, domain.EventRoomJoined)

	sendEvent(t, alice, "start-game", map[string]string{"roomId": "R1"})

	var started domain.GameStartedPayload
	if err := json.Unmarshal(readUntil(t, bob, domain.EventGameStarted), &started); err != nil {
		t.Fatalf("decode game-started: %v", err)
	}
	if started.TotalQuestions != 1 {
		t.Fatalf("expected 1 question, got %d", started.TotalQuestions)
	}

	var question domain.NewQuestionPayload
	if err := json.Unmarshal(readUntil(t, bob, domain.EventNewQuestion), &question); err != nil {
		t.Fatalf("decode new-question: %v", err)
	}
	if question.QuestionIndex != 0 || len(question.Options) != 3 {
		t.Fatalf("unexpected question: %+v", question)
	}
	readUntil(t, alice, domain.EventNewQuestion)

	// Bob answers correctly first, then Alice; all-answered settles early.
	sendEvent(t, bob, "submit-answer", map[string]any{"roomId": "R1", "answer": 1})
	time.Sleep(20 * time.Millisecond)
	sendEvent(t, alice, "submit-answer", map[string]any{"roomId": "R1", "answer": 1})

	var results domain.QuestionResultsPayload
	if err := json.Unmarshal(readUntil(t, alice, domain.EventQuestionResults), &results); err != nil {
		t.Fatalf("decode question-results: %v", err)
	}
	if results.CorrectAnswer != 1 || len(results.Results) != 2 {
		t.Fatalf("unexpected results: %+v", results)
	}
	for _, r := range results.Results {
		switch r.PlayerName {
		case "Bob":
			if r.Points != 10 || r.Status != domain.OutcomeFirstCorrect {
				t.Fatalf("bob outcome: %+v", r)
			}
		case "Alice":
			if r.Points != 5 || r.Status != domain.OutcomeCorrect {
				t.Fatalf("alice outcome: %+v", r)
			}
		}
	}

	var ended domain.GameEndedPayload
	if err := json.Unmarshal(readUntil(t, alice, domain.EventGameEnded), &ended); err != nil {
		t.Fatalf("decode game-ended: %v", err)
	}
	if ended.Winner.Name != "Bob" || ended.Winner.Score != 10 {
		t.Fatalf("unexpected winner: %+v", ended.Winner)
	}
}

func TestSoleParticipantLeavingDeletesRoom(t *testing.T) {
	server := newTestServer(t, app.DefaultTiming())

	alice := dial(t, server)
	readUntil(t, alice, domain.EventConnected)
	sendEvent(t, alice, "create-room", map[string]string{"roomId": "R1", "userName": "Alice"})
	readUntil(t, alice, domain.EventRoomCreated)
	sendEvent(t, alice, "leave-room", map[string]string{"roomId": "R1"})

	bob := dial(t, server)
	readUntil(t, bob, domain.EventConnected)
	sendEvent(t, bob, "join-room", map[string]string{"roomId": "R1", "userName": "Bob"})

	var errPayload domain.RoomErrorPayload
	if err := json.Unmarshal(readUntil(t, bob, domain.EventRoomError), &errPayload); err != nil {
		t.Fatalf("decode room-error: %v", err)
	}
	if errPayload.Message != domain.ErrRoomNotFound.Error() {
		t.Fatalf("expected room not found after sole participant left, got %s", errPayload.Message)
	}
}
