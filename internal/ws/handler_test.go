package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/heartlinkapp/heartlink/internal/apperr"
	"github.com/heartlinkapp/heartlink/internal/models"
)

type fakeBackend struct {
	participants map[string][]string // chatID -> userIDs
	failAppend   bool
}

func (f *fakeBackend) IsParticipant(_ context.Context, chatID, userID string) (bool, error) {
	for _, id := range f.participants[chatID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBackend) AppendMessage(_ context.Context, chatID, senderID, content string) (*models.Message, error) {
	if f.failAppend {
		return nil, apperr.Internal("append message", nil)
	}
	ok, _ := f.IsParticipant(context.Background(), chatID, senderID)
	if !ok {
		return nil, apperr.Validation("Sender is not a participant of this chat")
	}
	return &models.Message{Sender: senderID, Content: content}, nil
}

func newHandlerFixture(backend *fakeBackend) (*Handler, *Hub) {
	hub := NewHub()
	h := NewHandler(hub, nil, backend, nil, zap.NewNop().Sugar())
	return h, hub
}

func rawPayload(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestOnJoin_ParticipantAdmitted(t *testing.T) {
	backend := &fakeBackend{participants: map[string][]string{"c1": {"alice", "bob"}}}
	h, hub := newHandlerFixture(backend)
	c := testClient("alice")

	h.onJoin(c, rawPayload(t, joinPayload{ChatID: "c1"}))

	if hub.Members("c1") != 1 {
		t.Error("participant was not admitted to the group")
	}
	if got := recvAll(c); len(got) != 0 {
		t.Errorf("unexpected events delivered: %v", got)
	}
}

func TestOnJoin_NonParticipantRefused(t *testing.T) {
	backend := &fakeBackend{participants: map[string][]string{"c1": {"alice", "bob"}}}
	h, hub := newHandlerFixture(backend)
	c := testClient("eve")

	h.onJoin(c, rawPayload(t, joinPayload{ChatID: "c1"}))

	if hub.Members("c1") != 0 {
		t.Error("non-participant was admitted to the group")
	}
	got := recvAll(c)
	if len(got) != 1 || !strings.Contains(got[0], EventError) {
		t.Errorf("expected error event, got %v", got)
	}
}

func TestOnSend_BroadcastsPersistedMessage(t *testing.T) {
	backend := &fakeBackend{participants: map[string][]string{"c1": {"alice", "bob"}}}
	h, hub := newHandlerFixture(backend)
	alice := testClient("alice")
	bob := testClient("bob")
	hub.Join("c1", alice)
	hub.Join("c1", bob)

	h.onSend(alice, rawPayload(t, sendPayload{ChatID: "c1", Message: "hi"}))

	for _, c := range []*Client{alice, bob} {
		got := recvAll(c)
		if len(got) != 1 {
			t.Fatalf("client %s received %v, want one event", c.UserID, got)
		}
		var env Envelope
		if err := json.Unmarshal([]byte(got[0]), &env); err != nil {
			t.Fatal(err)
		}
		if env.Type != EventNewMessage {
			t.Errorf("event type = %q, want %q", env.Type, EventNewMessage)
		}
		var p newMessagePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			t.Fatal(err)
		}
		if p.ChatID != "c1" || p.Message.Content != "hi" || p.Message.Sender != "alice" {
			t.Errorf("payload = %+v", p)
		}
	}
}

// Persistence failure reaches only the sender; nothing is broadcast.
func TestOnSend_FailureNotifiesSenderOnly(t *testing.T) {
	backend := &fakeBackend{
		participants: map[string][]string{"c1": {"alice", "bob"}},
		failAppend:   true,
	}
	h, hub := newHandlerFixture(backend)
	alice := testClient("alice")
	bob := testClient("bob")
	hub.Join("c1", alice)
	hub.Join("c1", bob)

	h.onSend(alice, rawPayload(t, sendPayload{ChatID: "c1", Message: "hi"}))

	got := recvAll(alice)
	if len(got) != 1 || !strings.Contains(got[0], EventError) {
		t.Errorf("sender events = %v, want one error event", got)
	}
	if got := recvAll(bob); len(got) != 0 {
		t.Errorf("other member received %v, want nothing", got)
	}
}

func TestOnSend_MissingChatID(t *testing.T) {
	backend := &fakeBackend{participants: map[string][]string{}}
	h, _ := newHandlerFixture(backend)
	c := testClient("alice")

	h.onSend(c, rawPayload(t, sendPayload{Message: "hi"}))

	got := recvAll(c)
	if len(got) != 1 || !strings.Contains(got[0], EventError) {
		t.Errorf("expected error event, got %v", got)
	}
}

func TestHandshakeToken(t *testing.T) {
	cases := []struct {
		name  string
		query string
		auth  string
		want  string
	}{
		{"query parameter", "?token=tok-query", "", "tok-query"},
		{"bearer header", "", "Bearer tok-header", "tok-header"},
		{"query wins over header", "?token=tok-query", "Bearer tok-header", "tok-query"},
		{"lowercase scheme", "", "bearer tok-header", "tok-header"},
		{"wrong scheme", "", "Basic abc", ""},
		{"no credentials", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			var got string
			app.Get("/ws", func(c *fiber.Ctx) error {
				got = handshakeToken(c)
				return nil
			})
			req := httptest.NewRequest(http.MethodGet, "/ws"+tc.query, nil)
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			if _, err := app.Test(req); err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("handshakeToken = %q, want %q", got, tc.want)
			}
		})
	}
}
