package slackrt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "xoxb-token")
}

func TestRTMConnect(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rtm.connect" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer xoxb-token" {
			t.Errorf("auth = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "url": "wss://rtm.example/ws"})
	})

	url, err := c.RTMConnect(context.Background())
	if err != nil {
		t.Fatalf("rtm.connect: %v", err)
	}
	if url != "wss://rtm.example/ws" {
		t.Fatalf("url = %q", url)
	}
}

func TestRTMConnectRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "invalid_auth"})
	})

	if _, err := c.RTMConnect(context.Background()); err == nil {
		t.Fatal("expected an error for ok=false")
	}
}

func TestUsersList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"members": []map[string]any{
				{"id": "U1", "name": "danny", "is_bot": false},
				{"id": "UBOT", "name": "poolbot", "is_bot": true},
			},
		})
	})

	members, err := c.UsersList(context.Background())
	if err != nil {
		t.Fatalf("users.list: %v", err)
	}
	if len(members) != 2 || members[0].ID != "U1" || !members[1].IsBot {
		t.Fatalf("members = %+v", members)
	}
}

func TestPostMessageDoesNotRetry(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	// PostMessage itself is non-retrying to avoid duplicate chat messages
	if err := c.PostMessage(context.Background(), "C1", "hi"); err == nil {
		t.Fatal("expected the rate-limited post to fail without retry")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestWSSinkRequiresConnection(t *testing.T) {
	socket := NewSocket(func(ctx context.Context) (string, error) { return "", context.Canceled }, 0, time.Second)
	sink := NewSink("ws", nil, socket, nil)

	if err := sink.Send(context.Background(), "C1", "hello"); err == nil {
		t.Fatal("expected an error while the socket has no connection")
	}
	if socket.connection() != nil {
		t.Fatal("fresh socket must report no connection")
	}
}

func TestAutoSinkFallsBackToHTTP(t *testing.T) {
	posted := make(chan string, 1)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatPostRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		posted <- req.Text
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	socket := NewSocket(func(ctx context.Context) (string, error) { return "", context.Canceled }, 0, time.Second)
	sink := NewSink("auto", c, socket, nil)

	if err := sink.Send(context.Background(), "C1", "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	select {
	case text := <-posted:
		if text != "hello" {
			t.Fatalf("posted = %q", text)
		}
	default:
		t.Fatal("nothing reached the HTTP fallback")
	}
}
