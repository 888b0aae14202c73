package command

import (
	"context"
	"strings"
	"testing"
)

func TestLeaderboardRanksByElo(t *testing.T) {
	env := newTestEnv(t, &fakeBackend{})
	seedPlayer(env, "U1", "alice", 0, 1, 2)
	seedPlayer(env, "U2", "bob", 5, 2, 1)
	seedPlayer(env, "U3", "carol", 3, 1, 1)
	cmd := NewLeaderboardCommand(env)

	reply, err := cmd.Process(context.Background(), Message{Text: "leaderboard", User: "U1", Channel: "C1"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	lines := strings.Split(reply.Text, "\n")
	if len(lines) != 3 {
		t.Fatalf("rows = %d, want 3: %q", len(lines), reply.Text)
	}
	for i, name := range []string{"Bob", "Carol", "Alice"} {
		if !strings.Contains(lines[i], name) {
			t.Errorf("row %d = %q, want %s", i+1, lines[i], name)
		}
	}
	if !strings.HasPrefix(lines[0], "1. ") {
		t.Errorf("row 1 = %q, want 1-based rank prefix", lines[0])
	}
}

func TestLeaderboardLimit(t *testing.T) {
	env := newTestEnv(t, &fakeBackend{})
	seedPlayer(env, "U1", "alice", 10, 1, 1)
	seedPlayer(env, "U2", "bob", 20, 1, 1)
	seedPlayer(env, "U3", "carol", 30, 1, 1)
	cmd := NewLeaderboardCommand(env)

	reply, err := cmd.Process(context.Background(), Message{Text: "leaderboard 2", User: "U1", Channel: "C1"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if got := len(strings.Split(reply.Text, "\n")); got != 2 {
		t.Fatalf("rows = %d, want 2", got)
	}
}

func TestLeaderboardMinimumGames(t *testing.T) {
	env := newTestEnv(t, &fakeBackend{})
	seedPlayer(env, "U1", "alice", 50, 1, 1)
	seedPlayer(env, "U2", "bob", 20, 6, 6)
	cmd := NewLeaderboardCommand(env)

	reply, err := cmd.Process(context.Background(), Message{Text: "leaderboard minimum", User: "U1", Channel: "C1"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if strings.Contains(reply.Text, "Alice") {
		t.Fatalf("players under the game threshold must be hidden: %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "Bob") {
		t.Fatalf("reply = %q", reply.Text)
	}
}

func TestLeaderboardEmpty(t *testing.T) {
	env := newTestEnv(t, &fakeBackend{})
	cmd := NewLeaderboardCommand(env)

	reply, err := cmd.Process(context.Background(), Message{Text: "leaderboard", User: "U1", Channel: "C1"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.Contains(reply.Text, "No players") {
		t.Fatalf("reply = %q", reply.Text)
	}
}

func TestLeaderboardTiesKeepInsertionOrder(t *testing.T) {
	env := newTestEnv(t, &fakeBackend{})
	seedPlayer(env, "U1", "alice", 10, 1, 1)
	seedPlayer(env, "U2", "bob", 10, 1, 1)
	cmd := NewLeaderboardCommand(env)

	first, err := cmd.Process(context.Background(), Message{Text: "leaderboard", User: "U1", Channel: "C1"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	second, err := cmd.Process(context.Background(), Message{Text: "leaderboard", User: "U1", Channel: "C1"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if first.Text != second.Text {
		t.Fatal("tied leaderboard must render identically across calls")
	}
	if !strings.HasPrefix(first.Text, "1. Alice") {
		t.Fatalf("tie order = %q, want Alice first", first.Text)
	}
}
