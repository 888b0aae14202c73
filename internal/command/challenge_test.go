package command

import (
	"context"
	"strings"
	"testing"

	"github.com/kapu/slack-pool-bot-go/internal/backend"
)

func TestChallengeCreatesWhenChannelIsFree(t *testing.T) {
	var created bool
	fb := &fakeBackend{
		challenges: func(channel string) ([]backend.Challenge, error) { return nil, nil },
		createChall: func(channel, initiator string) (*backend.Challenge, error) {
			created = true
			if channel != "C1" || initiator != "U1" {
				t.Fatalf("create args = %s %s", channel, initiator)
			}
			return &backend.Challenge{ID: 7, Channel: channel, Initiator: initiator, Active: true}, nil
		},
	}
	env := newTestEnv(t, fb)
	seedPlayer(env, "U1", "danny", 1000, 1, 1)
	cmd := NewChallengeCommand(env)

	reply, err := cmd.Process(context.Background(), Message{Text: "challenge", User: "U1", Channel: "C1"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !created {
		t.Fatal("challenge was not created")
	}
	if !strings.Contains(reply.Text, "New challenge created by Danny") {
		t.Fatalf("reply = %q", reply.Text)
	}
}

func TestChallengeReportsPendingChallenge(t *testing.T) {
	fb := &fakeBackend{
		challenges: func(channel string) ([]backend.Challenge, error) {
			return []backend.Challenge{{ID: 7, Channel: channel, Initiator: "U2", Active: true}}, nil
		},
		createChall: func(channel, initiator string) (*backend.Challenge, error) {
			t.Fatal("must not create over a pending challenge")
			return nil, nil
		},
	}
	env := newTestEnv(t, fb)
	seedPlayer(env, "U2", "pete", 1000, 1, 1)
	cmd := NewChallengeCommand(env)

	reply, err := cmd.Process(context.Background(), Message{Text: "challenge", User: "U1", Channel: "C1"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.Contains(reply.Text, "Pete recently created a challenge") {
		t.Fatalf("reply = %q", reply.Text)
	}
}

func TestChallengeAccept(t *testing.T) {
	var patched map[string]any
	fb := &fakeBackend{
		challenges: func(channel string) ([]backend.Challenge, error) {
			return []backend.Challenge{{ID: 7, Channel: channel, Initiator: "U2", Active: true}}, nil
		},
		updateChall: func(id int, patch map[string]any) (*backend.Challenge, error) {
			patched = patch
			return &backend.Challenge{ID: id, Initiator: "U2", Challenger: "U1", Active: true}, nil
		},
	}
	env := newTestEnv(t, fb)
	seedPlayer(env, "U1", "danny", 1000, 1, 1)
	seedPlayer(env, "U2", "pete", 1000, 1, 1)
	cmd := NewChallengeCommand(env)

	reply, err := cmd.Process(context.Background(), Message{Text: "challenge accept", User: "U1", Channel: "C1"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if patched["challenger"] != "U1" {
		t.Fatalf("patch = %v", patched)
	}
	if !strings.Contains(reply.Text, "Pete vs Danny") {
		t.Fatalf("reply = %q", reply.Text)
	}
}

func TestChallengeCannotAcceptOwn(t *testing.T) {
	fb := &fakeBackend{
		challenges: func(channel string) ([]backend.Challenge, error) {
			return []backend.Challenge{{ID: 7, Channel: channel, Initiator: "U1", Active: true}}, nil
		},
		updateChall: func(id int, patch map[string]any) (*backend.Challenge, error) {
			t.Fatal("initiators cannot accept their own challenge")
			return nil, nil
		},
	}
	env := newTestEnv(t, fb)
	seedPlayer(env, "U1", "danny", 1000, 1, 1)
	cmd := NewChallengeCommand(env)

	if _, err := cmd.Process(context.Background(), Message{Text: "challenge accept", User: "U1", Channel: "C1"}); err != nil {
		t.Fatalf("process: %v", err)
	}
}

func TestChallengeBusyWhenAccepted(t *testing.T) {
	fb := &fakeBackend{
		challenges: func(channel string) ([]backend.Challenge, error) {
			return []backend.Challenge{{ID: 7, Channel: channel, Initiator: "U2", Challenger: "U3", Active: true}}, nil
		},
	}
	env := newTestEnv(t, fb)
	seedPlayer(env, "U2", "pete", 1000, 1, 1)
	seedPlayer(env, "U3", "carl", 1000, 1, 1)
	cmd := NewChallengeCommand(env)

	reply, err := cmd.Process(context.Background(), Message{Text: "challenge", User: "U1", Channel: "C1"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.Contains(reply.Text, "waiting for Pete and Carl") {
		t.Fatalf("reply = %q", reply.Text)
	}
}
