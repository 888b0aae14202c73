package command

import (
	"context"
	"strings"
	"testing"

	"github.com/kapu/slack-pool-bot-go/internal/backend"
)

func TestRecordRequiresOpponent(t *testing.T) {
	fb := &fakeBackend{
		recordMatch: func(backend.MatchResult) error {
			t.Fatal("no result should be posted without an opponent")
			return nil
		},
	}
	env := newTestEnv(t, fb)
	cmd := NewRecordCommand(env)

	reply, err := cmd.Process(context.Background(), Message{Text: "record beat nobody", User: "U1", Channel: "C1"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.Contains(reply.Text, "unable to find an opponent") {
		t.Fatalf("reply = %q", reply.Text)
	}
}

func TestRecordRejectsSelfMatch(t *testing.T) {
	env := newTestEnv(t, &fakeBackend{})
	cmd := NewRecordCommand(env)

	reply, err := cmd.Process(context.Background(), Message{Text: "record beat <@U1>", User: "U1", Channel: "C1"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.Contains(reply.Text, "against yourself") {
		t.Fatalf("reply = %q", reply.Text)
	}
}

func TestRecordRequiresVictoryNoun(t *testing.T) {
	fb := &fakeBackend{
		recordMatch: func(backend.MatchResult) error {
			t.Fatal("no result should be posted without a victory noun")
			return nil
		},
	}
	env := newTestEnv(t, fb)
	cmd := NewRecordCommand(env)

	reply, err := cmd.Process(context.Background(), Message{Text: "record played <@U2>", User: "U1", Channel: "C1"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.Contains(reply.Text, "unable to determine the result") {
		t.Fatalf("reply = %q", reply.Text)
	}
}

func TestRecordPostsResultAndChainsSpree(t *testing.T) {
	var posted *backend.MatchResult
	profiles := map[string]*backend.Profile{
		"U1": {SlackID: "U1", Name: "danny", Active: true, SeasonElo: 1000, SeasonMatchCount: 4, SeasonWinCount: 2, SeasonLossCount: 2},
		"U2": {SlackID: "U2", Name: "pete", Active: true, SeasonElo: 990, SeasonMatchCount: 4, SeasonWinCount: 2, SeasonLossCount: 2},
	}
	fb := &fakeBackend{
		player: func(id string) (*backend.Profile, error) {
			p := *profiles[id]
			return &p, nil
		},
		recordMatch: func(result backend.MatchResult) error {
			posted = &result
			// win moves points from loser to winner
			profiles["U1"].SeasonElo += 20
			profiles["U2"].SeasonElo -= 20
			return nil
		},
	}
	env := newTestEnv(t, fb)
	seedPlayer(env, "U1", "danny", 1000, 2, 2)
	seedPlayer(env, "U2", "pete", 990, 2, 2)
	cmd := NewRecordCommand(env)

	reply, err := cmd.Process(context.Background(), Message{Text: "record grannied <@U2>", User: "U1", Channel: "C1"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if posted == nil {
		t.Fatal("no result reached the backend")
	}
	if posted.Winner != "U1" || posted.Loser != "U2" || posted.Channel != "C1" {
		t.Fatalf("posted = %+v", posted)
	}
	if !posted.Granny {
		t.Fatal("grannied result should carry the granny flag")
	}

	if !strings.Contains(reply.Text, "Victory recorded for Danny") {
		t.Fatalf("reply = %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "Danny wins 20 points") {
		t.Fatalf("reply = %q", reply.Text)
	}
	if len(reply.Callbacks) != 1 || reply.Callbacks[0] != "spree" {
		t.Fatalf("callbacks = %v, want [spree]", reply.Callbacks)
	}

	// cache was refreshed through the write path
	rec, err := env.Cache.Get("U1")
	if err != nil || rec.SeasonElo != 1020 {
		t.Fatalf("cached winner elo = %d, err %v", rec.SeasonElo, err)
	}
}

func TestRecordNewPlayerEntersLeaderboard(t *testing.T) {
	profiles := map[string]*backend.Profile{
		"U2": {SlackID: "U2", Name: "pete", Active: true, SeasonElo: 990, SeasonMatchCount: 4, SeasonWinCount: 2, SeasonLossCount: 2},
	}
	fb := &fakeBackend{
		player: func(id string) (*backend.Profile, error) {
			p := *profiles[id]
			return &p, nil
		},
		recordMatch: func(result backend.MatchResult) error {
			profiles["U1"] = &backend.Profile{SlackID: "U1", Name: "danny", Active: true, SeasonElo: 1015, SeasonMatchCount: 1, SeasonWinCount: 1}
			profiles["U2"].SeasonElo -= 15
			return nil
		},
	}
	env := newTestEnv(t, fb)
	// winner cached without any season history
	seedPlayer(env, "U1", "danny", 1000, 0, 0)
	seedPlayer(env, "U2", "pete", 990, 2, 2)
	profiles["U1"] = &backend.Profile{SlackID: "U1", Name: "danny", Active: true, SeasonElo: 1000}
	cmd := NewRecordCommand(env)

	reply, err := cmd.Process(context.Background(), Message{Text: "record beat <@U2>", User: "U1", Channel: "C1"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.Contains(reply.Text, "Danny enters the leaderboard at 1st place") {
		t.Fatalf("reply = %q", reply.Text)
	}
}

func TestRecordRejectedByBackend(t *testing.T) {
	fb := &fakeBackend{
		recordMatch: func(backend.MatchResult) error { return context.DeadlineExceeded },
	}
	env := newTestEnv(t, fb)
	seedPlayer(env, "U1", "danny", 1000, 2, 2)
	seedPlayer(env, "U2", "pete", 990, 2, 2)
	cmd := NewRecordCommand(env)

	reply, err := cmd.Process(context.Background(), Message{Text: "record beat <@U2>", User: "U1", Channel: "C1"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.Contains(reply.Text, "unable to record") {
		t.Fatalf("reply = %q", reply.Text)
	}
	if len(reply.Callbacks) != 0 {
		t.Fatalf("rejected results must not chain callbacks: %v", reply.Callbacks)
	}
}
