package command

import (
	"context"
	"net/url"
	"testing"

	"go.uber.org/zap"

	"github.com/kapu/slack-pool-bot-go/internal/backend"
	"github.com/kapu/slack-pool-bot-go/internal/msgcat"
	"github.com/kapu/slack-pool-bot-go/internal/player"
)

const testBotID = "UBOT"

// fakeBackend lets each test stub just the endpoints its handler touches.
type fakeBackend struct {
	player         func(id string) (*backend.Profile, error)
	players        func(params url.Values) ([]backend.Profile, error)
	createPlayer   func(name, slackID string) (*backend.Profile, error)
	updatePlayer   func(id string, patch map[string]string) (*backend.Profile, error)
	playerForm     func(id string, limit int) (string, error)
	playerGrannies func(id string) ([]backend.MatchSummary, error)
	eloMatchups    func(p1, p2 string) ([]backend.EloMatchup, error)
	headToHead     func(p1, p2 string, limit int) (*backend.HeadToHead, error)
	recordMatch    func(result backend.MatchResult) error
	challenges     func(channel string) ([]backend.Challenge, error)
	createChall    func(channel, initiator string) (*backend.Challenge, error)
	updateChall    func(id int, patch map[string]any) (*backend.Challenge, error)
	seasons        func(ordering string) ([]backend.Season, error)
	seasonPlayers  func(seasonPK int, ordering string) ([]backend.SeasonPlayer, error)
	eloHistory     func(player string) ([]backend.EloHistoryEntry, error)
}

func (f *fakeBackend) Player(_ context.Context, id string) (*backend.Profile, error) {
	if f.player == nil {
		return nil, player.ErrNotFound
	}
	return f.player(id)
}

func (f *fakeBackend) Players(_ context.Context, params url.Values) ([]backend.Profile, error) {
	if f.players == nil {
		return nil, nil
	}
	return f.players(params)
}

func (f *fakeBackend) CreatePlayer(_ context.Context, name, slackID string) (*backend.Profile, error) {
	if f.createPlayer == nil {
		return &backend.Profile{SlackID: slackID, Name: name, Active: true}, nil
	}
	return f.createPlayer(name, slackID)
}

func (f *fakeBackend) UpdatePlayer(_ context.Context, id string, patch map[string]string) (*backend.Profile, error) {
	if f.updatePlayer == nil {
		return &backend.Profile{SlackID: id, Active: true}, nil
	}
	return f.updatePlayer(id, patch)
}

func (f *fakeBackend) PlayerForm(_ context.Context, id string, limit int) (string, error) {
	if f.playerForm == nil {
		return "", nil
	}
	return f.playerForm(id, limit)
}

func (f *fakeBackend) PlayerGrannies(_ context.Context, id string) ([]backend.MatchSummary, error) {
	if f.playerGrannies == nil {
		return nil, nil
	}
	return f.playerGrannies(id)
}

func (f *fakeBackend) EloMatchups(_ context.Context, p1, p2 string) ([]backend.EloMatchup, error) {
	if f.eloMatchups == nil {
		return nil, nil
	}
	return f.eloMatchups(p1, p2)
}

func (f *fakeBackend) HeadToHead(_ context.Context, p1, p2 string, limit int) (*backend.HeadToHead, error) {
	if f.headToHead == nil {
		return &backend.HeadToHead{Wins: map[string]int{}}, nil
	}
	return f.headToHead(p1, p2, limit)
}

func (f *fakeBackend) RecordMatch(_ context.Context, result backend.MatchResult) error {
	if f.recordMatch == nil {
		return nil
	}
	return f.recordMatch(result)
}

func (f *fakeBackend) Challenges(_ context.Context, channel string) ([]backend.Challenge, error) {
	if f.challenges == nil {
		return nil, nil
	}
	return f.challenges(channel)
}

func (f *fakeBackend) CreateChallenge(_ context.Context, channel, initiator string) (*backend.Challenge, error) {
	if f.createChall == nil {
		return &backend.Challenge{ID: 1, Channel: channel, Initiator: initiator, Active: true}, nil
	}
	return f.createChall(channel, initiator)
}

func (f *fakeBackend) UpdateChallenge(_ context.Context, id int, patch map[string]any) (*backend.Challenge, error) {
	if f.updateChall == nil {
		return &backend.Challenge{ID: id}, nil
	}
	return f.updateChall(id, patch)
}

func (f *fakeBackend) Seasons(_ context.Context, ordering string) ([]backend.Season, error) {
	if f.seasons == nil {
		return nil, nil
	}
	return f.seasons(ordering)
}

func (f *fakeBackend) SeasonPlayers(_ context.Context, seasonPK int, ordering string) ([]backend.SeasonPlayer, error) {
	if f.seasonPlayers == nil {
		return nil, nil
	}
	return f.seasonPlayers(seasonPK, ordering)
}

func (f *fakeBackend) EloHistory(_ context.Context, p string) ([]backend.EloHistoryEntry, error) {
	if f.eloHistory == nil {
		return nil, nil
	}
	return f.eloHistory(p)
}

// storeSource bridges the fake backend into the player cache.
type storeSource struct{ fb *fakeBackend }

func (s storeSource) Player(ctx context.Context, id string) (*backend.Profile, error) {
	return s.fb.Player(ctx, id)
}

func newTestEnv(t *testing.T, fb *fakeBackend) *Env {
	t.Helper()
	catalog, err := msgcat.New("")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return &Env{
		BotID:   testBotID,
		Parse:   NewParser(testBotID),
		Cache:   player.NewStore(storeSource{fb: fb}),
		Backend: fb,
		Catalog: catalog,
		Log:     zap.NewNop(),
	}
}

// seedPlayer puts a ready-made record in the cache.
func seedPlayer(env *Env, id, name string, seasonElo, wins, losses int) {
	env.Cache.Put(player.Record{
		ID:               id,
		Name:             name,
		Active:           true,
		SeasonElo:        seasonElo,
		SeasonWinCount:   wins,
		SeasonLossCount:  losses,
		SeasonMatchCount: wins + losses,
		TotalElo:         seasonElo,
		TotalWinCount:    wins,
		TotalLossCount:   losses,
		TotalMatchCount:  wins + losses,
	})
}
