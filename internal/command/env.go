package command

import (
	"context"
	"errors"
	"net/url"

	"go.uber.org/zap"

	"github.com/kapu/slack-pool-bot-go/internal/backend"
	"github.com/kapu/slack-pool-bot-go/internal/msgcat"
	"github.com/kapu/slack-pool-bot-go/internal/player"
)

// fallbackReply is the last-resort wording when even the catalog fails.
const fallbackReply = "Sorry, something went wrong handling that command."

// Backend is the slice of the scorekeeping API the handlers consume.
// Satisfied by *backend.Client; tests provide fakes.
type Backend interface {
	Player(ctx context.Context, id string) (*backend.Profile, error)
	Players(ctx context.Context, params url.Values) ([]backend.Profile, error)
	CreatePlayer(ctx context.Context, name, slackID string) (*backend.Profile, error)
	UpdatePlayer(ctx context.Context, id string, patch map[string]string) (*backend.Profile, error)
	PlayerForm(ctx context.Context, id string, limit int) (string, error)
	PlayerGrannies(ctx context.Context, id string) ([]backend.MatchSummary, error)
	EloMatchups(ctx context.Context, player1, player2 string) ([]backend.EloMatchup, error)
	HeadToHead(ctx context.Context, player1, player2 string, limit int) (*backend.HeadToHead, error)
	RecordMatch(ctx context.Context, result backend.MatchResult) error
	Challenges(ctx context.Context, channel string) ([]backend.Challenge, error)
	CreateChallenge(ctx context.Context, channel, initiator string) (*backend.Challenge, error)
	UpdateChallenge(ctx context.Context, id int, patch map[string]any) (*backend.Challenge, error)
	Seasons(ctx context.Context, ordering string) ([]backend.Season, error)
	SeasonPlayers(ctx context.Context, seasonPK int, ordering string) ([]backend.SeasonPlayer, error)
	EloHistory(ctx context.Context, player string) ([]backend.EloHistoryEntry, error)
}

// Env bundles the collaborators every handler shares. It is owned by the
// single processing loop and passed by reference at registration time, never
// reached through package state.
type Env struct {
	BotID   string
	Parse   *Parser
	Cache   *player.Store
	Backend Backend
	Catalog *msgcat.Catalog
	Log     *zap.Logger

	ChallengeAutoResolve bool
	NFCBots              []string
}

// Msg renders a catalog template. A broken template is a deploy-time defect,
// so it logs and degrades to the fixed fallback wording.
func (e *Env) Msg(key string, data any) string {
	out, err := e.Catalog.Render(key, data)
	if err != nil {
		e.Log.Error("render_message", zap.String("key", key), zap.Error(err))
		return fallbackReply
	}
	return out
}

// Profile reads the cached record for id, falling back to one backend fetch
// on a miss. This is the cache-first read every handler uses.
func (e *Env) Profile(ctx context.Context, id string) (player.Record, error) {
	rec, err := e.Cache.Get(id)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, player.ErrNotFound) {
		return player.Record{}, err
	}
	return e.Cache.UpsertFromBackend(ctx, id)
}

// StoreProfile writes a freshly returned profile through to the cache
// without another fetch.
func (e *Env) StoreProfile(id string, profile *backend.Profile) {
	if profile == nil {
		return
	}
	if err := e.Cache.Apply(id, func(r *player.Record) { r.MergeProfile(profile) }); err != nil {
		rec := player.Record{ID: id}
		rec.MergeProfile(profile)
		e.Cache.Put(rec)
	}
}

// Username resolves a display name for the id, title-cased like the chat
// roster shows it. Unknown ids fall back to the raw id.
func (e *Env) Username(id string) string {
	rec, err := e.Cache.Get(id)
	if err != nil || rec.Name == "" {
		return id
	}
	return titleCase(rec.Name)
}
