package command

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/slack-pool-bot-go/internal/backend"
	"github.com/kapu/slack-pool-bot-go/internal/player"
)

// victoryNouns is the fixed vocabulary that marks a message as a result.
// Position in the sentence is irrelevant, only presence matters.
var victoryNouns = []string{
	"beat",
	"battered",
	"clobbered",
	"crushed",
	"defeated",
	"destroyed",
	"disgraced",
	"emasculated",
	"embarrassed",
	"grannied",
	"grilled",
	"hammered",
	"humiliated",
	"obliterated",
	"pounded",
	"slayed",
	"smashed",
	"spangled",
	"thrashed",
	"trounced",
	"walloped",
}

// grannyNoun additionally flags an unusually lopsided win.
const grannyNoun = "grannied"

// RecordCommand records a match result. The author is always the winner.
type RecordCommand struct {
	baseCommand
	env *Env
}

func NewRecordCommand(env *Env) *RecordCommand {
	return &RecordCommand{
		baseCommand: baseCommand{
			term: "record",
			help: "Record a win by posting `record beat @opponent`. Swap `beat` for any word of similar sentiment.",
		},
		env: env,
	}
}

func (c *RecordCommand) Process(ctx context.Context, msg Message) (Reply, error) {
	env := c.env

	mentions := env.Parse.Mentions(msg.Text)
	if len(mentions) == 0 {
		return Reply{Text: env.Msg("record.no_opponent", nil)}, nil
	}
	opponent := mentions[0]
	if opponent == msg.User {
		return Reply{Text: env.Msg("record.self_match", nil)}, nil
	}

	lower := strings.ToLower(msg.Text)
	if !containsAnyNoun(lower, victoryNouns) {
		return Reply{Text: env.Msg("record.no_verb", map[string]string{
			"Nouns": strings.Join(victoryNouns, ", "),
		})}, nil
	}

	// Snapshot both players before the result lands so the reply can show
	// deltas. A miss here is fine; the player may be new to the board.
	winnerBefore, winnerHadRank := c.snapshot(ctx, msg.User)
	loserBefore, loserHadRank := c.snapshot(ctx, opponent)

	result := backend.MatchResult{
		Winner:  msg.User,
		Loser:   opponent,
		Channel: msg.Channel,
		Granny:  strings.Contains(lower, grannyNoun),
	}
	if err := env.Backend.RecordMatch(ctx, result); err != nil {
		env.Log.Warn("record_rejected", zap.String("winner", msg.User), zap.String("loser", opponent), zap.Error(err))
		return Reply{Text: env.Msg("record.rejected", nil)}, nil
	}

	if env.ChallengeAutoResolve {
		c.resolveChallenge(ctx, msg.Channel)
	}

	// Write path refreshed the server state; pull both players back into
	// the cache before recomputing ranks.
	if _, err := env.Cache.UpsertFromBackend(ctx, msg.User); err != nil {
		env.Log.Warn("refresh_winner", zap.String("id", msg.User), zap.Error(err))
	}
	if _, err := env.Cache.UpsertFromBackend(ctx, opponent); err != nil {
		env.Log.Warn("refresh_loser", zap.String("id", opponent), zap.Error(err))
	}

	lines := []string{env.Msg("record.victory", map[string]string{"Winner": env.Username(msg.User)})}
	lines = append(lines, c.playerLine(msg.User, winnerBefore, winnerHadRank, true))
	lines = append(lines, c.playerLine(opponent, loserBefore, loserHadRank, false))

	return Reply{
		Text:      strings.Join(compact(lines), "\n"),
		Callbacks: []string{"spree"},
	}, nil
}

type rankSnapshot struct {
	elo  int
	rank int
}

func (c *RecordCommand) snapshot(ctx context.Context, id string) (rankSnapshot, bool) {
	rec, err := c.env.Profile(ctx, id)
	if err != nil {
		return rankSnapshot{}, false
	}
	rank, ok := c.env.Cache.Position(id, player.SeasonElo)
	return rankSnapshot{elo: rec.SeasonElo, rank: rank}, ok
}

// playerLine formats one player's movement, branching on whether they held a
// leaderboard rank before the match.
func (c *RecordCommand) playerLine(id string, before rankSnapshot, hadRank bool, won bool) string {
	env := c.env
	rec, err := env.Cache.Get(id)
	if err != nil {
		return ""
	}
	rank, ranked := env.Cache.Position(id, player.SeasonElo)
	name := env.Username(id)

	if !hadRank {
		if !ranked {
			return ""
		}
		return env.Msg("record.player_new", map[string]any{
			"Name": name,
			"Rank": Ordinal(rank),
			"Elo":  rec.SeasonElo,
		})
	}

	delta := rec.SeasonElo - before.elo
	if delta < 0 {
		delta = -delta
	}
	data := map[string]any{
		"Name":   name,
		"Delta":  delta,
		"OldElo": before.elo,
		"NewElo": rec.SeasonElo,
		"Rank":   Ordinal(rank),
	}
	switch {
	case won:
		return env.Msg("record.player_up", data)
	case ranked:
		return env.Msg("record.player_down", data)
	default:
		return env.Msg("record.player_out", data)
	}
}

// resolveChallenge clears the channel's active challenge once its result is
// in. Failures never affect the record reply.
func (c *RecordCommand) resolveChallenge(ctx context.Context, channel string) {
	env := c.env
	challenges, err := env.Backend.Challenges(ctx, channel)
	if err != nil {
		env.Log.Warn("challenge_lookup", zap.String("channel", channel), zap.Error(err))
		return
	}
	for _, ch := range challenges {
		if !ch.Active {
			continue
		}
		if _, err := env.Backend.UpdateChallenge(ctx, ch.ID, map[string]any{"active": false}); err != nil {
			env.Log.Warn("challenge_clear", zap.Int("id", ch.ID), zap.Error(err))
		}
		return
	}
}

func containsAnyNoun(text string, nouns []string) bool {
	for _, noun := range nouns {
		if strings.Contains(text, noun) {
			return true
		}
	}
	return false
}

func compact(lines []string) []string {
	out := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
