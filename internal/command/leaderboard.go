package command

import (
	"context"
	"strings"

	"github.com/kapu/slack-pool-bot-go/internal/player"
)

const (
	defaultLeaderboardSize = 10
	minimumGamesThreshold  = 10
)

// LeaderboardCommand prints the top players ordered by elo, drawn entirely
// from the cache so it costs nothing to spam.
type LeaderboardCommand struct {
	baseCommand
	env *Env
}

func NewLeaderboardCommand(env *Env) *LeaderboardCommand {
	return &LeaderboardCommand{
		baseCommand: baseCommand{
			term: "leaderboard",
			help: "Returns a leaderboard of players ranked by elo. Pass a number for more rows, `all` for all-time scores and `minimum` to hide players with under 10 games.",
		},
		env: env,
	}
}

func (c *LeaderboardCommand) Process(ctx context.Context, msg Message) (Reply, error) {
	env := c.env
	args := env.Parse.Args(msg.Text, ArgOptions{})

	field := player.SeasonElo
	if env.Parse.HasFlag(msg.Text, "all") {
		field = player.TotalElo
	}
	minGames := 1
	if env.Parse.HasFlag(msg.Text, "minimum") {
		minGames = minimumGamesThreshold
	}
	limit := firstInt(args, defaultLeaderboardSize)

	var rows []string
	for _, id := range env.Cache.Rank(field) {
		if len(rows) >= limit {
			break
		}
		rec, err := env.Cache.Get(id)
		if err != nil {
			continue
		}
		if rec.TotalWinCount+rec.TotalLossCount < minGames {
			continue
		}
		rows = append(rows, env.Msg("leaderboard.row", map[string]any{
			"Rank":   len(rows) + 1,
			"Name":   env.Username(id),
			"Elo":    field.Value(&rec),
			"Wins":   rec.TotalWinCount,
			"Losses": rec.TotalLossCount,
		}))
	}

	if len(rows) == 0 {
		return Reply{Text: env.Msg("leaderboard.empty", nil)}, nil
	}
	return Reply{Text: strings.Join(rows, "\n")}, nil
}
