package command

import (
	"context"
	"sort"
	"strings"

	"github.com/kapu/slack-pool-bot-go/internal/player"
)

// GranniesCommand covers the matches where the loser never potted a ball:
// a shame table by default, or one player's full granny ledger when mentioned.
type GranniesCommand struct {
	baseCommand
	env *Env
}

func NewGranniesCommand(env *Env) *GranniesCommand {
	return &GranniesCommand{
		baseCommand: baseCommand{
			term: "grannies",
			help: "Returns the granny table, or the grannies a mentioned player has dished out and suffered.",
		},
		env: env,
	}
}

func (c *GranniesCommand) Process(ctx context.Context, msg Message) (Reply, error) {
	env := c.env
	if mentions := env.Parse.Mentions(msg.Text); len(mentions) > 0 {
		return c.playerGrannies(ctx, mentions[0])
	}
	return c.table(msg), nil
}

func (c *GranniesCommand) playerGrannies(ctx context.Context, id string) (Reply, error) {
	env := c.env
	rec, err := env.Profile(ctx, id)
	if err != nil {
		return Reply{Text: env.Msg("grannies.error", nil)}, nil
	}
	matches, err := env.Backend.PlayerGrannies(ctx, id)
	if err != nil {
		return Reply{Text: env.Msg("grannies.error", nil)}, nil
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Date > matches[j].Date })

	history := make([]string, 0, len(matches))
	for _, m := range matches {
		history = append(history, env.Msg("grannies.match", map[string]any{
			"Date":   isoDate(m.Date),
			"Winner": env.Username(m.Winner),
			"Loser":  env.Username(m.Loser),
		}))
	}
	return Reply{Text: env.Msg("grannies.player", map[string]any{
		"Name":    env.Username(id),
		"Given":   rec.TotalGranniesGivenCount,
		"Taken":   rec.TotalGranniesTakenCount,
		"Matches": strings.Join(history, "\n"),
	})}, nil
}

func (c *GranniesCommand) table(msg Message) Reply {
	env := c.env
	field := player.TotalGranniesGiven
	if !env.Parse.HasFlag(msg.Text, "all") {
		field = player.SeasonGranniesGiven
	}
	limit := firstInt(env.Parse.Args(msg.Text, ArgOptions{}), defaultLeaderboardSize)

	var rows []string
	for _, id := range env.Cache.Rank(field) {
		if len(rows) >= limit {
			break
		}
		rec, err := env.Cache.Get(id)
		if err != nil {
			continue
		}
		given, taken := rec.SeasonGranniesGivenCount, rec.SeasonGranniesTakenCount
		if field == player.TotalGranniesGiven {
			given, taken = rec.TotalGranniesGivenCount, rec.TotalGranniesTakenCount
		}
		if given == 0 && taken == 0 {
			continue
		}
		rows = append(rows, env.Msg("grannies.row", map[string]any{
			"Rank":  len(rows) + 1,
			"Name":  env.Username(id),
			"Given": given,
			"Taken": taken,
		}))
	}
	if len(rows) == 0 {
		return Reply{Text: env.Msg("grannies.error", nil)}
	}
	return Reply{Text: strings.Join(rows, "\n")}
}
