package command

import "context"

// StatsCommand summarizes a player's record, cache-first.
type StatsCommand struct {
	baseCommand
	env *Env
}

func NewStatsCommand(env *Env) *StatsCommand {
	return &StatsCommand{
		baseCommand: baseCommand{
			term: "stats",
			help: "Returns interesting statistics about a player. Mention someone, or type `stats` alone for your own.",
		},
		env: env,
	}
}

func (c *StatsCommand) Process(ctx context.Context, msg Message) (Reply, error) {
	id := subjectOf(c.env, msg)

	rec, err := c.env.Profile(ctx, id)
	if err != nil {
		return Reply{Text: c.env.Msg("common.backend_down", nil)}, nil
	}

	return Reply{Text: c.env.Msg("stats.summary", map[string]any{
		"Name":    c.env.Username(id),
		"Matches": rec.TotalMatchCount,
		"Elo":     rec.SeasonElo,
		"Wins":    rec.TotalWinCount,
		"Losses":  rec.TotalLossCount,
	})}, nil
}

// subjectOf resolves the implicit subject: the first mentioned user, or the
// author when the command arrives bare (as synthesized callbacks do).
func subjectOf(env *Env, msg Message) string {
	if mentions := env.Parse.Mentions(msg.Text); len(mentions) > 0 {
		return mentions[0]
	}
	return msg.User
}
