package command

import (
	"context"
	"strings"
)

// EloCommand previews the points at stake between two players.
type EloCommand struct {
	baseCommand
	env *Env
}

func NewEloCommand(env *Env) *EloCommand {
	return &EloCommand{
		baseCommand: baseCommand{
			term: "elo",
			help: "Returns the points that can be won or lost between two players. With one mention, the other player is you.",
		},
		env: env,
	}
}

func (c *EloCommand) Process(ctx context.Context, msg Message) (Reply, error) {
	env := c.env
	mentions := env.Parse.Mentions(msg.Text)
	if len(mentions) == 0 {
		return Reply{Text: env.Msg("elo.no_mention", nil)}, nil
	}

	player1, player2 := msg.User, mentions[0]
	if len(mentions) >= 2 {
		player1, player2 = mentions[0], mentions[1]
	}

	matchups, err := env.Backend.EloMatchups(ctx, player1, player2)
	if err != nil {
		return Reply{Text: env.Msg("common.backend_down", nil)}, nil
	}

	var parts []string
	for _, m := range matchups {
		parts = append(parts, env.Msg("elo.entry", map[string]any{
			"Name":       env.Username(m.SlackID),
			"Elo":        m.Elo,
			"EloWin":     m.EloWin,
			"EloLose":    m.EloLose,
			"PointsWin":  m.PointsWin,
			"PointsLose": m.PointsLose,
		}))
	}
	return Reply{Text: strings.Join(parts, " ")}, nil
}
