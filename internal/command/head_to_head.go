package command

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

const headToHeadHistorySize = 5

// HeadToHeadCommand compares the lifetime record between two players.
type HeadToHeadCommand struct {
	baseCommand
	env *Env
}

func NewHeadToHeadCommand(env *Env) *HeadToHeadCommand {
	return &HeadToHeadCommand{
		baseCommand: baseCommand{
			term: "head-to-head",
			help: "Returns the results between two players. With one mention, the other player is you.",
		},
		env: env,
	}
}

func (c *HeadToHeadCommand) Process(ctx context.Context, msg Message) (Reply, error) {
	env := c.env
	mentions := env.Parse.Mentions(msg.Text)
	if len(mentions) == 0 {
		return Reply{Text: env.Msg("headtohead.no_mention", nil)}, nil
	}

	player1, player2 := msg.User, mentions[0]
	if len(mentions) >= 2 {
		player1, player2 = mentions[0], mentions[1]
	}

	h2h, err := env.Backend.HeadToHead(ctx, player1, player2, headToHeadHistorySize)
	if err != nil {
		return Reply{Text: env.Msg("headtohead.error", nil)}, nil
	}

	total := h2h.Wins[player1] + h2h.Wins[player2]
	if total == 0 {
		return Reply{Text: env.Msg("headtohead.no_games", map[string]string{
			"Player1": env.Username(player1),
			"Player2": env.Username(player2),
		})}, nil
	}

	leader, trailer := player1, player2
	if h2h.Wins[player2] > h2h.Wins[player1] {
		leader, trailer = player2, player1
	}

	history := make([]string, 0, len(h2h.History))
	matches := h2h.History
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Date > matches[j].Date })
	for _, m := range matches {
		history = append(history, env.Msg("headtohead.match", map[string]string{
			"Date":   isoDate(m.Date),
			"Winner": env.Username(m.Winner),
			"Loser":  env.Username(m.Loser),
		}))
	}

	return Reply{Text: env.Msg("headtohead.summary", map[string]any{
		"Winner":     env.Username(leader),
		"WinnerWins": h2h.Wins[leader],
		"Loser":      env.Username(trailer),
		"LoserWins":  h2h.Wins[trailer],
		"Ratio":      fmt.Sprintf("%d%%", h2h.Wins[leader]*100/total),
		"Count":      total,
		"History":    strings.Join(history, "\n"),
	})}, nil
}
