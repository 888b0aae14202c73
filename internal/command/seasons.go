package command

import (
	"context"
	"strings"

	"github.com/kapu/slack-pool-bot-go/internal/player"
)

// SeasonsCommand lists past and present seasons, or shows the final
// standings of one season by name.
type SeasonsCommand struct {
	baseCommand
	env *Env
}

func NewSeasonsCommand(env *Env) *SeasonsCommand {
	return &SeasonsCommand{
		baseCommand: baseCommand{
			term: "seasons",
			help: "Lists all seasons, or shows the standings of one: `seasons Summer 2016`.",
		},
		env: env,
	}
}

func (c *SeasonsCommand) Process(ctx context.Context, msg Message) (Reply, error) {
	env := c.env
	args := env.Parse.Args(msg.Text, ArgOptions{})
	if len(args) > 0 {
		return c.detail(ctx, strings.Join(args, " "))
	}
	return c.list(ctx)
}

func (c *SeasonsCommand) list(ctx context.Context) (Reply, error) {
	env := c.env
	seasons, err := env.Backend.Seasons(ctx, "-end_date")
	if err != nil || len(seasons) == 0 {
		return Reply{Text: env.Msg("seasons.error", nil)}, nil
	}

	var rows []string
	for _, s := range seasons {
		key := "seasons.inactive_row"
		winner := "TBC"
		if s.Active {
			// the active season has no winner yet; show who currently leads
			key = "seasons.active_row"
			if leaders := env.Cache.Rank(player.SeasonElo); len(leaders) > 0 {
				winner = env.Username(leaders[0])
			}
		} else if s.Winner != "" {
			winner = env.Username(s.Winner)
		}
		rows = append(rows, env.Msg(key, map[string]string{
			"Name":   s.Name,
			"Start":  isoDate(s.StartDate),
			"End":    isoDate(s.EndDate),
			"Winner": winner,
		}))
	}
	return Reply{Text: strings.Join(rows, "\n")}, nil
}

func (c *SeasonsCommand) detail(ctx context.Context, name string) (Reply, error) {
	env := c.env
	seasons, err := env.Backend.Seasons(ctx, "-end_date")
	if err != nil {
		return Reply{Text: env.Msg("seasons.error", nil)}, nil
	}

	found := -1
	for i := range seasons {
		if strings.EqualFold(seasons[i].Name, name) {
			found = i
			break
		}
	}
	if found < 0 {
		return Reply{Text: env.Msg("seasons.not_found", map[string]string{"Name": name})}, nil
	}
	season := seasons[found]

	standings, err := env.Backend.SeasonPlayers(ctx, season.PK, "-elo_score")
	if err != nil {
		return Reply{Text: env.Msg("seasons.error", nil)}, nil
	}

	lines := []string{env.Msg("seasons.detail_header", map[string]string{
		"Name":  season.Name,
		"Start": isoDate(season.StartDate),
		"End":   isoDate(season.EndDate),
	})}
	for _, p := range standings {
		if p.MatchCount == 0 {
			continue
		}
		lines = append(lines, env.Msg("leaderboard.row", map[string]any{
			"Rank":   len(lines),
			"Name":   env.Username(p.Player),
			"Elo":    p.EloScore,
			"Wins":   p.WinCount,
			"Losses": p.LossCount,
		}))
	}
	return Reply{Text: strings.Join(lines, "\n")}, nil
}
