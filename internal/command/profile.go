package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/kapu/slack-pool-bot-go/internal/player"
)

// ProfileCommand dumps a player's raw profile fields, and lets them patch a
// single field with `profile set <field> <value>`.
type ProfileCommand struct {
	baseCommand
	env *Env
}

func NewProfileCommand(env *Env) *ProfileCommand {
	return &ProfileCommand{
		baseCommand: baseCommand{
			term: "profile",
			help: "Shows your raw profile data. Change a field with `profile set <field> <value>`.",
		},
		env: env,
	}
}

func (c *ProfileCommand) Process(ctx context.Context, msg Message) (Reply, error) {
	env := c.env
	args := env.Parse.Args(msg.Text, ArgOptions{})

	if len(args) == 0 {
		rec, err := env.Profile(ctx, msg.User)
		if err != nil {
			return Reply{Text: env.Msg("profile.error", nil)}, nil
		}
		lines := append([]string{env.Msg("profile.view", nil)}, profileLines(recordFields(rec))...)
		return Reply{Text: strings.Join(lines, "\n")}, nil
	}

	if args[0] != "set" || len(args) < 3 {
		return Reply{Text: env.Msg("profile.error", nil)}, nil
	}

	field, value := args[1], strings.Join(args[2:], " ")
	updated, err := env.Backend.UpdatePlayer(ctx, msg.User, map[string]string{field: value})
	if err != nil {
		return Reply{Text: env.Msg("profile.error", nil)}, nil
	}
	env.StoreProfile(msg.User, updated)

	rec, err := env.Profile(ctx, msg.User)
	if err != nil {
		return Reply{Text: env.Msg("profile.error", nil)}, nil
	}
	lines := append([]string{env.Msg("profile.updated", nil)}, profileLines(recordFields(rec))...)
	return Reply{Text: strings.Join(lines, "\n")}, nil
}

type profileField struct {
	name  string
	value any
}

func recordFields(rec player.Record) []profileField {
	return []profileField{
		{"name", rec.Name},
		{"joined", isoDate(rec.Joined)},
		{"active", rec.Active},
		{"season elo", rec.SeasonElo},
		{"season wins", rec.SeasonWinCount},
		{"season losses", rec.SeasonLossCount},
		{"total elo", rec.TotalElo},
		{"total wins", rec.TotalWinCount},
		{"total losses", rec.TotalLossCount},
		{"grannies given", rec.TotalGranniesGivenCount},
		{"grannies taken", rec.TotalGranniesTakenCount},
	}
}

func profileLines(fields []profileField) []string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("%s: %v", f.name, f.value))
	}
	return lines
}
