package command

import "context"

// OddsCommand is a placeholder until the bookmaking maths is settled.
// TODO: quote win odds from the elo matchup endpoint.
type OddsCommand struct {
	baseCommand
	env *Env
}

func NewOddsCommand(env *Env) *OddsCommand {
	return &OddsCommand{
		baseCommand: baseCommand{
			term: "odds",
			help: "Will one day quote the odds of a player winning a match.",
		},
		env: env,
	}
}

func (c *OddsCommand) Process(ctx context.Context, msg Message) (Reply, error) {
	return Reply{Text: c.env.Msg("odds.todo", nil)}, nil
}
