package command

import "context"

const defaultFormLimit = 10

// FormCommand shows a player's recent results, e.g. "W W L W".
type FormCommand struct {
	baseCommand
	env *Env
}

func NewFormCommand(env *Env) *FormCommand {
	return &FormCommand{
		baseCommand: baseCommand{
			term: "form",
			help: "Returns the recent results for a player, newest last. Pass a number to change how many games are included, e.g. `form @danny 20`.",
		},
		env: env,
	}
}

func (c *FormCommand) Process(ctx context.Context, msg Message) (Reply, error) {
	id := subjectOf(c.env, msg)
	limit := firstInt(c.env.Parse.Args(msg.Text, ArgOptions{}), defaultFormLimit)

	results, err := c.env.Backend.PlayerForm(ctx, id, limit)
	if err != nil {
		return Reply{Text: c.env.Msg("form.error", nil)}, nil
	}

	return Reply{Text: c.env.Msg("form.results", map[string]string{
		"Name":    c.env.Username(id),
		"Results": results,
	})}, nil
}
