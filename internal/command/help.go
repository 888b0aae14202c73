package command

import (
	"context"
	"strings"
)

// HelpCommand lists the registered command terms, or explains one of them.
type HelpCommand struct {
	baseCommand
	env      *Env
	registry *Registry
}

func NewHelpCommand(env *Env, registry *Registry) *HelpCommand {
	return &HelpCommand{
		baseCommand: baseCommand{
			term: "help",
			help: "You are looking at it.",
		},
		env:      env,
		registry: registry,
	}
}

func (c *HelpCommand) Process(ctx context.Context, msg Message) (Reply, error) {
	env := c.env
	args := env.Parse.Args(msg.Text, ArgOptions{})

	if len(args) > 0 {
		for _, h := range c.registry.Commands() {
			if h.Term() == args[0] {
				return Reply{Text: h.Help()}, nil
			}
		}
	}

	terms := make([]string, 0, len(c.registry.Commands()))
	for _, h := range c.registry.Commands() {
		terms = append(terms, "`"+h.Term()+"`")
	}
	return Reply{Text: env.Msg("help.list", map[string]string{
		"Commands": strings.Join(terms, ", "),
	})}, nil
}
