package command

import (
	"context"
	"strings"
)

// spreePhrases maps a consecutive-win count to its announcement. Counts
// above the table max are clamped down to it.
var spreePhrases = map[int]string{
	2:  "is on a Double Kill",
	3:  "is on a Triple Kill",
	4:  "has committed Overkill",
	5:  "is Killtacular",
	6:  "has committed a Killtrocity",
	7:  "is climbing Killamanjaro",
	8:  "has caused a Killtastrophe",
	9:  "has started the Killpocalypse",
	10: "is a Killionaire !!!",
}

const highestSpree = 10

// SpreeCommand announces a player's active winning streak. It stays silent
// when there is no streak worth shouting about, which matters because it is
// the standing follow-up of every successful record.
type SpreeCommand struct {
	baseCommand
	env *Env
}

func NewSpreeCommand(env *Env) *SpreeCommand {
	return &SpreeCommand{
		baseCommand: baseCommand{
			term: "spree",
			help: "Announces any current winning spree a player is on.",
		},
		env: env,
	}
}

func (c *SpreeCommand) Process(ctx context.Context, msg Message) (Reply, error) {
	id := subjectOf(c.env, msg)
	limit := firstInt(c.env.Parse.Args(msg.Text, ArgOptions{}), defaultFormLimit)

	form, err := c.env.Backend.PlayerForm(ctx, id, limit)
	if err != nil {
		return Reply{Text: c.env.Msg("spree.error", nil)}, nil
	}

	count := currentSpree(form)
	phrase, ok := spreePhrases[count]
	if !ok {
		return Reply{}, nil
	}

	return Reply{Text: c.env.Msg("spree.active", map[string]any{
		"Name":   c.env.Username(id),
		"Phrase": phrase,
		"Count":  count,
	})}, nil
}

// currentSpree counts consecutive wins at the recent end of a form string
// like "L W W", clamped to the top of the phrase table.
func currentSpree(form string) int {
	tokens := strings.Fields(strings.ReplaceAll(form, `"`, ""))
	spree := 0
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i] != "W" {
			break
		}
		spree++
	}
	if spree > highestSpree {
		spree = highestSpree
	}
	return spree
}
