package command

import "context"

// NFCCommand accepts results relayed by the NFC reader bot on the table.
// The relay posts on behalf of the winner, so the message is rewritten into
// a regular record before delegating.
type NFCCommand struct {
	baseCommand
	env    *Env
	record *RecordCommand
}

func NewNFCCommand(env *Env, record *RecordCommand) *NFCCommand {
	return &NFCCommand{
		baseCommand: baseCommand{
			term: "nfc-red",
			help: "Used by the table's NFC reader to record results. Not for humans.",
		},
		env:    env,
		record: record,
	}
}

func (c *NFCCommand) Process(ctx context.Context, msg Message) (Reply, error) {
	env := c.env
	if !c.allowed(msg.User) {
		// anyone else typing this is spoofing; say nothing
		return Reply{}, nil
	}

	mentions := env.Parse.Mentions(msg.Text)
	if len(mentions) < 2 {
		return Reply{Text: env.Msg("record.no_opponent", nil)}, nil
	}
	winner, loser := mentions[0], mentions[1]

	relayed := msg
	relayed.User = winner
	relayed.Text = "record beat <@" + loser + ">"
	reply, err := c.record.Process(ctx, relayed)
	if err != nil {
		return reply, err
	}
	// follow-ups belong to the winner, not the reader bot
	reply.Origin = &relayed
	return reply, nil
}

func (c *NFCCommand) allowed(user string) bool {
	for _, id := range c.env.NFCBots {
		if id == user {
			return true
		}
	}
	return false
}
