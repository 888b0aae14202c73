package command

import (
	"context"

	"github.com/kapu/slack-pool-bot-go/internal/backend"
)

// activeChallenge returns the channel's single open challenge, if any.
func activeChallenge(challenges []backend.Challenge) *backend.Challenge {
	for i := range challenges {
		if challenges[i].Active {
			return &challenges[i]
		}
	}
	return nil
}

// ChallengeCommand throws down an open challenge in a channel and lets
// someone else accept it. A channel holds at most one active challenge; the
// record command can close it once the match is played.
type ChallengeCommand struct {
	baseCommand
	env *Env
}

func NewChallengeCommand(env *Env) *ChallengeCommand {
	return &ChallengeCommand{
		baseCommand: baseCommand{
			term: "challenge",
			help: "Throws down an open challenge in this channel. Type `challenge accept` to take one up.",
		},
		env: env,
	}
}

func (c *ChallengeCommand) Process(ctx context.Context, msg Message) (Reply, error) {
	env := c.env
	args := env.Parse.Args(msg.Text, ArgOptions{})

	challenges, err := env.Backend.Challenges(ctx, msg.Channel)
	if err != nil {
		return Reply{Text: env.Msg("challenge.error", nil)}, nil
	}
	active := activeChallenge(challenges)

	if len(args) > 0 && args[0] == "accept" {
		return c.accept(ctx, msg, active)
	}
	return c.create(ctx, msg, active)
}

func (c *ChallengeCommand) create(ctx context.Context, msg Message, active *backend.Challenge) (Reply, error) {
	env := c.env
	if active == nil {
		if _, err := env.Backend.CreateChallenge(ctx, msg.Channel, msg.User); err != nil {
			return Reply{Text: env.Msg("challenge.error", nil)}, nil
		}
		return Reply{Text: env.Msg("challenge.created", map[string]string{
			"Initiator": env.Username(msg.User),
		})}, nil
	}
	if active.Challenger != "" {
		return Reply{Text: env.Msg("challenge.busy", map[string]string{
			"Initiator":  env.Username(active.Initiator),
			"Challenger": env.Username(active.Challenger),
		})}, nil
	}
	return Reply{Text: env.Msg("challenge.pending", map[string]string{
		"Initiator": env.Username(active.Initiator),
	})}, nil
}

func (c *ChallengeCommand) accept(ctx context.Context, msg Message, active *backend.Challenge) (Reply, error) {
	env := c.env
	switch {
	case active == nil:
		return Reply{Text: env.Msg("challenge.error", nil)}, nil
	case active.Challenger != "":
		return Reply{Text: env.Msg("challenge.busy", map[string]string{
			"Initiator":  env.Username(active.Initiator),
			"Challenger": env.Username(active.Challenger),
		})}, nil
	case active.Initiator == msg.User:
		return Reply{Text: env.Msg("challenge.pending", map[string]string{
			"Initiator": env.Username(active.Initiator),
		})}, nil
	}

	if _, err := env.Backend.UpdateChallenge(ctx, active.ID, map[string]any{
		"challenger": msg.User,
	}); err != nil {
		return Reply{Text: env.Msg("challenge.error", nil)}, nil
	}
	return Reply{Text: env.Msg("challenge.accepted", map[string]string{
		"Initiator":  env.Username(active.Initiator),
		"Challenger": env.Username(msg.User),
	})}, nil
}
