package command

import (
	"context"

	"go.uber.org/zap"

	"github.com/kapu/slack-pool-bot-go/internal/player"
)

// ChannelJoinReaction greets anyone who enters the channel, registering
// first-timers with the scorekeeping server on the spot.
type ChannelJoinReaction struct {
	env *Env
}

func NewChannelJoinReaction(env *Env) *ChannelJoinReaction {
	return &ChannelJoinReaction{env: env}
}

func (r *ChannelJoinReaction) Matches(msg Message) bool {
	return msg.Subtype == "channel_join"
}

func (r *ChannelJoinReaction) Process(ctx context.Context, msg Message) (Reply, error) {
	env := r.env

	if _, err := env.Cache.Get(msg.User); err != nil {
		return r.register(ctx, msg)
	}

	rank, ranked := env.Cache.Position(msg.User, player.SeasonElo)
	if !ranked {
		return Reply{Text: env.Msg("join.back", map[string]string{
			"Name": env.Username(msg.User),
		})}, nil
	}
	return Reply{
		Text: env.Msg("join.back_ranked", map[string]string{
			"Name":     env.Username(msg.User),
			"Position": Ordinal(rank),
		}),
		Callbacks: []string{"stats"},
	}, nil
}

func (r *ChannelJoinReaction) register(ctx context.Context, msg Message) (Reply, error) {
	env := r.env
	name := msg.UserName
	if name == "" {
		name = msg.User
	}

	profile, err := env.Backend.CreatePlayer(ctx, name, msg.User)
	if err != nil {
		env.Log.Warn("register_player", zap.String("id", msg.User), zap.Error(err))
		return Reply{Text: env.Msg("common.backend_down", nil)}, nil
	}

	rec := player.Record{ID: msg.User, Name: name}
	rec.MergeProfile(profile)
	env.Cache.Put(rec)

	return Reply{
		Text:      env.Msg("join.new", map[string]string{"Name": env.Username(msg.User)}),
		Callbacks: []string{"help"},
	}, nil
}

// ChannelLeaveReaction waves off anyone leaving the channel.
type ChannelLeaveReaction struct {
	env *Env
}

func NewChannelLeaveReaction(env *Env) *ChannelLeaveReaction {
	return &ChannelLeaveReaction{env: env}
}

func (r *ChannelLeaveReaction) Matches(msg Message) bool {
	return msg.Subtype == "channel_leave"
}

func (r *ChannelLeaveReaction) Process(ctx context.Context, msg Message) (Reply, error) {
	return Reply{Text: r.env.Msg("leave.bye", nil)}, nil
}
