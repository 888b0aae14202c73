package main

import (
	"context"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kapu/slack-pool-bot-go/internal/backend"
	"github.com/kapu/slack-pool-bot-go/internal/command"
	appcfg "github.com/kapu/slack-pool-bot-go/internal/config"
	"github.com/kapu/slack-pool-bot-go/internal/msgcat"
	"github.com/kapu/slack-pool-bot-go/internal/obslog"
	"github.com/kapu/slack-pool-bot-go/internal/player"
	"github.com/kapu/slack-pool-bot-go/internal/slackrt"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := appcfg.Load(*configPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	catalog, err := msgcat.New(cfg.MessageDir)
	if err != nil {
		logger.Fatal("message catalog", zap.Error(err))
	}

	timeout := time.Duration(cfg.RequestTimeoutSec) * time.Second
	slack := slackrt.NewClient(cfg.SlackAPIURL, cfg.APIToken, slackrt.WithTimeout(timeout))
	server := backend.NewClient(cfg.ServerHost, cfg.ServerToken, backend.WithTimeout(timeout))

	cache := player.NewStore(server)
	if err := primeCache(cache, slack, server, logger); err != nil {
		logger.Fatal("prime cache", zap.Error(err))
	}
	logger.Info("cache primed", zap.Int("players", cache.Len()))

	env := &command.Env{
		BotID:                cfg.BotID,
		Parse:                command.NewParser(cfg.BotID),
		Cache:                cache,
		Backend:              server,
		Catalog:              catalog,
		Log:                  logger,
		ChallengeAutoResolve: cfg.ChallengeAutoResolve,
		NFCBots:              cfg.NFCBots,
	}
	registry := buildRegistry(env)

	socket := slackrt.NewSocket(slack.RTMConnect, 10, 2*time.Second)
	sink := slackrt.NewSink(cfg.Transport, slack, socket, logger)
	executor := command.NewExecutor(registry, sink, cfg.CallbackDepth, "", logger)

	// The socket's read loop only enqueues; one goroutine owns all handler
	// and cache state, so no handler ever races another.
	events := make(chan slackrt.Event, 256)
	socket.OnEvent(func(ev *slackrt.Event) {
		select {
		case events <- *ev:
		default:
			logger.Warn("event_dropped", zap.String("channel", ev.Channel))
		}
	})
	socket.OnStateChange(func(state slackrt.SocketState) {
		logger.Info("socket_state", zap.String("state", string(state)))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go processLoop(ctx, cfg, executor, events, logger)

	connectCtx, connectCancel := context.WithTimeout(ctx, 15*time.Second)
	err = socket.Connect(connectCtx)
	connectCancel()
	if err != nil {
		logger.Fatal("rtm connect", zap.Error(err))
	}
	logger.Info("pool-bot up", zap.String("bot_id", cfg.BotID))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	cancel()
	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	_ = socket.Close(closeCtx)
	logger.Info("pool-bot down")
}

// processLoop is the single consumer of inbound events.
func processLoop(ctx context.Context, cfg *appcfg.AppConfig, executor *command.Executor, events <-chan slackrt.Event, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			msg, ok := toMessage(cfg, ev)
			if !ok {
				continue
			}
			executor.Run(ctx, msg)
		}
	}
}

// toMessage filters an RTM event down to a processable chat message.
func toMessage(cfg *appcfg.AppConfig, ev slackrt.Event) (command.Message, bool) {
	if ev.Type != "message" || ev.User == "" || ev.User == cfg.BotID {
		return command.Message{}, false
	}
	if len(cfg.AllowedChannels) > 0 && !contains(cfg.AllowedChannels, ev.Channel) {
		return command.Message{}, false
	}
	msg := command.Message{
		Text:    ev.Text,
		User:    ev.User,
		Channel: ev.Channel,
		Subtype: ev.Subtype,
	}
	if ev.UserProfile != nil {
		msg.UserName = ev.UserProfile.Name
	}
	return msg, true
}

// buildRegistry wires every handler. Registration order is dispatch priority.
func buildRegistry(env *command.Env) *command.Registry {
	registry := command.NewRegistry(env.Parse, env.NFCBots)

	record := command.NewRecordCommand(env)
	registry.Register(record)
	registry.Register(command.NewStatsCommand(env))
	registry.Register(command.NewFormCommand(env))
	registry.Register(command.NewSpreeCommand(env))
	registry.Register(command.NewLeaderboardCommand(env))
	registry.Register(command.NewGranniesCommand(env))
	registry.Register(command.NewEloCommand(env))
	registry.Register(command.NewEloHistoryCommand(env))
	registry.Register(command.NewHeadToHeadCommand(env))
	registry.Register(command.NewChallengeCommand(env))
	registry.Register(command.NewSeasonsCommand(env))
	registry.Register(command.NewProfileCommand(env))
	registry.Register(command.NewOddsCommand(env))
	registry.Register(command.NewNFCCommand(env, record))
	registry.Register(command.NewHelpCommand(env, registry))

	registry.RegisterReaction(command.NewChannelJoinReaction(env))
	registry.RegisterReaction(command.NewChannelLeaveReaction(env))
	return registry
}

// primeCache loads the roster and the backend player list, registering any
// workspace member the server has never seen.
func primeCache(cache *player.Store, slack *slackrt.Client, server *backend.Client, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	members, err := slack.UsersList(ctx)
	if err != nil {
		return err
	}
	profiles, err := server.Players(ctx, url.Values{"active": []string{"True"}})
	if err != nil {
		return err
	}

	roster := make([]player.Identity, 0, len(members))
	for _, m := range members {
		if m.Deleted {
			continue
		}
		roster = append(roster, player.Identity{
			ID:     m.ID,
			Name:   m.Name,
			Joined: time.Unix(m.Updated, 0).UTC().Format(time.RFC3339),
			IsBot:  m.IsBot,
		})
	}

	for _, ident := range cache.Prime(roster, profiles) {
		profile, err := server.CreatePlayer(ctx, ident.Name, ident.ID)
		if err != nil {
			logger.Warn("register_player", zap.String("id", ident.ID), zap.Error(err))
			continue
		}
		rec := player.Record{ID: ident.ID, Name: ident.Name, Joined: ident.Joined, IsBot: ident.IsBot}
		rec.MergeProfile(profile)
		cache.Put(rec)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
