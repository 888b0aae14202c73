package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// ErrMissingSetting is wrapped with the setting name; a missing required
// setting is fatal at startup.
var ErrMissingSetting = errors.New("required setting missing")

type AppConfig struct {
	// Slack credentials and identity.
	APIToken string `yaml:"api_token"`
	BotID    string `yaml:"bot_id"`

	// Scorekeeping backend.
	ServerHost  string `yaml:"server_host"`
	ServerToken string `yaml:"server_token"`

	SlackAPIURL string `yaml:"slack_api_url"`
	Transport   string `yaml:"transport"` // ws | http | auto

	RequestTimeoutSec    int  `yaml:"request_timeout"`
	CallbackDepth        int  `yaml:"callback_depth"`
	ChallengeAutoResolve bool `yaml:"challenge_auto_resolve"`

	// Relay bots whose messages are treated as commands even without a
	// bot mention (nfc table integration).
	NFCBots []string `yaml:"nfc_bots"`

	// If non-empty, messages from other channels are ignored.
	AllowedChannels []string `yaml:"allowed_channels"`

	// Optional directory of reply-template overrides.
	MessageDir string `yaml:"message_dir"`
}

// Load reads the YAML config file and applies environment overrides.
// The file may be absent as long as every required setting is provided
// through the environment.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{
		SlackAPIURL:       "https://slack.com/api",
		Transport:         "auto",
		RequestTimeoutSec: 10,
		CallbackDepth:     2,
	}

	if raw, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(cfg)

	for _, req := range []struct{ name, value string }{
		{"api_token", cfg.APIToken},
		{"bot_id", cfg.BotID},
		{"server_host", cfg.ServerHost},
		{"server_token", cfg.ServerToken},
	} {
		if strings.TrimSpace(req.value) == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingSetting, req.name)
		}
	}

	if cfg.RequestTimeoutSec <= 0 {
		cfg.RequestTimeoutSec = 10
	}
	if cfg.CallbackDepth <= 0 {
		cfg.CallbackDepth = 2
	}
	cfg.ServerHost = strings.TrimRight(strings.TrimSpace(cfg.ServerHost), "/")
	cfg.SlackAPIURL = strings.TrimRight(strings.TrimSpace(cfg.SlackAPIURL), "/")

	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	setStr := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setStr(&cfg.APIToken, "POOLBOT_API_TOKEN")
	setStr(&cfg.BotID, "POOLBOT_BOT_ID")
	setStr(&cfg.ServerHost, "POOLBOT_SERVER_HOST")
	setStr(&cfg.ServerToken, "POOLBOT_SERVER_TOKEN")
	setStr(&cfg.SlackAPIURL, "POOLBOT_SLACK_API_URL")
	setStr(&cfg.Transport, "POOLBOT_TRANSPORT")
	setStr(&cfg.MessageDir, "POOLBOT_MESSAGE_DIR")

	if v := strings.TrimSpace(os.Getenv("POOLBOT_REQUEST_TIMEOUT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RequestTimeoutSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("POOLBOT_CALLBACK_DEPTH")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CallbackDepth = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("POOLBOT_CHALLENGE_AUTO_RESOLVE")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ChallengeAutoResolve = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("POOLBOT_NFC_BOTS")); v != "" {
		cfg.NFCBots = splitCSV(v)
	}
	if v := strings.TrimSpace(os.Getenv("POOLBOT_ALLOWED_CHANNELS")); v != "" {
		cfg.AllowedChannels = splitCSV(v)
	}
}

func splitCSV(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
