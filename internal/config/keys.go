package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kBool
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		// OLLAMA_HOST is the service's own convention, so honor it
		// instead of inventing a prefixed variant.
		key: "ollama.host", typ: kString, env: "OLLAMA_HOST",
		apply:   func(cfg *Config, v any) { cfg.Ollama.Host = v.(string) },
		extract: func(cfg Config) any { return cfg.Ollama.Host },
	},
	{
		key: "chat.model", typ: kString, env: "OLLAMATE_MODEL",
		apply:   func(cfg *Config, v any) { cfg.Chat.Model = v.(string) },
		extract: func(cfg Config) any { return cfg.Chat.Model },
	},
	{
		key: "chat.markdown", typ: kBool, env: "OLLAMATE_MARKDOWN",
		apply:   func(cfg *Config, v any) { cfg.Chat.Markdown = v.(bool) },
		extract: func(cfg Config) any { return cfg.Chat.Markdown },
	},
	{
		key: "chat.copy", typ: kBool, env: "OLLAMATE_COPY",
		apply:   func(cfg *Config, v any) { cfg.Chat.Copy = v.(bool) },
		extract: func(cfg Config) any { return cfg.Chat.Copy },
	},
	{
		key: "chat.follow_up", typ: kBool, env: "OLLAMATE_FOLLOW_UP",
		apply:   func(cfg *Config, v any) { cfg.Chat.FollowUp = v.(bool) },
		extract: func(cfg Config) any { return cfg.Chat.FollowUp },
	},
	{
		key: "log.level", typ: kString, env: "OLLAMATE_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b Backend) error {
	for _, s := range specs {
		v, ok, err := b.GetString(s.key)
		if err != nil {
			return fmt.Errorf("reading %s: %w", s.key, err)
		}
		if !ok {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, v)
		case kBool:
			if v == "" {
				continue
			}
			if bv, err := strconv.ParseBool(v); err == nil {
				s.apply(cfg, bv)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse bool from config key %s=%q: %v. Using default value.\n", s.key, v, err)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kBool:
			if b, err := strconv.ParseBool(raw); err == nil {
				s.apply(cfg, b)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse bool from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
