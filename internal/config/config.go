package config

type Config struct {
	Ollama OllamaConfig
	Chat   ChatConfig
	Log    LogConfig
}

type OllamaConfig struct {
	// Host is the server address in any accepted spelling: empty,
	// bare host, host:port, or a full http(s) URL. Normalization
	// happens in the ollama package.
	Host string
}

type ChatConfig struct {
	Model    string
	Markdown bool
	Copy     bool
	FollowUp bool
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Chat: ChatConfig{
			FollowUp: true,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load reads configuration from the file backend and applies
// environment overrides.
//
// The backend is a flat JSON file at $XDG_CONFIG_HOME/ollamate/config.json.
// Environment variables (OLLAMA_HOST plus OLLAMATE_*) override backend
// values.
func Load() (Config, error) {
	return loadWith(newFileBackend())
}

func loadWith(b Backend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	return cfg, nil
}
