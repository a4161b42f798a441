package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/tadasu/data/runs.db"
	}
	if cfg.SpellCheck.APIKeyEnv == "" {
		cfg.SpellCheck.APIKeyEnv = "OPENAI_API_KEY"
	}
}
