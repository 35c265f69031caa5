package bot

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// How many usage dates /stats shows
	UsageDays int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		UsageDays: 30,
	}
}
