package config

import "time"

func (c *Config) GetBotToken() string {
	return c.v.GetString("bot_token")
}

func (c *Config) GetDataDir() string {
	return c.v.GetString("data_dir")
}

func (c *Config) GetLogDir() string {
	return c.v.GetString("log_dir")
}

func (c *Config) GetDatabasePath() string {
	return c.v.GetString("database_path")
}

// GetGuildConfigPath returns the path of the per-guild override document.
func (c *Config) GetGuildConfigPath() string {
	return c.v.GetString("guild_config_path")
}

// GetDefaultPrefix returns the prefix used when a guild has no override and
// in non-guild contexts.
func (c *Config) GetDefaultPrefix() string {
	return c.v.GetString("default_prefix")
}

// GetGuildConfigFlushInterval returns how often guild overrides are flushed
// to disk.
func (c *Config) GetGuildConfigFlushInterval() time.Duration {
	return c.v.GetDuration("guild_config_flush_interval")
}

// GetStatusChannelID returns the channel for online/offline announcements.
// Empty disables them.
func (c *Config) GetStatusChannelID() string {
	return c.v.GetString("status_channel_id")
}

func (c *Config) GetSuperAdmins() []string {
	superAdmins := c.v.GetStringSlice("super_admins")
	if len(superAdmins) == 0 {
		return nil
	}
	return superAdmins
}

func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
	if err := c.v.WriteConfig(); err != nil {
		c.Logger.Warnf("failed to write config for key %s: %v", key, err)
	}
}

// GetString returns the string value for a given config key
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}
