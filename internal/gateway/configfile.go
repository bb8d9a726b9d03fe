// internal/gateway/configfile.go
package gateway

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"clawdeck/internal/channels"
	"clawdeck/internal/database"
	"clawdeck/internal/secrets"
)

// The rendered runtime config. The gateway reads this file on startup;
// it is regenerated from the database before every start.
type runtimeConfig struct {
	Gateway      gatewaySection           `yaml:"gateway"`
	PrimaryModel string                   `yaml:"primaryModel,omitempty"`
	Providers    []providerSection        `yaml:"providers"`
	Channels     map[string]channelConfig `yaml:"channels,omitempty"`
}

type gatewaySection struct {
	Port int `yaml:"port"`
}

type providerSection struct {
	Name    string         `yaml:"name"`
	BaseURL string         `yaml:"baseUrl,omitempty"`
	APIKey  string         `yaml:"apiKey,omitempty"`
	API     string         `yaml:"api,omitempty"`
	Models  []modelSection `yaml:"models"`
}

type modelSection struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name,omitempty"`
	ContextWindow int    `yaml:"contextWindow,omitempty"`
	MaxTokens     int    `yaml:"maxTokens,omitempty"`
}

type channelConfig struct {
	Enabled bool              `yaml:"enabled"`
	Config  map[string]string `yaml:"config,omitempty"`
}

// renderConfig assembles the gateway runtime config from the current
// database state. Sealed credentials are opened here and nowhere else;
// the file is written 0600.
func renderConfig(db *database.Database, keeper *secrets.Keeper, defs []channels.Definition, port int) (*runtimeConfig, error) {
	cfg := &runtimeConfig{
		Gateway:   gatewaySection{Port: port},
		Providers: []providerSection{},
	}

	primary, err := db.GetSetting(database.SettingPrimaryModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load primary model: %w", err)
	}
	cfg.PrimaryModel = primary

	providers, err := db.GetAllAIProviders()
	if err != nil {
		return nil, fmt.Errorf("failed to load providers: %w", err)
	}
	for _, p := range providers {
		apiKey, err := keeper.Open(p.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to open key for %s: %w", p.Name, err)
		}
		section := providerSection{
			Name:    p.Name,
			BaseURL: p.BaseURL,
			APIKey:  apiKey,
			API:     p.APIType,
		}
		for _, m := range p.Models {
			section.Models = append(section.Models, modelSection{
				ID:            m.ID,
				Name:          m.Name,
				ContextWindow: m.ContextWindow,
				MaxTokens:     m.MaxTokens,
			})
		}
		cfg.Providers = append(cfg.Providers, section)
	}

	configs, err := db.GetAllChannelConfigs()
	if err != nil {
		return nil, fmt.Errorf("failed to load channel configs: %w", err)
	}
	for _, c := range configs {
		def := channels.GetDefinition(defs, c.ChannelType)
		if def == nil {
			continue
		}
		secret := def.SecretKeys()
		opened := make(map[string]string, len(c.Config))
		for key, value := range c.Config {
			if secret[key] {
				plain, err := keeper.Open(value)
				if err != nil {
					return nil, fmt.Errorf("failed to open %s for %s: %w", key, c.ChannelType, err)
				}
				opened[key] = plain
			} else {
				opened[key] = value
			}
		}
		if cfg.Channels == nil {
			cfg.Channels = make(map[string]channelConfig)
		}
		cfg.Channels[c.ChannelType] = channelConfig{Enabled: c.Enabled, Config: opened}
	}

	return cfg, nil
}

// writeConfig renders and writes the runtime config file.
func writeConfig(path string, cfg *runtimeConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal gateway config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write gateway config: %w", err)
	}
	return nil
}
