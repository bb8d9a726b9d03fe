// internal/database/db.go
package database

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"
)

// Database wraps the SQLite database connection
type Database struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path
func Open(path string) (*Database, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}

	d := &Database{db: db}
	if err := d.init(); err != nil {
		db.Close()
		return nil, err
	}

	return d, nil
}

// init creates the database schema
func (d *Database) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ai_providers (
		name TEXT PRIMARY KEY,
		base_url TEXT NOT NULL,
		api_key TEXT,
		api_type TEXT NOT NULL,
		models TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS channel_configs (
		id TEXT PRIMARY KEY,
		channel_type TEXT NOT NULL UNIQUE,
		enabled INTEGER DEFAULT 0,
		config TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_channel_configs_type ON channel_configs(channel_type);
	`

	_, err := d.db.Exec(schema)
	return err
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// SaveAIProvider saves or replaces a provider entry whole
func (d *Database) SaveAIProvider(p *AIProvider) error {
	now := time.Now()
	p.UpdatedAt = now
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}

	models, err := json.Marshal(p.Models)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		INSERT OR REPLACE INTO ai_providers
		(name, base_url, api_key, api_type, models, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.BaseURL, p.APIKey, p.APIType, string(models), p.CreatedAt, p.UpdatedAt)
	return err
}

// GetAIProvider retrieves a provider entry by name
func (d *Database) GetAIProvider(name string) (*AIProvider, error) {
	row := d.db.QueryRow(`
		SELECT name, base_url, api_key, api_type, models, created_at, updated_at
		FROM ai_providers WHERE name = ?`, name)
	return scanAIProvider(row)
}

// GetAllAIProviders retrieves all provider entries ordered by name
func (d *Database) GetAllAIProviders() ([]*AIProvider, error) {
	rows, err := d.db.Query(`
		SELECT name, base_url, api_key, api_type, models, created_at, updated_at
		FROM ai_providers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var providers []*AIProvider
	for rows.Next() {
		p, err := scanAIProvider(rows)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

// DeleteAIProvider deletes a provider entry by name. Returns sql.ErrNoRows
// when the entry does not exist.
func (d *Database) DeleteAIProvider(name string) error {
	res, err := d.db.Exec("DELETE FROM ai_providers WHERE name = ?", name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAIProvider(row rowScanner) (*AIProvider, error) {
	p := &AIProvider{}
	var models string
	err := row.Scan(&p.Name, &p.BaseURL, &p.APIKey, &p.APIType, &models, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(models), &p.Models); err != nil {
		return nil, err
	}
	return p, nil
}

// SaveChannelConfig saves or replaces a channel config
func (d *Database) SaveChannelConfig(c *ChannelConfig) error {
	c.UpdatedAt = time.Now()

	config, err := json.Marshal(c.Config)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		INSERT OR REPLACE INTO channel_configs
		(id, channel_type, enabled, config, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.ChannelType, c.Enabled, string(config), c.UpdatedAt)
	return err
}

// GetChannelConfigByType retrieves the config for a channel type
func (d *Database) GetChannelConfigByType(channelType string) (*ChannelConfig, error) {
	row := d.db.QueryRow(`
		SELECT id, channel_type, enabled, config, updated_at
		FROM channel_configs WHERE channel_type = ?`, channelType)
	return scanChannelConfig(row)
}

// GetAllChannelConfigs retrieves all channel configs ordered by type
func (d *Database) GetAllChannelConfigs() ([]*ChannelConfig, error) {
	rows, err := d.db.Query(`
		SELECT id, channel_type, enabled, config, updated_at
		FROM channel_configs ORDER BY channel_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []*ChannelConfig
	for rows.Next() {
		c, err := scanChannelConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

// DeleteChannelConfig deletes a channel config by id. Returns sql.ErrNoRows
// when the entry does not exist.
func (d *Database) DeleteChannelConfig(id string) error {
	res, err := d.db.Exec("DELETE FROM channel_configs WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanChannelConfig(row rowScanner) (*ChannelConfig, error) {
	c := &ChannelConfig{}
	var config string
	err := row.Scan(&c.ID, &c.ChannelType, &c.Enabled, &config, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(config), &c.Config); err != nil {
		return nil, err
	}
	return c, nil
}

// SaveSetting saves or updates a setting
func (d *Database) SaveSetting(key, value string) error {
	_, err := d.db.Exec(`
		INSERT OR REPLACE INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)`, key, value, time.Now())
	return err
}

// GetSetting retrieves a setting by key. Returns "" without error when the
// key has never been set.
func (d *Database) GetSetting(key string) (string, error) {
	var value string
	err := d.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// DeleteSetting removes a setting by key
func (d *Database) DeleteSetting(key string) error {
	_, err := d.db.Exec("DELETE FROM settings WHERE key = ?", key)
	return err
}
