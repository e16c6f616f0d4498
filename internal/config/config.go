// Package config holds the settings of the nssync command: where the remote
// store is, where imported profiles go, and where exports are written.
package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/peterbourgon/ff/v3"
)

// EnvPrefix prefixes the environment variables read for every flag, e.g.
// NS_SYNC_URL for -url.
const EnvPrefix = "NS_SYNC"

const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

type Config struct {
	URL    string
	Secret string

	Store      string
	SQLitePath string
	MongoURI   string
	MongoDB    string

	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string

	LogLevel string
}

// LoadDefaults populates Config with local development defaults.
func (c *Config) LoadDefaults() {
	c.Store = StoreSQLite
	c.SQLitePath = "nssync.db"
	c.MongoURI = "mongodb://127.0.0.1:27017"
	c.MongoDB = "nssync"
	c.InfluxURL = "http://127.0.0.1:8086"
	c.InfluxOrg = "ns"
	c.InfluxBucket = "ns"
	c.LogLevel = "info"
}

// Register binds the fields to fs with the current values as defaults.
func (c *Config) Register(fs *flag.FlagSet) {
	fs.StringVar(&c.URL, "url", c.URL, "remote store base URL, e.g. https://my.nightscout.host")
	fs.StringVar(&c.Secret, "secret", c.Secret, "API secret of the remote store")
	fs.StringVar(&c.Store, "store", c.Store, "profile storage backend: sqlite or mongo")
	fs.StringVar(&c.SQLitePath, "sqlite-path", c.SQLitePath, "SQLite database file")
	fs.StringVar(&c.MongoURI, "mongo-uri", c.MongoURI, "MongoDB connection URI")
	fs.StringVar(&c.MongoDB, "mongo-db", c.MongoDB, "MongoDB database name")
	fs.StringVar(&c.InfluxURL, "influx-url", c.InfluxURL, "InfluxDB URL for exports")
	fs.StringVar(&c.InfluxToken, "influx-token", c.InfluxToken, "InfluxDB token")
	fs.StringVar(&c.InfluxOrg, "influx-org", c.InfluxOrg, "InfluxDB organization")
	fs.StringVar(&c.InfluxBucket, "influx-bucket", c.InfluxBucket, "InfluxDB bucket")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.String("config", "", "JSON config file")
}

// Options are the ff options shared by every parse of a registered flag
// set: environment variables, then an optional JSON file named by -config.
func Options() []ff.Option {
	return []ff.Option{
		ff.WithEnvVarPrefix(EnvPrefix),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.JSONParser),
	}
}

// Validate checks the fields every command needs.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("missing remote store URL (-url or %s_URL)", EnvPrefix)
	}
	switch c.Store {
	case StoreSQLite, StoreMongo:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	return nil
}

// NewFlagSet returns a Config holding the defaults and a flag set bound to
// it. Parsing the set with Options fills the Config.
func NewFlagSet(name string) (*Config, *flag.FlagSet) {
	cfg := &Config{}
	cfg.LoadDefaults()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cfg.Register(fs)
	return cfg, fs
}
