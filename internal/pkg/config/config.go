package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/samirrijal/campusmap/internal/core/domain"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Store     StoreConfig     `mapstructure:"store"`
	SQLite    SQLiteConfig    `mapstructure:"sqlite"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	S3        S3Config        `mapstructure:"s3"`
	Events    EventsConfig    `mapstructure:"events"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Seeds     SeedsConfig     `mapstructure:"seeds"`
	Map       MapConfig       `mapstructure:"map"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Slot store backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendValkey   = "valkey"
	BackendS3       = "s3"
)

// StoreConfig selects where the place list and first-run flag live.
type StoreConfig struct {
	Backend   string `mapstructure:"backend"`
	PlacesKey string `mapstructure:"places_key"`
	FlagKey   string `mapstructure:"flag_key"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// Event brokers.
const (
	EventsNone  = "none"
	EventsNATS  = "nats"
	EventsKafka = "kafka"
)

type EventsConfig struct {
	Driver string `mapstructure:"driver"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// SeedsConfig picks the built-in seed set. A non-empty Places list replaces
// the named variant entirely.
type SeedsConfig struct {
	Variant string         `mapstructure:"variant"`
	Places  []domain.Place `mapstructure:"places"`
}

// SeedSet resolves the configured seed set and validates it.
func (s SeedsConfig) SeedSet() (domain.SeedSet, error) {
	var set domain.SeedSet
	if len(s.Places) > 0 {
		set = domain.SeedSet{Name: "custom", Places: s.Places}
	} else {
		var err error
		set, err = domain.LookupSeedSet(s.Variant)
		if err != nil {
			return domain.SeedSet{}, err
		}
	}
	if err := set.Validate(); err != nil {
		return domain.SeedSet{}, err
	}
	return set, nil
}

type MapConfig struct {
	CenterLat       float64 `mapstructure:"center_lat"`
	CenterLon       float64 `mapstructure:"center_lon"`
	Zoom            float64 `mapstructure:"zoom"`
	FocusZoom       float64 `mapstructure:"focus_zoom"`
	HighlightRadius float64 `mapstructure:"highlight_radius"`
}

// View converts the map settings into the domain value handed to clients.
func (m MapConfig) View() domain.MapView {
	return domain.MapView{
		Center:          domain.GeoPoint{Lat: m.CenterLat, Lon: m.CenterLon},
		Zoom:            m.Zoom,
		FocusZoom:       m.FocusZoom,
		HighlightRadius: m.HighlightRadius,
	}
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	OTLPAddr    string `mapstructure:"otlp_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from .env, an optional config file, and
// environment variables.
func Load(service string) (*Config, error) {
	_ = godotenv.Load() // OK if missing

	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("store.backend", BackendSQLite)
	v.SetDefault("store.places_key", "places_list")
	v.SetDefault("store.flag_key", "campus_initialized")
	v.SetDefault("sqlite.path", "data/campusmap.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "campusmap")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "campusmap")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("s3.endpoint", "localhost:9000")
	v.SetDefault("s3.bucket", "campusmap")
	v.SetDefault("s3.prefix", "slots/")
	v.SetDefault("s3.use_ssl", false)
	v.SetDefault("events.driver", EventsNone)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "campusmap.places")
	v.SetDefault("seeds.variant", domain.DefaultSeedVariant)
	v.SetDefault("map.center_lat", 19.24914)
	v.SetDefault("map.center_lon", -103.69740)
	v.SetDefault("map.zoom", 16.0)
	v.SetDefault("map.focus_zoom", 18.0)
	v.SetDefault("map.highlight_radius", 30.0)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_addr", "localhost:4317")
	v.SetDefault("telemetry.enabled", false)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: CAMPUSMAP_STORE_BACKEND → store.backend
	v.SetEnvPrefix("CAMPUSMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Store.PlacesKey == "" || c.Store.FlagKey == "" {
		errs = append(errs, "store.places_key and store.flag_key are required")
	} else if c.Store.PlacesKey == c.Store.FlagKey {
		errs = append(errs, "store.places_key and store.flag_key must differ")
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLite.Path == "" {
			errs = append(errs, "sqlite.path is required")
		}
	case BackendPostgres:
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
	case BackendValkey:
		if c.Valkey.Addr == "" {
			errs = append(errs, "valkey.addr is required")
		}
	case BackendS3:
		if c.S3.Endpoint == "" || c.S3.Bucket == "" {
			errs = append(errs, "s3.endpoint and s3.bucket are required")
		}
		if c.S3.AccessKey == "" || c.S3.SecretKey == "" {
			errs = append(errs, "s3.access_key and s3.secret_key are required")
		}
	default:
		errs = append(errs, fmt.Sprintf("store.backend must be one of memory, sqlite, postgres, valkey, s3, got %q", c.Store.Backend))
	}

	switch c.Events.Driver {
	case EventsNone:
	case EventsNATS:
		if c.NATS.URL == "" {
			errs = append(errs, "nats.url is required")
		}
	case EventsKafka:
		if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
			errs = append(errs, "kafka.brokers and kafka.topic are required")
		}
	default:
		errs = append(errs, fmt.Sprintf("events.driver must be one of none, nats, kafka, got %q", c.Events.Driver))
	}

	if _, err := c.Seeds.SeedSet(); err != nil {
		errs = append(errs, "seeds: "+err.Error())
	}
	if !c.Map.View().Center.Valid() {
		errs = append(errs, "map center is out of range")
	}
	if c.Map.HighlightRadius <= 0 {
		errs = append(errs, "map.highlight_radius must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
