package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/travigo/journeyplanner/pkg/util"
	"gopkg.in/yaml.v3"
)

const EnvironmentPrefix = "JOURNEYPLANNER_"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Redis     RedisConfig     `yaml:"redis"`
	Planner   PlannerConfig   `yaml:"planner"`
	Ranker    RankerConfig    `yaml:"ranker"`
	Providers ProvidersConfig `yaml:"providers"`
}

type ServerConfig struct {
	Listen string `yaml:"listen" validate:"required"`
}

type LogConfig struct {
	Format string `yaml:"format" validate:"oneof=CONSOLE JSON"`
	Debug  bool   `yaml:"debug"`
}

type DatasetConfig struct {
	Format string `yaml:"format" validate:"oneof=file mongodb"`

	// Stops and Routes are file paths or http(s) URLs of the JSON dataset
	Stops  string `yaml:"stops" validate:"required_if=Format file"`
	Routes string `yaml:"routes" validate:"required_if=Format file"`

	MongoURI      string `yaml:"mongo_uri" validate:"required_if=Format mongodb"`
	MongoDatabase string `yaml:"mongo_database" validate:"required_if=Format mongodb"`
}

// RedisConfig with an empty Address disables result caching
type RedisConfig struct {
	Address    string   `yaml:"address"`
	Password   string   `yaml:"password"`
	Database   int      `yaml:"database" validate:"gte=0"`
	Expiration Duration `yaml:"expiration"`
}

type PlannerConfig struct {
	CloseThresholdMeters float64  `yaml:"close_threshold_meters" validate:"gt=0"`
	Locales              []string `yaml:"locales" validate:"min=1,dive,required"`
	PrimaryLocale        string   `yaml:"primary_locale"`
	BrowseLimit          int      `yaml:"browse_limit" validate:"gte=0"`
}

type RankerConfig struct {
	Limit  int    `yaml:"limit"`
	Filter string `yaml:"filter"`
}

type ProvidersConfig struct {
	// Timeout bounds the fan-out across every provider
	Timeout Duration      `yaml:"timeout"`
	TwoGIS  TwoGISConfig  `yaml:"twogis"`
	EasyWay EasyWayConfig `yaml:"easyway"`
}

type TwoGISConfig struct {
	Enabled bool     `yaml:"enabled"`
	BaseURL string   `yaml:"base_url" validate:"omitempty,url"`
	Key     string   `yaml:"key" validate:"required_if=Enabled true"`
	Locale  string   `yaml:"locale"`
	Timeout Duration `yaml:"timeout"`
	Retries int      `yaml:"retries" validate:"gte=0"`
	// Dedup picks how nearby path points collapse, "axis" or "haversine"
	Dedup string `yaml:"dedup" validate:"oneof=axis haversine"`
}

type EasyWayConfig struct {
	Enabled  bool     `yaml:"enabled"`
	BaseURL  string   `yaml:"base_url" validate:"omitempty,url"`
	City     string   `yaml:"city" validate:"required_if=Enabled true"`
	Language string   `yaml:"language" validate:"required_if=Enabled true"`
	Timeout  Duration `yaml:"timeout"`
	Retries  int      `yaml:"retries" validate:"gte=0"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{Listen: ":8080"},
		Log:    LogConfig{Format: "CONSOLE"},
		Dataset: DatasetConfig{
			Format: "file",
			Stops:  "data/stop.json",
			Routes: "data/route.json",
		},
		Redis: RedisConfig{Expiration: Duration{90 * time.Minute}},
		Planner: PlannerConfig{
			CloseThresholdMeters: 200,
			Locales:              []string{"ru", "en"},
			PrimaryLocale:        "ru",
			BrowseLimit:          50,
		},
		Ranker: RankerConfig{Limit: 5},
		Providers: ProvidersConfig{
			Timeout: Duration{15 * time.Second},
			TwoGIS: TwoGISConfig{
				BaseURL: "https://routing.api.2gis.com/public_transport/2.0",
				Locale:  "ru",
				Timeout: Duration{8 * time.Second},
				Retries: 2,
				Dedup:   "axis",
			},
			EasyWay: EasyWayConfig{
				BaseURL:  "https://kz.easyway.info",
				City:     "almaty",
				Language: "ru",
				Timeout:  Duration{8 * time.Second},
				Retries:  2,
			},
		},
	}
}

// Load reads the YAML file at path over the defaults, applies environment overrides and validates
// the result. An empty path only uses defaults and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "reading config")
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "parsing config")
		}
	}

	if err := cfg.applyEnvironment(util.GetPrefixedEnvironmentVariables(EnvironmentPrefix)); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &cfg, nil
}

func (c *Config) applyEnvironment(env map[string]string) error {
	stringValues := map[string]*string{
		"LISTEN":             &c.Server.Listen,
		"LOG_FORMAT":         &c.Log.Format,
		"DATASET_FORMAT":     &c.Dataset.Format,
		"DATASET_STOPS":      &c.Dataset.Stops,
		"DATASET_ROUTES":     &c.Dataset.Routes,
		"MONGODB_CONNECTION": &c.Dataset.MongoURI,
		"MONGODB_DATABASE":   &c.Dataset.MongoDatabase,
		"REDIS_ADDRESS":      &c.Redis.Address,
		"REDIS_PASSWORD":     &c.Redis.Password,
		"RANKER_FILTER":      &c.Ranker.Filter,
		"TWOGIS_KEY":         &c.Providers.TwoGIS.Key,
		"TWOGIS_BASE_URL":    &c.Providers.TwoGIS.BaseURL,
		"TWOGIS_DEDUP":       &c.Providers.TwoGIS.Dedup,
		"EASYWAY_BASE_URL":   &c.Providers.EasyWay.BaseURL,
		"EASYWAY_CITY":       &c.Providers.EasyWay.City,
	}
	for key, target := range stringValues {
		if value, ok := env[key]; ok && value != "" {
			*target = value
		}
	}

	if value := env["DEBUG"]; value != "" {
		c.Log.Debug = value == "YES" || value == "true"
	}

	if value := env["REDIS_DATABASE"]; value != "" {
		database, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrap(err, "parsing REDIS_DATABASE")
		}
		c.Redis.Database = database
	}

	if value := env["PLANNER_LOCALES"]; value != "" {
		c.Planner.Locales = splitList(value)
	}

	for key, target := range map[string]*bool{
		"TWOGIS_ENABLED":  &c.Providers.TwoGIS.Enabled,
		"EASYWAY_ENABLED": &c.Providers.EasyWay.Enabled,
	} {
		if value := env[key]; value != "" {
			enabled, err := strconv.ParseBool(value)
			if err != nil {
				return errors.Wrapf(err, "parsing %s", key)
			}
			*target = enabled
		}
	}

	if value := env["PROVIDERS_TIMEOUT"]; value != "" {
		timeout, err := ParseDuration(value)
		if err != nil {
			return err
		}
		c.Providers.Timeout = Duration{timeout}
	}

	return nil
}

func splitList(value string) []string {
	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
