package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAPIBaseURL is the hosted backend the web client talks to.
const DefaultAPIBaseURL = "https://bookreviewsbackend.onrender.com/api"

// Config is the resolved client configuration.
type Config struct {
	APIBaseURL        string
	StatePath         string
	LogLevel          string
	RabbitMQURL       string
	EventsExchange    string
	ResetPageOnFilter bool
	StubAddr          string
	StubJWTSecret     string
}

// New returns a viper instance with defaults and BOOKREVIEW_* env binding.
// A .env file in the working directory is loaded first when present.
func New() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("api_base_url", DefaultAPIBaseURL)
	v.SetDefault("state_path", defaultStatePath())
	v.SetDefault("log_level", "info")
	v.SetDefault("rabbitmq_url", "")
	v.SetDefault("events_exchange", "bookreview.events")
	v.SetDefault("reset_page_on_filter", false)
	v.SetDefault("stub_addr", ":8080")
	v.SetDefault("stub_jwt_secret", "stub_jwt_secret")

	v.SetEnvPrefix("BOOKREVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads an optional config file and resolves the final values.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	return &Config{
		APIBaseURL:        strings.TrimRight(v.GetString("api_base_url"), "/"),
		StatePath:         v.GetString("state_path"),
		LogLevel:          v.GetString("log_level"),
		RabbitMQURL:       v.GetString("rabbitmq_url"),
		EventsExchange:    v.GetString("events_exchange"),
		ResetPageOnFilter: v.GetBool("reset_page_on_filter"),
		StubAddr:          v.GetString("stub_addr"),
		StubJWTSecret:     v.GetString("stub_jwt_secret"),
	}, nil
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "bookreview", "state.db")
}
