package config

import (
	"github.com/spf13/viper"
)

// Config holds every environment-driven setting for the service.
type Config struct {
	ServerPort    string `mapstructure:"SERVER_PORT"`
	FrontendURL   string `mapstructure:"FRONTEND_URL"`
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	GeoAPIURL    string `mapstructure:"GEO_API_URL"`
	GeoUserAgent string `mapstructure:"GEO_USER_AGENT"`
	GeoViewbox   string `mapstructure:"GEO_VIEWBOX"`
	GeoRegion    string `mapstructure:"GEO_REGION"`

	SeedGovernmentEmail    string `mapstructure:"SEED_GOVERNMENT_EMAIL"`
	SeedGovernmentPassword string `mapstructure:"SEED_GOVERNMENT_PASSWORD"`

	// AllowReschedule lets the government re-schedule a collection that is
	// already SCHEDULED. Completed collections are never reopened.
	AllowReschedule bool `mapstructure:"COLLECTION_ALLOW_RESCHEDULE"`
}

// LoadConfig reads configuration from environment variables with sane
// defaults for local development.
func LoadConfig() (*Config, error) {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")
	viper.SetDefault("MONGO_DATABASE", "olia_rewards")
	viper.SetDefault("GEO_API_URL", "https://nominatim.openstreetmap.org/search")
	viper.SetDefault("GEO_USER_AGENT", "olia-rewards/1.0 (olia@example.com)")
	viper.SetDefault("GEO_VIEWBOX", "-35.05,-8.00,-34.80,-8.25")
	viper.SetDefault("GEO_REGION", "Recife, Pernambuco, Brasil")
	viper.SetDefault("SEED_GOVERNMENT_EMAIL", "governo@olia.com")
	viper.SetDefault("SEED_GOVERNMENT_PASSWORD", "admin123")
	viper.SetDefault("COLLECTION_ALLOW_RESCHEDULE", false)
	viper.AutomaticEnv()

	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("FRONTEND_URL")
	_ = viper.BindEnv("MONGO_URI")
	_ = viper.BindEnv("MONGO_DATABASE")
	_ = viper.BindEnv("GEO_API_URL")
	_ = viper.BindEnv("GEO_USER_AGENT")
	_ = viper.BindEnv("GEO_VIEWBOX")
	_ = viper.BindEnv("GEO_REGION")
	_ = viper.BindEnv("SEED_GOVERNMENT_EMAIL")
	_ = viper.BindEnv("SEED_GOVERNMENT_PASSWORD")
	_ = viper.BindEnv("COLLECTION_ALLOW_RESCHEDULE")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
