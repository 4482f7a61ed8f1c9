package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Providers struct {
		Places struct {
			RadiusMeters      uint          `mapstructure:"radiusMeters"`
			ResultLimit       int           `mapstructure:"resultLimit"`
			RequestsPerSecond float64       `mapstructure:"requestsPerSecond"`
			Timeout           time.Duration `mapstructure:"timeout"`
		} `mapstructure:"places"`
		Gemini struct {
			Model       string        `mapstructure:"model"`
			Temperature float64       `mapstructure:"temperature"`
			Timeout     time.Duration `mapstructure:"timeout"`
		} `mapstructure:"gemini"`
	} `mapstructure:"providers"`
	Cache struct {
		TripTTL         time.Duration `mapstructure:"tripTTL"`
		CleanupInterval time.Duration `mapstructure:"cleanupInterval"`
	} `mapstructure:"cache"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	return config, nil
}
