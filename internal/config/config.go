package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type BonusConfig struct {
	Env            string `yaml:"env"`
	HTTPServer     `yaml:"http_server"`
	BonusDB        `yaml:"bonus_db"`
	LogConfig      `yaml:"log_config"`
	BackendService `yaml:"backend-service"`
	KafkaService   `yaml:"kafka-service"`
	Engine         `yaml:"engine"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type BonusDB struct {
	Dsn string `yaml:"dsn"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type BackendService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type KafkaService struct {
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	Mechanism  string `yaml:"mechanism"`
	TLSEnabled bool   `yaml:"tls_enabled"`
}

type Engine struct {
	Timezone        string        `yaml:"timezone" env-default:"UTC"`
	DefaultCurrency string        `yaml:"default_currency" env-default:"USD"`
	RunInterval     time.Duration `yaml:"run_interval"`
	ConflictRetries int           `yaml:"conflict_retries" env-default:"3"`
	Companies       []string      `yaml:"companies"`
}

func MustLoad() *BonusConfig {

	// Processing env config variable and file
	configPath := os.Getenv("BONUS_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("BONUS_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg BonusConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
