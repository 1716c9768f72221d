package config

import (
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/library-lending/pkg/auth"
	"github.com/Astemirdum/library-lending/pkg/kafka"
	"github.com/Astemirdum/library-lending/pkg/logger"
	"github.com/Astemirdum/library-lending/pkg/mongodb"
	"github.com/Astemirdum/library-lending/pkg/postgres"
	"github.com/Astemirdum/library-lending/pkg/serializer"
	"github.com/Astemirdum/library-lending/pkg/storage"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"

	EnvProduction = "production"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LENDING_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"LENDING_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE"`
}

type Config struct {
	Server        HTTPServer `yaml:"server"`
	AppEnv        string     `envconfig:"APP_ENV" default:"development"`
	StorageDriver string     `envconfig:"STORAGE_DRIVER" default:"postgres"`
	Database      postgres.DB
	Mongo         mongodb.Config
	Kafka         kafka.Config
	Auth          auth.Config
	S3            storage.Config
	Log           logger.Log `yaml:"log"`
}

func (c Config) Production() bool {
	return c.AppEnv == EnvProduction
}

// Validate rejects settings that must not reach production.
func (c Config) Validate() error {
	if c.Auth.Secret == "" {
		return errors.New("JWT_SECRET is empty")
	}
	if c.Production() && c.Auth.Secret == auth.DefaultSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	switch c.StorageDriver {
	case DriverPostgres, DriverMongo:
	default:
		return errors.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return &cfg
}

func printConfig(cfg Config) {
	cfg.Database.Password = "***"
	cfg.Auth.Secret = "***"
	cfg.S3.SecretAccessKey = "***"
	jscfg, _ := serializer.MarshalIndent(cfg) //nolint:errcheck
	log.Println(string(jscfg))
}
