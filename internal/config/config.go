package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

var ErrInvalidPongWait = errors.New("websocket pong-wait must be positive")

type Config struct {
	LogLevel       string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort       string    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort     string    `yaml:"socket-port" env:"SOCKET_PORT" env-default:"3000"`
	AllowedOrigins []string  `yaml:"allowed-origins" env:"ALLOWED_ORIGINS" env-separator:","`
	Game           Game      `yaml:"game"`
	Websocket      Websocket `yaml:"websocket"`
	Redis          Redis     `yaml:"redis"`
}

type Game struct {
	// Seed fixes the starting-turn choice; 0 seeds from the clock.
	Seed      int64 `yaml:"seed" env:"GAME_SEED" env-default:"0"`
	QueueSize int   `yaml:"queue-size" env:"GAME_QUEUE_SIZE" env-default:"64"`
}

type Websocket struct {
	WriteWait      time.Duration `yaml:"write-wait" env:"WS_WRITE_WAIT" env-default:"10s"`
	PongWait       time.Duration `yaml:"pong-wait" env:"WS_PONG_WAIT" env-default:"60s"`
	MaxMessageSize int64         `yaml:"max-message-size" env:"WS_MAX_MESSAGE_SIZE" env-default:"512"`
	SendBuffer     int           `yaml:"send-buffer" env:"WS_SEND_BUFFER" env-default:"64"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Channel string `yaml:"channel" env:"REDIS_CHANNEL" env-default:"tictactoe:events"`
}

// MustLoad - load configuration from the yml file at path, overridden by the environment.
// A missing file falls back to the environment alone.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	if config.Websocket.PingPeriod() <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidPongWait, config.Websocket.PongWait)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// PingPeriod - interval between server pings, shorter than the pong deadline.
func (that *Websocket) PingPeriod() time.Duration {
	return that.PongWait * 9 / 10
}
