package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	CodeSourceClient = "client"
	CodeSourceServer = "server"
)

type Config struct {
	LogLevel   string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string    `yaml:"socket-port" env:"SOCKET_PORT" env-default:"7777"`
	Redis      Redis     `yaml:"redis"`
	Rooms      Rooms     `yaml:"rooms"`
	WebSocket  WebSocket `yaml:"websocket"`
}

type Redis struct {
	Enabled bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	TTL     time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"1h"`
}

type Rooms struct {
	// CodeSource - "client" uses a client supplied code when present, "server" always generates.
	CodeSource       string `yaml:"code-source" env:"ROOMS_CODE_SOURCE" env-default:"client"`
	GenerateAttempts int    `yaml:"generate-attempts" env:"ROOMS_GENERATE_ATTEMPTS" env-default:"10"`
}

type WebSocket struct {
	AllowedOrigins []string      `yaml:"allowed-origins" env:"WS_ALLOWED_ORIGINS" env-separator:","`
	SendBuffer     int           `yaml:"send-buffer" env-default:"64"`
	PingPeriod     time.Duration `yaml:"ping-period" env-default:"30s"`
	PongWait       time.Duration `yaml:"pong-wait" env-default:"60s"`
	WriteWait      time.Duration `yaml:"write-wait" env-default:"10s"`
	MaxMessageSize int64         `yaml:"max-message-size" env-default:"4096"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func (that *Config) validate() error {
	switch that.Rooms.CodeSource {
	case CodeSourceClient, CodeSourceServer:
	default:
		return fmt.Errorf("rooms.code-source must be %q or %q, got %q",
			CodeSourceClient, CodeSourceServer, that.Rooms.CodeSource)
	}

	if that.Rooms.GenerateAttempts < 1 {
		return fmt.Errorf("rooms.generate-attempts must be positive, got %d", that.Rooms.GenerateAttempts)
	}

	if that.WebSocket.SendBuffer < 1 {
		return fmt.Errorf("websocket.send-buffer must be positive, got %d", that.WebSocket.SendBuffer)
	}

	if that.WebSocket.PingPeriod >= that.WebSocket.PongWait {
		return fmt.Errorf("websocket.ping-period (%s) must be shorter than pong-wait (%s)",
			that.WebSocket.PingPeriod, that.WebSocket.PongWait)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
