package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Postgres struct {
		Host            string        `env:"POSTGRES_HOST" envDefault:"localhost"`
		Port            int           `env:"POSTGRES_PORT" envDefault:"5432"`
		User            string        `env:"POSTGRES_USER" envDefault:"postgres"`
		Password        string        `env:"POSTGRES_PASSWORD" envDefault:""`
		Database        string        `env:"POSTGRES_DB" envDefault:"broadcast"`
		SSLMode         string        `env:"POSTGRES_SSLMODE" envDefault:"disable"`
		MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"25"`
		MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"5"`
		ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" envDefault:"30m"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Auth struct {
		JWTSecret       string        `env:"JWT_SECRET,required,notEmpty"`
		AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
		RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`
	}

	Telegram struct {
		BotToken string `env:"BOT_TOKEN" envDefault:""`
	}

	Playlist struct {
		// Path to the flat playlist file shared with the streamer.
		Path      string `env:"PLAYLIST_PATH" envDefault:"/app/data/playlist.txt"`
		MaxTracks int    `env:"PLAYLIST_MAX_TRACKS" envDefault:"500"`
	}

	Stream struct {
		// Overall deadline for start/stop/restart commands. The admin
		// dashboard expects control responses under 3 seconds.
		CommandTimeout time.Duration `env:"STREAM_COMMAND_TIMEOUT" envDefault:"2500ms"`
		PollInterval   time.Duration `env:"STREAM_POLL_INTERVAL" envDefault:"200ms"`
	}

	Recovery struct {
		Enabled        bool          `env:"RECOVERY_ENABLED" envDefault:"true"`
		CheckInterval  time.Duration `env:"RECOVERY_CHECK_INTERVAL" envDefault:"5s"`
		HeartbeatGrace time.Duration `env:"RECOVERY_HEARTBEAT_GRACE" envDefault:"15s"`
		BackoffBase    time.Duration `env:"RECOVERY_BACKOFF_BASE" envDefault:"5s"`
		BackoffMax     time.Duration `env:"RECOVERY_BACKOFF_MAX" envDefault:"80s"`
		MaxRetries     int           `env:"RECOVERY_MAX_RETRIES" envDefault:"5"`
	}
}

func Load() *Config {
	// A missing .env file is fine; in production the variables are set
	// directly in the environment.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}

// RedisAddr returns the host:port address for the Redis client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// PostgresDSN builds the lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Postgres.Host, c.Postgres.Port, c.Postgres.User,
		c.Postgres.Password, c.Postgres.Database, c.Postgres.SSLMode)
}
