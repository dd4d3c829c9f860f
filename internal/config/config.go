package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const envPrefix = "CONFBOX"

type Config struct {
	Mode       string        `mapstructure:"mode" validate:"oneof=debug release test"`
	Port       int           `mapstructure:"port" validate:"min=1,max=65535"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit" validate:"gt=0"`
	PingPeriod time.Duration `mapstructure:"ping_period" validate:"gt=0"`
	Secret     string        `mapstructure:"secret" validate:"required"`
	LogLevel   string        `mapstructure:"log_level" validate:"oneof=trace debug info warn error"`

	// conference
	SignalingURL     string `mapstructure:"signaling_url" validate:"required,url"`
	Room             string `mapstructure:"room" validate:"required,contains=@"`
	LocalURI         string `mapstructure:"local_uri" validate:"required,contains=@"`
	LocalDisplayName string `mapstructure:"local_display_name" validate:"max=64"`
	PublicURL        string `mapstructure:"public_url" validate:"required,url"`
	GuestDomain      string `mapstructure:"guest_domain"`

	// session
	OverlayTimeout   time.Duration `mapstructure:"overlay_timeout" validate:"gt=0"`
	DurationTick     time.Duration `mapstructure:"duration_tick" validate:"gt=0"`
	ScaleLocalVideo  bool          `mapstructure:"scale_local_video"`
	NotificationIcon string        `mapstructure:"notification_icon"`

	// local media feeds, RTP over UDP; empty disables the feed
	AudioRTPAddr string `mapstructure:"audio_rtp_addr" validate:"omitempty,hostname_port"`
	VideoRTPAddr string `mapstructure:"video_rtp_addr" validate:"omitempty,hostname_port"`

	// rendering commands allowed per client and interval
	CommandRateLimit    int           `mapstructure:"command_rate_limit" validate:"min=1"`
	CommandRateInterval time.Duration `mapstructure:"command_rate_interval" validate:"gt=0"`
}

// Load reads config/config.<env>.yaml. An empty env falls back to
// CONFIG_ENV, then to "dev". A .env file, when present, is loaded first.
func Load(env string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Str("module", "config").Msg(".env not loaded")
	}
	if env == "" {
		env = os.Getenv("CONFIG_ENV")
	}
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

// LoadFile reads fileName on top of the defaults and the CONFBOX_* environment.
// A missing file is not an error.
func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("room", cfg.Room).Msg("config ready")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", "confbox-dev-secret")
	v.SetDefault("log_level", "info")

	v.SetDefault("signaling_url", "ws://localhost:8088/ws")
	v.SetDefault("room", "lobby@conference.example.com")
	v.SetDefault("local_uri", "me@example.com")
	v.SetDefault("local_display_name", "")
	v.SetDefault("public_url", "http://localhost:8080")
	v.SetDefault("guest_domain", "guest.example.com")

	v.SetDefault("overlay_timeout", "4s")
	v.SetDefault("duration_tick", "300ms")
	v.SetDefault("scale_local_video", false)
	v.SetDefault("notification_icon", "assets/images/blink-48.png")
	v.SetDefault("audio_rtp_addr", "")
	v.SetDefault("video_rtp_addr", "")

	v.SetDefault("command_rate_limit", 20)
	v.SetDefault("command_rate_interval", "1s")
}
