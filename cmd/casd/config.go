package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	goCAS "github.com/MrEthical07/goCAS"
	"github.com/MrEthical07/goCAS/gateway"
	"github.com/MrEthical07/goCAS/store"
	"github.com/spf13/viper"
)

// settings is the daemon configuration as read from YAML and CAS_* variables.
type settings struct {
	HTTP               httpSettings      `mapstructure:"http"`
	Redis              redisSettings     `mapstructure:"redis"`
	Cookie             cookieSettings    `mapstructure:"cookie"`
	LoginPageURL       string            `mapstructure:"login_page_url"`
	AllowedReturnHosts []string          `mapstructure:"allowed_return_hosts"`
	CORS               corsSettings      `mapstructure:"cors"`
	Tickets            ticketSettings    `mapstructure:"tickets"`
	Logout             logoutSettings    `mapstructure:"logout"`
	Store              storeSettings     `mapstructure:"store"`
	Directory          directorySettings `mapstructure:"directory"`
	Log                logSettings       `mapstructure:"log"`
	Metrics            metricsSettings   `mapstructure:"metrics"`
}

type httpSettings struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type redisSettings struct {
	URL    string `mapstructure:"url"`
	Memory bool   `mapstructure:"memory"`
}

type cookieSettings struct {
	Name     string `mapstructure:"name"`
	Domain   string `mapstructure:"domain"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site"`
}

type corsSettings struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type ticketSettings struct {
	TemporaryTTL time.Duration `mapstructure:"temporary_ttl"`
	GlobalTTL    time.Duration `mapstructure:"global_ttl"`
	Sliding      bool          `mapstructure:"sliding"`
}

type logoutSettings struct {
	RequireOwnership bool `mapstructure:"require_ownership"`
}

type storeSettings struct {
	Namespace              string `mapstructure:"namespace"`
	ConsumeMode            string `mapstructure:"consume_mode"`
	AllowBestEffortConsume bool   `mapstructure:"allow_best_effort_consume"`
}

type directorySettings struct {
	File string `mapstructure:"file"`
}

type logSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type metricsSettings struct {
	Enabled bool `mapstructure:"enabled"`
}

// loadSettings reads cfgFile when given, else an optional casd.yaml in the
// working directory, and overlays CAS_* environment variables.
func loadSettings(cfgFile string) (settings, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("casd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/casd")
	}

	v.SetEnvPrefix("CAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return settings{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return settings{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	return s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.memory", false)

	v.SetDefault("cookie.name", "cookie_user_ticket")
	v.SetDefault("cookie.domain", "")
	v.SetDefault("cookie.secure", false)
	v.SetDefault("cookie.same_site", "lax")

	v.SetDefault("login_page_url", "http://localhost:8080/login.html")
	v.SetDefault("allowed_return_hosts", []string{})
	v.SetDefault("cors.allowed_origins", []string{})

	v.SetDefault("tickets.temporary_ttl", goCAS.DefaultTemporaryTicketTTL)
	v.SetDefault("tickets.global_ttl", time.Duration(0))
	v.SetDefault("tickets.sliding", false)

	v.SetDefault("logout.require_ownership", false)

	v.SetDefault("store.namespace", "")
	v.SetDefault("store.consume_mode", "getdel")
	v.SetDefault("store.allow_best_effort_consume", false)

	v.SetDefault("directory.file", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("metrics.enabled", true)
}

func (s settings) authorityConfig() (goCAS.Config, error) {
	mode, err := store.ParseConsumeMode(s.Store.ConsumeMode)
	if err != nil {
		return goCAS.Config{}, err
	}

	cfg := goCAS.DefaultConfig()
	cfg.Tickets.TemporaryTTL = s.Tickets.TemporaryTTL
	cfg.Tickets.GlobalTicketTTL = s.Tickets.GlobalTTL
	cfg.Tickets.SlidingGlobalTTL = s.Tickets.Sliding
	cfg.Logout.RequireTicketOwnership = s.Logout.RequireOwnership
	cfg.Store.KeyNamespace = s.Store.Namespace
	cfg.Store.ConsumeMode = mode
	cfg.Store.AllowBestEffortConsume = s.Store.AllowBestEffortConsume
	cfg.Metrics.Enabled = s.Metrics.Enabled
	cfg.Metrics.EnableLatencyHistograms = s.Metrics.Enabled

	if err := cfg.Validate(); err != nil {
		return goCAS.Config{}, err
	}
	return cfg, nil
}

func (s settings) gatewayConfig() (gateway.Config, error) {
	sameSite, err := gateway.ParseSameSite(s.Cookie.SameSite)
	if err != nil {
		return gateway.Config{}, err
	}

	cfg := gateway.Config{
		CookieName:         s.Cookie.Name,
		CookieDomain:       s.Cookie.Domain,
		CookieSecure:       s.Cookie.Secure,
		CookieSameSite:     sameSite,
		LoginPageURL:       s.LoginPageURL,
		AllowedReturnHosts: s.AllowedReturnHosts,
		AllowedOrigins:     s.CORS.AllowedOrigins,
	}
	if err := cfg.Validate(); err != nil {
		return gateway.Config{}, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("log.format: unknown format %q", format)
	}
}
