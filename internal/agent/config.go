package agent

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sentineledge/hostreport/internal/communicator"
	"github.com/sentineledge/hostreport/internal/executor"
	"github.com/sentineledge/hostreport/internal/report"
	"github.com/sentineledge/hostreport/internal/system"
)

const envPrefix = "HOSTREPORT"

type Config struct {
	WebhookURL        string
	IPLookupURL       string
	ExpectedStatus    int
	RequestTimeout    time.Duration
	CommandTimeout    time.Duration
	CPUSampleInterval time.Duration
	Title             string
	Username          string
	DryRun            bool
	LogLevel          string
}

var ErrMissingWebhookURL = errors.New("webhook_url is required unless dry_run is set")

// BindFlags registers the command line flags read by LoadConfig.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a config file (default ./hostreport.yaml if present)")
	fs.String("webhook-url", "", "Webhook the report is posted to")
	fs.String("ip-lookup-url", communicator.DefaultIPLookupURL, "JSON service answering {\"ip\": ...}")
	fs.Int("expected-status", communicator.DefaultExpectedStatus, "Webhook status code that means success")
	fs.Duration("request-timeout", communicator.DefaultTimeout, "Timeout for each outbound HTTP request")
	fs.Duration("command-timeout", executor.DefaultTimeout, "Timeout for each enumeration command")
	fs.Duration("cpu-sample-interval", system.DefaultCPUSampleInterval, "How long CPU utilisation is sampled")
	fs.String("title", report.DefaultTitle, "Embed title")
	fs.String("username", "", "Override the webhook's display name")
	fs.Bool("dry-run", false, "Print the message instead of sending it")
	fs.String("log-level", "info", "Log level: debug, info, error")
}

// LoadConfig merges, from highest precedence: flags set on fs, HOSTREPORT_*
// environment variables, the config file, defaults.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	for _, name := range []string{
		"webhook-url", "ip-lookup-url", "expected-status", "request-timeout",
		"command-timeout", "cpu-sample-interval", "title", "username",
		"dry-run", "log-level",
	} {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(strings.ReplaceAll(name, "-", "_"), f); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("ip_lookup_url", communicator.DefaultIPLookupURL)
	v.SetDefault("expected_status", communicator.DefaultExpectedStatus)
	v.SetDefault("request_timeout", communicator.DefaultTimeout)
	v.SetDefault("command_timeout", executor.DefaultTimeout)
	v.SetDefault("cpu_sample_interval", system.DefaultCPUSampleInterval)
	v.SetDefault("title", report.DefaultTitle)
	v.SetDefault("log_level", "info")

	path := ""
	if f := fs.Lookup("config"); f != nil {
		path = f.Value.String()
	}
	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}

	cfg := &Config{
		WebhookURL:        strings.TrimSpace(v.GetString("webhook_url")),
		IPLookupURL:       strings.TrimSpace(v.GetString("ip_lookup_url")),
		ExpectedStatus:    v.GetInt("expected_status"),
		RequestTimeout:    v.GetDuration("request_timeout"),
		CommandTimeout:    v.GetDuration("command_timeout"),
		CPUSampleInterval: v.GetDuration("cpu_sample_interval"),
		Title:             v.GetString("title"),
		Username:          v.GetString("username"),
		DryRun:            v.GetBool("dry_run"),
		LogLevel:          strings.ToLower(v.GetString("log_level")),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("hostreport")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.WebhookURL == "" {
		if !c.DryRun {
			return ErrMissingWebhookURL
		}
	} else if err := validateURL("webhook_url", c.WebhookURL); err != nil {
		return err
	}
	if err := validateURL("ip_lookup_url", c.IPLookupURL); err != nil {
		return err
	}
	if c.ExpectedStatus < 100 || c.ExpectedStatus > 599 {
		return fmt.Errorf("expected_status %d is not an HTTP status code", c.ExpectedStatus)
	}
	if c.RequestTimeout <= 0 || c.CommandTimeout <= 0 || c.CPUSampleInterval <= 0 {
		return errors.New("timeouts and cpu_sample_interval must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

func validateURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL", key)
	}
	return nil
}
