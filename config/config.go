package config

import (
	"flag"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/vadiminshakov/corridormap/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	ModeTUI = "tui"
	ModeWeb = "web"

	SourceAPI  = "api"
	SourceFile = "file"

	defaultAddr            = ":8000"
	defaultAPIURL          = "http://localhost:8080"
	defaultWALDir          = "./wal/corridors"
	defaultRefreshInterval = 5 * time.Minute
	defaultRequestTimeout  = 15 * time.Second
	defaultLogFile         = "corridormap.log"
)

type Config struct {
	Mode            string
	Source          string
	APIURL          string
	CorridorsFile   string
	Period          domain.Period
	Addr            string
	Domains         []string
	CertCacheDir    string
	WALDir          string
	RefreshInterval time.Duration
	RequestTimeout  time.Duration
	PublicURL       string
	LogFile         string
	Debug           bool
	Setup           bool
}

// ConfigTmp raw yaml representation of Config.
type ConfigTmp struct {
	Mode            string        `yaml:"mode"`
	Source          string        `yaml:"source"`
	APIURL          string        `yaml:"api_url,omitempty"`
	CorridorsFile   string        `yaml:"corridors_file,omitempty"`
	Period          string        `yaml:"period,omitempty"`
	Addr            string        `yaml:"addr,omitempty"`
	Domains         []string      `yaml:"domains,omitempty"`
	CertCacheDir    string        `yaml:"cert_cache_dir,omitempty"`
	WALDir          string        `yaml:"wal_dir,omitempty"`
	RefreshInterval time.Duration `yaml:"refresh_interval,omitempty"`
	RequestTimeout  time.Duration `yaml:"request_timeout,omitempty"`
	PublicURL       string        `yaml:"public_url,omitempty"`
	LogFile         string        `yaml:"log_file,omitempty"`
}

// Get reads the configuration from a yaml file when --config is given,
// otherwise from command line flags.
func Get() (Config, error) {
	return parse(flag.CommandLine, os.Args[1:])
}

func parse(fs *flag.FlagSet, args []string) (Config, error) {
	configPath := fs.String("config", "", "path to yaml config")
	setup := fs.Bool("setup", false, "run the interactive configuration wizard")
	debug := fs.Bool("debug", false, "enable debug logging")
	mode := fs.String("mode", ModeTUI, "ui mode: tui or web")
	source := fs.String("source", SourceAPI, "corridor source: api or file")
	apiURL := fs.String("api-url", defaultAPIURL, "analytics API base url")
	corridorsFile := fs.String("corridors-file", "", "path to a json or yaml corridors export")
	period := fs.String("period", domain.DefaultPeriod.String(), "initial period: 24h, 7d or 30d")
	addr := fs.String("addr", defaultAddr, "dashboard listen address")
	domains := fs.String("domains", "", "comma separated domains for automatic TLS")
	certCache := fs.String("cert-cache-dir", "", "autocert cache directory")
	walDir := fs.String("wal-dir", defaultWALDir, "snapshot WAL directory")
	refresh := fs.Duration("refresh-interval", defaultRefreshInterval, "how often corridors are refreshed in web mode")
	timeout := fs.Duration("request-timeout", defaultRequestTimeout, "analytics API request timeout")
	publicURL := fs.String("public-url", "", "base url prefixed to corridor links")
	logFile := fs.String("log-file", defaultLogFile, "log file used in tui mode")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *configPath != "" {
		cfg, err := getYaml(*configPath)
		if err != nil {
			return Config{}, err
		}
		cfg.Debug = *debug
		cfg.Setup = *setup
		return cfg, nil
	}

	tmp := ConfigTmp{
		Mode:            *mode,
		Source:          *source,
		APIURL:          *apiURL,
		CorridorsFile:   *corridorsFile,
		Period:          *period,
		Addr:            *addr,
		Domains:         splitList(*domains),
		CertCacheDir:    *certCache,
		WALDir:          *walDir,
		RefreshInterval: *refresh,
		RequestTimeout:  *timeout,
		PublicURL:       *publicURL,
		LogFile:         *logFile,
	}
	cfg, err := tmp.toConfig()
	if err != nil {
		return Config{}, err
	}
	cfg.Debug = *debug
	cfg.Setup = *setup
	return cfg, nil
}

// Load reads a yaml config file, e.g. one produced by the setup wizard.
func Load(path string) (Config, error) {
	return getYaml(path)
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var tmp ConfigTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, err
	}
	return tmp.toConfig()
}

func (c ConfigTmp) toConfig() (Config, error) {
	cfg := Config{
		Mode:            strings.ToLower(c.Mode),
		Source:          strings.ToLower(c.Source),
		APIURL:          c.APIURL,
		CorridorsFile:   c.CorridorsFile,
		Addr:            c.Addr,
		Domains:         c.Domains,
		CertCacheDir:    c.CertCacheDir,
		WALDir:          c.WALDir,
		RefreshInterval: c.RefreshInterval,
		RequestTimeout:  c.RequestTimeout,
		PublicURL:       c.PublicURL,
		LogFile:         c.LogFile,
	}

	if cfg.Mode == "" {
		cfg.Mode = ModeTUI
	}
	if cfg.Mode != ModeTUI && cfg.Mode != ModeWeb {
		return Config{}, fmt.Errorf("incorrect 'mode' param: %s (must be %s or %s)", c.Mode, ModeTUI, ModeWeb)
	}

	if cfg.Source == "" {
		cfg.Source = SourceAPI
	}
	switch cfg.Source {
	case SourceAPI:
		if cfg.APIURL == "" {
			return Config{}, fmt.Errorf("'api_url' param is required for the api source")
		}
	case SourceFile:
		if cfg.CorridorsFile == "" {
			return Config{}, fmt.Errorf("'corridors_file' param is required for the file source")
		}
	default:
		return Config{}, fmt.Errorf("incorrect 'source' param: %s (must be %s or %s)", c.Source, SourceAPI, SourceFile)
	}

	cfg.Period = domain.DefaultPeriod
	if c.Period != "" {
		period, err := domain.ParsePeriod(c.Period)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'period' param, error: %w", err)
		}
		cfg.Period = period
	}

	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.Mode == ModeWeb && cfg.Source == SourceAPI && pollsItself(cfg.APIURL, cfg.Addr) {
		return Config{}, fmt.Errorf("'api_url' %s points at the dashboard itself (addr %s)", cfg.APIURL, cfg.Addr)
	}
	if cfg.WALDir == "" {
		cfg.WALDir = defaultWALDir
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = defaultRefreshInterval
	}
	if cfg.RefreshInterval < 0 {
		return Config{}, fmt.Errorf("incorrect 'refresh_interval' param: %s", cfg.RefreshInterval)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogFile
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// pollsItself reports whether apiURL is served by a local listener on addr.
func pollsItself(apiURL, addr string) bool {
	u, err := url.Parse(apiURL)
	if err != nil {
		return false
	}
	_, listenPort, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}

	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		default:
			port = "80"
		}
	}
	if port != listenPort {
		return false
	}

	switch host := u.Hostname(); host {
	case "localhost", "127.0.0.1", "::1", "0.0.0.0":
		return true
	default:
		return false
	}
}
