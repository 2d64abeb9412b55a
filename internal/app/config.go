package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"index-signals/internal/model"
	"index-signals/internal/saver"
)

// ErrConfig marks configuration errors. They are reported before any symbol is fetched.
var ErrConfig = errors.New("invalid configuration")

// StdoutOutput writes the CSV dataset to stdout instead of a file.
const StdoutOutput = "-"

// Config holds application configuration from env (and CLI flags).
type Config struct {
	DataProvider   string         `default:"yahoo" validate:"oneof=yahoo polygon"`
	SymbolsFile    string
	Symbols        []model.Symbol `validate:"required,min=1,dive"`
	StartDate      string         `default:"2020-01-01" validate:"required,datetime=2006-01-02"`
	FastSpan       int            `default:"8" validate:"gte=1,ltfield=SlowSpan"`
	SlowSpan       int            `default:"21" validate:"gte=1"`
	Output         string         `default:"dataset.csv" validate:"required"`
	SaveFormat     string         `validate:"omitempty,oneof=csv json parquet"`
	LogLevel       string         `default:"info" validate:"oneof=debug info warn warning error"`
	ReportDir      string
	PolygonAPIKeys []string `validate:"required_if=DataProvider polygon"`
	PolygonBaseURL string
	FetchRetries   int `default:"3" validate:"gte=0"`
	Workers        int `validate:"gte=0"`
	BarsDir        string
}

// DefaultSymbols are the four US indices charted by the dashboard.
func DefaultSymbols() []model.Symbol {
	return []model.Symbol{
		{Ticker: "^GSPC", Name: "S&P 500"},
		{Ticker: "^DJI", Name: "Dow Jones Industrial"},
		{Ticker: "^IXIC", Name: "Nasdaq Composite"},
		{Ticker: "^RUT", Name: "Russell 2000"},
	}
}

// LoadConfig reads config from environment on top of defaults.
// It does not validate; call Validate after applying flag overrides.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	cfg.DataProvider = getEnv("DATA_PROVIDER", cfg.DataProvider)
	cfg.SymbolsFile = os.Getenv("SYMBOLS_FILE")
	cfg.StartDate = getEnv("START_DATE", cfg.StartDate)
	cfg.Output = getEnv("OUTPUT", cfg.Output)
	cfg.SaveFormat = os.Getenv("SAVE_FORMAT")
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.ReportDir = os.Getenv("REPORT_DIR")
	cfg.PolygonAPIKeys = parsePolygonAPIKeys()
	cfg.PolygonBaseURL = os.Getenv("POLYGON_BASE_URL")
	cfg.BarsDir = os.Getenv("BARS_DIR")

	for _, v := range []struct {
		key string
		dst *int
	}{
		{"FAST_SPAN", &cfg.FastSpan},
		{"SLOW_SPAN", &cfg.SlowSpan},
		{"FETCH_RETRIES", &cfg.FetchRetries},
		{"WORKERS", &cfg.Workers},
	} {
		s := os.Getenv(v.key)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not an integer", ErrConfig, v.key, s)
		}
		*v.dst = n
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize lowercases the enumerated settings. Call it again after
// overriding fields from flags.
func (c *Config) Normalize() {
	c.DataProvider = strings.ToLower(strings.TrimSpace(c.DataProvider))
	c.SaveFormat = strings.ToLower(strings.TrimSpace(c.SaveFormat))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
}

// ResolveSymbols loads SymbolsFile when set, otherwise falls back to DefaultSymbols.
func (c *Config) ResolveSymbols() error {
	if len(c.Symbols) > 0 {
		return nil
	}
	if c.SymbolsFile == "" {
		c.Symbols = DefaultSymbols()
		return nil
	}
	syms, err := LoadSymbolsFile(c.SymbolsFile)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	c.Symbols = syms
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate fails fast on anything that would make the run meaningless.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			return fmt.Errorf("%w: %s", ErrConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}

	seen := make(map[string]bool, len(c.Symbols))
	for _, s := range c.Symbols {
		if seen[s.Ticker] {
			return fmt.Errorf("%w: duplicate ticker %q", ErrConfig, s.Ticker)
		}
		seen[s.Ticker] = true
	}

	start, _ := c.Start()
	if start.After(time.Now().UTC()) {
		return fmt.Errorf("%w: start date %s is in the future", ErrConfig, c.StartDate)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "ltfield":
		return fmt.Sprintf("%s (%v) must be less than %s", fe.Field(), fe.Value(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "datetime":
		return fmt.Sprintf("%s must be a date YYYY-MM-DD, got %q", fe.Field(), fe.Value())
	case "required_if":
		return fmt.Sprintf("%s is required for %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
	}
}

// Start parses StartDate.
func (c *Config) Start() (time.Time, error) {
	return time.ParseInLocation(model.DateLayout, c.StartDate, time.UTC)
}

// Format resolves the save format from SaveFormat or the output extension.
func (c *Config) Format() string {
	return saver.FormatForPath(c.SaveFormat, c.Output)
}

// ReportPath returns the directory of the run report: REPORT_DIR, or the
// output's directory.
func (c *Config) ReportPath() string {
	if c.ReportDir != "" {
		return c.ReportDir
	}
	if c.Output == StdoutOutput {
		return "."
	}
	return filepath.Dir(c.Output)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parsePolygonAPIKeys() []string {
	s := os.Getenv("POLYGON_API_KEYS")
	if s == "" {
		s = os.Getenv("POLYGON_API_KEY")
	}
	if s == "" {
		return nil
	}
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
