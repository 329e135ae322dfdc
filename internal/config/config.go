package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP
	Port            int
	CORSAllowOrigin string

	// Paths
	PublicDir  string
	DataDir    string
	ReportsDir string

	// Price feed
	FeedBasePrice       float64
	FeedPriceRange      float64
	FeedIntervalSeconds int

	// Reporting
	ReportsEnabled bool
	WebhookURL     string
	ServiceName    string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            envInt("PORT", 3000),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),

		PublicDir:  envStr("PUBLIC_DIR", "public"),
		DataDir:    envStr("DATA_DIR", "data"),
		ReportsDir: envStr("REPORTS_DIR", "reports"),

		FeedBasePrice:       envFloat("FEED_BASE_PRICE", 1700),
		FeedPriceRange:      envFloat("FEED_PRICE_RANGE", 100),
		FeedIntervalSeconds: envInt("FEED_INTERVAL_SECONDS", 4),

		ReportsEnabled: envBool("REPORTS_ENABLED", true),
		WebhookURL:     envStr("WEBHOOK_URL", ""),
		ServiceName:    envStr("SERVICE_NAME", "GoldvestTracker"),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("PORT must be in 1-65535, got %d", c.Port))
	}
	if c.FeedIntervalSeconds <= 0 {
		errs = append(errs, "FEED_INTERVAL_SECONDS must be positive")
	}
	if c.FeedPriceRange <= 0 {
		errs = append(errs, "FEED_PRICE_RANGE must be positive")
	}
	if c.WebhookURL == "" {
		fmt.Println("[WARN] WEBHOOK_URL not set — report notifications disabled")
	}
	if !c.ReportsEnabled {
		fmt.Println("[WARN] REPORTS_ENABLED is false — no PDF reports will be generated")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== Goldvest Tracker Configuration ===")
	fmt.Printf("Port: %d\n", c.Port)
	fmt.Printf("Public dir: %s\n", c.PublicDir)
	fmt.Printf("Data dir: %s\n", c.DataDir)
	fmt.Println("--------------------------------------")
	fmt.Println("Price Feed:")
	fmt.Printf("  Base price: %.2f\n", c.FeedBasePrice)
	fmt.Printf("  Range: %.2f\n", c.FeedPriceRange)
	fmt.Printf("  Interval: %ds\n", c.FeedIntervalSeconds)
	fmt.Println("--------------------------------------")
	fmt.Println("Reporting:")
	fmt.Printf("  Enabled: %v\n", c.ReportsEnabled)
	fmt.Printf("  Reports dir: %s\n", c.ReportsDir)
	fmt.Printf("  Webhook: %s\n", boolLabel(c.WebhookURL != "", "configured", "not set"))
	fmt.Println("======================================")
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "true" || v == "1" || v == "yes"
	}
	return fallback
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
