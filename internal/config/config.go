package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	MemberWarPolicyCoerce = "coerce"
	MemberWarPolicyReject = "reject"
)

type Config struct {
	Token             string
	DiscordGuildID    string
	DiscordRoleMap    map[string]string
	DatabaseURL       string
	WebhookURL        string
	HTTPAddr          string
	JWTSecret         string
	CORSOrigins       []string
	RateLimitRPS      float64
	RateLimitBurst    int
	RosterCacheTTL    time.Duration
	AllowOwnerEdits   bool
	OwnerEditWindow   time.Duration
	MemberWarPolicy   string
	RequireApproval   bool
	PublicURL         string
	LogLevel          string
	ShutdownTimeout   time.Duration
	RecentLogsInEmbed int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	token := secretOrEnv("discord_token", "DISCORD_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is not set (via secret or env var)")
	}

	dbURL := secretOrEnv("database_url", "DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set (via secret or env var)")
	}

	cfg := &Config{
		Token:             token,
		DiscordGuildID:    envString("DISCORD_GUILD_ID", ""),
		DiscordRoleMap:    envPairs("DISCORD_ROLE_MAP"),
		DatabaseURL:       dbURL,
		WebhookURL:        secretOrEnv("discord_webhook_url", "DISCORD_WEBHOOK_URL"),
		HTTPAddr:          envString("HTTP_ADDR", ":8080"),
		JWTSecret:         secretOrEnv("jwt_secret", "JWT_SECRET"),
		CORSOrigins:       envList("CORS_ORIGINS"),
		RateLimitRPS:      envFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:    envInt("RATE_LIMIT_BURST", 20),
		RosterCacheTTL:    envDuration("ROSTER_CACHE_TTL", 5*time.Minute),
		AllowOwnerEdits:   envBool("ALLOW_OWNER_LOG_EDITS", false),
		OwnerEditWindow:   envDuration("OWNER_EDIT_WINDOW", 24*time.Hour),
		MemberWarPolicy:   strings.ToLower(envString("MEMBER_WAR_POLICY", MemberWarPolicyCoerce)),
		RequireApproval:   envBool("REQUIRE_WAR_APPROVAL", false),
		PublicURL:         strings.TrimRight(envString("PUBLIC_URL", ""), "/"),
		LogLevel:          envString("LOG_LEVEL", "info"),
		ShutdownTimeout:   envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		RecentLogsInEmbed: envInt("RECENT_LOGS_IN_EMBED", 5),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// UsesMemoryStore reports whether DATABASE_URL selects the in-process store.
func (c *Config) UsesMemoryStore() bool {
	return strings.HasPrefix(c.DatabaseURL, "memory://")
}

var secretsDir = "/run/secrets/"

func readSecret(name string) string {
	data, err := os.ReadFile(secretsDir + name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func secretOrEnv(secret, key string) string {
	if v := readSecret(secret); v != "" {
		return v
	}
	return os.Getenv(key)
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// envPairs reads "key=value,key=value". Malformed pairs are skipped.
func envPairs(key string) map[string]string {
	out := make(map[string]string)
	for _, part := range envList(key) {
		k, v, ok := strings.Cut(part, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}
