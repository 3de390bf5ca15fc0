package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validation constants define acceptable bounds for configuration values
const (
	minTokenLength = 50 // Discord tokens are typically 50+ characters

	minJWTSecretLength = 32

	minOwnerEditWindow = 1 * time.Hour
	maxOwnerEditWindow = 24 * time.Hour

	minRosterCacheTTL = 10 * time.Second
	maxRosterCacheTTL = 24 * time.Hour

	maxRecentLogsInEmbed = 10 // keeps the embed under Discord's 25 field limit
)

// Validate checks if the configuration values are valid and within acceptable ranges.
// It returns all validation errors at once using errors.Join.
func (c *Config) Validate() error {
	var errs []error

	if err := c.validateToken(); err != nil {
		errs = append(errs, err)
	}

	if err := c.validateJWTSecret(); err != nil {
		errs = append(errs, err)
	}

	if err := c.validateWebhookURL(); err != nil {
		errs = append(errs, err)
	}

	if err := c.validateRateLimit(); err != nil {
		errs = append(errs, err)
	}

	if err := c.validateDurations(); err != nil {
		errs = append(errs, err)
	}

	if err := c.validateMemberWarPolicy(); err != nil {
		errs = append(errs, err)
	}

	if c.RecentLogsInEmbed < 0 || c.RecentLogsInEmbed > maxRecentLogsInEmbed {
		errs = append(errs, fmt.Errorf("RECENT_LOGS_IN_EMBED must be between 0 and %d, got %d", maxRecentLogsInEmbed, c.RecentLogsInEmbed))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %w", errors.Join(errs...))
	}

	return nil
}

func (c *Config) validateToken() error {
	if c.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required but not set")
	}

	if len(c.Token) < minTokenLength {
		return fmt.Errorf(
			"DISCORD_TOKEN appears invalid (too short: %d chars, expected %d+)",
			len(c.Token), minTokenLength,
		)
	}

	return nil
}

func (c *Config) validateJWTSecret() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}

	if len(c.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters, got %d", minJWTSecretLength, len(c.JWTSecret))
	}

	return nil
}

// validateWebhookURL accepts an empty value, which disables embed sync.
func (c *Config) validateWebhookURL() error {
	if c.WebhookURL == "" {
		return nil
	}

	u, err := url.Parse(c.WebhookURL)
	if err != nil || u.Scheme != "https" || !strings.Contains(u.Path, "/webhooks/") {
		return fmt.Errorf("DISCORD_WEBHOOK_URL must look like https://discord.com/api/webhooks/<id>/<token>")
	}

	return nil
}

func (c *Config) validateRateLimit() error {
	var errs []error

	if c.RateLimitRPS <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", c.RateLimitRPS))
	}

	if c.RateLimitBurst < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", c.RateLimitBurst))
	}

	return errors.Join(errs...)
}

func (c *Config) validateDurations() error {
	var errs []error

	if c.OwnerEditWindow < minOwnerEditWindow || c.OwnerEditWindow > maxOwnerEditWindow {
		errs = append(errs, fmt.Errorf(
			"OWNER_EDIT_WINDOW must be between %v and %v, got %v",
			minOwnerEditWindow, maxOwnerEditWindow, c.OwnerEditWindow,
		))
	}

	if c.RosterCacheTTL < minRosterCacheTTL || c.RosterCacheTTL > maxRosterCacheTTL {
		errs = append(errs, fmt.Errorf(
			"ROSTER_CACHE_TTL must be between %v and %v, got %v",
			minRosterCacheTTL, maxRosterCacheTTL, c.RosterCacheTTL,
		))
	}

	return errors.Join(errs...)
}

func (c *Config) validateMemberWarPolicy() error {
	switch c.MemberWarPolicy {
	case MemberWarPolicyCoerce, MemberWarPolicyReject:
		return nil
	default:
		return fmt.Errorf("MEMBER_WAR_POLICY must be %q or %q, got %q", MemberWarPolicyCoerce, MemberWarPolicyReject, c.MemberWarPolicy)
	}
}
