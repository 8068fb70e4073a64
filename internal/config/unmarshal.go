package config

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type rawAuthConfig struct {
	PrivateKeyPath  string `yaml:"private_key"`
	PublicKeyPath   string `yaml:"public_key"`
	AccessTokenTTL  string `yaml:"access_token_ttl"`
	RefreshTokenTTL string `yaml:"refresh_token_ttl"`
}

// UnmarshalYAML accepts Go duration strings ("15m", "168h") for token TTLs.
func (a *AuthConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw rawAuthConfig
	if err := value.Decode(&raw); err != nil {
		return err
	}

	a.PrivateKeyPath = raw.PrivateKeyPath
	a.PublicKeyPath = raw.PublicKeyPath

	var err error
	if a.AccessTokenTTL, err = parseTTL(raw.AccessTokenTTL); err != nil {
		return fmt.Errorf("access_token_ttl: %w", err)
	}
	if a.RefreshTokenTTL, err = parseTTL(raw.RefreshTokenTTL); err != nil {
		return fmt.Errorf("refresh_token_ttl: %w", err)
	}
	return nil
}

func parseTTL(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", raw)
	}
	return d, nil
}
