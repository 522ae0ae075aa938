package config

import (
	"fmt"
	"strings"
)

type Config struct {
	APIs           []APIConfig `json:"apis" yaml:"apis"`
	DiscoveryURL   string      `json:"discovery_url,omitempty" yaml:"discovery_url,omitempty"`
	CacheFile      string      `json:"cache_file,omitempty" yaml:"cache_file,omitempty"`
	TimeoutSeconds int         `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
	Retries        int         `json:"retries,omitempty" yaml:"retries,omitempty"`
}

type APIConfig struct {
	Name           string           `json:"name" yaml:"name"`
	Version        string           `json:"version" yaml:"version"`
	DiscoveryFile  string           `json:"discovery_file,omitempty" yaml:"discovery_file,omitempty"`
	Params         map[string]any   `json:"params,omitempty" yaml:"params,omitempty"`
	Auth           *AuthConfig      `json:"auth,omitempty" yaml:"auth,omitempty"`
	TimeoutSeconds *int             `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
	Retries        *int             `json:"retries,omitempty" yaml:"retries,omitempty"`
	RateLimit      *RateLimitConfig `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
}

type AuthConfig struct {
	Type     string `json:"type" yaml:"type"`
	Token    string `json:"token,omitempty" yaml:"token,omitempty"`       // bearer
	Username string `json:"username,omitempty" yaml:"username,omitempty"` // basic
	Password string `json:"password,omitempty" yaml:"password,omitempty"` // basic
	Header   string `json:"header,omitempty" yaml:"header,omitempty"`     // api-key header name
	Value    string `json:"value,omitempty" yaml:"value,omitempty"`       // api-key value
}

type RateLimitConfig struct {
	PerMinute int `json:"per_minute,omitempty" yaml:"per_minute,omitempty"`
	PerHour   int `json:"per_hour,omitempty" yaml:"per_hour,omitempty"`
	PerDay    int `json:"per_day,omitempty" yaml:"per_day,omitempty"`
}

func (c *Config) ApplyDefaults() {
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 10
	}
	if c.DiscoveryURL == "" {
		c.DiscoveryURL = "https://www.googleapis.com/discovery/v1"
	}
	for i := range c.APIs {
		if c.APIs[i].TimeoutSeconds == nil {
			val := c.TimeoutSeconds
			c.APIs[i].TimeoutSeconds = &val
		}
		if c.APIs[i].Retries == nil {
			val := c.Retries
			c.APIs[i].Retries = &val
		}
	}
}

func (c *Config) Validate() error {
	if len(c.APIs) == 0 {
		return fmt.Errorf("at least one api is required")
	}
	seen := map[string]struct{}{}
	for i, api := range c.APIs {
		if api.Name == "" {
			return fmt.Errorf("apis[%d]: name is required", i)
		}
		if api.Version == "" {
			return fmt.Errorf("apis[%d]: version is required", i)
		}
		key := api.Name + "/" + api.Version
		if _, ok := seen[key]; ok {
			return fmt.Errorf("apis[%d]: duplicate api %q", i, key)
		}
		seen[key] = struct{}{}
		if api.Auth != nil {
			if err := api.Auth.Validate(); err != nil {
				return fmt.Errorf("apis[%d]: %w", i, err)
			}
		}
		if api.TimeoutSeconds != nil && *api.TimeoutSeconds < 0 {
			return fmt.Errorf("apis[%d]: timeout_seconds must be >= 0", i)
		}
		if api.Retries != nil && *api.Retries < 0 {
			return fmt.Errorf("apis[%d]: retries must be >= 0", i)
		}
		if api.RateLimit != nil {
			if api.RateLimit.PerMinute < 0 || api.RateLimit.PerHour < 0 || api.RateLimit.PerDay < 0 {
				return fmt.Errorf("apis[%d]: rate limits must be >= 0", i)
			}
		}
		for name := range api.Params {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("apis[%d]: empty parameter name", i)
			}
		}
	}
	return nil
}

func (a *AuthConfig) Validate() error {
	switch a.Type {
	case "":
		return fmt.Errorf("auth.type is required")
	case "bearer":
		if a.Token == "" {
			return fmt.Errorf("auth.token is required for bearer")
		}
	case "basic":
		if a.Username == "" || a.Password == "" {
			return fmt.Errorf("auth.username and auth.password are required for basic")
		}
	case "api-key":
		if a.Header == "" || a.Value == "" {
			return fmt.Errorf("auth.header and auth.value are required for api-key")
		}
	default:
		return fmt.Errorf("unsupported auth.type %q", a.Type)
	}
	return nil
}

// Secrets lists all credential values for the redactor.
func (c *Config) Secrets() []string {
	var secrets []string
	for _, api := range c.APIs {
		if api.Auth == nil {
			continue
		}
		switch api.Auth.Type {
		case "bearer":
			if api.Auth.Token != "" {
				secrets = append(secrets, api.Auth.Token)
			}
		case "basic":
			if api.Auth.Password != "" {
				secrets = append(secrets, api.Auth.Password)
			}
		case "api-key":
			if api.Auth.Value != "" {
				secrets = append(secrets, api.Auth.Value)
			}
		}
	}
	return secrets
}
