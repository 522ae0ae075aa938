package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var envPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_]+)\}`)

// ExpandEnvStrict expands ${VAR} references and errors if any env var is missing.
func ExpandEnvStrict(input string) (string, error) {
	matches := envPattern.FindAllStringSubmatchIndex(input, -1)
	if len(matches) == 0 {
		return input, nil
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(input[last:m[0]])
		name := input[m[2]:m[3]]
		val, ok := os.LookupEnv(name)
		if !ok {
			return "", fmt.Errorf("missing env var %s", name)
		}
		b.WriteString(val)
		last = m[1]
	}
	b.WriteString(input[last:])
	return b.String(), nil
}

// ExpandEnv expands ${VAR} references in all string fields that may carry
// secrets or endpoints.
func (c *Config) ExpandEnv() error {
	var err error
	c.DiscoveryURL, err = ExpandEnvStrict(c.DiscoveryURL)
	if err != nil {
		return fmt.Errorf("discovery_url: %w", err)
	}
	for i := range c.APIs {
		c.APIs[i].DiscoveryFile, err = ExpandEnvStrict(c.APIs[i].DiscoveryFile)
		if err != nil {
			return fmt.Errorf("apis[%d].discovery_file: %w", i, err)
		}
		auth := c.APIs[i].Auth
		if auth == nil {
			continue
		}
		fields := []*string{&auth.Token, &auth.Username, &auth.Password, &auth.Header, &auth.Value}
		names := []string{"token", "username", "password", "header", "value"}
		for j, field := range fields {
			if *field == "" {
				continue
			}
			*field, err = ExpandEnvStrict(*field)
			if err != nil {
				return fmt.Errorf("apis[%d].auth.%s: %w", i, names[j], err)
			}
		}
	}
	return nil
}
