package config

import (
	"strings"
	"testing"
)

const sampleYAML = `
discovery_url: https://discovery.example.com/v1
cache_file: /tmp/disco-cache.db
timeout_seconds: 20
apis:
  - name: widgets
    version: v1
    params:
      myParam: "123"
      alt: json
    auth:
      type: bearer
      token: tok-abc
  - name: gizmos
    version: v2
    discovery_file: ./gizmos-v2.json
    timeout_seconds: 5
    rate_limit:
      per_minute: 60
      per_hour: 1000
`

func TestLoadFromBytes(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.APIs) != 2 {
		t.Fatalf("expected 2 apis, got %d", len(cfg.APIs))
	}
	if cfg.DiscoveryURL != "https://discovery.example.com/v1" {
		t.Fatalf("unexpected discovery url %q", cfg.DiscoveryURL)
	}

	widgets := cfg.APIs[0]
	if widgets.Params["myParam"] != "123" {
		t.Fatalf("unexpected params %v", widgets.Params)
	}
	if *widgets.TimeoutSeconds != 20 {
		t.Fatalf("global timeout should flow down, got %d", *widgets.TimeoutSeconds)
	}

	gizmos := cfg.APIs[1]
	if *gizmos.TimeoutSeconds != 5 {
		t.Fatalf("per-api timeout should win, got %d", *gizmos.TimeoutSeconds)
	}
	if gizmos.RateLimit.PerMinute != 60 {
		t.Fatalf("unexpected rate limit %v", gizmos.RateLimit)
	}
}

func TestDefaultDiscoveryURL(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("apis:\n  - name: a\n    version: v1\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DiscoveryURL == "" {
		t.Fatalf("expected default discovery url")
	}
}

func TestValidateRejectsDuplicates(t *testing.T) {
	yaml := `
apis:
  - name: a
    version: v1
  - name: a
    version: v1
`
	if _, err := LoadFromBytes([]byte(yaml)); err == nil {
		t.Fatalf("expected duplicate api error")
	}
}

func TestValidateRejectsMissingVersion(t *testing.T) {
	if _, err := LoadFromBytes([]byte("apis:\n  - name: a\n")); err == nil {
		t.Fatalf("expected missing version error")
	}
}

func TestValidateAuth(t *testing.T) {
	yaml := `
apis:
  - name: a
    version: v1
    auth:
      type: bearer
`
	_, err := LoadFromBytes([]byte(yaml))
	if err == nil || !strings.Contains(err.Error(), "auth.token") {
		t.Fatalf("expected bearer token error, got %v", err)
	}
}

func TestExpandEnvStrictMissing(t *testing.T) {
	yaml := `
apis:
  - name: a
    version: v1
    auth:
      type: bearer
      token: ${DEFINITELY_UNSET_VAR_42}
`
	if _, err := LoadFromBytes([]byte(yaml)); err == nil {
		t.Fatalf("expected missing env var error")
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("DISCO_TEST_TOKEN", "tok-env")
	yaml := `
apis:
  - name: a
    version: v1
    auth:
      type: bearer
      token: ${DISCO_TEST_TOKEN}
`
	cfg, err := LoadFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIs[0].Auth.Token != "tok-env" {
		t.Fatalf("env expansion failed: %q", cfg.APIs[0].Auth.Token)
	}
}

func TestSecrets(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	secrets := cfg.Secrets()
	if len(secrets) != 1 || secrets[0] != "tok-abc" {
		t.Fatalf("unexpected secrets %v", secrets)
	}
}
