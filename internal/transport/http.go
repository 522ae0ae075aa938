package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"apidisco/internal/circuitbreaker"
	"apidisco/internal/config"
	"apidisco/internal/ratelimit"
	"apidisco/internal/redact"
)

// HTTP is the production Transport. Each configured API gets its own
// auth, timeout, retry budget, rate limiter and circuit breaker.
type HTTP struct {
	client   *http.Client
	logger   *log.Logger
	redactor *redact.Redactor
	apis     map[string]apiPolicy
}

type apiPolicy struct {
	auth    *config.AuthConfig
	timeout time.Duration
	retries int
	limiter *ratelimit.Limiter
	breaker *circuitbreaker.Breaker
}

const (
	breakerThreshold = 5
	breakerCooldown  = 30 * time.Second
)

func NewHTTP(cfg *config.Config, logger *log.Logger, redactor *redact.Redactor) *HTTP {
	apis := map[string]apiPolicy{}
	for _, api := range cfg.APIs {
		policy := apiPolicy{
			auth:    api.Auth,
			timeout: time.Duration(derefInt(api.TimeoutSeconds, cfg.TimeoutSeconds)) * time.Second,
			retries: derefInt(api.Retries, cfg.Retries),
			breaker: circuitbreaker.New(api.Name, breakerThreshold, breakerCooldown),
		}
		if rl := api.RateLimit; rl != nil {
			policy.limiter = ratelimit.New(rl.PerMinute, rl.PerHour, rl.PerDay)
		}
		apis[api.Name] = policy
	}
	return &HTTP{
		client:   &http.Client{},
		logger:   logger,
		redactor: redactor,
		apis:     apis,
	}
}

func derefInt(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func (t *HTTP) Execute(ctx context.Context, req *Request) (*Response, error) {
	policy := t.apis[req.API]
	if policy.timeout == 0 {
		policy.timeout = 10 * time.Second
	}

	if policy.limiter != nil {
		if err := policy.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if policy.breaker != nil {
		if err := policy.breaker.Allow(); err != nil {
			return nil, err
		}
	}

	resp, err := t.execute(ctx, req, policy)
	if policy.breaker != nil {
		if err != nil {
			policy.breaker.Failure(err)
		} else {
			policy.breaker.Success()
		}
	}
	return resp, err
}

func (t *HTTP) execute(ctx context.Context, req *Request, policy apiPolicy) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, policy.timeout)
	defer cancel()

	parsedURL, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if len(req.Query) > 0 {
		merged := parsedURL.Query()
		for name, vals := range req.Query {
			for _, v := range vals {
				merged.Add(name, v)
			}
		}
		parsedURL.RawQuery = merged.Encode()
	}

	var bodyBytes []byte
	if req.Body != nil {
		bodyBytes, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	verb := strings.ToUpper(req.Verb)
	requestID := uuid.NewString()
	attempts := policy.retries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, verb, parsedURL.String(), bytes.NewReader(bodyBytes))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		httpReq.Header.Set("Accept", "application/json")
		httpReq.Header.Set("X-Request-Id", requestID)
		if req.Body != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		applyAuth(httpReq, policy.auth)

		t.logger.Printf("[transport] %s %s %s (attempt %d/%d)", requestID, verb, t.redactor.Redact(parsedURL.String()), attempt+1, attempts)
		httpResp, err := t.client.Do(httpReq)
		if err != nil {
			if attempt < attempts-1 && isRetryable(verb) {
				t.logger.Printf("[transport] %s failed, retrying: %s", requestID, t.redactor.RedactErr(err))
				continue
			}
			return nil, fmt.Errorf("request failed: %w", err)
		}
		resp, retry, err := normalizeResponse(httpResp)
		if err != nil {
			return nil, err
		}
		if retry && attempt < attempts-1 && isRetryable(verb) {
			t.logger.Printf("[transport] %s retrying on status %d", requestID, resp.Status)
			continue
		}
		return resp, nil
	}
	return nil, fmt.Errorf("request failed after retries")
}

func applyAuth(req *http.Request, auth *config.AuthConfig) {
	if auth == nil {
		return
	}
	switch auth.Type {
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+auth.Token)
	case "basic":
		cred := base64.StdEncoding.EncodeToString([]byte(auth.Username + ":" + auth.Password))
		req.Header.Set("Authorization", "Basic "+cred)
	case "api-key":
		req.Header.Set(auth.Header, auth.Value)
	}
}

const maxErrorSnippet = 256

// bodySnippet trims an error payload down to something safe to embed in
// an error message.
func bodySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorSnippet {
		s = s[:maxErrorSnippet] + "..."
	}
	return s
}

func isRetryable(verb string) bool {
	switch verb {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	default:
		return false
	}
}

func normalizeResponse(resp *http.Response) (*Response, bool, error) {
	defer resp.Body.Close()
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("read response: %w", err)
	}
	contentType := resp.Header.Get("Content-Type")

	if resp.StatusCode >= 500 {
		return &Response{Status: resp.StatusCode, ContentType: contentType}, true, nil
	}
	if resp.StatusCode >= 400 {
		if snippet := bodySnippet(bodyBytes); snippet != "" {
			return nil, false, fmt.Errorf("http error status %d: %s", resp.StatusCode, snippet)
		}
		return nil, false, fmt.Errorf("http error status %d", resp.StatusCode)
	}

	var body any
	if len(bodyBytes) == 0 {
		body = nil
	} else if strings.Contains(contentType, "application/json") {
		if err := json.Unmarshal(bodyBytes, &body); err != nil {
			body = string(bodyBytes)
		}
	} else if json.Unmarshal(bodyBytes, &body) == nil {
		// Some APIs return JSON with the wrong content-type; accept it.
	} else {
		body = string(bodyBytes)
	}

	return &Response{
		Status:      resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}, false, nil
}
