// Command apidisco builds runtime clients for the APIs in a config file
// and exposes them for listing, inspection, and one-off calls.
//
// Usage:
//
//	apidisco -config config.yaml list <api>
//	apidisco -config config.yaml describe <api> <method.path>
//	apidisco -config config.yaml call <api> <method.path> [name=value ...]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"apidisco/internal/client"
	"apidisco/internal/config"
	"apidisco/internal/factory"
	"apidisco/internal/logging"
	"apidisco/internal/redact"
	"apidisco/internal/source"
	"apidisco/internal/transport"
)

func main() {
	configPath := flag.String("config", "./config.yaml", "Path to YAML config")
	logFormat := flag.String("log-format", "text", "Log format: text or json")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	strict := flag.Bool("strict", false, "Validate discovery documents against the bundled meta-schema")
	flag.Parse()

	slogger := logging.Setup(*logFormat, *logLevel)
	logger := slog.NewLogLogger(slogger.Handler(), slog.LevelInfo)

	args := flag.Args()
	if len(args) < 2 {
		usage(logger)
	}
	command, apiName := args[0], args[1]

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("config load: %v", err)
	}
	redactor := redact.New(cfg.Secrets()...)

	apiCfg := findAPI(cfg, apiName)
	if apiCfg == nil {
		logger.Fatalf("api %q not present in config", apiName)
	}

	ctx := context.Background()
	tr := transport.NewHTTP(cfg, logger, redactor)
	src, cleanup, err := sourceFor(cfg, apiCfg, *strict)
	if err != nil {
		logger.Fatalf("source init: %v", err)
	}
	defer cleanup()

	c, err := factory.New(src, tr, logger).Create(ctx, apiCfg.Name, apiCfg.Version, factory.WithParams(apiCfg.Params))
	if err != nil {
		logger.Fatalf("client build: %v", err)
	}

	switch command {
	case "list":
		for _, path := range c.MethodPaths() {
			fmt.Println(path)
		}
	case "describe":
		if len(args) < 3 {
			usage(logger)
		}
		describe(logger, c, args[2])
	case "call":
		if len(args) < 3 {
			usage(logger)
		}
		call(ctx, logger, c, args[2], args[3:])
	default:
		usage(logger)
	}
}

func usage(logger *log.Logger) {
	logger.Fatalf("usage: apidisco [flags] {list|describe|call} <api> [method] [name=value ...]")
}

func findAPI(cfg *config.Config, name string) *config.APIConfig {
	for i := range cfg.APIs {
		if cfg.APIs[i].Name == name {
			return &cfg.APIs[i]
		}
	}
	return nil
}

func sourceFor(cfg *config.Config, api *config.APIConfig, strict bool) (source.Source, func(), error) {
	var src source.Source
	if api.DiscoveryFile != "" {
		fileSrc := source.NewFile(api.DiscoveryFile)
		fileSrc.Strict = strict
		src = fileSrc
	} else {
		remoteSrc := source.NewRemote(cfg.DiscoveryURL, 15*time.Second, api.Auth)
		remoteSrc.Strict = strict
		src = remoteSrc
	}
	if cfg.CacheFile == "" {
		return src, func() {}, nil
	}
	cached, err := source.NewCached(src, cfg.CacheFile, 24*time.Hour)
	if err != nil {
		return nil, nil, err
	}
	return cached, func() { cached.Close() }, nil
}

func describe(logger *log.Logger, c *client.Client, methodPath string) {
	m, ok := c.Lookup(methodPath)
	if !ok {
		logger.Fatalf("unknown method %q (try list)", methodPath)
	}
	schema := m.Schema()
	out := map[string]any{
		"id":         m.ID(),
		"httpMethod": schema.HTTPMethod,
		"path":       schema.Path,
	}
	if schema.Description != "" {
		out["description"] = schema.Description
	}
	if len(schema.Parameters) > 0 {
		out["parameters"] = schema.Parameters
	}
	if req := m.RequestSchema(); req != nil {
		out["request"] = req
	}
	if resp := m.ResponseSchema(); resp != nil {
		out["response"] = resp
	}
	printJSON(logger, out)
}

func call(ctx context.Context, logger *log.Logger, c *client.Client, methodPath string, pairs []string) {
	m, ok := c.Lookup(methodPath)
	if !ok {
		logger.Fatalf("unknown method %q (try list)", methodPath)
	}
	params := map[string]any{}
	for _, pair := range pairs {
		name, value, found := strings.Cut(pair, "=")
		if !found || name == "" {
			logger.Fatalf("invalid parameter %q, want name=value", pair)
		}
		params[name] = value
	}
	resp, err := m.Do(ctx, params)
	if err != nil {
		logger.Fatalf("call failed: %v", err)
	}
	printJSON(logger, resp)
}

func printJSON(logger *log.Logger, v any) {
	var out []byte
	var err error
	if term.IsTerminal(int(os.Stdout.Fd())) {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		logger.Fatalf("encode output: %v", err)
	}
	fmt.Println(string(out))
}
