// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/note-outline/internal/extract"
	"github.com/pdiddy/note-outline/internal/outline"
	"github.com/pdiddy/note-outline/internal/search"
	"github.com/pdiddy/note-outline/internal/secrets"
	"github.com/pdiddy/note-outline/pkg/types"
)

// Config keys and the environment variables they read.
const (
	keyPort       = "port"
	keySerpAPIKey = "serpapi_key"
	keyAPIToken   = "api_token"
	keyDebug      = "log.debug"

	defaultPort = 3000
)

func bindConfig(v *viper.Viper) {
	v.SetDefault(keyPort, defaultPort)
	_ = v.BindEnv(keyPort, "PORT")
	_ = v.BindEnv(keySerpAPIKey, "SERPAPI_KEY")
	_ = v.BindEnv(keyAPIToken, "API_TOKEN")
	_ = v.BindEnv(keyDebug, "LOG_DEBUG")
}

// loadConfig reads settings once. Secrets from .secrets/ fill in keys the
// config file and environment leave empty.
func loadConfig(v *viper.Viper) (types.Config, error) {
	port := v.GetInt(keyPort)
	if port <= 0 || port > 65535 {
		return types.Config{}, fmt.Errorf("invalid port %q", v.GetString(keyPort))
	}

	return types.Config{
		Server: types.ServerConfig{
			Port:  port,
			Token: secretDefault(secrets.APIToken, v.GetString(keyAPIToken)),
		},
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{Timeout: search.DefaultTimeout},
			APIKey:     secretDefault(secrets.SerpAPIKey, v.GetString(keySerpAPIKey)),
		},
		Extract: types.ExtractConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   extract.DefaultTimeout,
				UserAgent: extract.DefaultUserAgent,
			},
			AcceptLanguage: extract.DefaultAcceptLanguage,
		},
		Debug: v.GetBool(keyDebug),
	}, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newService wires the real search and extraction clients.
func newService(cfg types.Config, logger *zap.Logger) *outline.Service {
	searcher := &search.SerpAPI{
		Client:  &http.Client{},
		APIKey:  cfg.Search.APIKey,
		Timeout: cfg.Search.Timeout,
	}
	extractor := extract.New(&http.Client{}, cfg.Extract)
	return outline.NewService(searcher, extractor, logger.Named("outline"))
}
