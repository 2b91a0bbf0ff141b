// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds a single outbound request, including reading the body.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the SerpAPI key. The outline endpoint refuses to run without it.
	APIKey string `json:"-" yaml:"-"`
}

// ExtractConfig holds settings for the page extraction stage.
type ExtractConfig struct {
	HTTPConfig `yaml:",inline"`

	// AcceptLanguage is sent with every page fetch.
	AcceptLanguage string `json:"accept_language" yaml:"accept_language"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Port is the TCP port to listen on (default 3000).
	Port int `json:"port" yaml:"port"`

	// Token is the bearer token required on the outline endpoint. Empty
	// disables authentication, which is only meant for local development.
	Token string `json:"-" yaml:"-"`
}

// Config groups all settings. It is built once at startup and passed down;
// nothing reads the environment after that.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Search  SearchConfig  `json:"search" yaml:"search"`
	Extract ExtractConfig `json:"extract" yaml:"extract"`

	// Debug switches to a development logger.
	Debug bool `json:"debug" yaml:"debug"`
}
