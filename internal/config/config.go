// Package config defines the necessary types to configure the application.
// An example config file config.yaml is provided in the repository.
package config

import (
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
)

type Config struct {
	commoncfg.BaseConfig `mapstructure:",squash" yaml:",inline"`

	HTTP HTTPServer `yaml:"http"`

	Database  Database  `yaml:"database"`
	ValKey    ValKey    `yaml:"valkey"`
	Migrate   Migrate   `yaml:"migrate"`
	Auth      Auth      `yaml:"auth"`
	GameStats GameStats `yaml:"gameStats"`
	Worker    Worker    `yaml:"worker"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" default:"5s"`
}

type Database struct {
	Name     string              `yaml:"name"`
	Port     string              `yaml:"port"`
	Host     commoncfg.SourceRef `yaml:"host"`
	User     commoncfg.SourceRef `yaml:"user"`
	Password commoncfg.SourceRef `yaml:"password"`
}

type ValKey struct {
	Host     commoncfg.SourceRef `yaml:"host"`
	User     commoncfg.SourceRef `yaml:"user"`
	Password commoncfg.SourceRef `yaml:"password"`
	Prefix   string              `yaml:"prefix"`
}

// Auth configures the session tokens and the identity-provider handshake.
type Auth struct {
	// SigningKey must resolve to at least 32 bytes; shorter keys abort
	// startup.
	SigningKey commoncfg.SourceRef `yaml:"signingKey"`

	AnonymousTTL  time.Duration `yaml:"anonymousTTL" default:"24h"`
	TransitionTTL time.Duration `yaml:"transitionTTL" default:"1m"`
	SignedInTTL   time.Duration `yaml:"signedInTTL" default:"12h"`

	AuthorizeURL string              `yaml:"authorizeURL"`
	TokenURL     string              `yaml:"tokenURL"`
	IdentityURL  string              `yaml:"identityURL"`
	RedirectURI  string              `yaml:"redirectURI"`
	ClientID     commoncfg.SourceRef `yaml:"clientID"`
	ClientSecret commoncfg.SourceRef `yaml:"clientSecret"`
}

// GameStats configures the external statistics provider.
type GameStats struct {
	BaseURL  string              `yaml:"baseURL"`
	APIKey   commoncfg.SourceRef `yaml:"apiKey"`
	CacheTTL time.Duration       `yaml:"cacheTTL" default:"5m"`
}

// Worker configures the background refresh worker.
type Worker struct {
	BatchSize int32 `yaml:"batchSize" default:"10"`
	// BulkInterval is how often the worker queues a bulk update of the
	// stalest accounts.
	BulkInterval time.Duration `yaml:"bulkInterval" default:"1h"`
}

type Migrate struct {
	Source string `yaml:"source" default:"file://./sql"`
}
