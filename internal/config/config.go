package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// DevMode to indicate development mode. When true, logging is more
	// verbose and the console writer is enabled.
	DevMode bool `split_words:"true"`

	// DeviceName identifies the current device in every uploaded report.
	DeviceName string `split_words:"true"`

	// AuthorizationToken is the credential attached to every upload request.
	AuthorizationToken string `split_words:"true"`

	// AuthorizationScheme is the Authorization header scheme. The collection
	// service historically accepted both a bare token and a Bearer token, so
	// the scheme is configuration rather than a hard assumption.
	AuthorizationScheme string `split_words:"true" default:"Bearer"`

	// EndpointURL is the collection service URL the reports are POSTed to.
	EndpointURL string `split_words:"true" default:"http://localhost:3000/TysAPIs/"`

	// SuccessCode and InvalidTokenCode are the response body codes the
	// service answers with; anything else recognized is a generic service
	// error. Configurable for the same reason as the header scheme.
	SuccessCode      string `split_words:"true" default:"200"`
	InvalidTokenCode string `split_words:"true" default:"402"`

	// DeliveryTimeout bounds a single upload request. The whole flush run is
	// bounded by the caller's context instead.
	DeliveryTimeout time.Duration `split_words:"true" default:"10s"`

	// DatabasePath is the SQLite file backing the exceptions queue. The
	// special value ":memory:" keeps the queue in process memory, which is
	// only useful in tests.
	DatabasePath string `split_words:"true" default:"TraceYourStackData/ExceptionsQueueDatabase.db"`

	// SettingsPath is the directory backing the staged-exception slot when
	// the host does not supply its own settings store.
	SettingsPath string `split_words:"true" default:"TraceYourStackData/Settings"`

	BunDebugVerbose bool `split_words:"true"`
}

func Parse() (*Config, error) {
	var config Config
	err := envconfig.Process("tys", &config)
	if err != nil {
		err = fmt.Errorf("failed to parse configuration: %w", err)
		return nil, err
	}

	return &config, nil
}
