// Package tys is the client-side TraceYourStack crash telemetry library: it
// captures an application's last unhandled exception, keeps it durably queued
// on the local device, and uploads queued exception reports to the remote
// collection service, tolerating offline periods, partial failures and
// cancellation.
//
// Hosts call Initialize exactly once at startup, LogException from their
// unhandled-exception handler, and FlushExceptionsQueue on demand (typically
// on the next launch). Calls to FlushExceptionsQueue must be serialized by
// the caller: the library assumes a single in-flight flush per process.
package tys

import (
	"context"
	"sync"

	"github.com/traceyourstack/tys-go/internal/config"
	"github.com/traceyourstack/tys-go/internal/infra"
	"github.com/traceyourstack/tys-go/internal/model"
	"github.com/traceyourstack/tys-go/internal/pkg/logger"
	"github.com/traceyourstack/tys-go/internal/pkg/settings"
	"github.com/traceyourstack/tys-go/internal/pkg/tyserr"
	"github.com/traceyourstack/tys-go/internal/repo"
	"github.com/traceyourstack/tys-go/internal/service"
)

// ExceptionInfo is the field set describing one captured exception.
type ExceptionInfo = service.ExceptionInfo

// SettingsManager is the key/value store the staged exception lives in; see
// settings.Manager.
type SettingsManager = settings.Manager

// FlushOutcome is the structured result of one flush run.
type FlushOutcome = model.FlushOutcome

const (
	FlushSuccess                       = model.FlushSuccess
	FlushOperationCanceled             = model.FlushOperationCanceled
	FlushInvalidAuthorizationToken     = model.FlushInvalidAuthorizationToken
	FlushWebServiceError               = model.FlushWebServiceError
	FlushNetworkConnectionNotAvailable = model.FlushNetworkConnectionNotAvailable
	FlushUnknownError                  = model.FlushUnknownError
)

// Aggregated view types, derived from the stored reports and never persisted.
type (
	GroupedReports = model.GroupedReports
	ReportSummary  = model.ReportSummary
	VersionGroup   = model.VersionGroup
	Version        = model.Version
)

// Client bundles the staging slot, the durable queue and the flush engine
// around one explicit configuration object.
type Client struct {
	staging    *service.Staging
	flusher    *service.Flusher
	aggregator *service.Aggregator
}

// Options are the host-supplied parts of the configuration; everything else
// (endpoint URL, wire codes, paths, timeouts) comes from the environment
// with sensible defaults.
type Options struct {
	// Settings is the store the staged exception survives a crash in. When
	// nil, a disk-backed store under the configured settings path is used.
	Settings SettingsManager

	// DeviceName identifies this device in uploaded reports.
	DeviceName string

	// AuthorizationToken is the credential for the collection service.
	AuthorizationToken string
}

// New builds an independent client. Most hosts want the process-wide
// singleton via Initialize instead.
func New(opts Options) (*Client, error) {
	cfg, err := config.Parse()
	if err != nil {
		return nil, err
	}
	if opts.DeviceName != "" {
		cfg.DeviceName = opts.DeviceName
	}
	if opts.AuthorizationToken != "" {
		cfg.AuthorizationToken = opts.AuthorizationToken
	}

	store := opts.Settings
	if store == nil {
		store = settings.NewDiskv(cfg.SettingsPath)
	}

	return newClient(cfg, store), nil
}

func newClient(cfg *config.Config, store settings.Manager) *Client {
	queue := repo.NewReport(infra.NewSQLite(cfg))
	staging := service.NewStaging(store)
	return &Client{
		staging:    staging,
		flusher:    service.NewFlusher(staging, queue, service.NewDeliverer(cfg)),
		aggregator: service.NewAggregator(queue),
	}
}

// LogException stages the exception as the most recent captured one,
// replacing any previously staged entry. Safe to call from an
// unhandled-exception handler: it never fails.
func (c *Client) LogException(info ExceptionInfo, appVersion string) {
	c.staging.Capture(info, appVersion)
}

// FlushExceptionsQueue drains the staging slot into the durable queue and
// uploads every pending report in chronological order, returning exactly one
// outcome. Cancel or time-bound the run through ctx.
func (c *Client) FlushExceptionsQueue(ctx context.Context) FlushOutcome {
	return c.flusher.FlushPending(ctx)
}

// LoadExceptionReports returns all stored reports grouped by app version,
// without mutating the queue.
func (c *Client) LoadExceptionReports(ctx context.Context) ([]*GroupedReports, error) {
	return c.aggregator.LoadGroupedReports(ctx)
}

var (
	mu        sync.Mutex
	singleton *Client
)

// Initialize configures the process-wide client. It must be called exactly
// once per process; a second call fails with an already-initialized error.
func Initialize(store SettingsManager, deviceName, authorizationToken string) error {
	mu.Lock()
	defer mu.Unlock()

	if singleton != nil {
		return tyserr.ErrAlreadyInitialized
	}

	cfg, err := config.Parse()
	if err != nil {
		return err
	}
	cfg.DeviceName = deviceName
	cfg.AuthorizationToken = authorizationToken
	logger.Configure(cfg)

	if store == nil {
		store = settings.NewDiskv(cfg.SettingsPath)
	}

	singleton = newClient(cfg, store)
	return nil
}

// LogException stages an exception on the process-wide client. A no-op
// before Initialize: it runs inside the host's crash handler, where failing
// would suppress the host's own crash handling.
func LogException(info ExceptionInfo, appVersion string) {
	mu.Lock()
	c := singleton
	mu.Unlock()
	if c == nil {
		return
	}
	c.LogException(info, appVersion)
}

// FlushExceptionsQueue runs one flush on the process-wide client.
func FlushExceptionsQueue(ctx context.Context) (FlushOutcome, error) {
	mu.Lock()
	c := singleton
	mu.Unlock()
	if c == nil {
		return FlushUnknownError, tyserr.ErrNotInitialized
	}
	return c.FlushExceptionsQueue(ctx), nil
}

// LoadExceptionReports loads the grouped view from the process-wide client.
func LoadExceptionReports(ctx context.Context) ([]*GroupedReports, error) {
	mu.Lock()
	c := singleton
	mu.Unlock()
	if c == nil {
		return nil, tyserr.ErrNotInitialized
	}
	return c.LoadExceptionReports(ctx)
}
