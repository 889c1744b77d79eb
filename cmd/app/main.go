// Command app is a demonstration host: it captures a synthetic unhandled
// panic the way a real host's crash handler would, flushes the exceptions
// queue against the configured collection service, and dumps the grouped
// crash history.
package main

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/traceyourstack/tys-go/internal/appentry"
	"github.com/traceyourstack/tys-go/internal/model"
	"github.com/traceyourstack/tys-go/internal/pkg/logger"
	"github.com/traceyourstack/tys-go/internal/service"
)

const demoAppVersion = "1.0.0.0"

func main() {
	opts := appentry.ProvideOptions()
	opts = append(opts,
		fx.WithLogger(func() fxevent.Logger { return logger.Fx() }),
		fx.Invoke(run),
	)

	app := fx.New(opts...)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		panic(err)
	}
	if err := app.Stop(ctx); err != nil {
		panic(err)
	}
}

func run(staging *service.Staging, flusher *service.Flusher, aggregator *service.Aggregator) {
	crash(staging)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// transient outcomes are worth re-running the whole flush for; the
	// library itself never retries
	err := retry.Do(
		func() error {
			outcome := flusher.FlushPending(ctx)
			log.Info().Str("outcome", outcome.String()).Msg("flush run finished")
			switch outcome {
			case model.FlushSuccess:
				return nil
			case model.FlushNetworkConnectionNotAvailable:
				return errors.Errorf("flush ended with transient outcome %s", outcome)
			default:
				return retry.Unrecoverable(errors.Errorf("flush ended with %s", outcome))
			}
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second*2),
	)
	if err != nil {
		log.Warn().Err(err).Msg("reports remain queued for a future run")
	}

	grouped, err := aggregator.LoadGroupedReports(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load grouped reports")
		return
	}
	spew.Dump(grouped)
}

// crash simulates the host's unhandled-exception handler capturing a panic.
func crash(staging *service.Staging) {
	defer func() {
		if r := recover(); r != nil {
			staging.Capture(service.ExceptionInfo{
				Type:       fmt.Sprintf("%T", r),
				Message:    fmt.Sprint(r),
				StackTrace: string(debug.Stack()),
			}, demoAppVersion)
		}
	}()

	panic(errors.New("simulated unhandled exception"))
}
