package service

import (
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/traceyourstack/tys-go/internal/model"
	"github.com/traceyourstack/tys-go/internal/pkg/observability"
	"github.com/traceyourstack/tys-go/internal/pkg/settings"
)

// Staging slot keys. All seven are cleared together before each write so a
// torn capture never mixes fields from two exceptions.
const (
	keyExceptionType       = "ExceptionType"
	keyExceptionMessage    = "ExceptionMessage"
	keyStackTrace          = "StackTrace"
	keyExceptionHResult    = "ExceptionHResult"
	keyExceptionHelpLink   = "ExceptionHelpLink"
	keyExceptionAppVersion = "ExceptionAppVersion"
	keyExceptionTime       = "ExceptionTime"
)

// ExceptionInfo is the untyped field set a captured exception is built from,
// before it is promoted into a queueable Report.
type ExceptionInfo struct {
	Type       string
	Message    string
	StackTrace string
	HelpLink   string
	HResult    int
}

// Staging holds at most one captured exception, in a settings store persisted
// separately from the queue database so the entry survives the crash that
// produced it.
type Staging struct {
	settings settings.Manager
}

func NewStaging(settings settings.Manager) *Staging {
	return &Staging{settings: settings}
}

// Capture replaces any previously staged entry with this one. It runs inside
// the host's unhandled-exception handler, so it must never fail: store errors
// are swallowed and panics recovered.
func (s *Staging) Capture(info ExceptionInfo, appVersion string) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug().Interface("recovered", r).Msg("staging capture panicked")
		}
	}()

	if err := s.settings.Clear(); err != nil {
		log.Debug().Err(err).Msg("failed to clear staging slot")
		return
	}

	pairs := []struct{ key, value string }{
		{keyExceptionType, info.Type},
		{keyExceptionMessage, info.Message},
		{keyStackTrace, info.StackTrace},
		{keyExceptionHResult, strconv.Itoa(info.HResult)},
		{keyExceptionHelpLink, info.HelpLink},
		{keyExceptionAppVersion, appVersion},
		{keyExceptionTime, strconv.FormatInt(time.Now().UnixNano(), 10)},
	}
	for _, pair := range pairs {
		if err := s.settings.Set(pair.key, pair.value); err != nil {
			log.Debug().Err(err).Str("key", pair.key).Msg("failed to write staging slot")
			return
		}
	}

	observability.ExceptionsCaptured.Inc()
}

// TakeStaged removes and returns the staged entry as a freshly promoted
// Report, or nil when nothing is staged. A second call without an
// intervening Capture returns nil.
func (s *Staging) TakeStaged() *model.Report {
	if !s.settings.ContainsKey(keyExceptionType) {
		return nil
	}

	exceptionType, _ := s.settings.Get(keyExceptionType)
	appVersion, _ := s.settings.Get(keyExceptionAppVersion)

	message, _ := s.settings.Get(keyExceptionMessage)
	stackTrace, _ := s.settings.Get(keyStackTrace)
	helpLink, _ := s.settings.Get(keyExceptionHelpLink)

	hResult := 0
	if raw, ok := s.settings.Get(keyExceptionHResult); ok {
		hResult, _ = strconv.Atoi(raw)
	}
	crashTime := time.Now().UnixNano()
	if raw, ok := s.settings.Get(keyExceptionTime); ok {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			crashTime = parsed
		}
	}

	if err := s.settings.Clear(); err != nil {
		log.Debug().Err(err).Msg("failed to clear staging slot after take")
	}

	// required fields missing means the slot held a torn write; drop it
	if exceptionType == "" || appVersion == "" {
		return nil
	}

	return model.NewReport(exceptionType, message, hResult, helpLink, stackTrace, appVersion, crashTime)
}
