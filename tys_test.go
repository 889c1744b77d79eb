package tys

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traceyourstack/tys-go/internal/config"
	"github.com/traceyourstack/tys-go/internal/pkg/settings"
	"github.com/traceyourstack/tys-go/internal/pkg/tyserr"
)

func testConfig(t *testing.T, endpoint string) *config.Config {
	t.Helper()
	return &config.Config{
		DeviceName:          "test-device",
		AuthorizationToken:  "token-123",
		AuthorizationScheme: "Bearer",
		EndpointURL:         endpoint,
		SuccessCode:         "200",
		InvalidTokenCode:    "402",
		DeliveryTimeout:     time.Second * 5,
		DatabasePath:        filepath.Join(t.TempDir(), "queue.db"),
	}
}

func TestEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("200"))
	}))
	defer server.Close()

	client := newClient(testConfig(t, server.URL), settings.NewMemory())

	client.LogException(ExceptionInfo{
		Type:       "System.InvalidOperationException",
		Message:    "sequence contains no elements",
		StackTrace: "at Foo.Bar()",
	}, "1.2.0.0")

	outcome := client.FlushExceptionsQueue(context.Background())
	require.Equal(t, FlushSuccess, outcome)

	grouped, err := client.LoadExceptionReports(context.Background())
	require.NoError(t, err)
	require.Len(t, grouped, 1)
	assert.Equal(t, 1, grouped[0].Group.Reports)
	require.Len(t, grouped[0].Summaries, 1)
	assert.Equal(t, "System.InvalidOperationException", grouped[0].Summaries[0].ExceptionType)

	// flushed once, an immediate re-run has nothing left to upload
	outcome = client.FlushExceptionsQueue(context.Background())
	assert.Equal(t, FlushSuccess, outcome)
}

func TestOfflineThenRecovery(t *testing.T) {
	var online bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !online {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("200"))
	}))
	defer server.Close()

	client := newClient(testConfig(t, server.URL), settings.NewMemory())

	client.LogException(ExceptionInfo{Type: "System.Exception"}, "1.0")
	require.Equal(t, FlushNetworkConnectionNotAvailable, client.FlushExceptionsQueue(context.Background()))

	// the report stayed queued, a later run delivers it
	online = true
	assert.Equal(t, FlushSuccess, client.FlushExceptionsQueue(context.Background()))
}

func TestInitializeExactlyOnce(t *testing.T) {
	t.Cleanup(func() {
		mu.Lock()
		singleton = nil
		mu.Unlock()
	})

	require.NoError(t, Initialize(settings.NewMemory(), "device", "token"))

	err := Initialize(settings.NewMemory(), "device", "token")
	assert.True(t, errors.Is(err, tyserr.ErrAlreadyInitialized))
}

func TestUsedBeforeInitialize(t *testing.T) {
	mu.Lock()
	singleton = nil
	mu.Unlock()

	_, err := FlushExceptionsQueue(context.Background())
	assert.True(t, errors.Is(err, tyserr.ErrNotInitialized))

	_, err = LoadExceptionReports(context.Background())
	assert.True(t, errors.Is(err, tyserr.ErrNotInitialized))

	// must stay silent inside a crash handler
	assert.NotPanics(t, func() {
		LogException(ExceptionInfo{Type: "System.Exception"}, "1.0")
	})
}
