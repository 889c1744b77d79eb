package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/traceyourstack/tys-go/internal/config"
	"github.com/traceyourstack/tys-go/internal/model"
	"github.com/traceyourstack/tys-go/internal/pkg/observability"
)

// Deliverer uploads a single report to the collection service. Exactly one
// attempt is made per call; retry policy belongs to the caller re-invoking
// the flush later.
type Deliverer struct {
	config *config.Config
	client *http.Client
}

func NewDeliverer(config *config.Config) *Deliverer {
	return &Deliverer{
		config: config,
		client: &http.Client{
			Timeout: config.DeliveryTimeout,
		},
	}
}

// Deliver POSTs the report envelope and classifies the response. The service
// answers with a short body code; which codes mean success and invalid token
// is configuration, since deployed collectors have disagreed on them.
func (d *Deliverer) Deliver(ctx context.Context, report *model.Report) (outcome model.DeliveryOutcome) {
	defer func() {
		observability.DeliveryAttempts.WithLabelValues(outcome.String()).Inc()
	}()

	body, err := json.Marshal(model.NewReportEnvelope(report, d.config.DeviceName))
	if err != nil {
		log.Error().Err(err).Str("uid", report.Uid).Msg("failed to serialize report envelope")
		return model.DeliveryNetworkUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.config.EndpointURL, bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Msg("failed to build delivery request")
		return model.DeliveryNetworkUnavailable
	}
	req.Header.Set("Authorization", d.authorization())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return model.DeliveryCanceled
		}
		log.Debug().Err(err).Str("uid", report.Uid).Msg("delivery transport failure")
		return model.DeliveryNetworkUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if ctx.Err() != nil {
			return model.DeliveryCanceled
		}
		return model.DeliveryNetworkUnavailable
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return model.DeliveryCanceled
		}
		return model.DeliveryNetworkUnavailable
	}

	switch code := strings.TrimSpace(string(raw)); code {
	case d.config.SuccessCode:
		return model.DeliverySuccess
	case d.config.InvalidTokenCode:
		return model.DeliveryInvalidAuthorizationToken
	default:
		log.Debug().Str("code", code).Str("uid", report.Uid).Msg("collection service rejected report")
		return model.DeliveryServiceError
	}
}

func (d *Deliverer) authorization() string {
	if d.config.AuthorizationScheme == "" {
		return d.config.AuthorizationToken
	}
	return d.config.AuthorizationScheme + " " + d.config.AuthorizationToken
}
