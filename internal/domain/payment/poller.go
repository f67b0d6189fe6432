package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultPollInterval matches the frontend's 3-second status polling.
const DefaultPollInterval = 3 * time.Second

// StatusPoller re-checks a pending charge on a fixed interval and emits one
// event per observation. The stream ends on the first terminal status or when
// the context is cancelled.
type StatusPoller struct {
	service  *Service
	interval time.Duration
}

func NewStatusPoller(service *Service, interval time.Duration) *StatusPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &StatusPoller{service: service, interval: interval}
}

// Watch polls the charge until it reaches a terminal state. The returned
// channel closes when polling stops; the caller owns the context.
func (p *StatusPoller) Watch(ctx context.Context, userID uuid.UUID, chargeID string) <-chan StatusResponse {
	events := make(chan StatusResponse, 1)

	go func() {
		defer close(events)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			charge, err := p.service.GetStatus(ctx, userID, chargeID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Error().Err(err).Str("charge_id", chargeID).Msg("charge status poll failed")
				events <- StatusResponse{ID: chargeID, Status: StatusFailed, Message: err.Error()}
				return
			}

			event := StatusResponse{
				ID:      charge.ID,
				Status:  charge.Status,
				Credits: charge.Credits,
				Message: charge.Message,
			}

			select {
			case events <- event:
			case <-ctx.Done():
				return
			}

			if charge.Terminal() {
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events
}
