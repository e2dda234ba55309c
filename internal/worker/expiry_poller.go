package worker

import (
	"context"
	"time"

	"github.com/zerofoodhero/api/internal/repository"
	"github.com/zerofoodhero/api/pkg/logger"
	"github.com/zerofoodhero/api/pkg/messaging"
)

// ExpiryPoller periodically sweeps donations past their expiry window and
// broadcasts a refresh hint so connected clients can re-fetch.
type ExpiryPoller struct {
	repo     repository.DonationRepository
	broker   messaging.Broker
	interval time.Duration
	channel  string
	log      *logger.Logger
}

func NewExpiryPoller(repo repository.DonationRepository, broker messaging.Broker, interval time.Duration, channel string, log *logger.Logger) *ExpiryPoller {
	return &ExpiryPoller{
		repo:     repo,
		broker:   broker,
		interval: interval,
		channel:  channel,
		log:      log,
	}
}

func (p *ExpiryPoller) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.sweep(ctx); err != nil {
				p.log.Error(err, "expiry sweep failed")
			}
		}
	}
}

func (p *ExpiryPoller) sweep(ctx context.Context) error {
	expired, err := p.repo.Reconcile(ctx)
	if err != nil {
		return err
	}
	if expired == 0 {
		return nil
	}

	p.log.Info("expired stale donations", "count", expired)
	return p.broker.Publish(ctx, p.channel, &messaging.Message{
		Type:    "donations.expired",
		Payload: map[string]interface{}{"count": expired},
	})
}
