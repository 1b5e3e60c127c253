package notify

import (
	"context"
	"fmt"

	"github.com/mkrishnan-dev/orderhub-backend/pkg/logger"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/metrics"
)

// Service is the outbound messaging surface. Delivery is best effort; a
// failed send is logged and counted, never propagated to the caller.
type Service interface {
	Notify(ctx context.Context, destination, body string) bool
}

type gateway interface {
	SendMessage(ctx context.Context, to, body string) (string, error)
}

type service struct {
	gateway gateway
	metrics *metrics.OrderMetrics
	logg    *logger.Logger
}

// ServiceParams bundles the dependencies required to build the notify service.
type ServiceParams struct {
	Gateway gateway
	Metrics *metrics.OrderMetrics
	Logger  *logger.Logger
}

// NewService constructs the notify service over a configured gateway.
func NewService(params ServiceParams) (Service, error) {
	if params.Gateway == nil {
		return nil, fmt.Errorf("messaging gateway is required")
	}
	return &service{
		gateway: params.Gateway,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

func (s *service) Notify(ctx context.Context, destination, body string) bool {
	if destination == "" || body == "" {
		s.metrics.IncNotification("skipped")
		return false
	}

	sid, err := s.gateway.SendMessage(ctx, destination, body)
	if err != nil {
		s.metrics.IncNotification("failed")
		if s.logg != nil {
			s.logg.Error(ctx, "send whatsapp message", err)
		}
		return false
	}

	s.metrics.IncNotification("sent")
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "message_sid", sid), "whatsapp message sent")
	}
	return true
}
