package service

import (
	"context"
	"time"

	"github.com/netfield-io/sitesurvey/internal/config"
	mq "github.com/netfield-io/sitesurvey/internal/infra/queue"
	"go.uber.org/zap"
)

// Events publishes survey lifecycle notifications. RabbitMQ is optional; a
// nil publisher turns every method into a no-op, and publish failures are
// logged rather than surfaced, so the write path never depends on the broker.
type Events struct {
	pub *mq.Publisher
	cfg *config.Config
	log *zap.Logger
}

func NewEvents(pub *mq.Publisher, cfg *config.Config, log *zap.Logger) *Events {
	return &Events{pub: pub, cfg: cfg, log: log}
}

type formUpdatedEvent struct {
	Module    string    `json:"module"`
	SessionID string    `json:"session_id"`
	At        time.Time `json:"at"`
}

type surveyDeletedEvent struct {
	SessionID string    `json:"session_id"`
	At        time.Time `json:"at"`
}

func (e *Events) FormUpdated(ctx context.Context, module, sessionID string) {
	if e == nil || e.pub == nil {
		return
	}
	err := e.pub.PublishJSON(ctx, e.cfg.RabbitMQ.ExchangeName, e.cfg.RabbitMQ.RoutingKey.FormUpdated,
		formUpdatedEvent{Module: module, SessionID: sessionID, At: time.Now().UTC()})
	if err != nil {
		e.log.Warn("publish form.updated failed",
			zap.String("module", module), zap.String("session_id", sessionID), zap.Error(err))
	}
}

func (e *Events) SurveyDeleted(ctx context.Context, sessionID string) {
	if e == nil || e.pub == nil {
		return
	}
	err := e.pub.PublishJSON(ctx, e.cfg.RabbitMQ.ExchangeName, e.cfg.RabbitMQ.RoutingKey.SurveyDeleted,
		surveyDeletedEvent{SessionID: sessionID, At: time.Now().UTC()})
	if err != nil {
		e.log.Warn("publish survey.deleted failed",
			zap.String("session_id", sessionID), zap.Error(err))
	}
}
