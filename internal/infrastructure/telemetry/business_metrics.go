// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterRequired is returned when business metrics are built without a
// meter.
var ErrMeterRequired = errors.New("business metrics: meter is required")

const defaultCollectInterval = 5 * time.Minute

// BusinessMetrics tracks the portal's domain activity: deal transitions,
// score recalculations, automation email delivery, and billing webhooks.
// Counters are recorded inline by the application layer; pipeline gauges
// are sampled on a ticker from a PipelineMetricsProvider.
type BusinessMetrics struct {
	logger *zap.Logger

	dealTransitionTotal *Counter
	scoreRecalcTotal    *Counter
	emailSentTotal      *Counter
	webhookEventTotal   *Counter

	pipelineActiveDeals   *Gauge
	pipelineMonthlyValue  *FloatGauge
	automationEnrollments *Gauge

	pipelineProvider PipelineMetricsProvider

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// PipelineMetricsProvider supplies pipeline data for the periodic gauges.
// The interface keeps the telemetry layer from depending on the pipeline
// domain directly.
type PipelineMetricsProvider interface {
	// GetActiveDealCounts returns the number of open deals per status.
	GetActiveDealCounts(ctx context.Context) (map[string]int64, error)

	// GetOpenMonthlyValue returns the summed monthly total of open deals.
	GetOpenMonthlyValue(ctx context.Context) (float64, error)

	// GetActiveEnrollmentCount returns the number of active automation
	// enrollments.
	GetActiveEnrollmentCount(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig configures NewBusinessMetrics. Meter is required;
// everything else has a working default.
type BusinessMetricsConfig struct {
	Meter            metric.Meter
	Logger           *zap.Logger
	CollectInterval  time.Duration
	PipelineProvider PipelineMetricsProvider
}

// NewBusinessMetrics registers the portal's business instruments on the
// meter.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterRequired
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		logger:           logger,
		stopChan:         make(chan struct{}),
		pipelineProvider: cfg.PipelineProvider,
	}

	counters := []struct {
		dst              **Counter
		name, desc, unit string
	}{
		{&bm.dealTransitionTotal, "portal_deal_transition_total", "Total number of deal status transitions", "{transitions}"},
		{&bm.scoreRecalcTotal, "portal_score_recalc_total", "Total number of engagement score recalculations", "{recalculations}"},
		{&bm.emailSentTotal, "portal_email_sent_total", "Total number of automation emails sent", "{emails}"},
		{&bm.webhookEventTotal, "portal_webhook_event_total", "Total number of billing webhook events processed", "{events}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(cfg.Meter, c.name, c.desc, c.unit)
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	var err error
	if bm.pipelineActiveDeals, err = NewGauge(cfg.Meter,
		"portal_pipeline_active_deals", "Current number of open deals", "{deals}"); err != nil {
		return nil, err
	}
	if bm.pipelineMonthlyValue, err = NewFloatGauge(cfg.Meter,
		"portal_pipeline_monthly_value", "Summed monthly total of open deals", "{usd}"); err != nil {
		return nil, err
	}
	if bm.automationEnrollments, err = NewGauge(cfg.Meter,
		"portal_automation_active_enrollments", "Current number of active automation enrollments", "{enrollments}"); err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordDealTransition records a deal moving between lifecycle statuses.
func (bm *BusinessMetrics) RecordDealTransition(ctx context.Context, fromStatus, toStatus string) {
	bm.dealTransitionTotal.Inc(ctx,
		AttrDealStage.String(toStatus),
		AttrEventType.String(fromStatus+"->"+toStatus),
	)
}

// RecordScoreRecalc records one engagement-score recalculation, labeled by
// what triggered it and whether the score actually changed.
func (bm *BusinessMetrics) RecordScoreRecalc(ctx context.Context, trigger string, updated bool) {
	outcome := "skipped"
	if updated {
		outcome = "updated"
	}
	bm.scoreRecalcTotal.Inc(ctx,
		AttrTriggerSource.String(trigger),
		AttrOutcome.String(outcome),
	)
}

// EmailOutcome labels an automation email delivery attempt.
type EmailOutcome string

const (
	EmailOutcomeSent   EmailOutcome = "sent"
	EmailOutcomeFailed EmailOutcome = "failed"
)

// RecordEmailSent records an automation email delivery attempt.
func (bm *BusinessMetrics) RecordEmailSent(ctx context.Context, templateKind string, outcome EmailOutcome) {
	bm.emailSentTotal.Inc(ctx,
		AttrTemplateKind.String(templateKind),
		AttrOutcome.String(string(outcome)),
	)
}

// RecordWebhookEvent records a billing webhook delivery, distinguishing
// first deliveries from idempotency-deduped redeliveries.
func (bm *BusinessMetrics) RecordWebhookEvent(ctx context.Context, eventType string, duplicate bool) {
	outcome := "processed"
	if duplicate {
		outcome = "duplicate"
	}
	bm.webhookEventTotal.Inc(ctx,
		AttrEventType.String(eventType),
		AttrOutcome.String(outcome),
	)
}

// StartPeriodicCollection samples the pipeline gauges immediately and then
// on every interval tick until Stop or context cancellation. Calling it
// again is a no-op.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = defaultCollectInterval
		}
		go bm.collectLoop(ctx, interval)
	})
}

func (bm *BusinessMetrics) collectLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.samplePipeline(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("stopping business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("context cancelled, stopping business metrics collection")
			return
		case <-ticker.C:
			bm.samplePipeline(ctx)
		}
	}
}

// samplePipeline records each gauge independently; a failing query skips
// that gauge for this tick and leaves the others alone.
func (bm *BusinessMetrics) samplePipeline(ctx context.Context) {
	if bm.pipelineProvider == nil {
		return
	}

	if counts, err := bm.pipelineProvider.GetActiveDealCounts(ctx); err != nil {
		bm.logger.Warn("failed to get active deal counts", zap.Error(err))
	} else {
		for status, count := range counts {
			bm.pipelineActiveDeals.Record(ctx, count, AttrDealStage.String(status))
		}
	}

	if monthlyValue, err := bm.pipelineProvider.GetOpenMonthlyValue(ctx); err != nil {
		bm.logger.Warn("failed to get open monthly value", zap.Error(err))
	} else {
		bm.pipelineMonthlyValue.Record(ctx, monthlyValue)
	}

	if enrollments, err := bm.pipelineProvider.GetActiveEnrollmentCount(ctx); err != nil {
		bm.logger.Warn("failed to get active enrollment count", zap.Error(err))
	} else {
		bm.automationEnrollments.Record(ctx, enrollments)
	}
}

// Stop ends periodic collection. Safe to call more than once.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}
