// internal/seeder/seeder.go
package seeder

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"order-loadgen/internal/common/config"
	httpclient "order-loadgen/internal/common/http"
	"order-loadgen/internal/common/logger"
	"order-loadgen/internal/common/metrics"
	"order-loadgen/internal/common/observability"
	"order-loadgen/internal/common/report"
	"order-loadgen/internal/dispatcher"
	createorder "order-loadgen/internal/workers/orders/create-order"
	lookuporder "order-loadgen/internal/workers/orders/lookup-order"
)

type PhaseSummary struct {
	Phase     string        `json:"phase"`
	Tasks     int           `json:"tasks"`
	Succeeded int64         `json:"succeeded"`
	Failed    int64         `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

type Summary struct {
	RunID  string        `json:"runId"`
	Create PhaseSummary  `json:"create"`
	Lookup *PhaseSummary `json:"lookup,omitempty"`
}

// Seeder runs the create phase and, when enabled, the lookup phase over the
// same indices. Lookups never start before every create has settled.
type Seeder struct {
	cfg        *config.Config
	client     *httpclient.Client
	out        io.Writer
	dispatcher *dispatcher.Dispatcher
	obs        *observability.Observability
	logger     logger.Logger
}

func New(cfg *config.Config, client *httpclient.Client, out io.Writer, obs *observability.Observability, log logger.Logger) *Seeder {
	return &Seeder{
		cfg:        cfg,
		client:     client,
		out:        out,
		dispatcher: dispatcher.New(cfg.Batch.Concurrency, log),
		obs:        obs,
		logger:     log,
	}
}

func (s *Seeder) Run(ctx context.Context) *Summary {
	runID := uuid.New().String()
	log := s.logger.With(map[string]interface{}{"runId": runID})
	indices := dispatcher.Range(s.cfg.Batch.Size)

	log.Info("seeding orders", map[string]interface{}{
		"target":        s.cfg.Target.BaseURL,
		"size":          s.cfg.Batch.Size,
		"concurrency":   s.cfg.Batch.Concurrency,
		"includeLookup": s.cfg.Batch.IncludeLookup,
	})

	summary := &Summary{RunID: runID}

	summary.Create = s.runPhase(ctx, createorder.Phase, indices, func(rep *report.Reporter) dispatcher.Task {
		return createorder.NewHandler(createorder.LoadConfig(s.cfg), s.client, rep, log)
	})

	if s.cfg.Batch.IncludeLookup {
		phase := s.runPhase(ctx, lookuporder.Phase, indices, func(rep *report.Reporter) dispatcher.Task {
			return lookuporder.NewHandler(lookuporder.LoadConfig(s.cfg), s.client, rep, log)
		})
		summary.Lookup = &phase
	}

	fields := map[string]interface{}{
		"created":        summary.Create.Succeeded,
		"createFailed":   summary.Create.Failed,
		"createDuration": summary.Create.Duration.String(),
	}
	if summary.Lookup != nil {
		fields["fetched"] = summary.Lookup.Succeeded
		fields["lookupFailed"] = summary.Lookup.Failed
		fields["lookupDuration"] = summary.Lookup.Duration.String()
	}
	log.Info("seeding finished", fields)

	return summary
}

func (s *Seeder) runPhase(ctx context.Context, phase string, indices []int, build func(*report.Reporter) dispatcher.Task) PhaseSummary {
	rep := report.New(s.out)

	start := time.Now()
	s.dispatcher.Dispatch(ctx, phase, indices, build(rep))
	elapsed := time.Since(start)

	s.obs.RecordPhase(ctx, phase, elapsed)
	s.obs.RecordTasks(ctx, phase, metrics.OutcomeSuccess, rep.Succeeded())
	s.obs.RecordTasks(ctx, phase, metrics.OutcomeFailure, rep.Failed())

	return PhaseSummary{
		Phase:     phase,
		Tasks:     len(indices),
		Succeeded: rep.Succeeded(),
		Failed:    rep.Failed(),
		Duration:  elapsed,
	}
}
