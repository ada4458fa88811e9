package jobs

import (
	"context"

	"github.com/rdhawan/nifty-screener/internal/pipeline"
	"github.com/rdhawan/nifty-screener/pkg/logger"
)

// PipelineJob runs the full screening pipeline on a cron schedule.
// The default schedule fires on the first day of each month so that the
// prior month's final session is available in the bar files.
type PipelineJob struct {
	orchestrator *pipeline.Orchestrator
	schedule     string
	logger       *logger.Logger
}

// DefaultSchedule is 18:00 on the first day of every month.
const DefaultSchedule = "0 0 18 1 * *"

func NewPipelineJob(orch *pipeline.Orchestrator, schedule string, log *logger.Logger) *PipelineJob {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &PipelineJob{
		orchestrator: orch,
		schedule:     schedule,
		logger:       log,
	}
}

func (j *PipelineJob) Name() string {
	return "monthly-screen"
}

func (j *PipelineJob) Schedule() string {
	return j.schedule
}

func (j *PipelineJob) Run(ctx context.Context) error {
	result, err := j.orchestrator.Run(ctx)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"stages":     len(result.CompletedStages),
		"month_ends": result.MonthEnds,
	}).Info("Scheduled pipeline run finished")

	return nil
}
