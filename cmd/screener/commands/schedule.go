package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rdhawan/nifty-screener/internal/scheduler"
	"github.com/rdhawan/nifty-screener/internal/scheduler/jobs"
)

// scheduleCmd runs the pipeline on a cron schedule.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the pipeline on a cron schedule",
	Long: `Starts a scheduler daemon that runs the full pipeline on a cron
schedule. The expression uses six fields (seconds first). The default fires
at 18:00 on the first day of each month.

Example:
  screener schedule
  screener schedule --cron "0 30 17 1 * *"

Stop with Ctrl+C.`,
	RunE: runSchedule,
}

var scheduleCron string

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", jobs.DefaultSchedule, "cron expression (6 fields, seconds first)")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	rt, err := initRuntime()
	if err != nil {
		return err
	}

	sched := scheduler.New(rt.log)
	job := jobs.NewPipelineJob(rt.orchestrator(), scheduleCron, rt.log)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("add job: %w", err)
	}

	sched.Start()
	fmt.Printf("Scheduler started, job %q on %q\n", job.Name(), job.Schedule())
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
