package cmd

import (
	"MeloFM/config"
	"MeloFM/logger"
	"MeloFM/schedule"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "清理过期的调度日志",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.Init(logger.Config{Level: cfg.LogLevel})

		sweeper := schedule.NewLogSweeper(cfg.ScheduleLogDir, 0)
		sweeper.Sweep()
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
