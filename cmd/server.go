package cmd

import (
	"time"

	"MeloFM/config"
	"MeloFM/core/bus"
	"MeloFM/logger"
	"MeloFM/schedule"
	"MeloFM/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动MeloFM服务器",
	Long:  `启动MeloFM音乐系统的HTTP服务器，提供API服务、播放事件桥接与资源服务`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		logger.Init(logger.Config{
			Level:      cfg.LogLevel,
			OutputPath: cfg.LogPath,
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
			Compress:   true,
		})

		sweeper := schedule.NewLogSweeper(cfg.ScheduleLogDir, 24*time.Hour)
		sweeper.Start()
		defer sweeper.Stop()

		server.Start(cfg, bus.New())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
