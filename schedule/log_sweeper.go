// Package schedule runs periodic housekeeping jobs.
package schedule

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"MeloFM/logger"
)

// 日志保留期
const logTTL = 30 * 24 * time.Hour

// LogSweeper removes outdated schedule logs. Directories inside the log dir
// are always removed; files survive until they outlive the retention period.
type LogSweeper struct {
	dir      string
	interval time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewLogSweeper creates a sweeper over dir, sweeping at the given interval.
func NewLogSweeper(dir string, interval time.Duration) *LogSweeper {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &LogSweeper{
		dir:      dir,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start launches the sweep loop. The first sweep runs immediately.
func (s *LogSweeper) Start() {
	logger.Info("日志清理任务启动", logger.String("dir", s.dir))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.Sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// Stop terminates the sweep loop.
func (s *LogSweeper) Stop() {
	close(s.stopChan)
	s.wg.Wait()
	logger.Info("日志清理任务已停止")
}

// Sweep removes every outdated entry once. Individual failures are logged and
// the sweep continues.
func (s *LogSweeper) Sweep() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("读取日志目录失败", logger.String("dir", s.dir), logger.ErrorField(err))
		}
		return
	}

	now := time.Now()
	for _, entry := range entries {
		path := filepath.Join(s.dir, entry.Name())

		if entry.IsDir() {
			if err := os.RemoveAll(path); err != nil {
				logger.Warn("删除日志目录失败", logger.String("path", path), logger.ErrorField(err))
			}
			continue
		}

		info, err := entry.Info()
		if err != nil {
			logger.Warn("读取日志文件信息失败", logger.String("path", path), logger.ErrorField(err))
			continue
		}

		if now.Sub(info.ModTime()) >= logTTL {
			if err := os.Remove(path); err != nil {
				logger.Warn("删除过期日志失败", logger.String("path", path), logger.ErrorField(err))
				continue
			}
			logger.Debug("已删除过期日志", logger.String("path", path))
		}
	}
}
