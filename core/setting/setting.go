// Package setting persists the player settings in a JSON file and publishes
// volume changes onto the bus when the file is edited.
package setting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"MeloFM/core/bus"
	"MeloFM/logger"
	"MeloFM/model"

	"github.com/fsnotify/fsnotify"
)

// Store holds the current player settings and keeps them in sync with the
// backing file.
type Store struct {
	path string
	bus  *bus.Bus

	mu      sync.RWMutex
	current model.Setting

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewStore loads the settings file, creating it with defaults when missing.
func NewStore(path string, b *bus.Bus) (*Store, error) {
	s := &Store{
		path:    path,
		bus:     b,
		current: model.DefaultSetting(),
		done:    make(chan struct{}),
	}

	if err := s.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		if err := s.save(); err != nil {
			return nil, fmt.Errorf("failed to write default settings: %w", err)
		}
	}
	return s, nil
}

// Current returns the settings as of the last load.
func (s *Store) Current() model.Setting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the settings, persists them and publishes a volume change when
// the volume moved.
func (s *Store) Set(next model.Setting) error {
	s.mu.Lock()
	prev := s.current
	s.current = next
	s.mu.Unlock()

	if err := s.save(); err != nil {
		return err
	}
	if prev.PlayerVolume != next.PlayerVolume {
		s.bus.Emit(bus.VolumeChanged(next.PlayerVolume))
	}
	return nil
}

// Watch starts reacting to external edits of the settings file. Changes are
// reloaded and a volume change is published when the volume moved.
func (s *Store) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create settings watcher: %w", err)
	}
	// 监听目录而不是文件本身，编辑器保存时常以重命名替换文件
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch settings dir: %w", err)
	}
	s.watcher = watcher

	s.wg.Add(1)
	go s.watchLoop()
	return nil
}

// Close stops the watcher.
func (s *Store) Close() {
	if s.watcher == nil {
		return
	}
	close(s.done)
	s.watcher.Close()
	s.wg.Wait()
}

func (s *Store) watchLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			s.mu.RLock()
			prevVolume := s.current.PlayerVolume
			s.mu.RUnlock()

			if err := s.load(); err != nil {
				logger.Warn("重新加载设置失败",
					logger.String("path", s.path),
					logger.ErrorField(err))
				continue
			}

			next := s.Current()
			if next.PlayerVolume != prevVolume {
				logger.Debug("音量设置变更",
					logger.Float64("volume", next.PlayerVolume))
				s.bus.Emit(bus.VolumeChanged(next.PlayerVolume))
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("设置文件监听错误", logger.ErrorField(err))
		}
	}
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var setting model.Setting
	if err := json.Unmarshal(data, &setting); err != nil {
		return fmt.Errorf("failed to parse settings file: %w", err)
	}
	if setting.PlayerVolume < 0 {
		setting.PlayerVolume = 0
	}
	if setting.PlayerVolume > 1 {
		setting.PlayerVolume = 1
	}
	if setting.PlayMode == "" {
		setting.PlayMode = model.PlayModeStandard
	}

	s.mu.Lock()
	s.current = setting
	s.mu.Unlock()
	return nil
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	s.mu.RLock()
	data, err := json.MarshalIndent(s.current, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
