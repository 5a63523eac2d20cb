package core

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// AutoFlush selects when System's log sink writes its buffered lines
// out to stderr, grounded on system.hpp's AutoFlush enum.
type AutoFlush int

const (
	AutoFlushNever AutoFlush = iota
	AutoFlushAlways
	AutoFlushEndOfLine
)

// SystemConfig is the subset of process-wide behavior that can be
// loaded from a YAML file via LoadSystemConfig. There is deliberately
// no environment-variable fallback and nothing here is persisted back
// to disk: the only supported input is an explicit, one-shot file read.
type SystemConfig struct {
	DebugLevel      int            `yaml:"debugLevel"`
	DebugLevels     map[string]int `yaml:"debugLevels"`
	AutoFlush       string         `yaml:"autoFlush"` // "never" | "always" | "endOfLine"
	FlushIntervalMs int            `yaml:"flushIntervalMs"`
	WorkerPoolSize  int            `yaml:"workerPoolSize"`
}

// LoadSystemConfig reads and parses a YAML SystemConfig from path. It
// does not apply the config; call ApplyConfig with the result, so tests
// can load without mutating the process-wide System singleton.
func LoadSystemConfig(path string) (SystemConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SystemConfig{}, fmt.Errorf("load system config: %w", err)
	}

	var cfg SystemConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SystemConfig{}, fmt.Errorf("parse system config: %w", err)
	}
	return cfg, nil
}

// System is the process-wide debug-level and log-sink singleton,
// grounded on system.hpp's system class. Debug levels can be set
// globally or per matching substring (e.g. "task_node::" at level 1),
// and logged lines accumulate in an in-memory buffer until flushed
// according to the configured AutoFlush mode.
type System struct {
	mu           sync.Mutex
	debugLevel   int
	debugLevels  map[string]int
	buf          bytes.Buffer
	autoFlush    AutoFlush
	flushStop    chan struct{}
	flushStopped chan struct{}
}

var (
	systemOnce sync.Once
	systemInst *System
)

// DefaultSystem returns the process-wide System singleton.
func DefaultSystem() *System {
	systemOnce.Do(func() {
		systemInst = &System{debugLevels: make(map[string]int)}
	})
	return systemInst
}

func (s *System) DebugLevel() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debugLevel
}

// DebugLevelFor returns the level of a configured substring that appears
// in str, or the global level if none match. When several configured
// substrings appear in str, which of their levels is returned is not
// defined.
func (s *System) DebugLevelFor(str string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for substr, level := range s.debugLevels {
		if strings.Contains(str, substr) {
			return level
		}
	}
	return s.debugLevel
}

func (s *System) SetDebugLevel(level int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debugLevel = level
}

func (s *System) SetDebugLevelFor(substr string, level int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debugLevels[substr] = level
}

// SetAutoFlush selects when Log writes its buffer out.
func (s *System) SetAutoFlush(mode AutoFlush) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoFlush = mode
}

// Log appends a formatted line to the sink and, depending on the
// configured AutoFlush mode, writes it out immediately.
func (s *System) Log(format string, args ...any) {
	line := fmt.Sprintf(format, args...)

	s.mu.Lock()
	s.buf.WriteString(line)
	mode := s.autoFlush
	endsInNewline := strings.HasSuffix(line, "\n")
	s.mu.Unlock()

	switch mode {
	case AutoFlushAlways:
		s.Flush()
	case AutoFlushEndOfLine:
		if endsInNewline {
			s.Flush()
		}
	case AutoFlushNever:
	}
}

// Flush writes the buffered log out to stderr and clears the buffer.
func (s *System) Flush() {
	s.mu.Lock()
	data := s.buf.String()
	s.buf.Reset()
	s.mu.Unlock()

	if data != "" {
		fmt.Fprint(os.Stderr, data)
	}
}

// StartFlushThread starts a background goroutine that calls Flush every
// interval until StopFlushThread is called. Calling it again while
// already running is a no-op.
func (s *System) StartFlushThread(interval time.Duration) {
	s.mu.Lock()
	if s.flushStop != nil {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	stopped := make(chan struct{})
	s.flushStop = stop
	s.flushStopped = stopped
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Flush()
			case <-stop:
				s.Flush()
				close(stopped)
				return
			}
		}
	}()
}

// StopFlushThread stops the background flush goroutine started by
// StartFlushThread, if any, and performs one final flush.
func (s *System) StopFlushThread() {
	s.mu.Lock()
	stop := s.flushStop
	stopped := s.flushStopped
	s.flushStop = nil
	s.flushStopped = nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-stopped
}

// ApplyConfig applies a loaded SystemConfig to the System singleton.
// WorkerPoolSize is not applied: the pool always starts one worker per
// logical CPU.
func (s *System) ApplyConfig(cfg SystemConfig) {
	s.SetDebugLevel(cfg.DebugLevel)
	for substr, level := range cfg.DebugLevels {
		s.SetDebugLevelFor(substr, level)
	}

	switch cfg.AutoFlush {
	case "always":
		s.SetAutoFlush(AutoFlushAlways)
	case "endOfLine":
		s.SetAutoFlush(AutoFlushEndOfLine)
	default:
		s.SetAutoFlush(AutoFlushNever)
	}

	if cfg.FlushIntervalMs > 0 {
		s.StartFlushThread(time.Duration(cfg.FlushIntervalMs) * time.Millisecond)
	}
}
