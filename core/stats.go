package core

import (
	"sort"
	"strings"
	"sync"
)

// Stat accumulates busy/idle time and a completion count for one named
// source, typically a worker ("cpu.0", "cpu.1", ...), grounded on
// stats.hpp's stat class.
type Stat struct {
	mu          sync.Mutex
	name        string
	secondsBusy float64
	secondsIdle float64
	num         uint64
}

func (s *Stat) Name() string { return s.name }

// ReportBusy records seconds spent doing work and bumps the completion count.
func (s *Stat) ReportBusy(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secondsBusy += seconds
	s.num++
}

// ReportIdle records seconds spent waiting for work.
func (s *Stat) ReportIdle(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secondsIdle += seconds
}

// Load returns the fraction of observed time spent busy, in [0, 1].
func (s *Stat) Load() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := s.secondsBusy + s.secondsIdle
	if total == 0 {
		return 0
	}
	return s.secondsBusy / total
}

func (s *Stat) Busy() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.secondsBusy
}

func (s *Stat) Num() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.num
}

func (s *Stat) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secondsBusy = 0
	s.secondsIdle = 0
	s.num = 0
}

// Stats is the process-wide registry of named Stat counters, grounded
// on stats::instance. Names are grouped for reporting by the substring
// before their first ".", so "cpu.0" and "cpu.1" both report under
// group "cpu".
type Stats struct {
	mu    sync.Mutex
	stats []*Stat
	total Clock
}

var (
	statsOnce sync.Once
	statsInst *Stats
)

func defaultStats() *Stats {
	statsOnce.Do(func() {
		statsInst = &Stats{}
		statsInst.total.Reset()
	})
	return statsInst
}

// makeStat registers and returns a new named counter.
func (s *Stats) makeStat(name string) *Stat {
	s.mu.Lock()
	defer s.mu.Unlock()

	stat := &Stat{name: name}
	s.stats = append(s.stats, stat)
	sort.Slice(s.stats, func(i, j int) bool { return s.stats[i].name < s.stats[j].name })
	return stat
}

// ShowStats logs each counter's load and a per-group load summary via
// the given logger, then resets every counter's accumulated time for the
// next reporting interval.
func (s *Stats) ShowStats(log Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totalSeconds := s.total.Reset()

	groups := make(map[string][]*Stat)
	var order []string
	for _, stat := range s.stats {
		group := stat.name
		if i := strings.IndexByte(group, '.'); i >= 0 {
			group = group[:i]
		}
		if _, ok := groups[group]; !ok {
			order = append(order, group)
		}
		groups[group] = append(groups[group], stat)
	}
	sort.Strings(order)

	for _, group := range order {
		var totalLoad, totalBusy float64
		var totalNum uint64

		for _, stat := range groups[group] {
			log.Info("load", F("name", stat.name), F("load", stat.Load()), F("num", stat.Num()))
			totalLoad += stat.Load()
			totalBusy += stat.Busy()
			totalNum += stat.Num()
			stat.reset()
		}

		busyPct := 0.0
		if totalSeconds > 0 {
			busyPct = (totalBusy / totalSeconds) * 100.0
		}
		log.Info("load (group)", F("group", group), F("load", totalLoad), F("num", totalNum), F("busy_pct", busyPct))
	}
}

// ShowStats reports on the process-wide Stats singleton.
func ShowStats(log Logger) {
	defaultStats().ShowStats(log)
}
