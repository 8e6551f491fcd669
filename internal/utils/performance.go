package utils

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// StepAggregate holds timing totals for one named step
type StepAggregate struct {
	StepName string
	Count    int
	Total    time.Duration
	Min      time.Duration
	Max      time.Duration
}

func (a StepAggregate) Average() time.Duration {
	if a.Count == 0 {
		return 0
	}
	return a.Total / time.Duration(a.Count)
}

// PerformanceTracker records how long the phases of a run take
type PerformanceTracker struct {
	mu         sync.Mutex
	now        func() time.Time
	aggregates map[string]*StepAggregate
}

func NewPerformanceTracker() *PerformanceTracker {
	return &PerformanceTracker{
		now:        time.Now,
		aggregates: make(map[string]*StepAggregate),
	}
}

// StartStep begins timing name; calling the returned func ends it.
func (pt *PerformanceTracker) StartStep(name string) func() time.Duration {
	start := pt.now()
	return func() time.Duration {
		d := pt.now().Sub(start)
		pt.record(name, d)
		return d
	}
}

func (pt *PerformanceTracker) record(name string, d time.Duration) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	agg, exists := pt.aggregates[name]
	if !exists {
		agg = &StepAggregate{StepName: name, Min: d, Max: d}
		pt.aggregates[name] = agg
	}
	agg.Count++
	agg.Total += d
	if d < agg.Min {
		agg.Min = d
	}
	if d > agg.Max {
		agg.Max = d
	}
}

// Steps returns a copy of the aggregates, slowest total first.
func (pt *PerformanceTracker) Steps() []StepAggregate {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	steps := make([]StepAggregate, 0, len(pt.aggregates))
	for _, agg := range pt.aggregates {
		steps = append(steps, *agg)
	}
	sort.Slice(steps, func(i, j int) bool {
		if steps[i].Total == steps[j].Total {
			return steps[i].StepName < steps[j].StepName
		}
		return steps[i].Total > steps[j].Total
	})
	return steps
}

// GenerateAggregateReport generates an aggregate performance report
func (pt *PerformanceTracker) GenerateAggregateReport() string {
	var sb strings.Builder
	sb.WriteString("\n=== Performance Report ===\n")

	for _, agg := range pt.Steps() {
		sb.WriteString(fmt.Sprintf(
			"Step: %s\n"+
				"  Count:   %d\n"+
				"  Total:   %v\n"+
				"  Average: %v\n"+
				"  Min:     %v\n"+
				"  Max:     %v\n",
			agg.StepName,
			agg.Count,
			agg.Total.Round(time.Millisecond),
			agg.Average().Round(time.Millisecond),
			agg.Min.Round(time.Millisecond),
			agg.Max.Round(time.Millisecond),
		))
	}

	return sb.String()
}
