package domain

import "time"

// RunStats accumulates the results of a whole run. It is only touched by the
// goroutine driving the walk and therefore carries no lock.
type RunStats struct {
	Scanned    map[Format]int
	Optimized  map[Format]int
	BytesSaved map[Format]int64
	Records    []OptimizationRecord
	Start      time.Time
	Aborted    bool
}

// NewRunStats creates an empty accumulator starting at the given time.
func NewRunStats(start time.Time) *RunStats {
	return &RunStats{
		Scanned:    make(map[Format]int),
		Optimized:  make(map[Format]int),
		BytesSaved: make(map[Format]int64),
		Start:      start,
	}
}

// RecordScanned counts a file whose format was recognised.
func (s *RunStats) RecordScanned(f Format) {
	s.Scanned[f]++
}

// RecordOptimized counts a file that was shrunk in place by saved bytes.
func (s *RunStats) RecordOptimized(f Format, saved int64) {
	s.Optimized[f]++
	s.BytesSaved[f] += saved
}

// AddRecord appends a list-only record.
func (s *RunStats) AddRecord(r OptimizationRecord) {
	s.Records = append(s.Records, r)
}

// HasRecords reports whether any file qualified as optimizable.
func (s *RunStats) HasRecords() bool {
	return len(s.Records) > 0
}

// TotalScanned returns the number of recognised files over all formats.
func (s *RunStats) TotalScanned() int {
	total := 0
	for _, n := range s.Scanned {
		total += n
	}
	return total
}

// Elapsed returns the wall time since the run started.
func (s *RunStats) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.Start)
}
