package crawler

import (
	"fmt"
	"time"
)

// CoverageReport is emitted on normal or early termination per §4.4's
// final paragraph.
type CoverageReport struct {
	UniquePlayers   int
	WithAtLeast5    int
	WithAtLeast10   int
	WithAtLeast20   int
	AvgPerPlayer    float64
	TotalWritten    int
	Elapsed         time.Duration
}

func (s *State) buildReport() CoverageReport {
	ge5, ge10, ge20, avg := s.coverageBuckets()
	return CoverageReport{
		UniquePlayers: s.seenPlayerCount(),
		WithAtLeast5:  ge5,
		WithAtLeast10: ge10,
		WithAtLeast20: ge20,
		AvgPerPlayer:  avg,
		TotalWritten:  s.WrittenMatches,
		Elapsed:       time.Since(s.StartTime),
	}
}

func (r CoverageReport) String() string {
	return fmt.Sprintf(
		"=== Coverage Report ===\nElapsed: %s\nUnique players discovered: %d\n"+
			"Players with >=5 matches: %d\nPlayers with >=10 matches: %d\nPlayers with >=20 matches: %d\n"+
			"Average matches/player: %.2f\nTotal matches written: %d\n",
		formatDuration(r.Elapsed), r.UniquePlayers, r.WithAtLeast5, r.WithAtLeast10, r.WithAtLeast20,
		r.AvgPerPlayer, r.TotalWritten,
	)
}

// formatDuration mirrors cmd/collector's human-readable duration
// formatter.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%02ds", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%02dm%02ds", hours, mins, secs)
}
