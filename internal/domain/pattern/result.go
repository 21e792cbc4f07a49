package pattern

import (
	"time"

	"github.com/google/uuid"

	"arachne/internal/domain/series"
)

// RunMetadata describes one mining run
type RunMetadata struct {
	RunID                uuid.UUID        `json:"run_id"`
	StartedAt            time.Time        `json:"started_at"`
	DataPointsAnalyzed   int              `json:"data_points_analyzed"`
	WindowsExtracted     int              `json:"windows_extracted"`
	WindowsSurviving     int              `json:"windows_surviving"`
	PatternsFound        int              `json:"patterns_found"`
	ExecutionTimeSeconds float64          `json:"execution_time_seconds"`
	AlgorithmVersion     string           `json:"algorithm_version"`
	Snapshot             *series.Snapshot `json:"snapshot,omitempty"`
}

// MiningResult is the complete output of one mining run
type MiningResult struct {
	Patterns   []Pattern     `json:"patterns"`
	Statistics RunStatistics `json:"statistics"`
	Metadata   RunMetadata   `json:"metadata"`
}
