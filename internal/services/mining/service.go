package mining

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"arachne/internal/domain/pattern"
	"arachne/internal/domain/series"
	"arachne/internal/ml/cluster"
	"arachne/internal/services/analysis"
	"arachne/pkg/errors"
	"arachne/pkg/logger"
)

// AlgorithmVersion identifies the mining pipeline implementation in run metadata
const AlgorithmVersion = "1.0.0"

const (
	// Below this many surviving windows clustering is skipped and the run
	// returns an empty result
	minSurvivors = 10

	// Cluster-count sweep bounds: k in [3, min(15, max(3, survivors/20))]
	kMin             = 3
	kMaxCap          = 15
	kSurvivorDivisor = 20
)

// Engine runs the mining pipeline: window extraction, feature computation,
// clustering, pattern synthesis, and statistics aggregation. An Engine is
// stateless across runs and safe for concurrent use.
type Engine struct {
	workers int // feature-pool size, 0 means GOMAXPROCS
	log     *logger.Logger
}

// NewEngine creates a mining engine. workers bounds the feature-computation
// pool; pass 0 to use GOMAXPROCS.
func NewEngine(workers int, log *logger.Logger) *Engine {
	return &Engine{
		workers: workers,
		log:     log.With("component", "mining_engine"),
	}
}

// Mine executes one run over the series. The result is a pure function of
// (series, params, seed); a zero seed draws one from the clock and forfeits
// reproducibility. Insufficient data yields an empty result, not an error.
func (e *Engine) Mine(srs series.Series, params pattern.MiningParams, seed int64) (*pattern.MiningResult, error) {
	started := time.Now()

	params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := srs.Validate(); err != nil {
		return nil, err
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	wins, extracted := extractWindows(srs.Closes(), params.WindowSize, params.NoiseFilter)

	e.log.Debugw("Windows extracted",
		"bars", srs.Len(),
		"window_size", params.WindowSize,
		"extracted", extracted,
		"surviving", len(wins),
	)

	result := &pattern.MiningResult{
		Patterns: []pattern.Pattern{},
		Metadata: pattern.RunMetadata{
			RunID:              uuid.New(),
			StartedAt:          started.UTC(),
			DataPointsAnalyzed: srs.Len(),
			WindowsExtracted:   extracted,
			WindowsSurviving:   len(wins),
			AlgorithmVersion:   AlgorithmVersion,
			Snapshot:           analysis.Snapshot(srs),
		},
	}

	if len(wins) < minSurvivors {
		result.Statistics = aggregate(nil, params.Discounts)
		result.Metadata.ExecutionTimeSeconds = time.Since(started).Seconds()
		e.log.Infow("Mining run complete",
			"run_id", result.Metadata.RunID,
			"patterns", 0,
			"reason", "insufficient windows",
		)
		return result, nil
	}

	feats := computeFeatureMatrix(wins, e.workers)
	standardized := cluster.Standardize(feats)

	clustering, err := e.selectClustering(standardized, rng)
	if err != nil {
		return nil, err
	}
	if clustering != nil {
		retained := retainClusters(clustering, len(wins), params)
		result.Patterns = synthesize(retained, wins, feats, srs, len(wins), params, rng)
	}

	result.Statistics = aggregate(result.Patterns, params.Discounts)
	result.Metadata.PatternsFound = len(result.Patterns)
	result.Metadata.ExecutionTimeSeconds = time.Since(started).Seconds()

	e.log.Infow("Mining run complete",
		"run_id", result.Metadata.RunID,
		"patterns", len(result.Patterns),
		"windows_surviving", len(wins),
		"duration_s", result.Metadata.ExecutionTimeSeconds,
	)
	return result, nil
}

// selectClustering sweeps candidate cluster counts and keeps the run with the
// best silhouette score; the lowest k wins ties. A nil result (no error)
// means every candidate was degenerate, which callers treat as "no frequent
// patterns found".
func (e *Engine) selectClustering(points [][]float64, rng *rand.Rand) (*cluster.Result, error) {
	kMax := len(points) / kSurvivorDivisor
	if kMax < kMin {
		kMax = kMin
	}
	if kMax > kMaxCap {
		kMax = kMaxCap
	}

	var best *cluster.Result
	bestScore := math.Inf(-1)
	bestK := 0
	for k := kMin; k <= kMax; k++ {
		res, err := cluster.Run(points, cluster.Config{K: k}, rng)
		if err != nil {
			// The sweep keeps k inside [1, n]
			return nil, errors.Wrapf(errors.ErrInternal, "clustering at k=%d: %v", k, err)
		}
		if score := cluster.Score(points, res); score > bestScore {
			bestScore = score
			best = res
			bestK = k
		}
	}

	if bestScore <= cluster.WorstScore {
		e.log.Warnw("All candidate cluster counts degenerate", "k_max", kMax)
		return nil, nil
	}

	e.log.Debugw("Cluster count selected", "k", bestK, "score", bestScore)
	return best, nil
}

// retainClusters groups window indices by cluster and keeps clusters meeting
// the support and size floors. Member lists come out in ascending window
// order, clusters in ascending cluster order.
func retainClusters(res *cluster.Result, survivors int, params pattern.MiningParams) [][]int {
	members := make([][]int, len(res.Centroids))
	for i, c := range res.Assignments {
		members[c] = append(members[c], i)
	}

	retained := make([][]int, 0, len(members))
	for _, m := range members {
		if len(m) < params.MinClusterSize {
			continue
		}
		if support := float64(len(m)) / float64(survivors); support < params.MinSupport {
			continue
		}
		retained = append(retained, m)
	}
	return retained
}
