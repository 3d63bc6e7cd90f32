package collab

import (
	"context"
	"hash/fnv"

	"github.com/trendops/whatif/internal/simulation"
)

// The static collaborators serve fixture data for offline runs: the CLI
// without upstream URLs, demos, and tests. Known trend ids return their
// fixture verbatim; unknown ids get values derived from an FNV hash of the
// id, so repeated runs of the same scenario stay identical.

type StaticTrendEngine struct {
	Trends map[string]simulation.TrendMetrics
}

func (s *StaticTrendEngine) QueryTrendMetrics(ctx context.Context, trendID string) (*simulation.TrendMetrics, error) {
	if m, ok := s.Trends[trendID]; ok {
		return &m, nil
	}
	n := hashID(trendID)
	stages := []simulation.LifecycleStage{
		simulation.StageEmerging, simulation.StageGrowth, simulation.StagePeak,
		simulation.StageDecline, simulation.StageDormant,
	}
	return &simulation.TrendMetrics{
		LifecycleStage:       stages[n%5],
		EngagementTrend:      30 + float64(n%56),
		ROITrend:             25 + float64((n/7)%61),
		HistoricalVolatility: 20 + float64((n/11)%66),
	}, nil
}

type StaticDeclineDetector struct {
	Risks map[string]simulation.RiskMetrics
}

func (s *StaticDeclineDetector) QueryRiskMetrics(ctx context.Context, trendID string) (*simulation.RiskMetrics, error) {
	if m, ok := s.Risks[trendID]; ok {
		return &m, nil
	}
	n := hashID(trendID)
	trajectories := []simulation.RiskTrajectory{
		simulation.TrajectoryDecreasing, simulation.TrajectoryStable, simulation.TrajectoryIncreasing,
	}
	return &simulation.RiskMetrics{
		CurrentRiskScore: 15 + float64((n/13)%71),
		RiskTrajectory:   trajectories[(n/3)%3],
	}, nil
}

// StaticROIAttributor turns the growth ranges it is handed into a plausible
// ROI band: the average growth midpoint discounted by budget scale.
type StaticROIAttributor struct{}

func (s *StaticROIAttributor) QueryROI(ctx context.Context, engagement, reach simulation.RangeValue, budget float64, durationDays int) (*simulation.ROIEstimate, error) {
	avg := (engagement.Midpoint() + reach.Midpoint()) / 2
	efficiency := budget / 1000 * 0.12
	return &simulation.ROIEstimate{
		ROIPercentRange: simulation.NewRange(avg*0.45-efficiency-12, avg*1.15-efficiency+12),
		Confidence:      0.6,
	}, nil
}

func hashID(id string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return h.Sum32()
}
