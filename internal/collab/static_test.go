package collab

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/trendops/whatif/internal/simulation"
)

func TestStaticTrendEngineFixturePassthrough(t *testing.T) {
	fixture := simulation.TrendMetrics{
		LifecycleStage:       simulation.StageGrowth,
		EngagementTrend:      60,
		ROITrend:             55,
		HistoricalVolatility: 40,
	}
	eng := &StaticTrendEngine{Trends: map[string]simulation.TrendMetrics{"trend-417": fixture}}

	got, err := eng.QueryTrendMetrics(context.Background(), "trend-417")
	if err != nil {
		t.Fatalf("QueryTrendMetrics returned error: %v", err)
	}
	if !reflect.DeepEqual(*got, fixture) {
		t.Fatalf("fixture not returned verbatim: %+v", got)
	}
}

func TestStaticTrendEngineDerivesDeterministically(t *testing.T) {
	eng := &StaticTrendEngine{}

	first, err := eng.QueryTrendMetrics(context.Background(), "trend-unseen")
	if err != nil {
		t.Fatalf("QueryTrendMetrics returned error: %v", err)
	}
	second, _ := eng.QueryTrendMetrics(context.Background(), "trend-unseen")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same id produced different metrics: %+v vs %+v", first, second)
	}

	if first.EngagementTrend < 30 || first.EngagementTrend > 85 {
		t.Fatalf("engagement trend %.1f outside derived band", first.EngagementTrend)
	}
	if first.ROITrend < 25 || first.ROITrend > 85 {
		t.Fatalf("roi trend %.1f outside derived band", first.ROITrend)
	}
	if first.HistoricalVolatility < 20 || first.HistoricalVolatility > 85 {
		t.Fatalf("volatility %.1f outside derived band", first.HistoricalVolatility)
	}
	switch first.LifecycleStage {
	case simulation.StageEmerging, simulation.StageGrowth, simulation.StagePeak,
		simulation.StageDecline, simulation.StageDormant:
	default:
		t.Fatalf("unexpected lifecycle stage %q", first.LifecycleStage)
	}
}

func TestStaticDeclineDetectorDerivesDeterministically(t *testing.T) {
	det := &StaticDeclineDetector{}

	first, err := det.QueryRiskMetrics(context.Background(), "trend-unseen")
	if err != nil {
		t.Fatalf("QueryRiskMetrics returned error: %v", err)
	}
	second, _ := det.QueryRiskMetrics(context.Background(), "trend-unseen")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same id produced different risk: %+v vs %+v", first, second)
	}

	if first.CurrentRiskScore < 15 || first.CurrentRiskScore > 85 {
		t.Fatalf("risk score %.1f outside derived band", first.CurrentRiskScore)
	}
	switch first.RiskTrajectory {
	case simulation.TrajectoryDecreasing, simulation.TrajectoryStable, simulation.TrajectoryIncreasing:
	default:
		t.Fatalf("unexpected trajectory %q", first.RiskTrajectory)
	}
}

func TestStaticROIAttributorKnownValue(t *testing.T) {
	var att StaticROIAttributor

	// avg midpoint (50+80)/2 = 65, efficiency 20000/1000*0.12 = 2.4:
	// min 65*0.45-2.4-12 = 14.85, max 65*1.15-2.4+12 = 84.35.
	est, err := att.QueryROI(context.Background(),
		simulation.RangeValue{Min: 40, Max: 60},
		simulation.RangeValue{Min: 60, Max: 100},
		20000, 30)
	if err != nil {
		t.Fatalf("QueryROI returned error: %v", err)
	}
	if math.Abs(est.ROIPercentRange.Min-14.85) > 0.001 || math.Abs(est.ROIPercentRange.Max-84.35) > 0.001 {
		t.Fatalf("unexpected estimate range: %+v", est.ROIPercentRange)
	}
	if est.Confidence != 0.6 {
		t.Fatalf("unexpected confidence %.2f", est.Confidence)
	}
}
