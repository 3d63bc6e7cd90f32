package simulation

import (
	"strings"
	"testing"
)

func roiFor(breakEven, loss float64) ROIMetrics {
	return ROIMetrics{ROIPct: RangeValue{Min: -20, Max: 60}, BreakEvenProbability: breakEven, LossProbability: loss}
}

func TestRecommendPostureTable(t *testing.T) {
	cases := []struct {
		name  string
		stage LifecycleStage
		roi   ROIMetrics
		trend RiskTrend
		want  Posture
	}{
		{"avoid_wins_over_scale", StageDecline, roiFor(75, 61), TrendImproving, PostureAvoid},
		{"dormant_high_loss", StageDormant, roiFor(30, 61), TrendStable, PostureAvoid},
		{"decline_loss_at_60_is_not_avoid", StageDecline, roiFor(35, 60), TrendStable, PostureTestSmall},
		{"scale_at_breakeven_70_stable", StageGrowth, roiFor(70, 30), TrendStable, PostureScale},
		{"scale_improving", StageGrowth, roiFor(90, 10), TrendImproving, PostureScale},
		{"monitor_band", StageGrowth, roiFor(55, 45), TrendStable, PostureMonitor},
		{"test_small_low_breakeven", StageGrowth, roiFor(39.9, 60.1), TrendStable, PostureTestSmall},
		{"test_small_worsening_beats_scale", StageGrowth, roiFor(90, 10), TrendWorsening, PostureTestSmall},
		{"default_monitor", StageGrowth, roiFor(50, 50), TrendImproving, PostureMonitor},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := recommendPosture(tc.stage, tc.roi, tc.trend); got != tc.want {
				t.Fatalf("recommendPosture(%s, be=%.1f loss=%.1f, %s) = %s, want %s",
					tc.stage, tc.roi.BreakEvenProbability, tc.roi.LossProbability, tc.trend, got, tc.want)
			}
		})
	}
}

func TestInterpretGoldenCallouts(t *testing.T) {
	sc := validScenario()
	growth := GrowthMetrics{
		EngagementGrowthPct:           RangeValue{Min: 60.984, Max: 197.4375},
		ReachGrowthPct:                RangeValue{Min: 43.2, Max: 126},
		CreatorParticipationChangePct: RangeValue{Min: 11.55, Max: 50.625},
	}
	roi := roiFor(90, 10)
	risk := RiskProjection{CurrentScore: 35, ProjectedScore: RangeValue{Min: 28, Max: 43}, Trend: TrendStable}
	b := Baseline{HistoricalVolatility: 40, DataCoverage: 100}

	got := Interpret(sc, growth, roi, risk, b)

	if got.RecommendedPosture != PostureScale {
		t.Fatalf("expected scale, got %s", got.RecommendedPosture)
	}
	if got.OverallOutlook != OutlookFavorable {
		t.Fatalf("expected favorable, got %s", got.OverallOutlook)
	}
	// Engagement, reach, participation, break-even and early stage all fire.
	if len(got.Opportunities) != 5 {
		t.Fatalf("expected 5 opportunities, got %v", got.Opportunities)
	}
	// Nothing trips a risk call-out, so the fallback line stands in.
	if len(got.Risks) != 1 || !strings.Contains(got.Risks[0], "no material risks") {
		t.Fatalf("expected risk fallback, got %v", got.Risks)
	}
}

func TestInterpretRiskCallouts(t *testing.T) {
	sc := validScenario()
	sc.TrendContext.LifecycleStage = StageDecline
	sc.CampaignStrategy.CampaignType = CampaignOrganicOnly
	sc.CampaignStrategy.CreatorTier = TierNano
	growth := GrowthMetrics{
		EngagementGrowthPct:           RangeValue{Min: 5, Max: 30},
		ReachGrowthPct:                RangeValue{Min: 5, Max: 40},
		CreatorParticipationChangePct: RangeValue{Min: 0, Max: 10},
	}
	roi := roiFor(15.2, 84.8)
	risk := RiskProjection{CurrentScore: 72, ProjectedScore: RangeValue{Min: 92, Max: 100}, Trend: TrendWorsening}
	b := Baseline{HistoricalVolatility: 80, DataCoverage: 40}

	got := Interpret(sc, growth, roi, risk, b)

	if len(got.Risks) != 6 {
		t.Fatalf("expected 6 risk call-outs, got %v", got.Risks)
	}
	joined := strings.Join(got.Risks, "\n")
	for _, want := range []string{
		"below break-even",
		"trajectory worsens",
		"past its peak",
		"nano creator tier",
		"volatility of 80/100",
		"only 40% of baseline data",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing risk call-out %q in:\n%s", want, joined)
		}
	}
	// Every call-out fired, so the opportunity list falls back instead.
	if len(got.Opportunities) != 1 || !strings.Contains(got.Opportunities[0], "no standout opportunities") {
		t.Fatalf("expected opportunity fallback, got %v", got.Opportunities)
	}
}

func TestInterpretFlagsHighRiskCombination(t *testing.T) {
	sc := validScenario()
	sc.TrendContext.LifecycleStage = StagePeak

	got := Interpret(sc, GrowthMetrics{}, roiFor(50, 50), RiskProjection{Trend: TrendStable}, Baseline{DataCoverage: 100})

	joined := strings.Join(got.Risks, "\n")
	if !strings.Contains(joined, "flagged high-risk") {
		t.Fatalf("expected high-risk call-out, got %v", got.Risks)
	}
}

func TestOverallOutlook(t *testing.T) {
	cases := []struct {
		roi   ROIMetrics
		trend RiskTrend
		want  Outlook
	}{
		{roiFor(70, 30), TrendStable, OutlookFavorable},
		{roiFor(90, 10), TrendImproving, OutlookFavorable},
		{roiFor(60, 61), TrendStable, OutlookUnfavorable},
		{roiFor(60, 10), TrendWorsening, OutlookUnfavorable},
		{roiFor(50, 50), TrendStable, OutlookRisky},
	}
	for _, tc := range cases {
		if got := overallOutlook(tc.roi, tc.trend); got != tc.want {
			t.Fatalf("overallOutlook(be=%.0f loss=%.0f, %s) = %s, want %s",
				tc.roi.BreakEvenProbability, tc.roi.LossProbability, tc.trend, got, tc.want)
		}
	}
}
