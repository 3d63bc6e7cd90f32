package simulation

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

// The golden fixture is a growth-stage influencer push with full external
// data. Individual tests override fields as needed.

func validScenario() ScenarioInput {
	return ScenarioInput{
		TrendContext: TrendContext{
			TrendID:          "trend-417",
			TrendName:        "glass skin routine",
			Platform:         "tiktok",
			LifecycleStage:   StageGrowth,
			CurrentRiskScore: 35,
			Confidence:       ConfidenceHigh,
		},
		CampaignStrategy: CampaignStrategy{
			CampaignType:     CampaignShortTermInfluencer,
			BudgetRange:      RangeValue{Min: 10000, Max: 25000},
			DurationDays:     30,
			CreatorTier:      TierMacro,
			ContentIntensity: IntensityHigh,
		},
		Assumptions: Assumptions{
			EngagementTrend:      EngagementOptimistic,
			CreatorParticipation: ParticipationIncreasing,
			MarketNoise:          NoiseLow,
		},
		Constraints: Constraints{
			RiskTolerance: ToleranceMedium,
			MaxBudgetCap:  50000,
		},
	}
}

func sampleTrendMetrics() *TrendMetrics {
	return &TrendMetrics{
		LifecycleStage:       StageGrowth,
		EngagementTrend:      60,
		ROITrend:             55,
		HistoricalVolatility: 40,
	}
}

func sampleRiskMetrics() *RiskMetrics {
	return &RiskMetrics{
		CurrentRiskScore: 28,
		RiskIndicators:   []string{"slowing_hashtag_velocity"},
		RiskTrajectory:   TrajectoryDecreasing,
	}
}

type fakeTrendEngine struct {
	metrics *TrendMetrics
	err     error
	calls   int
}

func (f *fakeTrendEngine) QueryTrendMetrics(ctx context.Context, trendID string) (*TrendMetrics, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.metrics, nil
}

type fakeDeclineDetector struct {
	metrics *RiskMetrics
	err     error
	calls   int
}

func (f *fakeDeclineDetector) QueryRiskMetrics(ctx context.Context, trendID string) (*RiskMetrics, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.metrics, nil
}

type fakeROIAttributor struct {
	estimate    *ROIEstimate
	err         error
	calls       int
	gotBudget   float64
	gotDuration int
}

func (f *fakeROIAttributor) QueryROI(ctx context.Context, engagement, reach RangeValue, budget float64, durationDays int) (*ROIEstimate, error) {
	f.calls++
	f.gotBudget = budget
	f.gotDuration = durationDays
	if f.err != nil {
		return nil, f.err
	}
	return f.estimate, nil
}

func newTestSimulator(trends TrendLifecycleEngine, risks EarlyDeclineDetector, roi ROIAttributor) *Simulator {
	return NewSimulator(SimulatorConfig{Trends: trends, Risks: risks, ROI: roi})
}

func TestSimulateGoldenScenario(t *testing.T) {
	trends := &fakeTrendEngine{metrics: sampleTrendMetrics()}
	risks := &fakeDeclineDetector{metrics: sampleRiskMetrics()}
	roi := &fakeROIAttributor{estimate: &ROIEstimate{ROIPercentRange: RangeValue{Min: -10, Max: 90}, Confidence: 0.8}}
	sim := newTestSimulator(trends, risks, roi)

	resp, err := sim.Simulate(context.Background(), validScenario())
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}

	if resp.Guardrails.DataCoverage != 100 {
		t.Fatalf("expected full data coverage, got %f", resp.Guardrails.DataCoverage)
	}
	if resp.SimulationSummary.Confidence != ConfidenceHigh {
		t.Fatalf("expected confidence to stay high, got %s", resp.SimulationSummary.Confidence)
	}
	if len(resp.SimulationSummary.AppliedDefaults) != 0 {
		t.Fatalf("expected no applied defaults, got %v", resp.SimulationSummary.AppliedDefaults)
	}

	// Engagement: 60*[0.8,1.2]=[48,72]; medium budget [1.0,1.25]=[48,90];
	// high intensity [1.1,1.35]=[52.8,121.5]; optimistic [1.1,1.3]=[58.08,157.95];
	// increasing [1.05,1.25]=[60.984,197.4375]; low noise leaves it alone.
	eng := resp.ExpectedGrowthMetrics.EngagementGrowthPct
	if diff(eng.Min, 60.984) > 0.001 || diff(eng.Max, 197.4375) > 0.001 {
		t.Fatalf("unexpected engagement growth: got [%f,%f]", eng.Min, eng.Max)
	}
	// Reach: 60*[0.6,1.4]=[36,84]; macro tier [1.2,1.5]=[43.2,126];
	// 30 days is under the diminishing-returns start and the stage is not peak.
	reach := resp.ExpectedGrowthMetrics.ReachGrowthPct
	if diff(reach.Min, 43.2) > 0.001 || diff(reach.Max, 126) > 0.001 {
		t.Fatalf("unexpected reach growth: got [%f,%f]", reach.Min, reach.Max)
	}
	// Participation: [10,30]*increasing [1.05,1.25]=[10.5,37.5]; high intensity
	// [1.1,1.35]=[11.55,50.625].
	part := resp.ExpectedGrowthMetrics.CreatorParticipationChangePct
	if diff(part.Min, 11.55) > 0.001 || diff(part.Max, 50.625) > 0.001 {
		t.Fatalf("unexpected participation change: got [%f,%f]", part.Min, part.Max)
	}

	roiM := resp.ExpectedROIMetrics
	if roiM.Source != roiSourceAttribution {
		t.Fatalf("expected attribution source, got %q", roiM.Source)
	}
	if diff(roiM.ROIPct.Min, -10) > 0.001 || diff(roiM.ROIPct.Max, 90) > 0.001 {
		t.Fatalf("unexpected roi range: got [%f,%f]", roiM.ROIPct.Min, roiM.ROIPct.Max)
	}
	// [-10,90] straddles zero: 90/100 above break-even, 10/100 below.
	if diff(roiM.BreakEvenProbability, 90) > 0.001 || diff(roiM.LossProbability, 10) > 0.001 {
		t.Fatalf("unexpected probabilities: be=%f loss=%f", roiM.BreakEvenProbability, roiM.LossProbability)
	}
	if diff(roi.gotBudget, 17500) > 0.001 || roi.gotDuration != 30 {
		t.Fatalf("attributor called with budget=%f duration=%d", roi.gotBudget, roi.gotDuration)
	}

	// Risk: refreshed baseline 28 + 5 (high intensity) = 33, banded to [28,43].
	// Midpoint 35.5 is within 2 of the declared 35, so the trend reads stable.
	risk := resp.RiskProjection
	if risk.CurrentScore != 35 {
		t.Fatalf("expected declared current score 35, got %f", risk.CurrentScore)
	}
	if diff(risk.ProjectedScore.Min, 28) > 0.001 || diff(risk.ProjectedScore.Max, 43) > 0.001 {
		t.Fatalf("unexpected projected risk: got [%f,%f]", risk.ProjectedScore.Min, risk.ProjectedScore.Max)
	}
	if risk.Trend != TrendStable {
		t.Fatalf("expected stable risk trend, got %s", risk.Trend)
	}

	if resp.DecisionInterpretation.RecommendedPosture != PostureScale {
		t.Fatalf("expected scale posture, got %s", resp.DecisionInterpretation.RecommendedPosture)
	}
	if resp.DecisionInterpretation.OverallOutlook != OutlookFavorable {
		t.Fatalf("expected favorable outlook, got %s", resp.DecisionInterpretation.OverallOutlook)
	}

	sens := resp.AssumptionSensitivity
	if sens.MostSensitiveFactor != factorMarketNoise {
		t.Fatalf("expected market_noise to dominate, got %s", sens.MostSensitiveFactor)
	}
	if sens.ImpactLevel != ImpactHigh {
		t.Fatalf("expected high impact level, got %s", sens.ImpactLevel)
	}
	if len(sens.Drivers) != 3 {
		t.Fatalf("expected 3 sensitivity drivers, got %d", len(sens.Drivers))
	}

	if resp.ExecutiveSummary == "" {
		t.Fatal("expected executive summary")
	}
	if !strings.Contains(resp.ExecutiveSummary, "Recommended posture: scale") {
		t.Fatalf("summary missing posture: %s", resp.ExecutiveSummary)
	}
}

func TestSimulateDecliningTrendOrganicCampaign(t *testing.T) {
	sc := validScenario()
	sc.TrendContext.LifecycleStage = StageDecline
	sc.TrendContext.CurrentRiskScore = 72
	sc.CampaignStrategy.CampaignType = CampaignOrganicOnly

	trends := &fakeTrendEngine{metrics: sampleTrendMetrics()}
	risks := &fakeDeclineDetector{metrics: &RiskMetrics{CurrentRiskScore: 72, RiskTrajectory: TrajectoryIncreasing}}
	roi := &fakeROIAttributor{estimate: &ROIEstimate{ROIPercentRange: RangeValue{Min: -60, Max: 20}, Confidence: 0.7}}
	sim := newTestSimulator(trends, risks, roi)

	resp, err := sim.Simulate(context.Background(), sc)
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}

	// 72 + 20 (late stage) + 5 (high intensity) = 97, banded to [92,107] and
	// clamped to [92,100]. The risk stays elevated for the whole window.
	risk := resp.RiskProjection
	if diff(risk.ProjectedScore.Min, 92) > 0.001 || diff(risk.ProjectedScore.Max, 100) > 0.001 {
		t.Fatalf("unexpected projected risk: got [%f,%f]", risk.ProjectedScore.Min, risk.ProjectedScore.Max)
	}
	if risk.Trend != TrendWorsening {
		t.Fatalf("expected worsening trend, got %s", risk.Trend)
	}

	// [-60,20]: be=25 loss=75; decline multiplies loss 1.3 and break-even 0.7
	// giving (17.5,97.5); the 115 sum rescales to (15.2174,84.7826).
	roiM := resp.ExpectedROIMetrics
	if diff(roiM.BreakEvenProbability, 15.2174) > 0.001 || diff(roiM.LossProbability, 84.7826) > 0.001 {
		t.Fatalf("unexpected probabilities: be=%f loss=%f", roiM.BreakEvenProbability, roiM.LossProbability)
	}
	if roiM.LossProbability <= roiM.BreakEvenProbability {
		t.Fatal("expected loss probability to dominate for a declining trend")
	}
	if diff(roiM.BreakEvenProbability+roiM.LossProbability, 100) > 0.001 {
		t.Fatalf("probabilities do not sum to 100: %f", roiM.BreakEvenProbability+roiM.LossProbability)
	}

	if resp.DecisionInterpretation.RecommendedPosture != PostureAvoid {
		t.Fatalf("expected avoid posture, got %s", resp.DecisionInterpretation.RecommendedPosture)
	}
	if resp.DecisionInterpretation.OverallOutlook != OutlookUnfavorable {
		t.Fatalf("expected unfavorable outlook, got %s", resp.DecisionInterpretation.OverallOutlook)
	}
}

func TestSimulateDegradedBaselineWidensEverything(t *testing.T) {
	trends := &fakeTrendEngine{err: errors.New("lifecycle engine unavailable")}
	risks := &fakeDeclineDetector{err: errors.New("decline detector unavailable")}
	sim := newTestSimulator(trends, risks, nil)

	resp, err := sim.Simulate(context.Background(), validScenario())
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}

	if resp.Guardrails.DataCoverage != 0 {
		t.Fatalf("expected zero coverage, got %f", resp.Guardrails.DataCoverage)
	}
	if resp.SimulationSummary.Confidence != ConfidenceLow {
		t.Fatalf("expected confidence forced low, got %s", resp.SimulationSummary.Confidence)
	}

	// Defaulted baseline 50: seed [40,60]; medium budget [40,75]; high
	// intensity [44,101.25]; optimistic [48.4,131.625]; increasing
	// [50.82,164.53125]. Widened 1.5*1.3=1.95 around midpoint 107.675625:
	// [-3.1928,218.5441], clamped to [0,218.5441].
	eng := resp.ExpectedGrowthMetrics.EngagementGrowthPct
	if diff(eng.Min, 0) > 0.001 || diff(eng.Max, 218.5441) > 0.001 {
		t.Fatalf("unexpected widened engagement growth: got [%f,%f]", eng.Min, eng.Max)
	}

	if resp.ExpectedROIMetrics.Source != roiSourceFallback {
		t.Fatalf("expected local fallback, got %q", resp.ExpectedROIMetrics.Source)
	}

	note := resp.Guardrails.SystemNote
	if !strings.Contains(note, "Only 0% of baseline data was available") {
		t.Fatalf("guardrail note missing coverage warning: %s", note)
	}
	if !strings.Contains(note, "risk_trajectory") {
		t.Fatalf("guardrail note missing the missing-field list: %s", note)
	}
}

func TestSimulateValidationRejection(t *testing.T) {
	sc := validScenario()
	sc.TrendContext.TrendID = ""
	sc.CampaignStrategy.DurationDays = -3
	sim := newTestSimulator(&fakeTrendEngine{metrics: sampleTrendMetrics()}, &fakeDeclineDetector{metrics: sampleRiskMetrics()}, nil)

	resp, err := sim.Simulate(context.Background(), sc)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if StepNameFromError(err) != "validate" {
		t.Fatalf("expected validate step, got %s", StepNameFromError(err))
	}
	if resp.SimulationSummary.ScenarioID != "" {
		t.Fatal("expected zero response on rejection")
	}

	envelope := AsErrorResponse(err)
	if envelope.ErrorCode != ErrorCodeValidation {
		t.Fatalf("expected %s, got %s", ErrorCodeValidation, envelope.ErrorCode)
	}
	if len(envelope.ValidationFailures) != 2 {
		t.Fatalf("expected 2 failures, got %d: %v", len(envelope.ValidationFailures), envelope.ValidationFailures)
	}
}

func TestSimulateROIComputationFatal(t *testing.T) {
	sc := validScenario()
	sc.CampaignStrategy.BudgetRange = RangeValue{Min: math.NaN(), Max: math.NaN()}
	roi := &fakeROIAttributor{err: errors.New("attribution offline")}
	sim := newTestSimulator(&fakeTrendEngine{metrics: sampleTrendMetrics()}, &fakeDeclineDetector{metrics: sampleRiskMetrics()}, roi)

	_, err := sim.Simulate(context.Background(), sc)
	if err == nil {
		t.Fatal("expected roi computation error")
	}
	if !errors.Is(err, ErrROIComputation) {
		t.Fatalf("expected ErrROIComputation, got %v", err)
	}
	if StepNameFromError(err) != "roi" {
		t.Fatalf("expected roi step, got %s", StepNameFromError(err))
	}
	if got := AsErrorResponse(err).ErrorCode; got != ErrorCodeROIComputation {
		t.Fatalf("expected %s, got %s", ErrorCodeROIComputation, got)
	}
}

func TestSimulateScenarioIdentity(t *testing.T) {
	sim := newTestSimulator(&fakeTrendEngine{metrics: sampleTrendMetrics()}, &fakeDeclineDetector{metrics: sampleRiskMetrics()}, nil)

	resp, err := sim.Simulate(context.Background(), validScenario())
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	if resp.SimulationSummary.ScenarioID == "" {
		t.Fatal("expected a generated scenario id")
	}

	sc := validScenario()
	sc.ScenarioID = "scn-keep-me"
	resp, err = sim.Simulate(context.Background(), sc)
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	if resp.SimulationSummary.ScenarioID != "scn-keep-me" {
		t.Fatalf("expected caller id preserved, got %s", resp.SimulationSummary.ScenarioID)
	}
}

func TestSimulateAppliesAssumptionDefaults(t *testing.T) {
	sc := validScenario()
	sc.Assumptions = Assumptions{}
	sim := newTestSimulator(&fakeTrendEngine{metrics: sampleTrendMetrics()}, &fakeDeclineDetector{metrics: sampleRiskMetrics()}, nil)

	resp, err := sim.Simulate(context.Background(), sc)
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}

	want := []string{"engagement_trend=neutral", "creator_participation=stable", "market_noise=medium"}
	if !reflect.DeepEqual(resp.SimulationSummary.AppliedDefaults, want) {
		t.Fatalf("unexpected applied defaults: %v", resp.SimulationSummary.AppliedDefaults)
	}
	if !strings.Contains(resp.Guardrails.SystemNote, "Unspecified assumptions were defaulted: engagement_trend=neutral") {
		t.Fatalf("guardrail note missing defaults clause: %s", resp.Guardrails.SystemNote)
	}
	// The caller's scenario value is untouched.
	if sc.Assumptions.EngagementTrend != "" {
		t.Fatal("caller scenario was mutated")
	}
}

func TestSimulateSkipExecutiveSummary(t *testing.T) {
	sim := newTestSimulator(&fakeTrendEngine{metrics: sampleTrendMetrics()}, &fakeDeclineDetector{metrics: sampleRiskMetrics()}, nil)

	resp, err := sim.SimulateWithOptions(context.Background(), validScenario(), SimulateOptions{SkipExecutiveSummary: true})
	if err != nil {
		t.Fatalf("SimulateWithOptions returned error: %v", err)
	}
	if resp.ExecutiveSummary != "" {
		t.Fatalf("expected no executive summary, got %q", resp.ExecutiveSummary)
	}

	resp, err = sim.Simulate(context.Background(), validScenario())
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	if resp.ExecutiveSummary == "" {
		t.Fatal("expected executive summary by default")
	}
}

func TestSimulateCancelledContext(t *testing.T) {
	sim := newTestSimulator(&fakeTrendEngine{metrics: sampleTrendMetrics()}, &fakeDeclineDetector{metrics: sampleRiskMetrics()}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.Simulate(ctx, validScenario())
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if StepNameFromError(err) != "baseline" {
		t.Fatalf("expected baseline step, got %s", StepNameFromError(err))
	}
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
