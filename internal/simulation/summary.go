package simulation

import (
	"fmt"
	"strings"
)

// BuildExecutiveSummary renders the response into a short narrative
// paragraph. Purely templated; the full report renderer lives outside
// this package.
func BuildExecutiveSummary(resp SimulationResponse) string {
	s := resp.SimulationSummary
	growth := resp.ExpectedGrowthMetrics
	roi := resp.ExpectedROIMetrics
	risk := resp.RiskProjection

	target := s.TrendName
	if target == "" {
		target = s.TrendID
	}

	parts := []string{
		fmt.Sprintf("Simulated a %s campaign against %q (%s stage, %d days, budget %.0f-%.0f).",
			strings.ReplaceAll(string(s.CampaignType), "_", " "), target,
			s.LifecycleStage, s.DurationDays, s.BudgetRange.Min, s.BudgetRange.Max),
		fmt.Sprintf("Engagement growth is projected at %.0f-%.0f%%, reach at %.0f-%.0f%%, creator participation at %.0f-%.0f%%.",
			growth.EngagementGrowthPct.Min, growth.EngagementGrowthPct.Max,
			growth.ReachGrowthPct.Min, growth.ReachGrowthPct.Max,
			growth.CreatorParticipationChangePct.Min, growth.CreatorParticipationChangePct.Max),
		fmt.Sprintf("Modeled ROI spans %.0f%% to %.0f%% with a %.0f%% break-even probability (%.0f%% loss).",
			roi.ROIPct.Min, roi.ROIPct.Max, roi.BreakEvenProbability, roi.LossProbability),
		fmt.Sprintf("Projected risk moves from %.0f to %.0f-%.0f (%s).",
			risk.CurrentScore, risk.ProjectedScore.Min, risk.ProjectedScore.Max, risk.Trend),
		fmt.Sprintf("Recommended posture: %s; overall outlook %s.",
			resp.DecisionInterpretation.RecommendedPosture, resp.DecisionInterpretation.OverallOutlook),
		fmt.Sprintf("Most sensitive assumption: %s (%s impact).",
			resp.AssumptionSensitivity.MostSensitiveFactor, resp.AssumptionSensitivity.ImpactLevel),
		fmt.Sprintf("Baseline data coverage %.0f%% at %s confidence.",
			resp.Guardrails.DataCoverage, s.Confidence),
	}
	return strings.Join(parts, " ")
}
