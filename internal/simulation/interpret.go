package simulation

import "fmt"

// Interpret converts the computed metrics into a recommended posture via a
// fixed-precedence decision table, plus opportunity and risk call-outs and
// an overall outlook. Both call-out lists are guaranteed non-empty.
func Interpret(sc ScenarioInput, growth GrowthMetrics, roi ROIMetrics, risk RiskProjection, b Baseline) DecisionInterpretation {
	return DecisionInterpretation{
		RecommendedPosture: recommendPosture(sc.TrendContext.LifecycleStage, roi, risk.Trend),
		Opportunities:      buildOpportunities(sc, growth, roi),
		Risks:              buildRisks(sc, roi, risk, b),
		OverallOutlook:     overallOutlook(roi, risk.Trend),
	}
}

// recommendPosture evaluates the decision table top to bottom; the first
// matching row wins.
func recommendPosture(stage LifecycleStage, roi ROIMetrics, trend RiskTrend) Posture {
	lateStage := stage == StageDecline || stage == StageDormant
	switch {
	case lateStage && roi.LossProbability > 60:
		return PostureAvoid
	case roi.BreakEvenProbability >= 70 && (trend == TrendStable || trend == TrendImproving):
		return PostureScale
	case roi.BreakEvenProbability >= 40 && roi.BreakEvenProbability <= 70 && trend == TrendStable:
		return PostureMonitor
	case roi.BreakEvenProbability < 40 || trend == TrendWorsening:
		return PostureTestSmall
	default:
		return PostureMonitor
	}
}

func buildOpportunities(sc ScenarioInput, growth GrowthMetrics, roi ROIMetrics) []string {
	var out []string
	if growth.EngagementGrowthPct.Max > 50 {
		out = append(out, fmt.Sprintf("engagement upside of up to %.0f%% if the campaign lands", growth.EngagementGrowthPct.Max))
	}
	if growth.ReachGrowthPct.Max > 80 {
		out = append(out, fmt.Sprintf("reach could expand by up to %.0f%%", growth.ReachGrowthPct.Max))
	}
	if growth.CreatorParticipationChangePct.Max > 40 {
		out = append(out, "creator participation momentum supports organic amplification")
	}
	if roi.BreakEvenProbability >= 70 {
		out = append(out, fmt.Sprintf("%.0f%% of the modeled ROI range sits at or above break-even", roi.BreakEvenProbability))
	}
	stage := sc.TrendContext.LifecycleStage
	if stage == StageEmerging || stage == StageGrowth {
		out = append(out, "early lifecycle stage leaves room to establish position before saturation")
	}
	if len(out) == 0 {
		out = append(out, "no standout opportunities identified; treat the campaign as exploratory")
	}
	return out
}

func buildRisks(sc ScenarioInput, roi ROIMetrics, risk RiskProjection, b Baseline) []string {
	var out []string
	stage := sc.TrendContext.LifecycleStage
	campaign := sc.CampaignStrategy.CampaignType
	if roi.LossProbability > 60 {
		out = append(out, fmt.Sprintf("%.0f%% of the modeled ROI range sits below break-even", roi.LossProbability))
	}
	if risk.Trend == TrendWorsening {
		out = append(out, "projected risk trajectory worsens over the campaign window")
	}
	if stage == StageDecline || stage == StageDormant {
		out = append(out, "trend is past its peak; audience attention is contracting")
	}
	if sc.CampaignStrategy.CreatorTier == TierNano {
		out = append(out, "nano creator tier limits reach per creator; results depend on recruiting volume")
	}
	if HighRiskCombination(stage, campaign) {
		out = append(out, fmt.Sprintf("%s campaigns against a %s trend are flagged high-risk", campaign, stage))
	}
	if b.HistoricalVolatility > 70 {
		out = append(out, fmt.Sprintf("historical volatility of %.0f/100 makes outcomes unstable", b.HistoricalVolatility))
	}
	if b.DataCoverage < 50 {
		out = append(out, fmt.Sprintf("only %.0f%% of baseline data was available; ranges are wider than usual", b.DataCoverage))
	}
	if len(out) == 0 {
		out = append(out, "no material risks identified beyond normal campaign variance")
	}
	return out
}

func overallOutlook(roi ROIMetrics, trend RiskTrend) Outlook {
	switch {
	case roi.BreakEvenProbability >= 70 && (trend == TrendStable || trend == TrendImproving):
		return OutlookFavorable
	case roi.LossProbability > 60 || trend == TrendWorsening:
		return OutlookUnfavorable
	default:
		return OutlookRisky
	}
}
