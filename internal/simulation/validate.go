package simulation

import "fmt"

var (
	lifecycleStages = map[LifecycleStage]struct{}{
		StageEmerging: {}, StageGrowth: {}, StagePeak: {}, StageDecline: {}, StageDormant: {},
	}
	campaignTypes = map[CampaignType]struct{}{
		CampaignShortTermInfluencer: {}, CampaignLongTermPaid: {}, CampaignOrganicOnly: {}, CampaignMixed: {},
	}
	creatorTiers = map[CreatorTier]struct{}{
		TierNano: {}, TierMicro: {}, TierMacro: {}, TierMixed: {},
	}
	confidenceLevels = map[ConfidenceLevel]struct{}{
		ConfidenceLow: {}, ConfidenceMedium: {}, ConfidenceHigh: {},
	}
	contentIntensities = map[ContentIntensity]struct{}{
		IntensityLow: {}, IntensityMedium: {}, IntensityHigh: {},
	}
	riskTolerances = map[RiskTolerance]struct{}{
		ToleranceLow: {}, ToleranceMedium: {}, ToleranceHigh: {},
	}
	engagementAssumptions = map[EngagementAssumption]struct{}{
		EngagementOptimistic: {}, EngagementNeutral: {}, EngagementPessimistic: {},
	}
	participationAssumptions = map[ParticipationAssumption]struct{}{
		ParticipationIncreasing: {}, ParticipationStable: {}, ParticipationDeclining: {},
	}
	marketNoiseLevels = map[MarketNoise]struct{}{
		NoiseLow: {}, NoiseMedium: {}, NoiseHigh: {},
	}
)

// Validate runs every check and returns the complete set of violations in
// one pass, so a caller can fix everything at once. It never short-circuits
// and has no side effects; calling it twice on the same scenario yields the
// same failure list.
func Validate(sc ScenarioInput) (bool, []ValidationFailure) {
	var failures []ValidationFailure
	add := func(field, message, guidance string) {
		failures = append(failures, ValidationFailure{Field: field, Message: message, Guidance: guidance})
	}

	if sc.TrendContext.TrendID == "" {
		add("trend_context.trend_id", "trend_id is required",
			"provide the identifier of the trend the campaign targets")
	}
	if _, ok := lifecycleStages[sc.TrendContext.LifecycleStage]; !ok {
		add("trend_context.lifecycle_stage",
			fmt.Sprintf("unknown lifecycle_stage %q", sc.TrendContext.LifecycleStage),
			"use one of: emerging, growth, peak, decline, dormant")
	}
	if _, ok := confidenceLevels[sc.TrendContext.Confidence]; !ok {
		add("trend_context.confidence",
			fmt.Sprintf("unknown confidence %q", sc.TrendContext.Confidence),
			"use one of: low, medium, high")
	}
	if sc.TrendContext.CurrentRiskScore < 0 || sc.TrendContext.CurrentRiskScore > 100 {
		add("trend_context.current_risk_score",
			fmt.Sprintf("current_risk_score %.1f is outside [0,100]", sc.TrendContext.CurrentRiskScore),
			"provide a risk score between 0 and 100")
	}

	if _, ok := campaignTypes[sc.CampaignStrategy.CampaignType]; !ok {
		add("campaign_strategy.campaign_type",
			fmt.Sprintf("unknown campaign_type %q", sc.CampaignStrategy.CampaignType),
			"use one of: short_term_influencer, long_term_paid, organic_only, mixed")
	}
	if _, ok := creatorTiers[sc.CampaignStrategy.CreatorTier]; !ok {
		add("campaign_strategy.creator_tier",
			fmt.Sprintf("unknown creator_tier %q", sc.CampaignStrategy.CreatorTier),
			"use one of: nano, micro, macro, mixed")
	}
	if _, ok := contentIntensities[sc.CampaignStrategy.ContentIntensity]; !ok {
		add("campaign_strategy.content_intensity",
			fmt.Sprintf("unknown content_intensity %q", sc.CampaignStrategy.ContentIntensity),
			"use one of: low, medium, high")
	}
	if sc.CampaignStrategy.BudgetRange.Min < 0 {
		add("campaign_strategy.budget_range.min",
			fmt.Sprintf("budget_range.min %.2f is negative", sc.CampaignStrategy.BudgetRange.Min),
			"budgets must be non-negative")
	}
	if sc.CampaignStrategy.BudgetRange.Min > sc.CampaignStrategy.BudgetRange.Max {
		add("campaign_strategy.budget_range",
			fmt.Sprintf("budget_range.min %.2f exceeds budget_range.max %.2f",
				sc.CampaignStrategy.BudgetRange.Min, sc.CampaignStrategy.BudgetRange.Max),
			"swap or correct the budget bounds so min <= max")
	}
	if sc.CampaignStrategy.DurationDays <= 0 {
		add("campaign_strategy.campaign_duration_days",
			fmt.Sprintf("campaign_duration_days %d must be positive", sc.CampaignStrategy.DurationDays),
			"set a duration of at least 1 day")
	}

	if _, ok := riskTolerances[sc.Constraints.RiskTolerance]; !ok {
		add("constraints.risk_tolerance",
			fmt.Sprintf("unknown risk_tolerance %q", sc.Constraints.RiskTolerance),
			"use one of: low, medium, high")
	}
	// A zero cap means the caller set none; only a positive cap is enforced.
	if sc.Constraints.MaxBudgetCap > 0 && sc.CampaignStrategy.BudgetRange.Max > sc.Constraints.MaxBudgetCap {
		add("campaign_strategy.budget_range",
			fmt.Sprintf("budget constraint violated: budget_range.max %.2f exceeds max_budget_cap %.2f",
				sc.CampaignStrategy.BudgetRange.Max, sc.Constraints.MaxBudgetCap),
			"lower budget_range.max or raise constraints.max_budget_cap")
	}

	// Assumptions may be empty; the simulator defaults them before use.
	if sc.Assumptions.EngagementTrend != "" {
		if _, ok := engagementAssumptions[sc.Assumptions.EngagementTrend]; !ok {
			add("assumptions.engagement_trend",
				fmt.Sprintf("unknown engagement_trend %q", sc.Assumptions.EngagementTrend),
				"use one of: optimistic, neutral, pessimistic, or omit for neutral")
		}
	}
	if sc.Assumptions.CreatorParticipation != "" {
		if _, ok := participationAssumptions[sc.Assumptions.CreatorParticipation]; !ok {
			add("assumptions.creator_participation",
				fmt.Sprintf("unknown creator_participation %q", sc.Assumptions.CreatorParticipation),
				"use one of: increasing, stable, declining, or omit for stable")
		}
	}
	if sc.Assumptions.MarketNoise != "" {
		if _, ok := marketNoiseLevels[sc.Assumptions.MarketNoise]; !ok {
			add("assumptions.market_noise",
				fmt.Sprintf("unknown market_noise %q", sc.Assumptions.MarketNoise),
				"use one of: low, medium, high, or omit for medium")
		}
	}

	// Compatibility verdicts only mean something once both enums parsed.
	_, stageOK := lifecycleStages[sc.TrendContext.LifecycleStage]
	_, typeOK := campaignTypes[sc.CampaignStrategy.CampaignType]
	if stageOK && typeOK {
		c := lookupCompatibility(sc.TrendContext.LifecycleStage, sc.CampaignStrategy.CampaignType)
		if !c.Compatible {
			add("campaign_strategy.campaign_type",
				fmt.Sprintf("campaign_type %q is incompatible with lifecycle_stage %q",
					sc.CampaignStrategy.CampaignType, sc.TrendContext.LifecycleStage),
				"choose a shorter-horizon campaign type for trends past their peak")
		}
	}

	return len(failures) == 0, failures
}

// HighRiskCombination reports whether a valid (stage, campaign type) pair is
// flagged high-risk in the compatibility matrix. Such pairs pass validation;
// the flag feeds risk interpretation downstream.
func HighRiskCombination(stage LifecycleStage, campaign CampaignType) bool {
	c := lookupCompatibility(stage, campaign)
	return c.Compatible && c.HighRisk
}
