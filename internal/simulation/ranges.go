package simulation

// The growth computations are pure transformations over RangeValues: each
// metric starts from a baseline-derived seed and passes through an ordered
// multiplier chain, so uncertainty compounds instead of collapsing to a
// point estimate. Inputs are assumed validated and defaulted.

func computeEngagementGrowth(b Baseline, sc ScenarioInput) RangeValue {
	r := NewRange(b.EngagementTrend*engagementSeedMin, b.EngagementTrend*engagementSeedMax)
	r = applyMultiplier(r, budgetTierMultiplier(sc.CampaignStrategy.BudgetRange))
	r = applyMultiplier(r, intensityMultiplier(sc.CampaignStrategy.ContentIntensity))
	r = applyMultiplier(r, engagementTrendMultiplier(sc.Assumptions.EngagementTrend))
	r = applyMultiplier(r, participationMultiplier(sc.Assumptions.CreatorParticipation))
	r = widenRange(r, noiseWidening(sc.Assumptions.MarketNoise))
	return clampRange(r, engagementClampMin, engagementClampMax)
}

func computeReachGrowth(b Baseline, sc ScenarioInput) RangeValue {
	r := NewRange(b.EngagementTrend*reachSeedMin, b.EngagementTrend*reachSeedMax)
	r = applyMultiplier(r, tierReachMultiplier(sc.CampaignStrategy.CreatorTier))
	r = applyDiminishingReturns(r, sc.CampaignStrategy.DurationDays)
	if sc.TrendContext.LifecycleStage == StagePeak {
		r = applyMultiplier(r, peakSaturationMultiplier)
	}
	return clampRange(r, reachClampMin, reachClampMax)
}

// applyDiminishingReturns trims only the upper bound: long campaigns cap
// the best case without moving the floor.
func applyDiminishingReturns(r RangeValue, durationDays int) RangeValue {
	if durationDays <= diminishingStartDays {
		return r
	}
	progress := float64(durationDays-diminishingStartDays) / float64(diminishingFullDays-diminishingStartDays)
	if progress > 1 {
		progress = 1
	}
	return NewRange(r.Min, r.Max*(1-progress*diminishingMaxReduction))
}

func computeParticipationChange(sc ScenarioInput) RangeValue {
	r := applyMultiplier(participationSeed, participationMultiplier(sc.Assumptions.CreatorParticipation))
	r = applyMultiplier(r, intensityMultiplier(sc.CampaignStrategy.ContentIntensity))
	return clampRange(r, participationMin, participationMax)
}

// computeRiskProjection centers on the refreshed baseline risk plus the
// discrete rule adjustments, banded asymmetrically toward the upside.
func computeRiskProjection(b Baseline, sc ScenarioInput) RangeValue {
	center := b.CurrentRiskScore + riskAdjustment(sc)
	return clampRange(NewRange(center-riskBandBelow, center+riskBandAbove), riskClampMin, riskClampMax)
}

func riskAdjustment(sc ScenarioInput) float64 {
	adj := 0.0
	stage := sc.TrendContext.LifecycleStage
	campaign := sc.CampaignStrategy.CampaignType
	if campaign == CampaignShortTermInfluencer && stage == StagePeak {
		adj += riskAdjShortTermAtPeak
	}
	if campaign == CampaignOrganicOnly && stage == StageGrowth {
		adj += riskAdjOrganicAtGrowth
	}
	if stage == StageDecline || stage == StageDormant {
		adj += riskAdjLateStage
	}
	switch sc.CampaignStrategy.ContentIntensity {
	case IntensityHigh:
		adj += riskAdjIntensityHigh
	case IntensityLow:
		adj += riskAdjIntensityLow
	}
	return adj
}

// riskTrendFor compares the projected midpoint against the risk score the
// caller declared. The projection itself seeds from the refreshed baseline
// score, so the trend reads as what the campaign does to the risk the
// caller believes they are carrying.
func riskTrendFor(projected RangeValue, declaredCurrent float64) RiskTrend {
	mid := projected.Midpoint()
	switch {
	case mid > declaredCurrent+riskTrendStableTolerance:
		return TrendWorsening
	case mid < declaredCurrent-riskTrendStableTolerance:
		return TrendImproving
	default:
		return TrendStable
	}
}
