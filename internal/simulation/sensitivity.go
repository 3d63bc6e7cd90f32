package simulation

// Assumption dimension names reported by the sensitivity analysis.
const (
	factorEngagementTrend      = "engagement_trend"
	factorCreatorParticipation = "creator_participation"
	factorMarketNoise          = "market_noise"
)

// AnalyzeAssumptionSensitivity measures which assumption moves the
// engagement-growth band the most. Each probe flips one dimension to its
// categorical opposite on a copy of the scenario, so the caller's scenario
// is never mutated and concurrent callers can share one value. Ties go to
// the earlier dimension in the fixed probe order.
func AnalyzeAssumptionSensitivity(b Baseline, sc ScenarioInput) AssumptionSensitivity {
	baseWidth := computeEngagementGrowth(b, sc).Width()

	type candidate struct {
		name  string
		probe func() RangeValue
	}
	cands := []candidate{
		{name: factorEngagementTrend, probe: func() RangeValue {
			p := sc
			p.Assumptions.EngagementTrend = oppositeEngagement(sc.Assumptions.EngagementTrend)
			return computeEngagementGrowth(b, p)
		}},
		{name: factorCreatorParticipation, probe: func() RangeValue {
			p := sc
			p.Assumptions.CreatorParticipation = oppositeParticipation(sc.Assumptions.CreatorParticipation)
			return computeEngagementGrowth(b, p)
		}},
		{name: factorMarketNoise, probe: func() RangeValue {
			p := sc
			p.Assumptions.MarketNoise = oppositeNoise(sc.Assumptions.MarketNoise)
			return computeEngagementGrowth(b, p)
		}},
	}

	out := AssumptionSensitivity{MostSensitiveFactor: cands[0].name}
	best := -1.0
	for _, c := range cands {
		impact := widthImpactPct(baseWidth, c.probe().Width())
		out.Drivers = append(out.Drivers, SensitivityDriver{Assumption: c.name, ImpactPct: impact})
		if impact > best {
			best = impact
			out.MostSensitiveFactor = c.name
		}
	}
	out.ImpactLevel = impactLevelFor(best)
	return out
}

func widthImpactPct(oldWidth, newWidth float64) float64 {
	if oldWidth <= 0 {
		if newWidth == 0 {
			return 0
		}
		return 100
	}
	d := newWidth - oldWidth
	if d < 0 {
		d = -d
	}
	return d / oldWidth * 100
}

func impactLevelFor(impactPct float64) ImpactLevel {
	switch {
	case impactPct > 30:
		return ImpactHigh
	case impactPct > 15:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

// Categorical opposites. The middle value of each dimension flips to a
// fixed alternate rather than probing both directions.
func oppositeEngagement(a EngagementAssumption) EngagementAssumption {
	switch a {
	case EngagementOptimistic:
		return EngagementPessimistic
	case EngagementPessimistic:
		return EngagementOptimistic
	default:
		return EngagementPessimistic
	}
}

func oppositeParticipation(a ParticipationAssumption) ParticipationAssumption {
	switch a {
	case ParticipationIncreasing:
		return ParticipationDeclining
	case ParticipationDeclining:
		return ParticipationIncreasing
	default:
		return ParticipationDeclining
	}
}

func oppositeNoise(n MarketNoise) MarketNoise {
	switch n {
	case NoiseLow:
		return NoiseHigh
	case NoiseHigh:
		return NoiseLow
	default:
		return NoiseHigh
	}
}
