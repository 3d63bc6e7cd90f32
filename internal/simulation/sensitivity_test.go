package simulation

import "testing"

func TestAnalyzeAssumptionSensitivityGolden(t *testing.T) {
	b := Baseline{EngagementTrend: 60}
	sc := validScenario()

	got := AnalyzeAssumptionSensitivity(b, sc)

	if got.MostSensitiveFactor != factorMarketNoise {
		t.Fatalf("expected market_noise, got %s", got.MostSensitiveFactor)
	}
	if got.ImpactLevel != ImpactHigh {
		t.Fatalf("expected high impact, got %s", got.ImpactLevel)
	}
	if len(got.Drivers) != 3 {
		t.Fatalf("expected 3 drivers, got %d", len(got.Drivers))
	}

	// Base width 136.4535. Flipping optimistic->pessimistic gives width
	// 97.8795 (28.27%); increasing->declining gives 106.4925 (21.96%);
	// low->high noise widens the band by exactly 45%.
	byName := map[string]float64{}
	for _, d := range got.Drivers {
		byName[d.Assumption] = d.ImpactPct
	}
	if diff(byName[factorEngagementTrend], 28.2689) > 0.01 {
		t.Fatalf("unexpected engagement impact: %f", byName[factorEngagementTrend])
	}
	if diff(byName[factorCreatorParticipation], 21.9569) > 0.01 {
		t.Fatalf("unexpected participation impact: %f", byName[factorCreatorParticipation])
	}
	if diff(byName[factorMarketNoise], 45) > 0.01 {
		t.Fatalf("unexpected noise impact: %f", byName[factorMarketNoise])
	}
}

func TestAnalyzeAssumptionSensitivityLeavesScenarioUntouched(t *testing.T) {
	b := Baseline{EngagementTrend: 60}
	sc := validScenario()
	before := sc.Assumptions

	_ = AnalyzeAssumptionSensitivity(b, sc)

	if sc.Assumptions != before {
		t.Fatalf("assumptions mutated: %+v -> %+v", before, sc.Assumptions)
	}
	// A second run over the same value is identical.
	first := AnalyzeAssumptionSensitivity(b, sc)
	second := AnalyzeAssumptionSensitivity(b, sc)
	if first.MostSensitiveFactor != second.MostSensitiveFactor || first.ImpactLevel != second.ImpactLevel {
		t.Fatalf("analysis not repeatable: %+v vs %+v", first, second)
	}
}

func TestAnalyzeAssumptionSensitivityTieGoesToFirstProbe(t *testing.T) {
	// A zero engagement baseline collapses every probe to zero width, so all
	// impacts tie at 0 and the first probe order wins.
	got := AnalyzeAssumptionSensitivity(Baseline{EngagementTrend: 0}, validScenario())

	if got.MostSensitiveFactor != factorEngagementTrend {
		t.Fatalf("expected tie to go to engagement_trend, got %s", got.MostSensitiveFactor)
	}
	if got.ImpactLevel != ImpactLow {
		t.Fatalf("expected low impact, got %s", got.ImpactLevel)
	}
}

func TestWidthImpactPct(t *testing.T) {
	if got := widthImpactPct(100, 50); diff(got, 50) > 0.001 {
		t.Fatalf("expected 50, got %f", got)
	}
	if got := widthImpactPct(0, 5); got != 100 {
		t.Fatalf("expected 100 for a zero-width base, got %f", got)
	}
	if got := widthImpactPct(0, 0); got != 0 {
		t.Fatalf("expected 0 for two zero widths, got %f", got)
	}
}

func TestImpactLevelBoundaries(t *testing.T) {
	cases := []struct {
		impact float64
		want   ImpactLevel
	}{
		{15, ImpactLow},
		{15.1, ImpactMedium},
		{30, ImpactMedium},
		{30.1, ImpactHigh},
	}
	for _, tc := range cases {
		if got := impactLevelFor(tc.impact); got != tc.want {
			t.Fatalf("impactLevelFor(%f) = %s, want %s", tc.impact, got, tc.want)
		}
	}
}

func TestOppositeFlipsMiddleValuesDown(t *testing.T) {
	if got := oppositeEngagement(EngagementNeutral); got != EngagementPessimistic {
		t.Fatalf("expected neutral to flip pessimistic, got %s", got)
	}
	if got := oppositeParticipation(ParticipationStable); got != ParticipationDeclining {
		t.Fatalf("expected stable to flip declining, got %s", got)
	}
	if got := oppositeNoise(NoiseMedium); got != NoiseHigh {
		t.Fatalf("expected medium to flip high, got %s", got)
	}
	if got := oppositeNoise(NoiseHigh); got != NoiseLow {
		t.Fatalf("expected high to flip low, got %s", got)
	}
}
