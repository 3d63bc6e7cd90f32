package simulation

import (
	"fmt"
	"strings"
)

// Disclaimer opens every system note. Projections are deterministic range
// arithmetic over modeled multipliers, not fitted statistics.
const Disclaimer = "This simulation is a deterministic what-if projection built from modeled multiplier ranges, " +
	"not a statistical forecast; treat all ranges as planning bands, not guarantees."

const (
	lowCoverageNoteFloor = 75.0
	endorseCoverageFloor = 90.0

	extremeBudgetLow  = 1000.0
	extremeBudgetHigh = 100000.0
)

// BuildGuardrails assembles the transparency note from its conditional
// clauses. Clause order is fixed and part of the contract: disclaimer,
// coverage warning, lifecycle precedent, budget extremes, risk-tolerance
// prompt, applied defaults, endorsement.
func BuildGuardrails(sc ScenarioInput, b Baseline, confidence ConfidenceLevel, appliedDefaults []string) Guardrails {
	clauses := []string{Disclaimer}

	if b.DataCoverage < lowCoverageNoteFloor {
		clause := fmt.Sprintf("Only %.0f%% of baseline data was available", b.DataCoverage)
		if len(b.MissingFields) > 0 {
			clause += fmt.Sprintf(" (missing: %s)", strings.Join(b.MissingFields, ", "))
		}
		clause += "; projected ranges were widened to compensate."
		clauses = append(clauses, clause)
	}

	switch sc.TrendContext.LifecycleStage {
	case StageEmerging:
		clauses = append(clauses, "The trend is still emerging, so historical precedent is thin and projections lean on defaults more than usual.")
	case StageDormant:
		clauses = append(clauses, "The trend is dormant; revival campaigns have limited precedent and projections are less reliable.")
	}

	if mid := sc.CampaignStrategy.BudgetRange.Midpoint(); mid < extremeBudgetLow || mid > extremeBudgetHigh {
		clauses = append(clauses, fmt.Sprintf("The campaign budget (midpoint %.0f) sits outside the %.0f-%.0f band the multiplier tables were calibrated on.",
			mid, extremeBudgetLow, extremeBudgetHigh))
	}

	if sc.Constraints.RiskTolerance == ToleranceLow {
		clauses = append(clauses, "Risk tolerance is set to low; review the risk call-outs before committing budget.")
	}

	if len(appliedDefaults) > 0 {
		clauses = append(clauses, fmt.Sprintf("Unspecified assumptions were defaulted: %s.", strings.Join(appliedDefaults, ", ")))
	}

	if confidence == ConfidenceHigh && b.DataCoverage >= endorseCoverageFloor {
		clauses = append(clauses, "Baseline coverage and confidence are high; these ranges are the narrowest the model produces.")
	}

	return Guardrails{
		DataCoverage: b.DataCoverage,
		SystemNote:   strings.Join(clauses, " "),
	}
}
