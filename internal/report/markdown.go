// Package report renders simulation responses into human-readable artifacts:
// GitHub-flavored markdown, standalone HTML, and print-quality PDF.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/trendops/whatif/internal/simulation"
)

// BuildMarkdown renders the full simulation response as a markdown document.
// Section order mirrors the response: summary first, then growth, ROI, risk,
// the recommendation, sensitivity, and the guardrail note last.
func BuildMarkdown(resp *simulation.SimulationResponse) string {
	sum := resp.SimulationSummary

	var b strings.Builder
	fmt.Fprintf(&b, "# What-If Simulation Report\n\n")
	fmt.Fprintf(&b, "- Scenario: %s\n", sanitize(sum.ScenarioID))
	if sum.TrendName != "" {
		fmt.Fprintf(&b, "- Trend: %s (%s)\n", sanitize(sum.TrendName), sanitize(sum.TrendID))
	} else {
		fmt.Fprintf(&b, "- Trend: %s\n", sanitize(sum.TrendID))
	}
	if sum.Platform != "" {
		fmt.Fprintf(&b, "- Platform: %s\n", sanitize(sum.Platform))
	}
	fmt.Fprintf(&b, "- Lifecycle stage: %s\n", humanize(string(sum.LifecycleStage)))
	fmt.Fprintf(&b, "- Campaign: %s, %s budget, %d days\n",
		humanize(string(sum.CampaignType)), fmtRange(sum.BudgetRange, ""), sum.DurationDays)
	fmt.Fprintf(&b, "- Confidence: %s\n", string(sum.Confidence))
	fmt.Fprintf(&b, "- Simulated: %s\n\n", sum.SimulatedAt.UTC().Format(time.RFC3339))

	if len(sum.AppliedDefaults) > 0 {
		fmt.Fprintf(&b, "> Defaulted assumptions: %s\n\n", sanitize(strings.Join(sum.AppliedDefaults, ", ")))
	}

	if resp.ExecutiveSummary != "" {
		fmt.Fprintf(&b, "## Executive Summary\n\n%s\n\n", sanitize(resp.ExecutiveSummary))
	}

	fmt.Fprintf(&b, "## Expected Growth\n\n")
	fmt.Fprintf(&b, "| Metric | Low | High |\n|--------|-----|------|\n")
	writeRangeRow(&b, "Engagement growth", resp.ExpectedGrowthMetrics.EngagementGrowthPct)
	writeRangeRow(&b, "Reach growth", resp.ExpectedGrowthMetrics.ReachGrowthPct)
	writeRangeRow(&b, "Creator participation change", resp.ExpectedGrowthMetrics.CreatorParticipationChangePct)
	b.WriteString("\n")

	roi := resp.ExpectedROIMetrics
	fmt.Fprintf(&b, "## Expected ROI\n\n")
	fmt.Fprintf(&b, "- Projected ROI: %s\n", fmtRange(roi.ROIPct, "%"))
	fmt.Fprintf(&b, "- Break-even probability: %.1f%%\n", roi.BreakEvenProbability)
	fmt.Fprintf(&b, "- Probability of loss: %.1f%%\n", roi.LossProbability)
	fmt.Fprintf(&b, "- Estimate source: %s\n\n", humanize(roi.Source))

	risk := resp.RiskProjection
	fmt.Fprintf(&b, "## Risk Projection\n\n")
	fmt.Fprintf(&b, "- Current decline-risk score: %.0f/100\n", risk.CurrentScore)
	fmt.Fprintf(&b, "- Projected at campaign end: %s\n", fmtRange(risk.ProjectedScore, ""))
	fmt.Fprintf(&b, "- Trend: %s\n\n", string(risk.Trend))

	dec := resp.DecisionInterpretation
	fmt.Fprintf(&b, "## Recommendation\n\n")
	fmt.Fprintf(&b, "**Posture: %s** (outlook: %s)\n\n",
		humanize(string(dec.RecommendedPosture)), string(dec.OverallOutlook))
	fmt.Fprintf(&b, "Opportunities:\n\n")
	for _, o := range dec.Opportunities {
		fmt.Fprintf(&b, "- %s\n", sanitize(o))
	}
	fmt.Fprintf(&b, "\nRisks:\n\n")
	for _, r := range dec.Risks {
		fmt.Fprintf(&b, "- %s\n", sanitize(r))
	}
	b.WriteString("\n")

	sens := resp.AssumptionSensitivity
	fmt.Fprintf(&b, "## Assumption Sensitivity\n\n")
	fmt.Fprintf(&b, "Most sensitive factor: `%s` (%s impact)\n\n", sens.MostSensitiveFactor, string(sens.ImpactLevel))
	if len(sens.Drivers) > 0 {
		fmt.Fprintf(&b, "| Assumption | Outcome swing |\n|------------|---------------|\n")
		for _, d := range sens.Drivers {
			fmt.Fprintf(&b, "| %s | %.1f%% |\n", sanitizeCell(d.Assumption), d.ImpactPct)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Guardrails\n\n")
	fmt.Fprintf(&b, "Data coverage: %.0f%%\n\n", resp.Guardrails.DataCoverage)
	fmt.Fprintf(&b, "%s\n", sanitize(resp.Guardrails.SystemNote))

	return b.String()
}

func writeRangeRow(b *strings.Builder, label string, r simulation.RangeValue) {
	fmt.Fprintf(b, "| %s | %.1f%% | %.1f%% |\n", label, r.Min, r.Max)
}

// fmtRange renders "min to max" with an optional unit suffix on each bound.
func fmtRange(r simulation.RangeValue, unit string) string {
	return fmt.Sprintf("%s%s to %s%s", trimFloat(r.Min), unit, trimFloat(r.Max), unit)
}

// trimFloat drops trailing zeros so budgets read "10000" not "10000.0" while
// fractional bounds keep one decimal.
func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

func sanitize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

func sanitizeCell(s string) string {
	s = sanitize(s)
	return strings.ReplaceAll(s, "|", "\\|")
}
