package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/trendops/whatif/internal/simulation")

// StepError marks which pipeline step failed. Only validation and ROI
// computation can fail; every other step is total over validated input.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("%s: %v", e.Step, e.Err) }
func (e *StepError) Unwrap() error { return e.Err }

func StepNameFromError(err error) string {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step
	}
	return "simulate"
}

// ValidationError carries the complete violation list from a rejected
// scenario. It is data for the caller, not a process fault.
type ValidationError struct {
	Failures []ValidationFailure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scenario validation failed with %d violation(s)", len(e.Failures))
}

// AsErrorResponse maps a Simulate error onto the wire-level error envelope.
// Boundary layers (HTTP, CLI) call this; the mapping to status codes stays
// on their side.
func AsErrorResponse(err error) ErrorResponse {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ErrorResponse{
			ErrorCode:          ErrorCodeValidation,
			ErrorMessage:       "scenario validation failed",
			ValidationFailures: ve.Failures,
		}
	}
	if errors.Is(err, ErrROIComputation) {
		return ErrorResponse{
			ErrorCode:    ErrorCodeROIComputation,
			ErrorMessage: "roi computation failed and no fallback was available",
		}
	}
	return ErrorResponse{ErrorCode: ErrorCodeInternal, ErrorMessage: err.Error()}
}

// Simulator sequences validation, baseline extraction, range computation,
// ROI, sensitivity, interpretation and guardrails into one call. Build it
// once at process start; it is safe for concurrent use.
type Simulator struct {
	baseline *BaselineExtractor
	roi      *ROIComputer
	logger   *zap.Logger
}

type SimulatorConfig struct {
	Trends       TrendLifecycleEngine
	Risks        EarlyDeclineDetector
	ROI          ROIAttributor
	QueryTimeout time.Duration
	Logger       *zap.Logger
}

func NewSimulator(cfg SimulatorConfig) *Simulator {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{
		baseline: NewBaselineExtractor(cfg.Trends, cfg.Risks, cfg.QueryTimeout, logger),
		roi:      NewROIComputer(cfg.ROI, cfg.QueryTimeout, logger),
		logger:   logger,
	}
}

type SimulateOptions struct {
	// SkipExecutiveSummary drops the narrative block from the response;
	// every computed field is unaffected.
	SkipExecutiveSummary bool
}

func (s *Simulator) Simulate(ctx context.Context, sc ScenarioInput) (SimulationResponse, error) {
	return s.simulate(ctx, sc, SimulateOptions{})
}

func (s *Simulator) SimulateWithOptions(ctx context.Context, sc ScenarioInput, opts SimulateOptions) (SimulationResponse, error) {
	return s.simulate(ctx, sc, opts)
}

func (s *Simulator) simulate(ctx context.Context, sc ScenarioInput, opts SimulateOptions) (SimulationResponse, error) {
	ctx, span := tracer.Start(ctx, "simulate")
	defer span.End()

	// Step 1: identity.
	if sc.ScenarioID == "" {
		sc.ScenarioID = uuid.NewString()
	}
	span.SetAttributes(
		attribute.String("scenario_id", sc.ScenarioID),
		attribute.String("trend_id", sc.TrendContext.TrendID),
	)

	// Step 2: validation. The full violation list goes back in one shot.
	_, vSpan := tracer.Start(ctx, "simulate.validate")
	ok, failures := Validate(sc)
	vSpan.End()
	if !ok {
		return SimulationResponse{}, &StepError{Step: "validate", Err: &ValidationError{Failures: failures}}
	}
	if HighRiskCombination(sc.TrendContext.LifecycleStage, sc.CampaignStrategy.CampaignType) {
		s.logger.Warn("high-risk stage/campaign combination accepted",
			zap.String("scenario_id", sc.ScenarioID),
			zap.String("lifecycle_stage", string(sc.TrendContext.LifecycleStage)),
			zap.String("campaign_type", string(sc.CampaignStrategy.CampaignType)))
	}

	// Step 3: default any unset assumptions, remembering which.
	var applied []string
	sc.Assumptions, applied = applyAssumptionDefaults(sc.Assumptions)

	// Step 4: baseline. Upstream failures degrade coverage, never abort.
	bCtx, bSpan := tracer.Start(ctx, "simulate.baseline")
	b := s.baseline.Extract(bCtx, sc)
	bSpan.End()
	if err := ctx.Err(); err != nil {
		return SimulationResponse{}, &StepError{Step: "baseline", Err: err}
	}
	adjusted := AdjustConfidence(sc.TrendContext.Confidence, b.DataCoverage)
	factor := WideningFactor(b.DataCoverage, adjusted)
	span.SetAttributes(
		attribute.Float64("data_coverage", b.DataCoverage),
		attribute.Float64("widening_factor", factor),
	)

	// Step 5: the four ranges, widened uniformly when triggered and
	// re-clamped to their domains.
	_, rSpan := tracer.Start(ctx, "simulate.ranges")
	growth := GrowthMetrics{
		EngagementGrowthPct:           computeEngagementGrowth(b, sc),
		ReachGrowthPct:                computeReachGrowth(b, sc),
		CreatorParticipationChangePct: computeParticipationChange(sc),
	}
	projected := computeRiskProjection(b, sc)
	if factor > 1.0 {
		growth.EngagementGrowthPct = clampRange(widenRange(growth.EngagementGrowthPct, factor), engagementClampMin, engagementClampMax)
		growth.ReachGrowthPct = clampRange(widenRange(growth.ReachGrowthPct, factor), reachClampMin, reachClampMax)
		growth.CreatorParticipationChangePct = clampRange(widenRange(growth.CreatorParticipationChangePct, factor), participationMin, participationMax)
		projected = clampRange(widenRange(projected, factor), riskClampMin, riskClampMax)
	}
	rSpan.End()

	// Step 6: ROI. The single fatal computation path.
	roiCtx, roiSpan := tracer.Start(ctx, "simulate.roi")
	roi, err := s.roi.Compute(roiCtx, growth.EngagementGrowthPct, growth.ReachGrowthPct, sc)
	roiSpan.End()
	if err != nil {
		span.RecordError(err)
		return SimulationResponse{}, &StepError{Step: "roi", Err: err}
	}

	// Step 7: risk trend, read against the score the caller declared.
	risk := RiskProjection{
		CurrentScore:   sc.TrendContext.CurrentRiskScore,
		ProjectedScore: projected,
		Trend:          riskTrendFor(projected, sc.TrendContext.CurrentRiskScore),
	}

	// Step 8: sensitivity probing on scenario copies.
	_, sSpan := tracer.Start(ctx, "simulate.sensitivity")
	sens := AnalyzeAssumptionSensitivity(b, sc)
	sSpan.End()

	// Step 9: interpret, guardrails, assemble.
	resp := SimulationResponse{
		SimulationSummary: SimulationSummary{
			ScenarioID:      sc.ScenarioID,
			TrendID:         sc.TrendContext.TrendID,
			TrendName:       sc.TrendContext.TrendName,
			Platform:        sc.TrendContext.Platform,
			LifecycleStage:  sc.TrendContext.LifecycleStage,
			CampaignType:    sc.CampaignStrategy.CampaignType,
			BudgetRange:     sc.CampaignStrategy.BudgetRange,
			DurationDays:    sc.CampaignStrategy.DurationDays,
			Confidence:      adjusted,
			AppliedDefaults: applied,
			SimulatedAt:     time.Now().UTC(),
		},
		ExpectedGrowthMetrics:  growth,
		ExpectedROIMetrics:     roi,
		RiskProjection:         risk,
		DecisionInterpretation: Interpret(sc, growth, roi, risk, b),
		AssumptionSensitivity:  sens,
		Guardrails:             BuildGuardrails(sc, b, adjusted, applied),
	}
	if !opts.SkipExecutiveSummary {
		resp.ExecutiveSummary = BuildExecutiveSummary(resp)
	}
	return resp, nil
}

func applyAssumptionDefaults(a Assumptions) (Assumptions, []string) {
	var applied []string
	if a.EngagementTrend == "" {
		a.EngagementTrend = EngagementNeutral
		applied = append(applied, "engagement_trend=neutral")
	}
	if a.CreatorParticipation == "" {
		a.CreatorParticipation = ParticipationStable
		applied = append(applied, "creator_participation=stable")
	}
	if a.MarketNoise == "" {
		a.MarketNoise = NoiseMedium
		applied = append(applied, "market_noise=medium")
	}
	return a, applied
}
