package simulation

import "time"

const (
	ErrorCodeValidation     = "VALIDATION_ERROR"
	ErrorCodeROIComputation = "ROI_COMPUTATION_ERROR"
	ErrorCodeInternal       = "INTERNAL_ERROR"
)

type LifecycleStage string

const (
	StageEmerging LifecycleStage = "emerging"
	StageGrowth   LifecycleStage = "growth"
	StagePeak     LifecycleStage = "peak"
	StageDecline  LifecycleStage = "decline"
	StageDormant  LifecycleStage = "dormant"
)

type CampaignType string

const (
	CampaignShortTermInfluencer CampaignType = "short_term_influencer"
	CampaignLongTermPaid        CampaignType = "long_term_paid"
	CampaignOrganicOnly         CampaignType = "organic_only"
	CampaignMixed               CampaignType = "mixed"
)

type CreatorTier string

const (
	TierNano  CreatorTier = "nano"
	TierMicro CreatorTier = "micro"
	TierMacro CreatorTier = "macro"
	TierMixed CreatorTier = "mixed"
)

type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

type ContentIntensity string

const (
	IntensityLow    ContentIntensity = "low"
	IntensityMedium ContentIntensity = "medium"
	IntensityHigh   ContentIntensity = "high"
)

type EngagementAssumption string

const (
	EngagementOptimistic  EngagementAssumption = "optimistic"
	EngagementNeutral     EngagementAssumption = "neutral"
	EngagementPessimistic EngagementAssumption = "pessimistic"
)

type ParticipationAssumption string

const (
	ParticipationIncreasing ParticipationAssumption = "increasing"
	ParticipationStable     ParticipationAssumption = "stable"
	ParticipationDeclining  ParticipationAssumption = "declining"
)

type MarketNoise string

const (
	NoiseLow    MarketNoise = "low"
	NoiseMedium MarketNoise = "medium"
	NoiseHigh   MarketNoise = "high"
)

type RiskTolerance string

const (
	ToleranceLow    RiskTolerance = "low"
	ToleranceMedium RiskTolerance = "medium"
	ToleranceHigh   RiskTolerance = "high"
)

type RiskTrend string

const (
	TrendImproving RiskTrend = "improving"
	TrendStable    RiskTrend = "stable"
	TrendWorsening RiskTrend = "worsening"
)

type RiskTrajectory string

const (
	TrajectoryIncreasing RiskTrajectory = "increasing"
	TrajectoryStable     RiskTrajectory = "stable"
	TrajectoryDecreasing RiskTrajectory = "decreasing"
)

type Posture string

const (
	PostureScale     Posture = "scale"
	PostureTestSmall Posture = "test_small"
	PostureMonitor   Posture = "monitor"
	PostureAvoid     Posture = "avoid"
)

type Outlook string

const (
	OutlookFavorable   Outlook = "favorable"
	OutlookRisky       Outlook = "risky"
	OutlookUnfavorable Outlook = "unfavorable"
)

type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// FieldSource records where a baseline field's value came from.
type FieldSource string

const (
	SourceExternal FieldSource = "external"
	SourceScenario FieldSource = "scenario"
	SourceDefault  FieldSource = "default"
)

// RangeValue is a {min,max} uncertainty band. Min <= Max is maintained by
// every producing site; use NewRange rather than a struct literal when the
// ordering of the inputs is not already known.
type RangeValue struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func NewRange(min, max float64) RangeValue {
	if min > max {
		min, max = max, min
	}
	return RangeValue{Min: min, Max: max}
}

func (r RangeValue) Midpoint() float64 { return (r.Min + r.Max) / 2.0 }
func (r RangeValue) Width() float64    { return r.Max - r.Min }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampRange(r RangeValue, lo, hi float64) RangeValue {
	return NewRange(clamp(r.Min, lo, hi), clamp(r.Max, lo, hi))
}

type TrendContext struct {
	TrendID          string          `json:"trend_id"`
	TrendName        string          `json:"trend_name,omitempty"`
	Platform         string          `json:"platform,omitempty"`
	LifecycleStage   LifecycleStage  `json:"lifecycle_stage"`
	CurrentRiskScore float64         `json:"current_risk_score"`
	Confidence       ConfidenceLevel `json:"confidence"`
}

type CampaignStrategy struct {
	CampaignType     CampaignType     `json:"campaign_type"`
	BudgetRange      RangeValue       `json:"budget_range"`
	DurationDays     int              `json:"campaign_duration_days"`
	CreatorTier      CreatorTier      `json:"creator_tier"`
	ContentIntensity ContentIntensity `json:"content_intensity"`
}

// Assumptions may be left empty by the caller; the simulator fills unset
// fields with the neutral defaults before computation.
type Assumptions struct {
	EngagementTrend      EngagementAssumption    `json:"engagement_trend,omitempty"`
	CreatorParticipation ParticipationAssumption `json:"creator_participation,omitempty"`
	MarketNoise          MarketNoise             `json:"market_noise,omitempty"`
}

type Constraints struct {
	RiskTolerance RiskTolerance `json:"risk_tolerance"`
	MaxBudgetCap  float64       `json:"max_budget_cap"`
}

type ScenarioInput struct {
	ScenarioID       string           `json:"scenario_id,omitempty"`
	TrendContext     TrendContext     `json:"trend_context"`
	CampaignStrategy CampaignStrategy `json:"campaign_strategy"`
	Assumptions      Assumptions      `json:"assumptions"`
	Constraints      Constraints      `json:"constraints"`
}

// Baseline is the coverage-aware normalization of whatever the upstream
// systems returned. Numeric fields are clamped to [0,100]; fields the
// collaborators could not supply are listed in MissingFields and filled
// from the scenario or from mid-scale defaults.
type Baseline struct {
	EngagementTrend      float64                `json:"engagement_trend"`
	ROITrend             float64                `json:"roi_trend"`
	HistoricalVolatility float64                `json:"historical_volatility"`
	CurrentRiskScore     float64                `json:"current_risk_score"`
	RiskTrajectory       RiskTrajectory         `json:"risk_trajectory"`
	RiskIndicators       []string               `json:"risk_indicators,omitempty"`
	DataCoverage         float64                `json:"data_coverage"`
	MissingFields        []string               `json:"missing_fields,omitempty"`
	Sources              map[string]FieldSource `json:"sources,omitempty"`
}

type SimulationSummary struct {
	ScenarioID      string          `json:"scenario_id"`
	TrendID         string          `json:"trend_id"`
	TrendName       string          `json:"trend_name,omitempty"`
	Platform        string          `json:"platform,omitempty"`
	LifecycleStage  LifecycleStage  `json:"lifecycle_stage"`
	CampaignType    CampaignType    `json:"campaign_type"`
	BudgetRange     RangeValue      `json:"budget_range"`
	DurationDays    int             `json:"campaign_duration_days"`
	Confidence      ConfidenceLevel `json:"confidence"`
	AppliedDefaults []string        `json:"applied_defaults,omitempty"`
	SimulatedAt     time.Time       `json:"simulated_at"`
}

type GrowthMetrics struct {
	EngagementGrowthPct           RangeValue `json:"engagement_growth_pct"`
	ReachGrowthPct                RangeValue `json:"reach_growth_pct"`
	CreatorParticipationChangePct RangeValue `json:"creator_participation_change_pct"`
}

type ROIMetrics struct {
	ROIPct               RangeValue `json:"roi_pct"`
	BreakEvenProbability float64    `json:"break_even_probability"`
	LossProbability      float64    `json:"loss_probability"`
	Source               string     `json:"source"`
}

type RiskProjection struct {
	CurrentScore   float64    `json:"current_score"`
	ProjectedScore RangeValue `json:"projected_score"`
	Trend          RiskTrend  `json:"trend"`
}

type DecisionInterpretation struct {
	RecommendedPosture Posture  `json:"recommended_posture"`
	Opportunities      []string `json:"opportunities"`
	Risks              []string `json:"risks"`
	OverallOutlook     Outlook  `json:"overall_outlook"`
}

type SensitivityDriver struct {
	Assumption string  `json:"assumption"`
	ImpactPct  float64 `json:"impact_pct"`
}

type AssumptionSensitivity struct {
	MostSensitiveFactor string              `json:"most_sensitive_factor"`
	ImpactLevel         ImpactLevel         `json:"impact_level"`
	Drivers             []SensitivityDriver `json:"drivers,omitempty"`
}

type Guardrails struct {
	DataCoverage float64 `json:"data_coverage"`
	SystemNote   string  `json:"system_note"`
}

type SimulationResponse struct {
	SimulationSummary      SimulationSummary      `json:"simulation_summary"`
	ExpectedGrowthMetrics  GrowthMetrics          `json:"expected_growth_metrics"`
	ExpectedROIMetrics     ROIMetrics             `json:"expected_roi_metrics"`
	RiskProjection         RiskProjection         `json:"risk_projection"`
	DecisionInterpretation DecisionInterpretation `json:"decision_interpretation"`
	AssumptionSensitivity  AssumptionSensitivity  `json:"assumption_sensitivity"`
	Guardrails             Guardrails             `json:"guardrails"`
	ExecutiveSummary       string                 `json:"executive_summary,omitempty"`
}

type ValidationFailure struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Guidance string `json:"guidance"`
}

type ErrorResponse struct {
	ErrorCode          string              `json:"error_code"`
	ErrorMessage       string              `json:"error_message"`
	ValidationFailures []ValidationFailure `json:"validation_failures"`
}
