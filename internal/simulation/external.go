package simulation

import "context"

// TrendMetrics is what the trend lifecycle engine knows about a trend.
// All numeric fields are on a 0-100 scale.
type TrendMetrics struct {
	LifecycleStage       LifecycleStage `json:"lifecycle_stage"`
	EngagementTrend      float64        `json:"engagement_trend"`
	ROITrend             float64        `json:"roi_trend"`
	HistoricalVolatility float64        `json:"historical_volatility"`
}

type RiskMetrics struct {
	CurrentRiskScore float64        `json:"current_risk_score"`
	RiskIndicators   []string       `json:"risk_indicators,omitempty"`
	RiskTrajectory   RiskTrajectory `json:"risk_trajectory"`
}

type ROIEstimate struct {
	ROIPercentRange RangeValue `json:"roi_percent_range"`
	Confidence      float64    `json:"confidence"`
}

// The three upstream collaborators. A (nil, nil) return means the system
// answered but has no data for the trend; callers treat it exactly like an
// error: the field set degrades to missing, the pipeline continues.
type TrendLifecycleEngine interface {
	QueryTrendMetrics(ctx context.Context, trendID string) (*TrendMetrics, error)
}

type EarlyDeclineDetector interface {
	QueryRiskMetrics(ctx context.Context, trendID string) (*RiskMetrics, error)
}

type ROIAttributor interface {
	QueryROI(ctx context.Context, engagement, reach RangeValue, budget float64, durationDays int) (*ROIEstimate, error)
}
