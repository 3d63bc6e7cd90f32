package simulation

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultQueryTimeout = 5 * time.Second

	// Tracked baseline fields; coverage is the retrieved fraction of these.
	trackedFieldCount = 5

	// Mid-scale stand-in for trend fields the engine could not supply.
	missingFieldDefault = 50.0
)

// BaselineExtractor normalizes whatever the two upstream systems return
// into a coverage-aware Baseline. Upstream failures and timeouts degrade
// data quality; they never abort the pipeline.
type BaselineExtractor struct {
	trends  TrendLifecycleEngine
	risks   EarlyDeclineDetector
	timeout time.Duration
	logger  *zap.Logger
}

func NewBaselineExtractor(trends TrendLifecycleEngine, risks EarlyDeclineDetector, timeout time.Duration, logger *zap.Logger) *BaselineExtractor {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaselineExtractor{trends: trends, risks: risks, timeout: timeout, logger: logger}
}

// Extract queries trend metrics and risk metrics concurrently; the two are
// independent of each other. Each query carries its own timeout, and a
// timeout is treated the same as "no data".
func (e *BaselineExtractor) Extract(ctx context.Context, sc ScenarioInput) Baseline {
	var (
		tm *TrendMetrics
		rm *RiskMetrics
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		qCtx, cancel := context.WithTimeout(egCtx, e.timeout)
		defer cancel()
		m, err := e.queryTrendMetrics(qCtx, sc.TrendContext.TrendID)
		if err != nil {
			e.logger.Warn("trend metrics unavailable",
				zap.String("trend_id", sc.TrendContext.TrendID), zap.Error(err))
			return nil
		}
		tm = m
		return nil
	})
	eg.Go(func() error {
		qCtx, cancel := context.WithTimeout(egCtx, e.timeout)
		defer cancel()
		m, err := e.queryRiskMetrics(qCtx, sc.TrendContext.TrendID)
		if err != nil {
			e.logger.Warn("risk metrics unavailable",
				zap.String("trend_id", sc.TrendContext.TrendID), zap.Error(err))
			return nil
		}
		rm = m
		return nil
	})
	// The goroutines swallow their own failures; Wait cannot error here.
	_ = eg.Wait()

	return assembleBaseline(sc, tm, rm)
}

func (e *BaselineExtractor) queryTrendMetrics(ctx context.Context, trendID string) (*TrendMetrics, error) {
	if e.trends == nil {
		return nil, nil
	}
	return e.trends.QueryTrendMetrics(ctx, trendID)
}

func (e *BaselineExtractor) queryRiskMetrics(ctx context.Context, trendID string) (*RiskMetrics, error) {
	if e.risks == nil {
		return nil, nil
	}
	return e.risks.QueryRiskMetrics(ctx, trendID)
}

func assembleBaseline(sc ScenarioInput, tm *TrendMetrics, rm *RiskMetrics) Baseline {
	b := Baseline{Sources: map[string]FieldSource{}}

	if tm != nil {
		b.EngagementTrend = clamp(tm.EngagementTrend, 0, 100)
		b.ROITrend = clamp(tm.ROITrend, 0, 100)
		b.HistoricalVolatility = clamp(tm.HistoricalVolatility, 0, 100)
		b.Sources["engagement_trend"] = SourceExternal
		b.Sources["roi_trend"] = SourceExternal
		b.Sources["historical_volatility"] = SourceExternal
	} else {
		b.EngagementTrend = missingFieldDefault
		b.ROITrend = missingFieldDefault
		b.HistoricalVolatility = missingFieldDefault
		b.MissingFields = append(b.MissingFields, "engagement_trend", "roi_trend", "historical_volatility")
		b.Sources["engagement_trend"] = SourceDefault
		b.Sources["roi_trend"] = SourceDefault
		b.Sources["historical_volatility"] = SourceDefault
	}

	if rm != nil {
		b.CurrentRiskScore = clamp(rm.CurrentRiskScore, 0, 100)
		b.RiskTrajectory = normalizeTrajectory(rm.RiskTrajectory)
		b.RiskIndicators = rm.RiskIndicators
		b.Sources["current_risk_score"] = SourceExternal
		b.Sources["risk_trajectory"] = SourceExternal
	} else {
		// The scenario's own score seeds the projection, but the field
		// still counts as missing for coverage purposes.
		b.CurrentRiskScore = clamp(sc.TrendContext.CurrentRiskScore, 0, 100)
		b.RiskTrajectory = TrajectoryStable
		b.MissingFields = append(b.MissingFields, "current_risk_score", "risk_trajectory")
		b.Sources["current_risk_score"] = SourceScenario
		b.Sources["risk_trajectory"] = SourceDefault
	}

	b.DataCoverage = float64(trackedFieldCount-len(b.MissingFields)) / trackedFieldCount * 100
	return b
}

func normalizeTrajectory(t RiskTrajectory) RiskTrajectory {
	switch t {
	case TrajectoryIncreasing, TrajectoryStable, TrajectoryDecreasing:
		return t
	default:
		return TrajectoryStable
	}
}

// AdjustConfidence degrades the caller's stated confidence to match what
// the data can actually support.
func AdjustConfidence(original ConfidenceLevel, coverage float64) ConfidenceLevel {
	switch {
	case coverage < 50:
		return ConfidenceLow
	case coverage < 75 && original == ConfidenceHigh:
		return ConfidenceMedium
	default:
		return original
	}
}

func ShouldWiden(coverage float64, confidence ConfidenceLevel) bool {
	return coverage < 50 || confidence == ConfidenceLow
}

// WideningFactor compounds multiplicatively: a coverage factor first, then
// a confidence factor. It is 1.0 exactly when widening is not triggered,
// and tops out at 1.5*1.3 = 1.95 with no data and low confidence.
func WideningFactor(coverage float64, confidence ConfidenceLevel) float64 {
	if !ShouldWiden(coverage, confidence) {
		return 1.0
	}
	f := 1.0
	switch {
	case coverage < 50:
		f *= 1.5
	case coverage < 75:
		f *= 1.2
	}
	switch confidence {
	case ConfidenceLow:
		f *= 1.3
	case ConfidenceMedium:
		f *= 1.1
	}
	return f
}

func widenRange(r RangeValue, factor float64) RangeValue {
	if factor <= 1.0 {
		return r
	}
	mid := r.Midpoint()
	half := r.Width() / 2 * factor
	return NewRange(mid-half, mid+half)
}
