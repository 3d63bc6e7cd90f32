package simulation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// ErrROIComputation marks the single fatal computation path: the
// attribution collaborator and the local fallback both failed.
var ErrROIComputation = errors.New("roi computation failed")

const (
	roiSourceAttribution = "attribution"
	roiSourceFallback    = "local_fallback"

	largeBudgetThreshold    = 50000.0
	probabilitySumTolerance = 5.0
)

// ROIComputer converts the growth ranges into an ROI range plus break-even
// and loss probabilities. The attribution collaborator is asked first; its
// absence or failure switches to a local deterministic formula.
type ROIComputer struct {
	attributor ROIAttributor
	timeout    time.Duration
	logger     *zap.Logger
}

func NewROIComputer(attributor ROIAttributor, timeout time.Duration, logger *zap.Logger) *ROIComputer {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ROIComputer{attributor: attributor, timeout: timeout, logger: logger}
}

func (c *ROIComputer) Compute(ctx context.Context, engagement, reach RangeValue, sc ScenarioInput) (ROIMetrics, error) {
	budget := sc.CampaignStrategy.BudgetRange.Midpoint()

	roiRange, source, ok := c.queryAttribution(ctx, engagement, reach, budget, sc.CampaignStrategy.DurationDays)
	if !ok {
		var err error
		roiRange, err = localROIFallback(engagement, reach, budget)
		if err != nil {
			return ROIMetrics{}, fmt.Errorf("%w: %v", ErrROIComputation, err)
		}
		source = roiSourceFallback
	}

	breakEven, loss := interpolateProbabilities(roiRange)
	breakEven, loss = adjustProbabilities(breakEven, loss, budget, sc.TrendContext.LifecycleStage)
	breakEven, loss = normalizeProbabilities(breakEven, loss)

	return ROIMetrics{
		ROIPct:               roiRange,
		BreakEvenProbability: breakEven,
		LossProbability:      loss,
		Source:               source,
	}, nil
}

func (c *ROIComputer) queryAttribution(ctx context.Context, engagement, reach RangeValue, budget float64, durationDays int) (RangeValue, string, bool) {
	if c.attributor == nil {
		return RangeValue{}, "", false
	}
	qCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	est, err := c.attributor.QueryROI(qCtx, engagement, reach, budget, durationDays)
	if err != nil {
		c.logger.Warn("roi attribution unavailable", zap.Error(err))
		return RangeValue{}, "", false
	}
	if est == nil {
		return RangeValue{}, "", false
	}
	r := NewRange(est.ROIPercentRange.Min, est.ROIPercentRange.Max)
	if !finiteRange(r) {
		c.logger.Warn("roi attribution returned non-finite range",
			zap.Float64("min", est.ROIPercentRange.Min), zap.Float64("max", est.ROIPercentRange.Max))
		return RangeValue{}, "", false
	}
	return r, roiSourceAttribution, true
}

// localROIFallback averages the growth midpoints, charges a budget
// efficiency term, and spreads the result into an asymmetric band.
func localROIFallback(engagement, reach RangeValue, budget float64) (RangeValue, error) {
	avg := (engagement.Midpoint() + reach.Midpoint()) / 2
	efficiency := budget / 1000 * 0.1
	r := NewRange(avg*0.5-efficiency-15, avg*1.2-efficiency+10)
	if !finiteRange(r) {
		return RangeValue{}, fmt.Errorf("non-finite fallback range (avg=%f budget=%f)", avg, budget)
	}
	return r, nil
}

// interpolateProbabilities is range-overlap arithmetic, not statistics: the
// break-even probability is the share of the ROI range at or above zero,
// the loss probability the share below.
func interpolateProbabilities(roi RangeValue) (breakEven, loss float64) {
	switch {
	case roi.Min >= 0:
		return 100, 0
	case roi.Max < 0:
		return 0, 100
	}
	width := roi.Width()
	return roi.Max / width * 100, -roi.Min / width * 100
}

// adjustProbabilities applies the scenario corrections in a fixed order:
// the large-budget penalty first, then the late-stage penalty.
func adjustProbabilities(breakEven, loss, budget float64, stage LifecycleStage) (float64, float64) {
	if budget > largeBudgetThreshold {
		breakEven *= 0.85
		loss *= 1.15
	}
	if stage == StageDecline || stage == StageDormant {
		loss = math.Min(loss*1.3, 100)
		breakEven = math.Max(breakEven*0.7, 0)
	}
	return breakEven, loss
}

// normalizeProbabilities rescales both probabilities proportionally when
// the adjustments pushed their sum more than the tolerance away from 100.
func normalizeProbabilities(breakEven, loss float64) (float64, float64) {
	sum := breakEven + loss
	if sum <= 0 || math.Abs(sum-100) <= probabilitySumTolerance {
		return breakEven, loss
	}
	return breakEven * 100 / sum, loss * 100 / sum
}

func finiteRange(r RangeValue) bool {
	return !math.IsNaN(r.Min) && !math.IsInf(r.Min, 0) &&
		!math.IsNaN(r.Max) && !math.IsInf(r.Max, 0)
}
