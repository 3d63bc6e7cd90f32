// Package collab holds the adapters for the three upstream collaborator
// systems: the trend lifecycle engine, the early-decline detector and the
// ROI attribution system. Each adapter satisfies the corresponding
// simulation interface; a 404 from upstream maps to the (nil, nil)
// "answered, no data" contract.
package collab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/trendops/whatif/internal/simulation"
)

const defaultTimeout = 5 * time.Second

type restClient struct {
	baseURL string
	http    *http.Client
}

func newRESTClient(baseURL string, timeout time.Duration) restClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return restClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// doJSON issues the request and decodes a 2xx body into out. It returns
// (false, nil) on 404 so callers can surface the no-data contract.
func (c restClient) doJSON(ctx context.Context, method, path string, payload []byte, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	blob, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return false, fmt.Errorf("%s %s failed status=%d body=%s", method, path, resp.StatusCode, string(blob))
	}
	if err := json.Unmarshal(blob, out); err != nil {
		return false, fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return true, nil
}

// TrendLifecycleClient talks to the trend lifecycle engine.
type TrendLifecycleClient struct {
	rest restClient
}

func NewTrendLifecycleClient(baseURL string, timeout time.Duration) *TrendLifecycleClient {
	return &TrendLifecycleClient{rest: newRESTClient(baseURL, timeout)}
}

func (c *TrendLifecycleClient) QueryTrendMetrics(ctx context.Context, trendID string) (*simulation.TrendMetrics, error) {
	var m simulation.TrendMetrics
	found, err := c.rest.doJSON(ctx, http.MethodGet, "/v1/trends/"+url.PathEscape(trendID)+"/metrics", nil, &m)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

// EarlyDeclineClient talks to the early-decline detection system.
type EarlyDeclineClient struct {
	rest restClient
}

func NewEarlyDeclineClient(baseURL string, timeout time.Duration) *EarlyDeclineClient {
	return &EarlyDeclineClient{rest: newRESTClient(baseURL, timeout)}
}

func (c *EarlyDeclineClient) QueryRiskMetrics(ctx context.Context, trendID string) (*simulation.RiskMetrics, error) {
	var m simulation.RiskMetrics
	found, err := c.rest.doJSON(ctx, http.MethodGet, "/v1/trends/"+url.PathEscape(trendID)+"/risk", nil, &m)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

// ROIAttributionClient talks to the ROI attribution system.
type ROIAttributionClient struct {
	rest restClient
}

func NewROIAttributionClient(baseURL string, timeout time.Duration) *ROIAttributionClient {
	return &ROIAttributionClient{rest: newRESTClient(baseURL, timeout)}
}

type roiEstimateRequest struct {
	EngagementRange simulation.RangeValue `json:"engagement_range"`
	ReachRange      simulation.RangeValue `json:"reach_range"`
	Budget          float64               `json:"budget"`
	DurationDays    int                   `json:"duration_days"`
}

func (c *ROIAttributionClient) QueryROI(ctx context.Context, engagement, reach simulation.RangeValue, budget float64, durationDays int) (*simulation.ROIEstimate, error) {
	payload, err := json.Marshal(roiEstimateRequest{
		EngagementRange: engagement,
		ReachRange:      reach,
		Budget:          budget,
		DurationDays:    durationDays,
	})
	if err != nil {
		return nil, err
	}
	var est simulation.ROIEstimate
	found, err := c.rest.doJSON(ctx, http.MethodPost, "/v1/roi/estimate", payload, &est)
	if err != nil || !found {
		return nil, err
	}
	return &est, nil
}
