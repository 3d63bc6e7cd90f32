// Package events emits simulation lifecycle events to Kafka so downstream
// consumers (dashboards, alerting, data warehouse loaders) see completed runs
// without polling the API.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/trendops/whatif/internal/simulation"
)

const eventTypeSimulationCompleted = "simulation.completed"

// Publisher emits events for completed simulations.
type Publisher interface {
	PublishSimulationCompleted(ctx context.Context, resp *simulation.SimulationResponse) error
	Close() error
}

// SimulationCompleted is the wire payload for a finished run. It carries the
// decision headline, not the full response; consumers that need the details
// fetch them from the API by scenario id.
type SimulationCompleted struct {
	EventType      string    `json:"event_type"`
	ScenarioID     string    `json:"scenario_id"`
	TrendID        string    `json:"trend_id"`
	LifecycleStage string    `json:"lifecycle_stage"`
	Posture        string    `json:"recommended_posture"`
	Outlook        string    `json:"overall_outlook"`
	DataCoverage   float64   `json:"data_coverage"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// KafkaPublisher writes completion events to a single topic, keyed by trend
// id so runs against the same trend land on the same partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka publisher requires a topic")
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.Hash{},
			Compression:  kafka.Snappy,
		},
	}, nil
}

func (p *KafkaPublisher) PublishSimulationCompleted(ctx context.Context, resp *simulation.SimulationResponse) error {
	payload, err := json.Marshal(newSimulationCompleted(resp))
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(resp.SimulationSummary.TrendID),
		Value: payload,
		Time:  time.Now().UTC(),
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func newSimulationCompleted(resp *simulation.SimulationResponse) SimulationCompleted {
	return SimulationCompleted{
		EventType:      eventTypeSimulationCompleted,
		ScenarioID:     resp.SimulationSummary.ScenarioID,
		TrendID:        resp.SimulationSummary.TrendID,
		LifecycleStage: string(resp.SimulationSummary.LifecycleStage),
		Posture:        string(resp.DecisionInterpretation.RecommendedPosture),
		Outlook:        string(resp.DecisionInterpretation.OverallOutlook),
		DataCoverage:   resp.Guardrails.DataCoverage,
		OccurredAt:     time.Now().UTC(),
	}
}

// NopPublisher drops events. Used when Kafka is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishSimulationCompleted(context.Context, *simulation.SimulationResponse) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
