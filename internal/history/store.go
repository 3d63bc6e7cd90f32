// Package history persists completed simulations to SQLite so past runs can
// be listed, re-fetched, and rendered into reports.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/trendops/whatif/internal/simulation"
)

// ErrNotFound is returned by Get when no simulation exists for the id.
var ErrNotFound = errors.New("simulation not found")

const schema = `
CREATE TABLE IF NOT EXISTS simulations (
	scenario_id     TEXT PRIMARY KEY,
	trend_id        TEXT NOT NULL,
	trend_name      TEXT NOT NULL DEFAULT '',
	platform        TEXT NOT NULL DEFAULT '',
	lifecycle_stage TEXT NOT NULL,
	campaign_type   TEXT NOT NULL,
	posture         TEXT NOT NULL,
	outlook         TEXT NOT NULL,
	data_coverage   REAL NOT NULL DEFAULT 0,
	confidence      TEXT NOT NULL DEFAULT '',
	response_json   TEXT NOT NULL,
	created_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_simulations_created_at ON simulations (created_at);
CREATE INDEX IF NOT EXISTS idx_simulations_trend_id ON simulations (trend_id);
`

// Store keeps simulation responses in a single-writer SQLite database.
type Store struct {
	db *sqlx.DB
}

func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable. Used by readiness checks.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// Record is the list-view projection of a stored simulation.
type Record struct {
	ScenarioID     string    `json:"scenario_id"`
	TrendID        string    `json:"trend_id"`
	TrendName      string    `json:"trend_name,omitempty"`
	Platform       string    `json:"platform,omitempty"`
	LifecycleStage string    `json:"lifecycle_stage"`
	CampaignType   string    `json:"campaign_type"`
	Posture        string    `json:"recommended_posture"`
	Outlook        string    `json:"overall_outlook"`
	DataCoverage   float64   `json:"data_coverage"`
	Confidence     string    `json:"confidence"`
	CreatedAt      time.Time `json:"created_at"`
}

// Save writes the response, replacing any prior run of the same scenario id.
func (s *Store) Save(resp *simulation.SimulationResponse) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	sum := resp.SimulationSummary
	_, err = s.db.Exec(`INSERT OR REPLACE INTO simulations
		(scenario_id, trend_id, trend_name, platform, lifecycle_stage, campaign_type,
		 posture, outlook, data_coverage, confidence, response_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.ScenarioID,
		sum.TrendID,
		sum.TrendName,
		sum.Platform,
		string(sum.LifecycleStage),
		string(sum.CampaignType),
		string(resp.DecisionInterpretation.RecommendedPosture),
		string(resp.DecisionInterpretation.OverallOutlook),
		resp.Guardrails.DataCoverage,
		string(sum.Confidence),
		string(body),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save simulation: %w", err)
	}
	return nil
}

// Get loads a stored response by scenario id.
func (s *Store) Get(scenarioID string) (*simulation.SimulationResponse, error) {
	var body string
	err := s.db.QueryRow("SELECT response_json FROM simulations WHERE scenario_id = ?", scenarioID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load simulation: %w", err)
	}
	var resp simulation.SimulationResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("decode simulation %s: %w", scenarioID, err)
	}
	return &resp, nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT scenario_id, trend_id, trend_name, platform, lifecycle_stage,
		campaign_type, posture, outlook, data_coverage, confidence, created_at
		FROM simulations ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list simulations: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var r Record
		var createdAt string
		if err := rows.Scan(&r.ScenarioID, &r.TrendID, &r.TrendName, &r.Platform, &r.LifecycleStage,
			&r.CampaignType, &r.Posture, &r.Outlook, &r.DataCoverage, &r.Confidence, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Prune deletes runs recorded before the cutoff and reports how many went.
func (s *Store) Prune(olderThan time.Time) (int64, error) {
	res, err := s.db.Exec("DELETE FROM simulations WHERE created_at < ?",
		olderThan.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("prune simulations: %w", err)
	}
	return res.RowsAffected()
}
