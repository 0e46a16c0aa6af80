package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Trial represents one persisted consensus alignment run.
type Trial struct {
	TrialID          string          `json:"trial_id"`
	Label            string          `json:"label"`
	SourcePoints     int             `json:"source_points"`
	TargetPoints     int             `json:"target_points"`
	Correspondences  int             `json:"correspondences"`
	Iterations       int             `json:"iterations"`
	InlierCount      int             `json:"inlier_count"`
	Threshold        float64         `json:"threshold"`
	Scale            float64         `json:"scale"`
	TranslationX     float64         `json:"translation_x"`
	TranslationY     float64         `json:"translation_y"`
	TranslationZ     float64         `json:"translation_z"`
	RMSE             float64         `json:"rmse"`
	CoefficientsJSON json.RawMessage `json:"coefficients_json,omitempty"`
	ParamsJSON       json.RawMessage `json:"params_json,omitempty"`
	CreatedAt        int64           `json:"created_at"`
}

// TrialStore provides persistence for alignment trials.
type TrialStore struct {
	db *sql.DB
}

// NewTrialStore creates a TrialStore backed by the given database.
func NewTrialStore(db *sql.DB) *TrialStore {
	return &TrialStore{db: db}
}

// Insert persists a new trial. If TrialID is empty, a UUID is generated.
func (s *TrialStore) Insert(trial *Trial) error {
	if trial.TrialID == "" {
		trial.TrialID = uuid.New().String()
	}
	if trial.CreatedAt == 0 {
		trial.CreatedAt = time.Now().UnixNano()
	}

	var coeffsStr, paramsStr interface{}
	if len(trial.CoefficientsJSON) > 0 {
		coeffsStr = string(trial.CoefficientsJSON)
	}
	if len(trial.ParamsJSON) > 0 {
		paramsStr = string(trial.ParamsJSON)
	}

	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO alignment_trials (
				trial_id, label, source_points, target_points, correspondences,
				iterations, inlier_count, threshold, scale,
				translation_x, translation_y, translation_z, rmse,
				coefficients_json, params_json, created_at_ns
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			trial.TrialID, trial.Label, trial.SourcePoints, trial.TargetPoints, trial.Correspondences,
			trial.Iterations, trial.InlierCount, trial.Threshold, trial.Scale,
			trial.TranslationX, trial.TranslationY, trial.TranslationZ, trial.RMSE,
			coeffsStr, paramsStr, trial.CreatedAt,
		)
		return err
	})
}

// Get returns a single trial by ID.
func (s *TrialStore) Get(trialID string) (*Trial, error) {
	row := s.db.QueryRow(`
		SELECT trial_id, label, source_points, target_points, correspondences,
		       iterations, inlier_count, threshold, scale,
		       translation_x, translation_y, translation_z, rmse,
		       coefficients_json, params_json, created_at_ns
		FROM alignment_trials
		WHERE trial_id = ?`, trialID)
	return scanTrial(row)
}

// ListByLabel returns all trials with the given label, newest first.
func (s *TrialStore) ListByLabel(label string) ([]*Trial, error) {
	rows, err := s.db.Query(`
		SELECT trial_id, label, source_points, target_points, correspondences,
		       iterations, inlier_count, threshold, scale,
		       translation_x, translation_y, translation_z, rmse,
		       coefficients_json, params_json, created_at_ns
		FROM alignment_trials
		WHERE label = ?
		ORDER BY created_at_ns DESC`, label)
	if err != nil {
		return nil, fmt.Errorf("query trials: %w", err)
	}
	defer rows.Close()

	var trials []*Trial
	for rows.Next() {
		trial, err := scanTrial(rows)
		if err != nil {
			return nil, err
		}
		trials = append(trials, trial)
	}
	return trials, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrial(row rowScanner) (*Trial, error) {
	var trial Trial
	var coeffsStr, paramsStr sql.NullString
	err := row.Scan(
		&trial.TrialID, &trial.Label, &trial.SourcePoints, &trial.TargetPoints, &trial.Correspondences,
		&trial.Iterations, &trial.InlierCount, &trial.Threshold, &trial.Scale,
		&trial.TranslationX, &trial.TranslationY, &trial.TranslationZ, &trial.RMSE,
		&coeffsStr, &paramsStr, &trial.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan trial: %w", err)
	}
	if coeffsStr.Valid {
		trial.CoefficientsJSON = json.RawMessage(coeffsStr.String)
	}
	if paramsStr.Valid {
		trial.ParamsJSON = json.RawMessage(paramsStr.String)
	}
	return &trial, nil
}
