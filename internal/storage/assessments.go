package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/dqscore/internal/analysis"
	"github.com/Veraticus/dqscore/internal/common"
	"github.com/Veraticus/dqscore/internal/model"
)

// AssessmentSummary is one row of the assessment history.
type AssessmentSummary struct {
	GeneratedAt time.Time
	Composites  map[model.DatasetKind]float64
	ID          string
}

// DatasetScoreRecord is the stored score line of one dataset in one assessment.
type DatasetScoreRecord struct {
	GeneratedAt  time.Time
	AssessmentID string
	Name         string
	Kind         model.DatasetKind
	Scores       model.ScoreMap
	Rows         int
	Columns      int
	Composite    float64
}

// SaveAssessment stores a report and its per-dataset score lines atomically.
func (s *SQLiteStorage) SaveAssessment(ctx context.Context, report *analysis.Report) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateReport(report); err != nil {
		return err
	}

	blob, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO assessments (id, generated_at, low_threshold, report)
		VALUES (?, ?, ?, ?)`,
		report.ID, report.GeneratedAt.UTC(), report.LowThreshold, string(blob))
	if err != nil {
		return fmt.Errorf("failed to save assessment %s: %w", report.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dataset_scores (
			assessment_id, kind, name, row_count, column_count, composite,
			completeness, uniqueness, validity, accuracy, consistency, timeliness, integrity
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare dataset score insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, ds := range report.Datasets {
		args := []any{report.ID, string(ds.Kind), ds.Name, ds.Rows, ds.Columns, ds.Composite}
		for _, d := range model.Dimensions() {
			args = append(args, scoreToNull(ds.Scores.Get(d)))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to save %s scores: %w", ds.Kind, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assessment: %w", err)
	}
	return nil
}

// GetAssessment loads the full report saved under id.
func (s *SQLiteStorage) GetAssessment(ctx context.Context, id string) (*analysis.Report, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var blob string
	err := s.db.QueryRowContext(ctx, `SELECT report FROM assessments WHERE id = ?`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("assessment %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment %s: %w", id, err)
	}

	validator := analysis.NewJSONValidator()
	report, err := validator.Validate([]byte(blob))
	if err != nil {
		section, line, column := validator.ExtractError([]byte(blob), err)
		if line > 0 {
			return nil, fmt.Errorf("%w: assessment %s at line %d, column %d near %q: %w",
				common.ErrDatabaseCorrupted, id, line, column, section, err)
		}
		return nil, fmt.Errorf("%w: assessment %s: %w", common.ErrDatabaseCorrupted, id, err)
	}
	return report, nil
}

// ListAssessments returns the newest assessments first.
func (s *SQLiteStorage) ListAssessments(ctx context.Context, limit int) ([]AssessmentSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, generated_at FROM assessments
		ORDER BY generated_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var summaries []AssessmentSummary
	index := make(map[string]int)
	for rows.Next() {
		var summary AssessmentSummary
		if err := rows.Scan(&summary.ID, &summary.GeneratedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		summary.Composites = make(map[model.DatasetKind]float64)
		index[summary.ID] = len(summaries)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessments: %w", err)
	}
	if len(summaries) == 0 {
		return summaries, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(summaries)), ",")
	args := make([]any, len(summaries))
	for i, summary := range summaries {
		args[i] = summary.ID
	}

	scoreRows, err := s.db.QueryContext(ctx,
		`SELECT assessment_id, kind, composite FROM dataset_scores WHERE assessment_id IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load composites: %w", err)
	}
	defer func() {
		_ = scoreRows.Close()
	}()

	for scoreRows.Next() {
		var (
			id        string
			kind      string
			composite float64
		)
		if err := scoreRows.Scan(&id, &kind, &composite); err != nil {
			return nil, fmt.Errorf("failed to scan composite: %w", err)
		}
		summaries[index[id]].Composites[model.DatasetKind(kind)] = composite
	}
	if err := scoreRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate composites: %w", err)
	}

	return summaries, nil
}

// ListDatasetScores returns the newest score lines recorded for kind.
func (s *SQLiteStorage) ListDatasetScores(ctx context.Context, kind model.DatasetKind, limit int) ([]DatasetScoreRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT a.generated_at, d.assessment_id, d.name, d.row_count, d.column_count, d.composite,
			d.completeness, d.uniqueness, d.validity, d.accuracy, d.consistency, d.timeliness, d.integrity
		FROM dataset_scores d
		JOIN assessments a ON a.id = d.assessment_id
		WHERE d.kind = ?
		ORDER BY a.generated_at DESC, d.assessment_id
		LIMIT ?`, string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s scores: %w", kind, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []DatasetScoreRecord
	for rows.Next() {
		record := DatasetScoreRecord{Kind: kind}
		var dims [model.NumDimensions]sql.NullFloat64
		dest := []any{&record.GeneratedAt, &record.AssessmentID, &record.Name, &record.Rows, &record.Columns, &record.Composite}
		for i := range dims {
			dest = append(dest, &dims[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan %s scores: %w", kind, err)
		}
		for i, d := range model.Dimensions() {
			record.Scores.Set(d, nullToScore(dims[i]))
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s scores: %w", kind, err)
	}
	return records, nil
}

// DeleteAssessment removes an assessment and its score lines.
func (s *SQLiteStorage) DeleteAssessment(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM assessments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete assessment %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion of %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("assessment %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func scoreToNull(score model.Score) sql.NullFloat64 {
	v, ok := score.Value()
	return sql.NullFloat64{Float64: v, Valid: ok}
}

func nullToScore(n sql.NullFloat64) model.Score {
	if !n.Valid {
		return model.NotApplicable()
	}
	return model.Scored(n.Float64)
}
