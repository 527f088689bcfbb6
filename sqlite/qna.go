package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/tdassist"
)

// SaveQnA replaces the stored Q&A of a run.
func (s *RunService) SaveQnA(ctx context.Context, runID string, bundle *tdassist.QnABundle) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM runs WHERE id = ?", runID).Scan(&exists)
	if err == sql.ErrNoRows {
		return tdassist.Errorf(tdassist.ENOTFOUND, "run not found")
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM qna_bundles WHERE run_id = ?", runID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO qna_bundles (run_id, generated_at) VALUES (?, ?)
	`, runID, bundle.GeneratedAt); err != nil {
		return err
	}

	for i, item := range bundle.Items {
		domain, err := marshalQuestions(item.DomainQuestions)
		if err != nil {
			return err
		}
		technical, err := marshalQuestions(item.TechnicalQuestions)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO page_qna (run_id, position, url, title, domain_questions, technical_questions, skipped, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, i, item.URL, item.Title, domain, technical, item.Skipped, item.Error)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindQnA retrieves the stored Q&A of a run in page order.
func (s *RunService) FindQnA(ctx context.Context, runID string) (*tdassist.QnABundle, error) {
	var bundle tdassist.QnABundle

	err := s.db.QueryRowContext(ctx, `
		SELECT generated_at FROM qna_bundles WHERE run_id = ?
	`, runID).Scan(&bundle.GeneratedAt)
	if err == sql.ErrNoRows {
		return nil, tdassist.Errorf(tdassist.ENOTFOUND, "no Q&A saved for run")
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT url, title, domain_questions, technical_questions, skipped, error
		FROM page_qna
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bundle.Items = []*tdassist.PageQnA{}
	for rows.Next() {
		var item tdassist.PageQnA
		var domain, technical string
		if err := rows.Scan(&item.URL, &item.Title, &domain, &technical, &item.Skipped, &item.Error); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(domain), &item.DomainQuestions); err != nil {
			return nil, fmt.Errorf("failed to decode domain questions: %w", err)
		}
		if err := json.Unmarshal([]byte(technical), &item.TechnicalQuestions); err != nil {
			return nil, fmt.Errorf("failed to decode technical questions: %w", err)
		}
		bundle.Items = append(bundle.Items, &item)
	}

	return &bundle, rows.Err()
}

// marshalQuestions encodes questions as a JSON array, never "null".
func marshalQuestions(qs []tdassist.Question) (string, error) {
	if qs == nil {
		qs = []tdassist.Question{}
	}
	b, err := json.Marshal(qs)
	if err != nil {
		return "", fmt.Errorf("failed to encode questions: %w", err)
	}
	return string(b), nil
}
