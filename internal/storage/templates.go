package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/meltforce/gymtrack/internal/models"
)

// InsertTemplate inserts a session template row and returns its id.
func (db *DB) InsertTemplate(ctx context.Context, t models.SessionTemplate) (int64, error) {
	res, err := db.sql.ExecContext(ctx,
		`INSERT INTO session_templates (name, description, created_at) VALUES (?, ?, ?)`,
		t.Name, t.Description, t.CreatedAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("inserting template: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading template id: %w", err)
	}
	return id, nil
}

// GetTemplate retrieves a single template by id.
func (db *DB) GetTemplate(ctx context.Context, id int64) (*models.SessionTemplate, error) {
	row := db.sql.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM session_templates WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("template %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying template: %w", err)
	}
	return t, nil
}

// GetTemplateDetail retrieves a template with its exercises in display order.
func (db *DB) GetTemplateDetail(ctx context.Context, id int64) (*models.TemplateDetail, error) {
	t, err := db.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	exercises, err := db.ListTemplateExercises(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.TemplateDetail{SessionTemplate: *t, Exercises: exercises}, nil
}

// ListTemplateDetails retrieves all templates with their exercises, newest
// template first.
func (db *DB) ListTemplateDetails(ctx context.Context) ([]models.TemplateDetail, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM session_templates ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	var templates []models.SessionTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		templates = append(templates, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	details := make([]models.TemplateDetail, 0, len(templates))
	for _, t := range templates {
		exercises, err := db.ListTemplateExercises(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, models.TemplateDetail{SessionTemplate: t, Exercises: exercises})
	}
	return details, nil
}

// UpdateTemplate overwrites a template's name and description.
func (db *DB) UpdateTemplate(ctx context.Context, t models.SessionTemplate) error {
	res, err := db.sql.ExecContext(ctx,
		`UPDATE session_templates SET name = ?, description = ? WHERE id = ?`,
		t.Name, t.Description, t.ID)
	if err != nil {
		return fmt.Errorf("updating template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("template %d: %w", t.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteTemplate deletes a template; its exercises cascade.
func (db *DB) DeleteTemplate(ctx context.Context, id int64) error {
	res, err := db.sql.ExecContext(ctx, `DELETE FROM session_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("template %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// DeleteAllTemplates removes every template (and, via cascade, every
// template exercise).
func (db *DB) DeleteAllTemplates(ctx context.Context) error {
	if _, err := db.sql.ExecContext(ctx, `DELETE FROM session_templates`); err != nil {
		return fmt.Errorf("deleting templates: %w", err)
	}
	return nil
}

// InsertTemplateExercise inserts a template exercise row and returns its id.
func (db *DB) InsertTemplateExercise(ctx context.Context, ex models.TemplateExercise) (int64, error) {
	res, err := db.sql.ExecContext(ctx,
		`INSERT INTO template_exercises (template_id, name, order_index, default_sets_count, rest_time_seconds)
		 VALUES (?, ?, ?, ?, ?)`,
		ex.TemplateID, ex.Name, ex.OrderIndex, ex.DefaultSetsCount, ex.RestTimeSeconds)
	if err != nil {
		return 0, fmt.Errorf("inserting template exercise: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading template exercise id: %w", err)
	}
	return id, nil
}

// ListTemplateExercises retrieves a template's exercises in display order.
func (db *DB) ListTemplateExercises(ctx context.Context, templateID int64) ([]models.TemplateExercise, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT id, template_id, name, order_index, default_sets_count, rest_time_seconds
		 FROM template_exercises WHERE template_id = ? ORDER BY order_index ASC, id ASC`, templateID)
	if err != nil {
		return nil, fmt.Errorf("querying template exercises: %w", err)
	}
	defer rows.Close()

	var result []models.TemplateExercise
	for rows.Next() {
		var ex models.TemplateExercise
		if err := rows.Scan(&ex.ID, &ex.TemplateID, &ex.Name, &ex.OrderIndex, &ex.DefaultSetsCount, &ex.RestTimeSeconds); err != nil {
			return nil, fmt.Errorf("scanning template exercise: %w", err)
		}
		result = append(result, ex)
	}
	return result, rows.Err()
}

// MaxTemplateOrderIndex returns the highest order index within a template, or
// ok=false when the template has no exercises yet.
func (db *DB) MaxTemplateOrderIndex(ctx context.Context, templateID int64) (int, bool, error) {
	return maxOrderIndex(ctx, db.sql,
		`SELECT MAX(order_index) FROM template_exercises WHERE template_id = ?`, templateID)
}

// UpdateTemplateExercise overwrites a template exercise's mutable fields.
func (db *DB) UpdateTemplateExercise(ctx context.Context, ex models.TemplateExercise) error {
	res, err := db.sql.ExecContext(ctx,
		`UPDATE template_exercises SET name = ?, order_index = ?, default_sets_count = ?, rest_time_seconds = ?
		 WHERE id = ?`,
		ex.Name, ex.OrderIndex, ex.DefaultSetsCount, ex.RestTimeSeconds, ex.ID)
	if err != nil {
		return fmt.Errorf("updating template exercise: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("template exercise %d: %w", ex.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteTemplateExercise deletes a single template exercise.
func (db *DB) DeleteTemplateExercise(ctx context.Context, id int64) error {
	res, err := db.sql.ExecContext(ctx, `DELETE FROM template_exercises WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting template exercise: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("template exercise %d: %w", id, models.ErrNotFound)
	}
	return nil
}

func scanTemplate(row rowScanner) (*models.SessionTemplate, error) {
	var t models.SessionTemplate
	var createdMillis int64
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &createdMillis); err != nil {
		return nil, err
	}
	t.CreatedAt = time.UnixMilli(createdMillis)
	return &t, nil
}
