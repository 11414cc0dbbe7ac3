package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	masterdata "travelorder-cloud/internal/masterdata/domain"
)

const defaultProjectsTable = "projects"

// ProjectRepository is a Postgres implementation for projects.
type ProjectRepository struct {
	db    DBTX
	table string
}

// ProjectOption configures the repository.
type ProjectOption func(*ProjectRepository)

// WithProjectsTable overrides the default table name.
func WithProjectsTable(table string) ProjectOption {
	return func(repo *ProjectRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewProjectRepository constructs a repository.
func NewProjectRepository(db DBTX, opts ...ProjectOption) *ProjectRepository {
	repo := &ProjectRepository{db: db, table: defaultProjectsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Get loads a project by id.
func (r *ProjectRepository) Get(ctx context.Context, id string) (*masterdata.Project, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("project repo: nil db")
	}
	if id == "" {
		return nil, errors.New("project repo: empty id")
	}

	query := fmt.Sprintf(`
SELECT id, code, name, is_active, created_at, updated_at
FROM %s
WHERE id = $1
LIMIT 1`, r.table)

	var project masterdata.Project
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.Code,
		&project.Name,
		&project.IsActive,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	project.CreatedAt = project.CreatedAt.UTC()
	project.UpdatedAt = project.UpdatedAt.UTC()
	return &project, nil
}

// List returns all projects ordered by code.
func (r *ProjectRepository) List(ctx context.Context) ([]masterdata.Project, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("project repo: nil db")
	}

	query := fmt.Sprintf(`
SELECT id, code, name, is_active, created_at, updated_at
FROM %s
ORDER BY code`, r.table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []masterdata.Project
	for rows.Next() {
		var project masterdata.Project
		if err := rows.Scan(
			&project.ID,
			&project.Code,
			&project.Name,
			&project.IsActive,
			&project.CreatedAt,
			&project.UpdatedAt,
		); err != nil {
			return nil, err
		}
		project.CreatedAt = project.CreatedAt.UTC()
		project.UpdatedAt = project.UpdatedAt.UTC()
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// Save upserts a project.
func (r *ProjectRepository) Save(ctx context.Context, project *masterdata.Project) error {
	if r == nil || r.db == nil {
		return errors.New("project repo: nil db")
	}
	if project == nil {
		return errors.New("project repo: nil project")
	}
	if err := project.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (id, code, name, is_active)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id)
DO UPDATE SET
	code = EXCLUDED.code,
	name = EXCLUDED.name,
	is_active = EXCLUDED.is_active,
	updated_at = NOW()`, r.table)

	_, err := r.db.ExecContext(ctx, query,
		project.ID,
		project.Code,
		project.Name,
		project.IsActive,
	)
	return err
}

// Delete removes a project.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("project repo: nil db")
	}
	if id == "" {
		return errors.New("project repo: empty id")
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return masterdata.ErrNotFound
	}
	return nil
}
