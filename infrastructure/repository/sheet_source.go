package repository

//go:generate mockgen -source=sheet_source.go -destination=mocks/sheet_source_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/campaign-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-metrics-api/internal/domain"
	"github.com/vfg2006/campaign-metrics-api/pkg/utils"
)

const (
	sheetSourcesTable = "sheet_sources ss"

	pqUniqueViolation = "23505"
)

var ErrSourceAlreadyExists = errors.New("sheet source already registered for project")

var sheetSourceColumns = []string{
	"ss.id", "ss.project_id", "ss.name", "ss.spreadsheet_id",
	"ss.entity", "ss.active", "ss.created_at", "ss.updated_at",
}

type SheetSourceRepository interface {
	Create(ctx context.Context, source *domain.SheetSource) error
	GetByID(ctx context.Context, id string) (*domain.SheetSource, error)
	List(ctx context.Context, projectIDs []string) ([]*domain.SheetSource, error)
	ListActive(ctx context.Context) ([]*domain.SheetSource, error)
	ListBySpreadsheetID(ctx context.Context, spreadsheetID string) ([]*domain.SheetSource, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type sheetSourceRepository struct {
	conn postgres.Queryer
}

func NewSheetSourceRepository(conn postgres.Queryer) SheetSourceRepository {
	return &sheetSourceRepository{
		conn: conn,
	}
}

func (r *sheetSourceRepository) Create(ctx context.Context, source *domain.SheetSource) error {
	if source.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return fmt.Errorf("erro ao gerar id: %w", err)
		}
		source.ID = id
	}

	query, args, err := squirrel.
		Insert("sheet_sources").
		Columns("id", "project_id", "name", "spreadsheet_id", "entity", "active").
		Values(source.ID, source.ProjectID, source.Name, source.SpreadsheetID, source.Entity, source.Active).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(&source.CreatedAt, &source.UpdatedAt)
	return createSourceError(err)
}

// createSourceError traduz a violação de (project_id, spreadsheet_id) em ErrSourceAlreadyExists
func createSourceError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == pqUniqueViolation {
			return ErrSourceAlreadyExists
		}
		return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
	}
	return fmt.Errorf("erro ao executar a query: %w", err)
}

func (r *sheetSourceRepository) GetByID(ctx context.Context, id string) (*domain.SheetSource, error) {
	query, args, err := squirrel.
		Select(sheetSourceColumns...).
		From(sheetSourcesTable).
		Where(squirrel.Eq{"ss.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	source := &domain.SheetSource{}
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&source.ID,
		&source.ProjectID,
		&source.Name,
		&source.SpreadsheetID,
		&source.Entity,
		&source.Active,
		&source.CreatedAt,
		&source.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear planilha: %w", err)
	}

	return source, nil
}

// List retorna as planilhas dos projetos informados. Lista vazia retorna todas.
func (r *sheetSourceRepository) List(ctx context.Context, projectIDs []string) ([]*domain.SheetSource, error) {
	builder := squirrel.
		Select(sheetSourceColumns...).
		From(sheetSourcesTable).
		OrderBy("ss.project_id ASC", "ss.name ASC").
		PlaceholderFormat(squirrel.Dollar)

	if len(projectIDs) > 0 {
		builder = builder.Where(squirrel.Eq{"ss.project_id": projectIDs})
	}

	return r.query(ctx, builder)
}

func (r *sheetSourceRepository) ListActive(ctx context.Context) ([]*domain.SheetSource, error) {
	builder := squirrel.
		Select(sheetSourceColumns...).
		From(sheetSourcesTable).
		Where(squirrel.Eq{"ss.active": true}).
		OrderBy("ss.updated_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	return r.query(ctx, builder)
}

func (r *sheetSourceRepository) ListBySpreadsheetID(ctx context.Context, spreadsheetID string) ([]*domain.SheetSource, error) {
	builder := squirrel.
		Select(sheetSourceColumns...).
		From(sheetSourcesTable).
		Where(squirrel.Eq{"ss.spreadsheet_id": spreadsheetID, "ss.active": true}).
		PlaceholderFormat(squirrel.Dollar)

	return r.query(ctx, builder)
}

func (r *sheetSourceRepository) SetActive(ctx context.Context, id string, active bool) error {
	query, args, err := squirrel.
		Update("sheet_sources").
		Set("active", active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *sheetSourceRepository) query(ctx context.Context, builder squirrel.SelectBuilder) ([]*domain.SheetSource, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	sources := make([]*domain.SheetSource, 0)
	for rows.Next() {
		source := &domain.SheetSource{}
		if err := rows.Scan(
			&source.ID,
			&source.ProjectID,
			&source.Name,
			&source.SpreadsheetID,
			&source.Entity,
			&source.Active,
			&source.CreatedAt,
			&source.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear planilhas: %w", err)
		}
		sources = append(sources, source)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return sources, nil
}
