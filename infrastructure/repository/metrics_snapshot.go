package repository

//go:generate mockgen -source=metrics_snapshot.go -destination=mocks/metrics_snapshot_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/vfg2006/campaign-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-metrics-api/internal/domain"
	"github.com/vfg2006/campaign-metrics-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	metricsSnapshotsTable = "campaign_metrics_snapshots cms"

	defaultSnapshotLimit = 30
)

var metricsSnapshotColumns = []string{
	"cms.id", "cms.source_id", "cms.entity", "cms.category", "cms.date_from",
	"cms.date_to", "cms.metrics", "cms.created_at", "cms.updated_at",
}

type MetricsSnapshotRepository interface {
	SaveOrUpdate(ctx context.Context, snapshot *domain.MetricsSnapshot) error
	GetPrevious(ctx context.Context, sourceID, entity, category string, before time.Time) (*domain.MetricsSnapshot, error)
	ListBySource(ctx context.Context, sourceID string, limit int) ([]*domain.MetricsSnapshot, error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

type metricsSnapshotRepository struct {
	conn postgres.Queryer
	now  func() time.Time
}

func NewMetricsSnapshotRepository(conn postgres.Queryer) MetricsSnapshotRepository {
	return &metricsSnapshotRepository{
		conn: conn,
		now:  time.Now,
	}
}

// SaveOrUpdate grava o snapshot, substituindo o existente para a mesma combinação de filtros
func (r *metricsSnapshotRepository) SaveOrUpdate(ctx context.Context, snapshot *domain.MetricsSnapshot) error {
	if snapshot.Metrics == nil {
		return fmt.Errorf("snapshot sem métricas para a planilha %s", snapshot.SourceID)
	}

	metricsJSON, err := json.Marshal(snapshot.Metrics)
	if err != nil {
		return fmt.Errorf("erro ao serializar métricas para JSON: %w", err)
	}

	if snapshot.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return fmt.Errorf("erro ao gerar id: %w", err)
		}
		snapshot.ID = id
	}

	query, args, err := upsertSnapshotQuery(snapshot, metricsJSON)
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(&snapshot.ID, &snapshot.CreatedAt, &snapshot.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

// upsertSnapshotQuery substitui as métricas quando a combinação de filtros já existe
func upsertSnapshotQuery(snapshot *domain.MetricsSnapshot, metricsJSON []byte) (string, []any, error) {
	return squirrel.StatementBuilder.
		Insert("campaign_metrics_snapshots").
		Columns("id", "source_id", "entity", "category", "date_from", "date_to", "metrics").
		Values(
			snapshot.ID,
			snapshot.SourceID,
			snapshot.Entity,
			snapshot.Category,
			snapshot.DateFrom.Format(time.DateOnly),
			snapshot.DateTo.Format(time.DateOnly),
			metricsJSON,
		).
		Suffix(`
			ON CONFLICT (source_id, entity, category, date_from, date_to) DO UPDATE SET
				metrics = EXCLUDED.metrics,
				updated_at = NOW()
			RETURNING id, created_at, updated_at
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

// GetPrevious busca o snapshot mais recente que terminou antes da data informada
func (r *metricsSnapshotRepository) GetPrevious(ctx context.Context, sourceID, entity, category string, before time.Time) (*domain.MetricsSnapshot, error) {
	query, args, err := previousSnapshotQuery(sourceID, entity, category, before)
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	snapshot, err := scanSnapshot(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear snapshot: %w", err)
	}

	return snapshot, nil
}

func previousSnapshotQuery(sourceID, entity, category string, before time.Time) (string, []any, error) {
	return squirrel.
		Select(metricsSnapshotColumns...).
		From(metricsSnapshotsTable).
		Where(squirrel.Eq{"cms.source_id": sourceID, "cms.entity": entity, "cms.category": category}).
		Where(squirrel.Lt{"cms.date_to": before.Format(time.DateOnly)}).
		OrderBy("cms.date_to DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (r *metricsSnapshotRepository) ListBySource(ctx context.Context, sourceID string, limit int) ([]*domain.MetricsSnapshot, error) {
	if limit <= 0 {
		limit = defaultSnapshotLimit
	}

	query, args, err := squirrel.
		Select(metricsSnapshotColumns...).
		From(metricsSnapshotsTable).
		Where(squirrel.Eq{"cms.source_id": sourceID}).
		OrderBy("cms.date_to DESC", "cms.updated_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*domain.MetricsSnapshot, 0)
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear snapshots: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return snapshots, nil
}

// DeleteOlderThan remove os snapshots que não são recalculados há mais de days dias.
// Um período antigo recalculado agora continua guardado.
func (r *metricsSnapshotRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := r.now().AddDate(0, 0, -days)

	query, args, err := squirrel.
		Delete("campaign_metrics_snapshots").
		Where(squirrel.Lt{"updated_at": cutoff}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*domain.MetricsSnapshot, error) {
	snapshot := &domain.MetricsSnapshot{}
	var metricsJSON []byte

	err := row.Scan(
		&snapshot.ID,
		&snapshot.SourceID,
		&snapshot.Entity,
		&snapshot.Category,
		&snapshot.DateFrom,
		&snapshot.DateTo,
		&metricsJSON,
		&snapshot.CreatedAt,
		&snapshot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metricsJSON) > 0 {
		snapshot.Metrics = &domain.CampaignMetrics{}
		if err := json.Unmarshal(metricsJSON, snapshot.Metrics); err != nil {
			return nil, fmt.Errorf("erro ao deserializar métricas: %w", err)
		}
	}

	return snapshot, nil
}
