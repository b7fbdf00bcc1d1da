package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"ReviewPulse/internal/domain"
	"ReviewPulse/internal/ports"
)

// PostgresArchive mirrors completed result sets into Postgres for durability
// across restarts. The in-memory store stays the read path; the archive is a
// secondary write-once copy.
type PostgresArchive struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ResultArchive = (*PostgresArchive)(nil)

// NewPostgresArchive wires a sql.DB connection.
func NewPostgresArchive(db *sql.DB) *PostgresArchive {
	return &PostgresArchive{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Open connects to Postgres using the given DSN.
func Open(dsn string) (*PostgresArchive, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewPostgresArchive(db), nil
}

// Close releases the underlying connection pool.
func (a *PostgresArchive) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Archive inserts the result set. Result sets are immutable, so a conflicting
// job ID inserts nothing and reports ErrAlreadyExists.
func (a *PostgresArchive) Archive(ctx context.Context, rs domain.ResultSet) error {
	if a.db == nil {
		return nil
	}

	payload, err := json.Marshal(rs)
	if err != nil {
		return fmt.Errorf("marshal result set: %w", err)
	}

	query, args, err := a.builder.
		Insert("result_sets").
		Columns("job_id", "company_name", "total_reviews", "payload", "report", "created_at").
		Values(rs.JobID, rs.CompanyName, rs.Stats.Total, payload, rs.Report, rs.CreatedAt).
		Suffix("ON CONFLICT (job_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	res, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert result set: %w", err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("results for job %s: %w", rs.JobID, domain.ErrAlreadyExists)
	}
	return nil
}

// Load restores an archived result set, e.g. after a restart.
func (a *PostgresArchive) Load(ctx context.Context, jobID string) (domain.ResultSet, error) {
	if a.db == nil {
		return domain.ResultSet{}, fmt.Errorf("archive disabled: %w", domain.ErrNotFound)
	}

	query, args, err := a.builder.
		Select("payload", "report").
		From("result_sets").
		Where(sq.Eq{"job_id": jobID}).
		ToSql()
	if err != nil {
		return domain.ResultSet{}, fmt.Errorf("build select: %w", err)
	}

	var payload, report []byte
	row := a.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&payload, &report); err != nil {
		if err == sql.ErrNoRows {
			return domain.ResultSet{}, fmt.Errorf("results for job %s: %w", jobID, domain.ErrNotFound)
		}
		return domain.ResultSet{}, fmt.Errorf("scan result set: %w", err)
	}

	var rs domain.ResultSet
	if err := json.Unmarshal(payload, &rs); err != nil {
		return domain.ResultSet{}, fmt.Errorf("unmarshal result set: %w", err)
	}
	rs.Report = report
	return rs, nil
}
