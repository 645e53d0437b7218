package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/Pvayush/TexasInterns/internal/apperror"
	"github.com/Pvayush/TexasInterns/internal/model"
	"github.com/Pvayush/TexasInterns/internal/repository"
)

// compile-time check that *DB implements repository.JobRepository
var _ repository.JobRepository = (*DB)(nil)

const jobColumns = `id, position, company, job_location, job_type, status, created_by, created_at, updated_at`

// Create inserts a new job. The caller (service layer) has already validated
// fields and set CreatedBy from the resolved identity; this method only
// generates the ID and timestamps.
func (db *DB) Create(ctx context.Context, job *model.Job) error {
	job.ID = xid.New().String()

	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO jobs (`+jobColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID,
		job.Position,
		job.Company,
		job.JobLocation,
		job.JobType,
		job.Status,
		job.CreatedBy,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating job: %w", err)
	}

	return nil
}

// GetOwned retrieves a job by ID, but only if it belongs to ownerID.
//
// The WHERE clause carries both keys, so "no such job" and "someone else's
// job" are the same empty result — a caller can never probe for the
// existence of another owner's records.
func (db *DB) GetOwned(ctx context.Context, ownerID, id string) (*model.Job, error) {
	var j model.Job

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = ? AND created_by = ?`,
		id, ownerID,
	).Scan(
		&j.ID,
		&j.Position,
		&j.Company,
		&j.JobLocation,
		&j.JobType,
		&j.Status,
		&j.CreatedBy,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("job", id)
		}
		return nil, fmt.Errorf("sqlite: getting job %s: %w", id, err)
	}

	return &j, nil
}

// List returns the owner's jobs matching the filter plus the total matching
// count (before Limit/Offset are applied).
//
// The filter state is pushed down as SQL:
//   - Search: case-insensitive substring on position, via
//     instr(lower(position), lower(?)). instr avoids LIKE so that % and _
//     in the search text are matched literally.
//   - Status/Type: exact match unless the wildcard "all".
//   - Sort: every ORDER BY ends with "id ASC" so ties on the sort key
//     (equal timestamps, equal positions) still produce a stable order.
func (db *DB) List(ctx context.Context, ownerID string, filter repository.JobFilter) ([]model.Job, int, error) {
	where := []string{"created_by = ?"}
	args := []any{ownerID}

	if filter.Search != "" {
		where = append(where, "instr(lower(position), lower(?)) > 0")
		args = append(args, filter.Search)
	}
	if filter.Status != "" && filter.Status != repository.FilterAll {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Type != "" && filter.Type != repository.FilterAll {
		where = append(where, "job_type = ?")
		args = append(args, filter.Type)
	}

	whereClause := strings.Join(where, " AND ")

	var orderBy string
	switch filter.Sort {
	case repository.SortOldest:
		orderBy = "created_at ASC, id ASC"
	case repository.SortAZ:
		orderBy = "position COLLATE NOCASE ASC, id ASC"
	case repository.SortZA:
		orderBy = "position COLLATE NOCASE DESC, id ASC"
	default: // SortLatest
		orderBy = "created_at DESC, id ASC"
	}

	// Total matching count first — the pagination math needs it regardless
	// of which page slice is returned.
	var total int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM jobs WHERE `+whereClause, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting jobs: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE `+whereClause+
			` ORDER BY `+orderBy+` LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.Job, 0, limit)
	for rows.Next() {
		var j model.Job
		if err := rows.Scan(
			&j.ID, &j.Position, &j.Company, &j.JobLocation,
			&j.JobType, &j.Status, &j.CreatedBy,
			&j.CreatedAt, &j.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning job row: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating jobs: %w", err)
	}

	return jobs, total, nil
}

// Update persists a modified job, conditional on the row still belonging to
// job.CreatedBy. The ownership check and the write are one statement, so a
// concurrent delete between "check" and "update" cannot slip through —
// RowsAffected simply comes back 0 and we report NotFound.
func (db *DB) Update(ctx context.Context, job *model.Job) error {
	job.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE jobs
		 SET position = ?, company = ?, job_location = ?, job_type = ?, status = ?, updated_at = ?
		 WHERE id = ? AND created_by = ?`,
		job.Position,
		job.Company,
		job.JobLocation,
		job.JobType,
		job.Status,
		job.UpdatedAt,
		job.ID,
		job.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating job %s: %w", job.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("job", job.ID)
	}

	return nil
}

// Delete removes a job in a single conditional statement keyed on
// (id, created_by). Same atomicity argument as Update.
func (db *DB) Delete(ctx context.Context, ownerID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM jobs WHERE id = ? AND created_by = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting job %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("job", id)
	}

	return nil
}

// StatusCounts groups the owner's jobs by status. Only observed statuses
// appear in the map — callers treat absence as zero.
func (db *DB) StatusCounts(ctx context.Context, ownerID string) (map[model.JobStatus]int, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM jobs WHERE created_by = ? GROUP BY status`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: counting jobs by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.JobStatus]int)
	for rows.Next() {
		var status model.JobStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("sqlite: scanning status count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating status counts: %w", err)
	}

	return counts, nil
}

// MonthlySummaries buckets the owner's jobs by (year, month) of creation,
// newest bucket first, truncated to limit buckets. Months with no jobs are
// not synthesised.
//
// The bucketing happens in Go rather than with strftime so it does not
// depend on how the driver encodes time.Time values in the DATETIME column.
func (db *DB) MonthlySummaries(ctx context.Context, ownerID string, limit int) ([]model.MonthlySummary, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT created_at FROM jobs WHERE created_by = ?`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading job creation times: %w", err)
	}
	defer rows.Close()

	type bucket struct{ year, month int }
	counts := make(map[bucket]int)
	for rows.Next() {
		var createdAt time.Time
		if err := rows.Scan(&createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning creation time: %w", err)
		}
		counts[bucket{createdAt.Year(), int(createdAt.Month())}]++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating creation times: %w", err)
	}

	summaries := make([]model.MonthlySummary, 0, len(counts))
	for b, count := range counts {
		summaries = append(summaries, model.MonthlySummary{
			Year:  b.year,
			Month: b.month,
			Date:  fmt.Sprintf("%s %d", time.Month(b.month).String()[:3], b.year),
			Count: count,
		})
	}

	// Year descending, then month descending: most recent bucket first.
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Year != summaries[j].Year {
			return summaries[i].Year > summaries[j].Year
		}
		return summaries[i].Month > summaries[j].Month
	})

	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}

	return summaries, nil
}
