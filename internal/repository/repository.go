// Package repository declares the storage interfaces the service layer
// programs against. The sqlite subpackage is the concrete implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/Pvayush/TexasInterns/internal/model"
)

// Sort keys accepted by JobFilter.
const (
	SortLatest = "latest" // creation time descending (default)
	SortOldest = "oldest" // creation time ascending
	SortAZ     = "a-z"    // position ascending
	SortZA     = "z-a"    // position descending
)

// FilterAll is the wildcard value meaning "no filtering" for the status and
// job type filters.
const FilterAll = "all"

// JobFilter is the filter state for listing a caller's jobs.
//
// Identical filter state over an unchanged data set must always produce the
// same ordered result — ties on the sort key are broken by ID ascending.
type JobFilter struct {
	Search string // case-insensitive substring match on position
	Status string // one JobStatus value, or FilterAll
	Type   string // one JobType value, or FilterAll
	Sort   string // one of the Sort* keys
	Limit  int
	Offset int
}

type UserRepository interface {
	// CreateUser inserts a new user. Fails with apperror.ErrConflict if the
	// email is already registered (case-insensitive).
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// GetUserByEmail looks up a user by email, case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	// GetOwned returns the job only if it exists AND belongs to ownerID.
	// Both "absent" and "owned by someone else" are apperror.ErrNotFound.
	GetOwned(ctx context.Context, ownerID, id string) (*model.Job, error)
	// List returns the owner's jobs matching the filter, plus the total
	// matching count (before Limit/Offset).
	List(ctx context.Context, ownerID string, filter JobFilter) ([]model.Job, int, error)
	// Update persists the job, conditional on (job.ID, job.CreatedBy)
	// matching an existing row. ErrNotFound otherwise.
	Update(ctx context.Context, job *model.Job) error
	// Delete removes the job in a single conditional statement keyed on
	// (id, ownerID), so the ownership check and the removal cannot race.
	Delete(ctx context.Context, ownerID, id string) error
	// StatusCounts groups the owner's jobs by status. Statuses with no jobs
	// are absent from the map.
	StatusCounts(ctx context.Context, ownerID string) (map[model.JobStatus]int, error)
	// MonthlySummaries buckets the owner's jobs by creation (year, month),
	// most recent first, truncated to limit buckets.
	MonthlySummaries(ctx context.Context, ownerID string, limit int) ([]model.MonthlySummary, error)
}
