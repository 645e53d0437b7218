package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Pvayush/TexasInterns/internal/apperror"
	"github.com/Pvayush/TexasInterns/internal/model"
	"github.com/Pvayush/TexasInterns/internal/repository"
)

const (
	MaxPositionLength = 100
	MaxCompanyLength  = 100
	MaxLocationLength = 100

	// PageSize is the fixed page size for job listings.
	PageSize = 10

	// MonthlyTrendMonths caps the monthly rollup at the 6 most recent buckets.
	MonthlyTrendMonths = 6
)

// JobService handles business logic for job applications.
//
// Every method takes the owner ID resolved by the auth middleware as an
// explicit parameter. Nothing in this service reads an owner from input
// data, so a request body can never act on another user's records.
type JobService struct {
	repo   repository.JobRepository
	logger *slog.Logger
}

// NewJobService creates a JobService.
func NewJobService(repo repository.JobRepository, logger *slog.Logger) *JobService {
	return &JobService{
		repo:   repo,
		logger: logger,
	}
}

// CreateJobInput carries the caller-supplied fields for a new job. Type and
// status are plain strings here; validation and defaulting happen in Create.
type CreateJobInput struct {
	Position    string `json:"position"`
	Company     string `json:"company"`
	JobLocation string `json:"jobLocation"`
	JobType     string `json:"jobType"`
	Status      string `json:"status"`
}

// UpdateJobInput is an optional-field patch. A nil field means "leave the
// stored value alone"; a non-nil field replaces it (after validation). This
// is how partial updates avoid clobbering fields the caller didn't send.
type UpdateJobInput struct {
	Position    *string `json:"position"`
	Company     *string `json:"company"`
	JobLocation *string `json:"jobLocation"`
	JobType     *string `json:"jobType"`
	Status      *string `json:"status"`
}

// ListParams is the caller-facing filter state for List.
type ListParams struct {
	Search string
	Status string
	Type   string
	Sort   string
	Page   int
}

// ListResult is a single page of jobs plus the pagination totals.
type ListResult struct {
	Jobs       []model.Job
	TotalJobs  int
	NumOfPages int
	Page       int
}

// Stats bundles the two rollups of the stats endpoint.
type Stats struct {
	StatusCounts map[model.JobStatus]int
	Monthly      []model.MonthlySummary
}

// Create validates and saves a new job owned by ownerID.
//
// Position and company are required; location defaults to
// model.DefaultLocation, type to full-time, status to pending. Out-of-enum
// type or status values are rejected before anything touches the store.
func (s *JobService) Create(ctx context.Context, ownerID string, in CreateJobInput) (*model.Job, error) {
	position := strings.TrimSpace(in.Position)
	company := strings.TrimSpace(in.Company)
	location := strings.TrimSpace(in.JobLocation)

	if position == "" {
		return nil, apperror.ValidationFailed("position", "position is required")
	}
	if len(position) > MaxPositionLength {
		return nil, apperror.ValidationFailed("position",
			fmt.Sprintf("position must be %d characters or less", MaxPositionLength))
	}
	if company == "" {
		return nil, apperror.ValidationFailed("company", "company is required")
	}
	if len(company) > MaxCompanyLength {
		return nil, apperror.ValidationFailed("company",
			fmt.Sprintf("company must be %d characters or less", MaxCompanyLength))
	}
	if len(location) > MaxLocationLength {
		return nil, apperror.ValidationFailed("jobLocation",
			fmt.Sprintf("job location must be %d characters or less", MaxLocationLength))
	}
	if location == "" {
		location = model.DefaultLocation
	}

	jobType := model.JobType(in.JobType)
	if in.JobType == "" {
		jobType = model.TypeFullTime
	} else if !jobType.Valid() {
		return nil, apperror.ValidationFailed("jobType",
			fmt.Sprintf("%q is not a valid job type", in.JobType))
	}

	status := model.JobStatus(in.Status)
	if in.Status == "" {
		status = model.StatusPending
	} else if !status.Valid() {
		return nil, apperror.ValidationFailed("status",
			fmt.Sprintf("%q is not a valid status", in.Status))
	}

	job := &model.Job{
		Position:    position,
		Company:     company,
		JobLocation: location,
		JobType:     jobType,
		Status:      status,
		CreatedBy:   ownerID, // always the resolved identity, never input
	}

	if err := s.repo.Create(ctx, job); err != nil {
		s.logger.Error("failed to create job",
			slog.String("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating job: %w", err)
	}

	s.logger.Info("job created",
		slog.String("id", job.ID),
		slog.String("ownerID", ownerID),
	)

	return job, nil
}

// GetOwned retrieves one of the caller's jobs. A job that doesn't exist and
// a job owned by someone else are the same NotFound.
func (s *JobService) GetOwned(ctx context.Context, ownerID, jobID string) (*model.Job, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, apperror.ValidationFailed("id", "job ID is required")
	}
	return s.repo.GetOwned(ctx, ownerID, jobID)
}

// List returns one page of the caller's jobs for the given filter state.
//
// The page number is 1-indexed and clamped to at least 1. NumOfPages is
// ceil(total/PageSize); a caller asking for a page beyond the end simply
// gets an empty slice with the correct totals.
func (s *JobService) List(ctx context.Context, ownerID string, params ListParams) (*ListResult, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}

	sortKey := params.Sort
	switch sortKey {
	case repository.SortLatest, repository.SortOldest, repository.SortAZ, repository.SortZA:
	default:
		sortKey = repository.SortLatest
	}

	jobs, total, err := s.repo.List(ctx, ownerID, repository.JobFilter{
		Search: strings.TrimSpace(params.Search),
		Status: params.Status,
		Type:   params.Type,
		Sort:   sortKey,
		Limit:  PageSize,
		Offset: (page - 1) * PageSize,
	})
	if err != nil {
		s.logger.Error("failed to list jobs",
			slog.String("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing jobs: %w", err)
	}

	numOfPages := (total + PageSize - 1) / PageSize
	if numOfPages < 1 {
		numOfPages = 1
	}

	return &ListResult{
		Jobs:       jobs,
		TotalJobs:  total,
		NumOfPages: numOfPages,
		Page:       page,
	}, nil
}

// Update applies an optional-field patch to one of the caller's jobs.
//
// The job is loaded with the same (id, owner) key as GetOwned, patched in
// memory, then written back with a conditional UPDATE on that same key — so
// a concurrent delete between the read and the write surfaces as NotFound
// rather than resurrecting the record.
func (s *JobService) Update(ctx context.Context, ownerID, jobID string, in UpdateJobInput) (*model.Job, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, apperror.ValidationFailed("id", "job ID is required")
	}

	job, err := s.repo.GetOwned(ctx, ownerID, jobID)
	if err != nil {
		return nil, err
	}

	if in.Position != nil {
		position := strings.TrimSpace(*in.Position)
		if position == "" {
			return nil, apperror.ValidationFailed("position", "position cannot be empty")
		}
		if len(position) > MaxPositionLength {
			return nil, apperror.ValidationFailed("position",
				fmt.Sprintf("position must be %d characters or less", MaxPositionLength))
		}
		job.Position = position
	}
	if in.Company != nil {
		company := strings.TrimSpace(*in.Company)
		if company == "" {
			return nil, apperror.ValidationFailed("company", "company cannot be empty")
		}
		if len(company) > MaxCompanyLength {
			return nil, apperror.ValidationFailed("company",
				fmt.Sprintf("company must be %d characters or less", MaxCompanyLength))
		}
		job.Company = company
	}
	if in.JobLocation != nil {
		location := strings.TrimSpace(*in.JobLocation)
		if len(location) > MaxLocationLength {
			return nil, apperror.ValidationFailed("jobLocation",
				fmt.Sprintf("job location must be %d characters or less", MaxLocationLength))
		}
		if location == "" {
			location = model.DefaultLocation
		}
		job.JobLocation = location
	}
	if in.JobType != nil {
		jobType := model.JobType(*in.JobType)
		if !jobType.Valid() {
			return nil, apperror.ValidationFailed("jobType",
				fmt.Sprintf("%q is not a valid job type", *in.JobType))
		}
		job.JobType = jobType
	}
	if in.Status != nil {
		status := model.JobStatus(*in.Status)
		if !status.Valid() {
			return nil, apperror.ValidationFailed("status",
				fmt.Sprintf("%q is not a valid status", *in.Status))
		}
		job.Status = status
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("job updated",
		slog.String("id", job.ID),
		slog.String("ownerID", ownerID),
	)

	return job, nil
}

// Delete removes one of the caller's jobs. The ownership check and the
// removal are one conditional statement in the repository.
func (s *JobService) Delete(ctx context.Context, ownerID, jobID string) error {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return apperror.ValidationFailed("id", "job ID is required")
	}

	if err := s.repo.Delete(ctx, ownerID, jobID); err != nil {
		return err
	}

	s.logger.Info("job deleted",
		slog.String("id", jobID),
		slog.String("ownerID", ownerID),
	)
	return nil
}

// Stats computes both rollups over the caller's jobs: counts per observed
// status, and the monthly application trend capped at the
// MonthlyTrendMonths most recent buckets, most recent first.
func (s *JobService) Stats(ctx context.Context, ownerID string) (*Stats, error) {
	counts, err := s.repo.StatusCounts(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to compute status counts",
			slog.String("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("computing status counts: %w", err)
	}

	monthly, err := s.repo.MonthlySummaries(ctx, ownerID, MonthlyTrendMonths)
	if err != nil {
		s.logger.Error("failed to compute monthly summaries",
			slog.String("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("computing monthly summaries: %w", err)
	}

	return &Stats{
		StatusCounts: counts,
		Monthly:      monthly,
	}, nil
}
