package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Pvayush/TexasInterns/internal/apperror"
	"github.com/Pvayush/TexasInterns/internal/model"
	"github.com/Pvayush/TexasInterns/internal/repository"
)

// mockJobRepo is an in-memory repository.JobRepository. It enforces the same
// (id, owner) keying as the real store but skips the SQL filter pushdown —
// filter behaviour itself is covered by the sqlite package tests. It records
// the last filter List received so tests can check what the service built.
type mockJobRepo struct {
	jobs       map[string]*model.Job
	nextID     int
	lastFilter repository.JobFilter
}

func newMockJobRepo() *mockJobRepo {
	return &mockJobRepo{jobs: make(map[string]*model.Job)}
}

func (m *mockJobRepo) Create(_ context.Context, job *model.Job) error {
	m.nextID++
	job.ID = fmt.Sprintf("job-%d", m.nextID)
	copied := *job
	m.jobs[job.ID] = &copied
	return nil
}

func (m *mockJobRepo) GetOwned(_ context.Context, ownerID, jobID string) (*model.Job, error) {
	job, ok := m.jobs[jobID]
	if !ok || job.CreatedBy != ownerID {
		return nil, apperror.NotFound("job", jobID)
	}
	copied := *job
	return &copied, nil
}

func (m *mockJobRepo) List(_ context.Context, ownerID string, filter repository.JobFilter) ([]model.Job, int, error) {
	m.lastFilter = filter
	var owned []model.Job
	for _, job := range m.jobs {
		if job.CreatedBy == ownerID {
			owned = append(owned, *job)
		}
	}
	total := len(owned)
	if filter.Offset >= len(owned) {
		return nil, total, nil
	}
	owned = owned[filter.Offset:]
	if filter.Limit > 0 && len(owned) > filter.Limit {
		owned = owned[:filter.Limit]
	}
	return owned, total, nil
}

func (m *mockJobRepo) Update(_ context.Context, job *model.Job) error {
	stored, ok := m.jobs[job.ID]
	if !ok || stored.CreatedBy != job.CreatedBy {
		return apperror.NotFound("job", job.ID)
	}
	copied := *job
	m.jobs[job.ID] = &copied
	return nil
}

func (m *mockJobRepo) Delete(_ context.Context, ownerID, jobID string) error {
	job, ok := m.jobs[jobID]
	if !ok || job.CreatedBy != ownerID {
		return apperror.NotFound("job", jobID)
	}
	delete(m.jobs, jobID)
	return nil
}

func (m *mockJobRepo) StatusCounts(_ context.Context, ownerID string) (map[model.JobStatus]int, error) {
	counts := make(map[model.JobStatus]int)
	for _, job := range m.jobs {
		if job.CreatedBy == ownerID {
			counts[job.Status]++
		}
	}
	return counts, nil
}

func (m *mockJobRepo) MonthlySummaries(_ context.Context, ownerID string, limit int) ([]model.MonthlySummary, error) {
	count := 0
	for _, job := range m.jobs {
		if job.CreatedBy == ownerID {
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}
	return []model.MonthlySummary{{Year: 2026, Month: 3, Date: "Mar 2026", Count: count}}, nil
}

func newTestJobService(t *testing.T) (*JobService, *mockJobRepo) {
	t.Helper()
	repo := newMockJobRepo()
	return NewJobService(repo, discardLogger()), repo
}

func strPtr(s string) *string { return &s }

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestCreateJob_Defaults(t *testing.T) {
	svc, _ := newTestJobService(t)

	job, err := svc.Create(context.Background(), "owner-1", CreateJobInput{
		Position: "backend engineer",
		Company:  "Acme",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if job.JobLocation != model.DefaultLocation {
		t.Errorf("JobLocation = %q, want %q", job.JobLocation, model.DefaultLocation)
	}
	if job.JobType != model.TypeFullTime {
		t.Errorf("JobType = %q, want %q", job.JobType, model.TypeFullTime)
	}
	if job.Status != model.StatusPending {
		t.Errorf("Status = %q, want %q", job.Status, model.StatusPending)
	}
	if job.CreatedBy != "owner-1" {
		t.Errorf("CreatedBy = %q, want %q", job.CreatedBy, "owner-1")
	}
}

func TestCreateJob_ExplicitFields(t *testing.T) {
	svc, _ := newTestJobService(t)

	job, err := svc.Create(context.Background(), "owner-1", CreateJobInput{
		Position:    "data analyst",
		Company:     "Initech",
		JobLocation: "Austin",
		JobType:     string(model.TypeRemote),
		Status:      string(model.StatusInterview),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if job.JobType != model.TypeRemote || job.Status != model.StatusInterview {
		t.Errorf("Create() = type %q status %q, want explicit values kept", job.JobType, job.Status)
	}
	if job.JobLocation != "Austin" {
		t.Errorf("JobLocation = %q, want %q", job.JobLocation, "Austin")
	}
}

func TestCreateJob_Validation(t *testing.T) {
	svc, _ := newTestJobService(t)

	tests := []struct {
		name  string
		input CreateJobInput
	}{
		{"missing position", CreateJobInput{Company: "Acme"}},
		{"whitespace position", CreateJobInput{Position: "   ", Company: "Acme"}},
		{"position too long", CreateJobInput{Position: strings.Repeat("x", MaxPositionLength+1), Company: "Acme"}},
		{"missing company", CreateJobInput{Position: "engineer"}},
		{"company too long", CreateJobInput{Position: "engineer", Company: strings.Repeat("x", MaxCompanyLength+1)}},
		{"location too long", CreateJobInput{Position: "engineer", Company: "Acme", JobLocation: strings.Repeat("x", MaxLocationLength+1)}},
		{"bad job type", CreateJobInput{Position: "engineer", Company: "Acme", JobType: "freelance"}},
		{"bad status", CreateJobInput{Position: "engineer", Company: "Acme", Status: "ghosted"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "owner-1", tt.input)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Create() error = %v, want ErrValidation", err)
			}
		})
	}
}

// =========================================================================
// LIST TESTS
// =========================================================================

func TestListJobs_FilterStateReachesRepo(t *testing.T) {
	svc, repo := newTestJobService(t)

	_, err := svc.List(context.Background(), "owner-1", ListParams{
		Search: "  engineer  ",
		Status: string(model.StatusPending),
		Type:   repository.FilterAll,
		Sort:   repository.SortOldest,
		Page:   3,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	got := repo.lastFilter
	if got.Search != "engineer" {
		t.Errorf("Search = %q, want trimmed %q", got.Search, "engineer")
	}
	if got.Sort != repository.SortOldest {
		t.Errorf("Sort = %q, want %q", got.Sort, repository.SortOldest)
	}
	if got.Limit != PageSize || got.Offset != 2*PageSize {
		t.Errorf("Limit/Offset = %d/%d, want %d/%d", got.Limit, got.Offset, PageSize, 2*PageSize)
	}
}

func TestListJobs_UnknownSortFallsBackToLatest(t *testing.T) {
	svc, repo := newTestJobService(t)

	if _, err := svc.List(context.Background(), "owner-1", ListParams{Sort: "sideways"}); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if repo.lastFilter.Sort != repository.SortLatest {
		t.Errorf("Sort = %q, want fallback %q", repo.lastFilter.Sort, repository.SortLatest)
	}
}

func TestListJobs_PageClamp(t *testing.T) {
	svc, repo := newTestJobService(t)

	for _, page := range []int{0, -5} {
		result, err := svc.List(context.Background(), "owner-1", ListParams{Page: page})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Page != 1 {
			t.Errorf("Page = %d for input %d, want clamped to 1", result.Page, page)
		}
		if repo.lastFilter.Offset != 0 {
			t.Errorf("Offset = %d for input page %d, want 0", repo.lastFilter.Offset, page)
		}
	}
}

func TestListJobs_PageMath(t *testing.T) {
	svc, _ := newTestJobService(t)

	seed := func(n int) {
		svc, _ = newTestJobService(t)
		for i := 0; i < n; i++ {
			if _, err := svc.Create(context.Background(), "owner-1", CreateJobInput{
				Position: fmt.Sprintf("job %d", i), Company: "Acme",
			}); err != nil {
				t.Fatalf("seeding: %v", err)
			}
		}
	}

	tests := []struct {
		total        int
		wantNumPages int
	}{
		{0, 1},  // empty result still reports one page
		{1, 1},
		{10, 1},
		{11, 2}, // ceil division
		{25, 3},
	}

	for _, tt := range tests {
		seed(tt.total)
		result, err := svc.List(context.Background(), "owner-1", ListParams{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.TotalJobs != tt.total {
			t.Errorf("TotalJobs = %d, want %d", result.TotalJobs, tt.total)
		}
		if result.NumOfPages != tt.wantNumPages {
			t.Errorf("NumOfPages for %d jobs = %d, want %d", tt.total, result.NumOfPages, tt.wantNumPages)
		}
	}
}

func TestListJobs_PageBeyondEnd(t *testing.T) {
	svc, _ := newTestJobService(t)

	if _, err := svc.Create(context.Background(), "owner-1", CreateJobInput{Position: "one", Company: "Acme"}); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	result, err := svc.List(context.Background(), "owner-1", ListParams{Page: 99})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(result.Jobs) != 0 {
		t.Errorf("jobs on page 99 = %d, want 0", len(result.Jobs))
	}
	if result.TotalJobs != 1 || result.NumOfPages != 1 {
		t.Errorf("totals = %d/%d, want 1/1", result.TotalJobs, result.NumOfPages)
	}
}

// =========================================================================
// UPDATE TESTS
// =========================================================================

func TestUpdateJob_PatchSemantics(t *testing.T) {
	svc, _ := newTestJobService(t)

	created, err := svc.Create(context.Background(), "owner-1", CreateJobInput{
		Position:    "backend engineer",
		Company:     "Acme",
		JobLocation: "Austin",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Only status is sent; everything else must survive untouched.
	updated, err := svc.Update(context.Background(), "owner-1", created.ID, UpdateJobInput{
		Status: strPtr(string(model.StatusInterview)),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Status != model.StatusInterview {
		t.Errorf("Status = %q, want %q", updated.Status, model.StatusInterview)
	}
	if updated.Position != "backend engineer" || updated.Company != "Acme" || updated.JobLocation != "Austin" {
		t.Errorf("unsent fields changed: %+v", updated)
	}
}

func TestUpdateJob_Validation(t *testing.T) {
	svc, _ := newTestJobService(t)

	created, err := svc.Create(context.Background(), "owner-1", CreateJobInput{
		Position: "backend engineer",
		Company:  "Acme",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name  string
		input UpdateJobInput
	}{
		{"empty position", UpdateJobInput{Position: strPtr("  ")}},
		{"empty company", UpdateJobInput{Company: strPtr("")}},
		{"bad job type", UpdateJobInput{JobType: strPtr("freelance")}},
		{"bad status", UpdateJobInput{Status: strPtr("ghosted")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), "owner-1", created.ID, tt.input)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Update() error = %v, want ErrValidation", err)
			}
		})
	}

	// A rejected patch must not have written anything.
	got, err := svc.GetOwned(context.Background(), "owner-1", created.ID)
	if err != nil {
		t.Fatalf("GetOwned() error = %v", err)
	}
	if got.Position != "backend engineer" || got.Status != model.StatusPending {
		t.Errorf("job mutated by rejected patch: %+v", got)
	}
}

// Clearing the location in a patch re-applies the default rather than
// leaving the field blank.
func TestUpdateJob_EmptyLocationRestoresDefault(t *testing.T) {
	svc, _ := newTestJobService(t)

	created, err := svc.Create(context.Background(), "owner-1", CreateJobInput{
		Position:    "backend engineer",
		Company:     "Acme",
		JobLocation: "Austin",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.Update(context.Background(), "owner-1", created.ID, UpdateJobInput{
		JobLocation: strPtr(""),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.JobLocation != model.DefaultLocation {
		t.Errorf("JobLocation = %q, want %q", updated.JobLocation, model.DefaultLocation)
	}
}

func TestUpdateJob_ForeignOwner(t *testing.T) {
	svc, _ := newTestJobService(t)

	created, err := svc.Create(context.Background(), "owner-1", CreateJobInput{
		Position: "backend engineer",
		Company:  "Acme",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = svc.Update(context.Background(), "owner-2", created.ID, UpdateJobInput{
		Status: strPtr(string(model.StatusDeclined)),
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("cross-owner Update() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// DELETE TESTS
// =========================================================================

func TestDeleteJob_OwnershipThreaded(t *testing.T) {
	svc, _ := newTestJobService(t)

	created, err := svc.Create(context.Background(), "owner-1", CreateJobInput{
		Position: "backend engineer",
		Company:  "Acme",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(context.Background(), "owner-2", created.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("cross-owner Delete() error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(context.Background(), "owner-1", created.ID); err != nil {
		t.Fatalf("owner Delete() error = %v", err)
	}
	if err := svc.Delete(context.Background(), "owner-1", created.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("repeat Delete() error = %v, want ErrNotFound", err)
	}
}

func TestJobIDRequired(t *testing.T) {
	svc, _ := newTestJobService(t)

	if _, err := svc.GetOwned(context.Background(), "owner-1", "  "); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("GetOwned() with blank ID: error = %v, want ErrValidation", err)
	}
	if _, err := svc.Update(context.Background(), "owner-1", "", UpdateJobInput{}); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Update() with blank ID: error = %v, want ErrValidation", err)
	}
	if err := svc.Delete(context.Background(), "owner-1", ""); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Delete() with blank ID: error = %v, want ErrValidation", err)
	}
}

// =========================================================================
// STATS TESTS
// =========================================================================

func TestStats(t *testing.T) {
	svc, _ := newTestJobService(t)

	seed := []string{
		string(model.StatusPending),
		string(model.StatusPending),
		string(model.StatusInterview),
	}
	for i, status := range seed {
		if _, err := svc.Create(context.Background(), "owner-1", CreateJobInput{
			Position: fmt.Sprintf("job %d", i), Company: "Acme", Status: status,
		}); err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}

	stats, err := svc.Stats(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.StatusCounts[model.StatusPending] != 2 {
		t.Errorf("pending = %d, want 2", stats.StatusCounts[model.StatusPending])
	}
	if stats.StatusCounts[model.StatusInterview] != 1 {
		t.Errorf("interview = %d, want 1", stats.StatusCounts[model.StatusInterview])
	}

	sum := 0
	for _, n := range stats.StatusCounts {
		sum += n
	}
	if sum != len(seed) {
		t.Errorf("status counts sum to %d, want %d", sum, len(seed))
	}

	if len(stats.Monthly) == 0 {
		t.Error("Stats() returned no monthly summaries")
	}
}

func TestStats_Empty(t *testing.T) {
	svc, _ := newTestJobService(t)

	stats, err := svc.Stats(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if len(stats.StatusCounts) != 0 {
		t.Errorf("StatusCounts = %v, want empty", stats.StatusCounts)
	}
	if len(stats.Monthly) != 0 {
		t.Errorf("Monthly = %v, want empty", stats.Monthly)
	}
}
