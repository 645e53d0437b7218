// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other
// languages, but without inheritance. Go favours composition over inheritance.
package model

import "time"

// JobStatus is the application status of a job record.
//
// WHY A NAMED STRING TYPE?
// A plain string would accept anything. A named type plus a Valid() method
// gives us one place to enforce the enum, and the compiler stops us from
// accidentally passing a status where a job type belongs (and vice versa).
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusInterview JobStatus = "interview"
	StatusDeclined  JobStatus = "declined"
)

// Valid reports whether s is one of the enumerated statuses.
func (s JobStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInterview, StatusDeclined:
		return true
	}
	return false
}

// JobType is the employment type of a job record.
type JobType string

const (
	TypeFullTime   JobType = "full-time"
	TypePartTime   JobType = "part-time"
	TypeRemote     JobType = "remote"
	TypeInternship JobType = "internship"
)

// Valid reports whether t is one of the enumerated job types.
func (t JobType) Valid() bool {
	switch t {
	case TypeFullTime, TypePartTime, TypeRemote, TypeInternship:
		return true
	}
	return false
}

// DefaultLocation is used when a job is created without a location.
const DefaultLocation = "my city"

// Job represents a single job application.
//
// CreatedBy is the ID of the User who created the record. It is set once at
// creation from the authenticated caller's identity and never changes — every
// read and write in the repository is keyed on (id, created_by), so a job is
// simply invisible to anyone but its owner.
type Job struct {
	ID          string    `json:"id"          db:"id"`
	Position    string    `json:"position"    db:"position"`
	Company     string    `json:"company"     db:"company"`
	JobLocation string    `json:"jobLocation" db:"job_location"`
	JobType     JobType   `json:"jobType"     db:"job_type"`
	Status      JobStatus `json:"status"      db:"status"`
	CreatedBy   string    `json:"createdBy"   db:"created_by"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}

// MonthlySummary is one bucket of the monthly application trend: the number
// of jobs created in a given calendar month. Date is a display label such as
// "Jan 2026".
type MonthlySummary struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Date  string `json:"date"`
	Count int    `json:"count"`
}
