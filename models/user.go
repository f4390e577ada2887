package models

import "time"

// User is the slice of the identity/profile document the pipeline reads.
// Everything else on the document belongs to the account screens.
type User struct {
	ID        string    `json:"id" firestore:"-"`
	Email     string    `json:"email" firestore:"email"`
	Credits   int64     `json:"credits" firestore:"credits"`
	ResumeURL string    `json:"resumeUrl,omitempty" firestore:"resumeUrl,omitempty"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// SearchRun is one pipeline invocation recorded in the run history
type SearchRun struct {
	ID          string            `json:"id" firestore:"-"`
	UserID      string            `json:"userId" firestore:"userId"`
	Status      string            `json:"status" firestore:"status"`
	Refinements SearchRefinements `json:"refinements" firestore:"-"`
	Queries     []string          `json:"queries" firestore:"queries"`
	URLsVisited int               `json:"urlsVisited" firestore:"urlsVisited"`
	JobsFound   int               `json:"jobsFound" firestore:"jobsFound"`
	Error       string            `json:"error,omitempty" firestore:"error,omitempty"`
	CreatedAt   time.Time         `json:"createdAt" firestore:"createdAt"`
}
