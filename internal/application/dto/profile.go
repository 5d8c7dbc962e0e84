// Package dto contains the data carried between the CLI and the application layer.
package dto

import (
	"time"

	apperrors "github.com/reglet-dev/profilecache/internal/application/errors"
	"github.com/reglet-dev/profilecache/internal/domain/entities"
)

// ProfileSeed is the raw input for creating one profile.
type ProfileSeed struct {
	// LastLogin is optional; nil means "use the manager's clock".
	LastLogin *time.Time
	Username  string
	Email     string
}

// ProfileView is the output representation of a profile.
type ProfileView struct {
	LastLogin    time.Time `json:"last_login" yaml:"last_login"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	ID           string    `json:"id" yaml:"id"`
	Username     string    `json:"username" yaml:"username"`
	Email        string    `json:"email" yaml:"email"`
	HasLastLogin bool      `json:"has_last_login" yaml:"has_last_login"`
}

// NewProfileView converts a profile into its output representation.
func NewProfileView(p *entities.UserProfile) ProfileView {
	snap := p.Snapshot()
	return ProfileView{
		ID:           snap.ID.String(),
		Username:     snap.Username,
		Email:        snap.Email,
		LastLogin:    snap.LastLogin,
		CreatedAt:    snap.CreatedAt,
		HasLastLogin: snap.HasLastLogin,
	}
}

// NewProfileViews converts profiles in order.
func NewProfileViews(profiles []*entities.UserProfile) []ProfileView {
	views := make([]ProfileView, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, NewProfileView(p))
	}
	return views
}

// ImportReport summarizes a batch import.
type ImportReport struct {
	// Profiles holds the created profiles in seed order. The caller owns
	// these references; dropping them lets the cache entries expire.
	Profiles []*entities.UserProfile

	// Failures holds one error per rejected seed, in seed order.
	Failures []*apperrors.ImportError

	Total int
}

// Succeeded returns the number of created profiles.
func (r *ImportReport) Succeeded() int {
	return len(r.Profiles)
}

// Failed returns the number of rejected seeds.
func (r *ImportReport) Failed() int {
	return len(r.Failures)
}

// FailureView is the output representation of one rejected seed.
type FailureView struct {
	Username string `json:"username" yaml:"username"`
	Error    string `json:"error" yaml:"error"`
	Index    int    `json:"index" yaml:"index"`
}

// ReportView is the output representation of an ImportReport.
type ReportView struct {
	Profiles []ProfileView `json:"profiles" yaml:"profiles"`
	Failures []FailureView `json:"failures" yaml:"failures"`
	Total    int           `json:"total" yaml:"total"`
	Created  int           `json:"created" yaml:"created"`
	Failed   int           `json:"failed" yaml:"failed"`
}

// NewReportView converts an import report into its output representation.
func NewReportView(r *ImportReport) ReportView {
	view := ReportView{
		Profiles: NewProfileViews(r.Profiles),
		Failures: make([]FailureView, 0, len(r.Failures)),
		Total:    r.Total,
		Created:  r.Succeeded(),
		Failed:   r.Failed(),
	}
	for _, f := range r.Failures {
		view.Failures = append(view.Failures, FailureView{
			Index:    f.Index,
			Username: f.Username,
			Error:    f.Cause.Error(),
		})
	}
	return view
}
