package harness

import (
	"github.com/roach88/ocdg/internal/export"
	"github.com/roach88/ocdg/internal/ocdg"
	"github.com/roach88/ocdg/internal/store"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every assertion holds.
	Pass bool `json:"pass"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Graph is the mined graph as read back from the store.
	Graph export.Document `json:"graph"`

	// Build is the stored build record.
	Build store.BuildRecord `json:"build"`

	// Stats are the builder's counters.
	Stats ocdg.Stats `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
