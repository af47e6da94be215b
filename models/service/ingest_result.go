package service

// Outcome of one directory's ingestion.
const (
	OutcomeDone    = "done"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// IngestResult records what happened to one input directory, plus the
// ordered results for its children. The batch driver walks this tree
// to report partial hierarchy failures without aborting siblings.
type IngestResult struct {
	// PID of the created object. Empty when the object was never
	// created (skipped or create-object failed).
	PID string `json:"pid"`

	// DirName is the basename of the input directory.
	DirName string `json:"dir_name"`

	// Outcome is done, failed, or skipped.
	Outcome string `json:"outcome"`

	// Errors collected while processing this directory. A done result
	// may still carry non-fatal errors from relationship or
	// datastream calls.
	Errors []*ProcessingError `json:"errors"`

	// Children holds results for child directories in ingestion
	// order. Only composite objects have children.
	Children []*IngestResult `json:"children"`
}

func NewIngestResult(dirName string) *IngestResult {
	return &IngestResult{
		DirName:  dirName,
		Outcome:  OutcomeSkipped,
		Errors:   make([]*ProcessingError, 0),
		Children: make([]*IngestResult, 0),
	}
}

// Succeeded returns true if this directory's own object was created.
// Child failures do not affect this: a book with a failed page is
// still a successfully ingested book.
func (r *IngestResult) Succeeded() bool {
	return r.Outcome == OutcomeDone
}

// Skipped returns true if the directory was excluded from the batch
// (no MODS label or no resolvable content model).
func (r *IngestResult) Skipped() bool {
	return r.Outcome == OutcomeSkipped
}

// AddError appends an error to this result.
func (r *IngestResult) AddError(err *ProcessingError) {
	r.Errors = append(r.Errors, err)
}

// AddChild appends a child result, preserving ingestion order.
func (r *IngestResult) AddChild(child *IngestResult) {
	r.Children = append(r.Children, child)
}

// HasErrors returns true if this result or any descendant carries an
// error.
func (r *IngestResult) HasErrors() bool {
	if len(r.Errors) > 0 {
		return true
	}
	for _, child := range r.Children {
		if child.HasErrors() {
			return true
		}
	}
	return false
}

// AllErrors returns this result's errors plus those of all
// descendants, depth-first in ingestion order.
func (r *IngestResult) AllErrors() []*ProcessingError {
	errors := make([]*ProcessingError, 0, len(r.Errors))
	errors = append(errors, r.Errors...)
	for _, child := range r.Children {
		errors = append(errors, child.AllErrors()...)
	}
	return errors
}

// CountByOutcome returns the number of results in this tree (self
// included) with the given outcome.
func (r *IngestResult) CountByOutcome(outcome string) int {
	count := 0
	if r.Outcome == outcome {
		count++
	}
	for _, child := range r.Children {
		count += child.CountByOutcome(outcome)
	}
	return count
}

// FirstSucceededChild returns the first child whose own object was
// created, or nil. Composite thumbnail back-fill pulls from this
// child, not from the first attempted child, so a failed first page
// doesn't leave the composite without a thumbnail.
func (r *IngestResult) FirstSucceededChild() *IngestResult {
	for _, child := range r.Children {
		if child.Succeeded() {
			return child
		}
	}
	return nil
}
