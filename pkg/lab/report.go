package lab

import "fmt"

// ItemError records one failed target inside a best-effort batch.
type ItemError struct {
	Target string
	Err    error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Target, e.Err)
}

// BatchReport is the outcome of a best-effort batch loop. A failure on one
// item never aborts its siblings; callers inspect the three buckets instead
// of relying on log output.
type BatchReport struct {
	Succeeded []string
	Skipped   []string
	Failed    []ItemError
}

func (r *BatchReport) ok(target string) {
	r.Succeeded = append(r.Succeeded, target)
}

func (r *BatchReport) skip(target string) {
	r.Skipped = append(r.Skipped, target)
}

func (r *BatchReport) fail(target string, err error) {
	r.Failed = append(r.Failed, ItemError{Target: target, Err: err})
}

func (r BatchReport) Summary() string {
	return fmt.Sprintf("%d succeeded, %d skipped, %d failed",
		len(r.Succeeded), len(r.Skipped), len(r.Failed))
}

// Credential is returned for each created user. The password exists only
// here: Graph never returns it on any later read.
type Credential struct {
	DisplayName       string
	UserPrincipalName string
	Username          string
	Password          string
}
