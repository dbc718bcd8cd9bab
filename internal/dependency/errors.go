package dependency

import (
	"errors"

	"github.com/google/go-github/v68/github"
)

// ErrStopped is a special error that is returned when a dependency is
// prematurely stopped, usually due to a configuration reload or a process
// interrupt.
var ErrStopped = errors.New("dependency stopped")

// GithubAPIStatus contains information about a failed GitHub API call.
type GithubAPIStatus struct {
	Code    int
	Message string
}

// DecodeGithubStatusError returns the decoded parameters from a GitHub API
// ErrorResponse as a GithubAPIStatus.
func DecodeGithubStatusError(err error) (GithubAPIStatus, bool) {
	var gerr *github.ErrorResponse
	if errors.As(err, &gerr) {
		status := 0
		if gerr.Response != nil {
			status = gerr.Response.StatusCode
		}
		return GithubAPIStatus{status, gerr.Message}, true
	}

	return GithubAPIStatus{0, ""}, false
}
