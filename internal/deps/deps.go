package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"textify/internal/services"
)

// Requirement defines an external executable Textify relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	// Hint tells the user how to install the tool when it is missing.
	Hint     string
	Optional bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Hint        string
	Optional    bool
	Available   bool
	Path        string
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	return checkBinaries(requirements, exec.LookPath)
}

func checkBinaries(requirements []Requirement, lookPath func(string) (string, error)) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Hint:        strings.TrimSpace(req.Hint),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := lookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = resolved
		results = append(results, status)
	}
	return results
}

// MissingError reports required executables that could not be resolved.
type MissingError struct {
	Missing []Status
}

func (e *MissingError) Error() string {
	if e == nil || len(e.Missing) == 0 {
		return "missing dependency"
	}
	messages := make([]string, 0, len(e.Missing))
	for _, status := range e.Missing {
		msg := fmt.Sprintf("%s is not installed or not in PATH.", status.Name)
		if status.Hint != "" {
			msg += " " + status.Hint
		}
		messages = append(messages, msg)
	}
	return strings.Join(messages, " ")
}

// Unwrap lets errors.Is match services.ErrDependency.
func (e *MissingError) Unwrap() error {
	return services.ErrDependency
}

// Require checks every requirement and returns a *MissingError naming each
// required executable that is unavailable. Optional requirements never fail.
func Require(requirements []Requirement) error {
	return missing(CheckBinaries(requirements))
}

// Missing converts a set of statuses into a *MissingError, or nil when every
// required dependency is available.
func Missing(statuses []Status) error {
	return missing(statuses)
}

func missing(statuses []Status) error {
	var absent []Status
	for _, status := range statuses {
		if status.Available || status.Optional {
			continue
		}
		absent = append(absent, status)
	}
	if len(absent) == 0 {
		return nil
	}
	return &MissingError{Missing: absent}
}
