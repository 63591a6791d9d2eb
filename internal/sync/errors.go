package sync

import (
	"fmt"
	"strings"
)

// FileError is a failure on a single file of a project.
type FileError struct {
	FileName string
	Err      error
}

// Error implements the error interface.
func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.FileName, e.Err)
}

// Unwrap returns the underlying error.
func (e FileError) Unwrap() error {
	return e.Err
}

// ProjectError aggregates every file failure of one project. It is raised
// after all of the project's files have been attempted; writes that
// succeeded are kept.
type ProjectError struct {
	ProjectID string
	Project   string
	Files     []FileError
}

// Error implements the error interface.
func (e *ProjectError) Error() string {
	names := make([]string, len(e.Files))
	for i, f := range e.Files {
		names[i] = f.Error()
	}
	return fmt.Sprintf("project %q: %d file(s) failed: %s", e.Project, len(e.Files), strings.Join(names, "; "))
}

// Unwrap exposes the per-file causes.
func (e *ProjectError) Unwrap() []error {
	errs := make([]error, len(e.Files))
	for i, f := range e.Files {
		errs[i] = f.Err
	}
	return errs
}

// FailedFiles returns the names of the files that failed.
func (e *ProjectError) FailedFiles() []string {
	names := make([]string, len(e.Files))
	for i, f := range e.Files {
		names[i] = f.FileName
	}
	return names
}

// fileErrors collects file failures for one project.
type fileErrors struct {
	projectID string
	project   string
	files     []FileError
}

func (c *fileErrors) add(fileName string, err error) {
	c.files = append(c.files, FileError{FileName: fileName, Err: err})
}

// err returns a *ProjectError if any file failed, nil otherwise.
func (c *fileErrors) err() error {
	if len(c.files) == 0 {
		return nil
	}
	return &ProjectError{ProjectID: c.projectID, Project: c.project, Files: c.files}
}
