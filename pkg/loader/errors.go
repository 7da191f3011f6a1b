package loader

import "fmt"

type (
	// DirectoryLayoutError indicates that the upgrade directory contains a
	// subdirectory. Upgrade directories must be flat.
	DirectoryLayoutError struct {
		// Path is the offending subdirectory.
		Path string
	}

	// FileNamingError indicates an upgrade file whose name does not start
	// with a parsable decimal file id.
	FileNamingError struct {
		// Name is the offending file name.
		Name string
	}

	// FileSequenceError indicates that the set of file ids in the directory
	// is not exactly {0..N-1}: either an id appears twice or one is missing.
	FileSequenceError struct {
		// Name is the file at which the sequence broke.
		Name string

		// Expected is the file id that should have appeared at this position.
		Expected int

		// Found is the file id that actually appeared.
		Found int
	}

	// StepHeaderError indicates a malformed step header line, or SQL content
	// that precedes the first header of a file.
	StepHeaderError struct {
		// File is the file containing the bad line.
		File string

		// Line is the offending line, verbatim.
		Line string
	}

	// StepSequenceError indicates that step ids within a file do not form
	// the dense sequence {0..M-1}.
	StepSequenceError struct {
		// File is the file in which the sequence broke.
		File string

		// Expected is the step id that should have appeared next.
		Expected int

		// Found is the step id that actually appeared.
		Found int
	}
)

func (e *DirectoryLayoutError) Error() string {
	return fmt.Sprintf("nested directory found: %s", e.Path)
}

func (e *FileNamingError) Error() string {
	return fmt.Sprintf("file name must start with a number: %s", e.Name)
}

func (e *FileSequenceError) Error() string {
	if e.Found < e.Expected {
		return fmt.Sprintf("duplicate file id %d: %s", e.Found, e.Name)
	}
	return fmt.Sprintf("missing file id %d: found %d at %s", e.Expected, e.Found, e.Name)
}

func (e *StepHeaderError) Error() string {
	return fmt.Sprintf("invalid step header in %s: %q", e.File, e.Line)
}

func (e *StepSequenceError) Error() string {
	return fmt.Sprintf("invalid step sequence in %s: expected id %d, found %d", e.File, e.Expected, e.Found)
}
