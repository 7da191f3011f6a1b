package loader

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type (
	// Step is a single numbered SQL unit within an upgrade file. Steps are
	// identified by the (FileID, UpgraderID) pair; Description and Text are
	// the step's content, recorded in the ledger when the step is applied.
	Step struct {
		// FileID is the numeric prefix of the file the step came from.
		FileID int

		// UpgraderID is the step's number within its file.
		UpgraderID int

		// Description is the free text following the step header's colon.
		Description string

		// Text is the step's SQL body, trimmed of surrounding whitespace.
		Text string
	}

	// Sequence is the global ordering of all steps across all files, sorted
	// by (FileID, UpgraderID). This is the canonical apply order.
	Sequence []Step
)

// headerRe matches a step header line: "--- <id>: <description>".
var headerRe = regexp.MustCompile(`^--- (\d+): (.*)$`)

// Load reads all upgrade files from dir and returns the full ordered step
// sequence.
//
// Only immediate entries of dir are considered; a subdirectory is a
// DirectoryLayoutError. Files with a .sql or .ddl extension (any case) are
// parsed; hidden files and files with other extensions are ignored. Every
// parsed file must be named <id>_<anything> where the ids across the
// directory form the dense sequence {0..N-1}, and every step header sequence
// within a file must form {0..M-1}. Steps whose SQL body is empty after
// trimming are dropped from the result.
//
// Example:
//
//	seq, err := loader.Load("db/upgraders")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, step := range seq {
//		fmt.Printf("%d:%d %s\n", step.FileID, step.UpgraderID, step.Description)
//	}
func Load(dir string) (Sequence, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read upgrade directory: %s", dir)
	}

	type upgradeFile struct {
		id   int
		name string
	}

	var files []upgradeFile
	for _, entry := range entries {
		name := entry.Name()

		if entry.IsDir() {
			return nil, &DirectoryLayoutError{Path: filepath.Join(dir, name)}
		}

		if strings.HasPrefix(name, ".") {
			continue
		}

		switch strings.ToLower(filepath.Ext(name)) {
		case ".sql", ".ddl":
		default:
			continue
		}

		id, ok := fileID(name)
		if !ok {
			return nil, &FileNamingError{Name: name}
		}

		files = append(files, upgradeFile{id: id, name: name})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].id != files[j].id {
			return files[i].id < files[j].id
		}
		return files[i].name < files[j].name
	})

	for i, f := range files {
		if f.id != i {
			return nil, &FileSequenceError{Name: f.name, Expected: i, Found: f.id}
		}
	}

	var seq Sequence
	for _, f := range files {
		content, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read upgrade file: %s", f.name)
		}

		steps, err := parseFile(f.id, f.name, string(content))
		if err != nil {
			return nil, err
		}

		seq = append(seq, steps...)
	}

	return seq, nil
}

// fileID extracts the decimal prefix of an upgrade file name. The prefix
// must consist solely of digits and be terminated by an underscore.
func fileID(name string) (int, bool) {
	idx := strings.IndexByte(name, '_')
	if idx <= 0 {
		return 0, false
	}

	prefix := name[:idx]
	for _, r := range prefix {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	id, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, false
	}

	return id, true
}

// parseFile splits one file's text into steps. Every byte of SQL must belong
// to a numbered step: non-blank content before the first header is rejected.
func parseFile(id int, name, content string) ([]Step, error) {
	var (
		steps    []Step
		body     strings.Builder
		curID    = -1
		curDesc  string
		expected int
	)

	flush := func() {
		text := strings.TrimSpace(body.String())
		if curID >= 0 && text != "" {
			steps = append(steps, Step{
				FileID:      id,
				UpgraderID:  curID,
				Description: strings.TrimSpace(curDesc),
				Text:        text,
			})
		}
		body.Reset()
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if strings.HasPrefix(line, "--- ") {
			m := headerRe.FindStringSubmatch(line)
			if m == nil {
				return nil, &StepHeaderError{File: name, Line: line}
			}

			// Header ids are bounded by the file length, so Atoi cannot
			// overflow in practice; a failure still means a bad header.
			stepID, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, &StepHeaderError{File: name, Line: line}
			}

			if stepID != expected {
				return nil, &StepSequenceError{File: name, Expected: expected, Found: stepID}
			}

			flush()
			curID = stepID
			curDesc = m[2]
			expected++
			continue
		}

		if curID < 0 {
			if strings.TrimSpace(line) != "" {
				return nil, &StepHeaderError{File: name, Line: line}
			}
			continue
		}

		body.WriteString(line)
		body.WriteString("\n")
	}

	flush()
	return steps, nil
}
