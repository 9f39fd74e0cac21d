// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue/errors"
)

type (
	// Problem is one complaint about a document, located by JSON path.
	Problem struct {
		Path    string
		Message string
	}

	// FileError reports every problem found in a single document.
	FileError struct {
		File     string
		Problems []Problem
		cause    error
	}
)

// Error renders as "<file>: <path>: <message>", or as an indented list when
// more than one problem was found.
func (e *FileError) Error() string {
	lines := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		if p.Path == "" {
			lines = append(lines, p.Message)
			continue
		}
		lines = append(lines, p.Path+": "+p.Message)
	}

	switch len(lines) {
	case 0:
		return e.File + ": invalid document"
	case 1:
		return e.File + ": " + lines[0]
	default:
		return fmt.Sprintf("%s: validation failed:\n  %s", e.File, strings.Join(lines, "\n  "))
	}
}

func (e *FileError) Unwrap() error {
	return e.cause
}

func newFileError(file string, err error) *FileError {
	fe := &FileError{File: file, cause: err}

	cueErrs := errors.Errors(err)
	if len(cueErrs) == 0 {
		fe.Problems = []Problem{{Message: err.Error()}}
		return fe
	}

	for _, ce := range cueErrs {
		path := jsonPath(errors.Path(ce))
		msg := ce.Error()
		// CUE may prefix the message with the path it already reported.
		if path != "" {
			if rest, ok := strings.CutPrefix(msg, path); ok {
				msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
			}
		}
		fe.Problems = append(fe.Problems, Problem{Path: path, Message: msg})
	}
	return fe
}

// jsonPath renders ["source_roots", "1"] as "source_roots[1]".
func jsonPath(selectors []string) string {
	var b strings.Builder
	for i, sel := range selectors {
		if _, err := strconv.ParseUint(sel, 10, 64); err == nil && i > 0 {
			b.WriteString("[" + sel + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(sel)
	}
	return b.String()
}
