// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Schema is a compiled CUE definition that user documents are checked against.
// A Schema is not safe for concurrent use.
type Schema struct {
	ctx  *cue.Context
	def  cue.Value
	name string
}

// CompileSchema compiles src and selects the definition named by def,
// for example "#Config". Failures here are programming errors in the
// embedded schema, not user mistakes.
func CompileSchema(src, def string) (*Schema, error) {
	ctx := cuecontext.New()

	root := ctx.CompileString(src, cue.Filename("schema.cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("internal error: compile schema: %w", err)
	}

	v := root.LookupPath(cue.ParsePath(def))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", def, err)
	}

	return &Schema{ctx: ctx, def: v, name: def}, nil
}

// Name returns the definition the schema was compiled from.
func (s *Schema) Name() string {
	return s.name
}

// Decode compiles data, unifies it with the schema and decodes the result
// into dst, which must be a pointer. User errors are returned as *FileError.
func (s *Schema) Decode(data []byte, dst any, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if int64(len(data)) > o.maxFileSize {
		return &FileError{
			File: o.filename,
			Problems: []Problem{{
				Message: fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", len(data), o.maxFileSize),
			}},
		}
	}

	doc := s.ctx.CompileBytes(data, cue.Filename(o.filename))
	if err := doc.Err(); err != nil {
		return newFileError(o.filename, err)
	}

	unified := s.def.Unify(doc)

	var validateOpts []cue.Option
	if !o.allowIncomplete {
		validateOpts = append(validateOpts, cue.Concrete(true))
	}
	if err := unified.Validate(validateOpts...); err != nil {
		return newFileError(o.filename, err)
	}

	if err := unified.Decode(dst); err != nil {
		return newFileError(o.filename, err)
	}
	return nil
}
