// SPDX-License-Identifier: MPL-2.0

// Package cueutil checks restspecs.cue documents against the embedded schema.
//
//	schema, err := cueutil.CompileSchema(src, "#Config")
//	var raw map[string]any
//	err = schema.Decode(data, &raw,
//	    cueutil.WithFilename("restspecs.cue"),
//	    cueutil.AllowIncomplete(),
//	)
//
// Document errors come back as *FileError, one Problem per offending field.
package cueutil
