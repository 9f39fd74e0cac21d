// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize caps the size of a decoded document (5MB).
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

type (
	decodeOptions struct {
		maxFileSize     int64
		allowIncomplete bool
		filename        string
	}

	// Option configures Schema.Decode.
	Option func(*decodeOptions)
)

func defaultOptions() decodeOptions {
	return decodeOptions{
		maxFileSize: DefaultMaxFileSize,
		filename:    "<input>",
	}
}

// AllowIncomplete accepts documents that leave optional or defaulted fields
// unset. Configuration layered under Viper defaults needs this.
func AllowIncomplete() Option {
	return func(o *decodeOptions) {
		o.allowIncomplete = true
	}
}

// WithFilename sets the file name reported in errors.
func WithFilename(name string) Option {
	return func(o *decodeOptions) {
		if name != "" {
			o.filename = name
		}
	}
}
