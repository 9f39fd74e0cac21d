// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/restspecs/restspecs/internal/issue"
	"github.com/restspecs/restspecs/pkg/cueutil"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "restspecs"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "restspecs"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. RESTSPECS_NAMESPACE.
	EnvPrefix = "RESTSPECS"
)

// ErrConfigExists is returned by WriteDefault when the target file already exists.
var ErrConfigExists = errors.New("config file already exists")

//go:embed config_schema.cue
var configSchema string

// ResolvePath returns the config file Load would read, or "" when defaults
// apply. A ConfigFilePath that does not exist is an error.
func ResolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		path := string(opts.ConfigFilePath)
		if !fileExists(path) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'restspecs config init' to create one").
				Wrap(fmt.Errorf("config file not found: %s", path)).
				BuildError()
		}
		return path, nil
	}

	local := filepath.Join(string(opts.BaseDir), ConfigFileName+"."+ConfigFileExt)
	if fileExists(local) {
		return local, nil
	}
	return "", nil
}

// loadWithOptions performs option-driven config loading and returns the
// config together with the file it came from ("" for defaults only).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("source_roots", defaults.SourceRoots)
	v.SetDefault("destination", defaults.Destination)
	v.SetDefault("namespace", defaults.Namespace)
	v.SetDefault("exclude", defaults.Exclude)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := ResolvePath(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("See 'restspecs config dump' for a complete example").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Namespaces are dot-separated directory names such as com.foo").
			WithSuggestion("Durations use Go syntax such as 500ms or 2s").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into
// Viper as a map, so defaults and environment overrides still apply. Every
// schema field is optional, hence AllowIncomplete.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	schema, err := cueutil.CompileSchema(configSchema, "#Config")
	if err != nil {
		return err
	}

	var raw map[string]any
	if err := schema.Decode(data, &raw,
		cueutil.WithFilename(path),
		cueutil.AllowIncomplete(),
	); err != nil {
		return err
	}

	if err := v.MergeConfigMap(raw); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	return err == nil && !info.IsDir()
}

// WriteDefault writes the default configuration to path. It refuses to
// replace an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// restspecs configuration\n")
	sb.WriteString("// Values here are overridden by RESTSPECS_* environment variables and CLI flags.\n\n")

	writeList(&sb, "source_roots", cfg.SourceRoots)
	sb.WriteString(fmt.Sprintf("destination: %q\n", cfg.Destination))
	if cfg.Namespace != "" {
		sb.WriteString(fmt.Sprintf("namespace: %q\n", cfg.Namespace))
	} else {
		sb.WriteString("// namespace: \"com.example\"\n")
	}
	writeList(&sb, "exclude", cfg.Exclude)
	sb.WriteString(fmt.Sprintf("verbose: %v\n", cfg.Verbose))

	debounce := cfg.Watch.Debounce
	if debounce == "" {
		debounce = DefaultDebounce
	}
	sb.WriteString("\nwatch: {\n")
	sb.WriteString(fmt.Sprintf("\tdebounce: %q\n", debounce))
	sb.WriteString("}\n")

	return sb.String()
}

func writeList(sb *strings.Builder, key string, values []string) {
	if len(values) == 0 {
		sb.WriteString(fmt.Sprintf("%s: []\n", key))
		return
	}
	sb.WriteString(fmt.Sprintf("%s: [\n", key))
	for _, val := range values {
		sb.WriteString(fmt.Sprintf("\t%q,\n", val))
	}
	sb.WriteString("]\n")
}
