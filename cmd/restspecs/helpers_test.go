// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/restspecs/restspecs/internal/config"
	"github.com/restspecs/restspecs/pkg/types"

	"github.com/spf13/cobra"
)

type (
	stubConfigProvider struct {
		cfg *config.Config
		err error
	}

	// syncBuffer is a bytes.Buffer safe for the watch goroutine and the test.
	syncBuffer struct {
		mu  sync.Mutex
		buf bytes.Buffer
	}

	cliRun struct {
		stdout *syncBuffer
		stderr *syncBuffer
		err    error
	}
)

func (p *stubConfigProvider) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.cfg == nil {
		return config.DefaultConfig(), nil
	}
	cfg := *p.cfg
	return &cfg, nil
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newCLI builds a root command whose App writes into the returned buffers.
func newCLI(t *testing.T, provider ConfigProvider, args ...string) (*cobra.Command, *syncBuffer, *syncBuffer) {
	t.Helper()

	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	app, err := NewApp(Dependencies{
		Config: provider,
		Stdout: stdout,
		Stderr: stderr,
	})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}

	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root, stdout, stderr
}

// runCLI executes the root command with args against provider.
func runCLI(t *testing.T, provider ConfigProvider, args ...string) cliRun {
	t.Helper()

	root, stdout, stderr := newCLI(t, provider, args...)
	return cliRun{stdout: stdout, stderr: stderr, err: root.ExecuteContext(t.Context())}
}

func exitCode(t *testing.T, err error) types.ExitCode {
	t.Helper()
	if err == nil {
		return types.ExitSuccess
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error %v (%T) is not an *ExitError", err, err)
	}
	return exitErr.Code
}
