// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func allIds() []Id {
	return []Id{
		NoSourceRootsId,
		MissingNamespaceId,
		InvalidNamespaceId,
		MissingDestinationId,
		SourceScanFailedId,
		ManifestWriteFailedId,
		ConfigLoadFailedId,
	}
}

func stubRender(t *testing.T) {
	t.Helper()
	originalRender := render
	t.Cleanup(func() { render = originalRender })
	render = func(in string, stylePath string) (string, error) {
		return in, nil
	}
}

func TestId_Constants(t *testing.T) {
	seen := make(map[Id]bool)
	for _, id := range allIds() {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	// Verify IDs start at 1 (iota + 1)
	if NoSourceRootsId != 1 {
		t.Errorf("NoSourceRootsId = %d, want 1", NoSourceRootsId)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{NoSourceRootsId, false, "No source roots"},
		{MissingNamespaceId, false, "No namespace given"},
		{InvalidNamespaceId, false, "Invalid namespace"},
		{MissingDestinationId, false, "No destination directory"},
		{SourceScanFailedId, false, "Failed to scan a source root"},
		{ManifestWriteFailedId, false, "Failed to write the manifest"},
		{ConfigLoadFailedId, false, "Failed to load configuration"},
		{Id(9999), true, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			issue := Get(tt.id)

			if tt.wantNil {
				if issue != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}

			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if issue.Id() != tt.id {
				t.Errorf("Get(%d).Id() = %d", tt.id, issue.Id())
			}
			if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain '%s'", tt.id, tt.contains)
			}
		})
	}
}

func TestIssues_CoverEveryId(t *testing.T) {
	if len(issues) != len(allIds()) {
		t.Fatalf("issues has %d entries, want %d", len(issues), len(allIds()))
	}
	for id, issue := range issues {
		if issue.Id() != id {
			t.Errorf("issues[%d] holds issue %d", id, issue.Id())
		}
	}
}

func TestIssue_RenderPassesStyle(t *testing.T) {
	originalRender := render
	t.Cleanup(func() { render = originalRender })

	var gotStyle string
	render = func(in string, stylePath string) (string, error) {
		gotStyle = stylePath
		return in, nil
	}

	rendered, err := Get(ManifestWriteFailedId).Render("dark")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if gotStyle != "dark" {
		t.Errorf("style = %q, want %q", gotStyle, "dark")
	}
	if rendered != string(Get(ManifestWriteFailedId).MarkdownMsg()) {
		t.Error("Render() should render exactly the page Markdown")
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	stubRender(t)

	for _, id := range allIds() {
		issue := Get(id)
		if issue.MarkdownMsg() == "" {
			t.Errorf("Issue %d has empty MarkdownMsg", issue.Id())
		}
		rendered, err := issue.Render("")
		if err != nil {
			t.Errorf("Issue %d failed to render: %v", issue.Id(), err)
		}
		if rendered == "" {
			t.Errorf("Issue %d rendered to empty string", issue.Id())
		}
	}
}

func TestAllIssuesRenderWithGlamour(t *testing.T) {
	for _, id := range allIds() {
		issue := Get(id)
		rendered, err := issue.Render("notty")
		if err != nil {
			t.Errorf("Issue %d failed to render with glamour: %v", issue.Id(), err)
			continue
		}
		if strings.TrimSpace(rendered) == "" {
			t.Errorf("Issue %d rendered to blank output", issue.Id())
		}
	}
}
