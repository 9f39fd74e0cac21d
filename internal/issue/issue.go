// SPDX-License-Identifier: MPL-2.0

package issue

import "github.com/charmbracelet/glamour"

// Id identifies a help page.
type Id int

const (
	NoSourceRootsId Id = iota + 1
	MissingNamespaceId
	InvalidNamespaceId
	MissingDestinationId
	SourceScanFailedId
	ManifestWriteFailedId
	ConfigLoadFailedId
)

// MarkdownMsg is the Markdown source of a help page.
type MarkdownMsg string

// Issue is a help page shown next to a failure of one class.
type Issue struct {
	id    Id
	mdMsg MarkdownMsg
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render returns the page rendered for a terminal with the given glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	noSourceRootsIssue = &Issue{
		id: NoSourceRootsId,
		mdMsg: `
# No source roots to watch!

Watch mode needs at least one directory that may contain ` + "`*.spec.json`" + `
files. Without ` + "`--watch`" + ` an empty manifest is written instead.

## Things you can try:
- Pass one or more roots on the command line:
~~~
$ restspecs generate --watch -s src/main/resources -s src/test/resources -n com.foo -d target/classes
~~~

- Or list them in ` + "`restspecs.cue`" + `:
~~~cue
source_roots: ["src/main/resources", "src/test/resources"]
~~~`,
	}

	missingNamespaceIssue = &Issue{
		id: MissingNamespaceId,
		mdMsg: `
# No namespace given!

The namespace decides both where the manifest is written and which
specifications end up in it.

## Things you can try:
- Pass it with ` + "`-n`" + `:
~~~
$ restspecs generate -n com.foo ...
~~~

- Or set it in ` + "`restspecs.cue`" + `:
~~~cue
namespace: "com.foo"
~~~`,
	}

	invalidNamespaceIssue = &Issue{
		id: InvalidNamespaceId,
		mdMsg: `
# Invalid namespace!

A namespace is a dotted identifier such as ` + "`com.foo`" + `. Every segment
becomes a directory, so segments must be non-empty and must not contain
path separators or characters like ` + "`: * ? \" < > |`" + `.

## Examples:
- ` + "`com.foo`" + ` writes ` + "`<dest>/com/foo/restspecs.rs`" + `
- ` + "`com..foo`" + `, ` + "`.com`" + ` and ` + "`com/foo`" + ` are rejected`,
	}

	missingDestinationIssue = &Issue{
		id: MissingDestinationId,
		mdMsg: `
# No destination directory!

The manifest is written below a destination root, usually the build output
directory that gets packaged.

## Things you can try:
- Pass it with ` + "`-d`" + `:
~~~
$ restspecs generate -d target/classes ...
~~~

- Or set ` + "`destination`" + ` in ` + "`restspecs.cue`" + ``,
	}

	sourceScanFailedIssue = &Issue{
		id: SourceScanFailedId,
		mdMsg: `
# Failed to scan a source root!

A directory below one of the source roots could not be read. Missing roots
are fine, but unreadable directories inside an existing root stop the run so
that no incomplete manifest is produced.

## Things you can try:
- Check the permissions of the directory named in the error
- Exclude the directory with ` + "`--exclude`" + ` if it holds no specifications`,
	}

	manifestWriteFailedIssue = &Issue{
		id: ManifestWriteFailedId,
		mdMsg: `
# Failed to write the manifest!

The namespace directory could not be created or ` + "`restspecs.rs`" + ` could not
be written. Any previous manifest was left untouched.

## Things you can try:
- Check that the destination directory is writable
- Check that no regular file sits where a namespace directory should be
- Check free disk space`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the restspecs configuration file.

## Configuration file lookup:
1. The file passed with ` + "`--config`" + `
2. ` + "`restspecs.cue`" + ` in the current directory

## Things you can try:
- Create a default configuration:
~~~
$ restspecs config init
~~~
- Check the configuration syntax

## Example configuration:
~~~cue
source_roots: ["src/main/resources"]
destination:  "target/classes"
namespace:    "com.foo"
~~~`,
	}

	issues = map[Id]*Issue{
		noSourceRootsIssue.Id():       noSourceRootsIssue,
		missingNamespaceIssue.Id():    missingNamespaceIssue,
		invalidNamespaceIssue.Id():    invalidNamespaceIssue,
		missingDestinationIssue.Id():  missingDestinationIssue,
		sourceScanFailedIssue.Id():    sourceScanFailedIssue,
		manifestWriteFailedIssue.Id(): manifestWriteFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
	}
)

func Get(id Id) *Issue {
	return issues[id]
}
