// Package shell renders the setup scripts that splice upstack into a
// user's shell startup. Three dialects are produced: csh, sh and zsh. The
// sh and zsh scripts come from one shared template so the path logic is
// never duplicated per dialect; only dialect-specific lines differ.
package shell

import (
	"embed"
	"strings"
	"text/template"
	"time"

	"github.com/upstack-sh/upstack/pkg/errors"
	"github.com/upstack-sh/upstack/pkg/pathlist"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Script names one generated setup script.
type Script struct {
	Shell    string
	FileName string
}

// Scripts returns the scripts a generation run produces, in the order
// they are written.
func Scripts() []Script {
	return []Script{
		{Shell: "csh", FileName: "setups.csh"},
		{Shell: "sh", FileName: "setups.sh"},
		{Shell: "zsh", FileName: "setups.zsh"},
	}
}

// Params carries everything the setup-script templates need.
type Params struct {
	// InstallDir is where upstack is installed and where the scripts land.
	InstallDir string

	// PathEntries is the deduplicated search path the scripts export,
	// with the install bin directory guaranteed present.
	PathEntries []string

	// SetupAlias and UnsetupAlias name the commands the scripts define.
	SetupAlias   string
	UnsetupAlias string

	// GeneratedAt stamps the scripts; defaults to now.
	GeneratedAt string

	// ToolVersion is recorded in the script header.
	ToolVersion string
}

// templateData is Params plus the dialect being rendered.
type templateData struct {
	Params
	Shell      string
	PathString string
}

// Render produces the setup script for one shell dialect.
func Render(shellName string, p Params) (string, error) {
	var name string
	switch shellName {
	case "csh":
		name = "setups.csh.tmpl"
	case "sh", "zsh":
		name = "setups.sh.tmpl"
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown shell dialect %q", shellName)
	}

	if p.GeneratedAt == "" {
		p.GeneratedAt = Timestamp(time.Now())
	}

	data := templateData{
		Params:     p,
		Shell:      shellName,
		PathString: pathlist.Join(p.PathEntries),
	}

	var buf strings.Builder
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal, "cannot render %s setup script", shellName)
	}
	return buf.String(), nil
}

// Timestamp formats a script-header timestamp with time zone.
func Timestamp(t time.Time) string {
	return t.Format("2006/01/02 15:04:05 MST")
}
