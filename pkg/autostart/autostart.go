// Package autostart registers battmusic to start at login.
package autostart

import (
	"bytes"
	"embed"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	pkgerrors "github.com/pkg/errors"
)

const (
	AppName = "Battery Music Monitor"
	// Label is used for the LaunchAgent label and entry file names.
	Label = "com.battmusic.monitor"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"xml": xmlEscape,
	"bat": batchQuote,
}).ParseFS(templateFS, "templates/*.tmpl"))

// Entry describes what is started at login.
type Entry struct {
	// ExecPath is the absolute path of the battmusic binary.
	ExecPath string
	// Args are passed to the binary, e.g. "run".
	Args []string
}

// Manager installs and removes the login entry for the current user.
type Manager interface {
	Install(e Entry) error
	Uninstall() error
	IsInstalled() (bool, error)
	// Path is the file holding the entry.
	Path() string
	// StartsOnInstall reports whether Install also launches the entry.
	StartsOnInstall() bool
}

// CurrentExecutable returns the Entry for the running binary.
func CurrentExecutable(args ...string) (Entry, error) {
	exePath, err := os.Executable()
	if err != nil {
		return Entry{}, pkgerrors.Wrapf(err, "failed to get the path to the current executable")
	}
	exePath, err = filepath.Abs(exePath)
	if err != nil {
		return Entry{}, pkgerrors.Wrapf(err, "failed to get the absolute path to the current executable")
	}
	if resolved, err := filepath.EvalSymlinks(exePath); err == nil {
		exePath = resolved
	}
	return Entry{ExecPath: exePath, Args: args}, nil
}

func (e Entry) validate() error {
	if e.ExecPath == "" {
		return pkgerrors.New("exec path is empty")
	}
	if !filepath.IsAbs(e.ExecPath) {
		return pkgerrors.Errorf("exec path %s is not absolute", e.ExecPath)
	}
	return nil
}

func render(name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to render %s", name)
	}
	return buf.Bytes(), nil
}

// RenderDesktopEntry renders an XDG autostart entry.
func RenderDesktopEntry(e Entry) ([]byte, error) {
	return render("battmusic.desktop.tmpl", struct {
		Name string
		Exec string
	}{
		Name: AppName,
		Exec: desktopExec(e),
	})
}

// RenderLaunchAgent renders a per-user launchd plist.
func RenderLaunchAgent(e Entry) ([]byte, error) {
	return render("launchagent.plist.tmpl", struct {
		Label    string
		ExecPath string
		Args     []string
	}{
		Label:    Label,
		ExecPath: e.ExecPath,
		Args:     e.Args,
	})
}

// RenderStartupScript renders a batch file for the Windows Startup folder.
func RenderStartupScript(e Entry) ([]byte, error) {
	return render("startup.bat.tmpl", e)
}

// batchQuote quotes one argument of a batch file command line. Percent signs
// are doubled so cmd does not expand them.
func batchQuote(value string) string {
	return `"` + strings.ReplaceAll(value, "%", "%%") + `"`
}

// desktopExec builds the Exec value of a .desktop file, quoting
// arguments with spaces, quotes or backslashes.
func desktopExec(e Entry) string {
	parts := make([]string, 0, len(e.Args)+1)
	for _, a := range append([]string{e.ExecPath}, e.Args...) {
		if strings.ContainsAny(a, " \t\"\\") {
			a = `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(a) + `"`
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

func xmlEscape(value string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(value)
}

// fileManager writes a rendered entry to a fixed path.
type fileManager struct {
	path     string
	mode     os.FileMode
	render   func(Entry) ([]byte, error)
	afterAdd func(path string) error
	preRm    func(path string) error

	startsOnInstall bool
}

func (m *fileManager) Path() string {
	return m.path
}

func (m *fileManager) StartsOnInstall() bool {
	return m.startsOnInstall
}

func (m *fileManager) Install(e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}

	content, err := m.render(e)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(m.path), 0o755)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to create %s", filepath.Dir(m.path))
	}

	err = os.WriteFile(m.path, content, m.mode)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to write %s", m.path)
	}
	// WriteFile keeps the mode of an existing file.
	err = os.Chmod(m.path, m.mode)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to chmod %s", m.path)
	}

	if m.afterAdd != nil {
		return m.afterAdd(m.path)
	}
	return nil
}

func (m *fileManager) Uninstall() error {
	installed, err := m.IsInstalled()
	if err != nil {
		return err
	}
	// if the file doesn't exist, we don't need to remove it
	if !installed {
		return nil
	}

	if m.preRm != nil {
		if err := m.preRm(m.path); err != nil {
			return err
		}
	}

	err = os.Remove(m.path)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to remove %s", m.path)
	}
	return nil
}

func (m *fileManager) IsInstalled() (bool, error) {
	_, err := os.Stat(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, pkgerrors.Wrapf(err, "failed to stat %s", m.path)
	}
	return true, nil
}
