// Package picker asks the user for the music file, with a native file
// dialog when one is available and a terminal prompt otherwise.
package picker

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ncruces/zenity"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/battmusic/battmusic/pkg/config"
)

// ErrCanceled is returned when the user dismisses the picker without
// choosing a file.
var ErrCanceled = pkgerrors.New("no music file selected")

// Extensions offered by the picker.
var Extensions = []string{"*.mp3", "*.wav", "*.ogg", "*.flac", "*.aac", "*.m4a"}

var (
	selectFile = func() (string, error) {
		return zenity.SelectFile(
			zenity.Title("Select Music File"),
			zenity.FileFilters{
				{Name: "Audio Files", Patterns: Extensions, CaseFold: true},
				{Name: "MP3 Files", Patterns: []string{"*.mp3"}, CaseFold: true},
				{Name: "WAV Files", Patterns: []string{"*.wav"}, CaseFold: true},
				{Name: "All Files", Patterns: []string{"*"}},
			},
		)
	}
	stdinIsTerminal = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd()))
	}
)

// Select shows the file dialog. If no dialog can be shown and stdin is a
// terminal, it falls back to Prompt.
func Select() (string, error) {
	p, err := selectFile()
	if err == nil {
		return filepath.Clean(p), nil
	}
	if pkgerrors.Is(err, zenity.ErrCanceled) {
		return "", ErrCanceled
	}

	logrus.WithError(err).Debug("file dialog unavailable")
	if !stdinIsTerminal() {
		return "", pkgerrors.Wrapf(ErrCanceled, "no file dialog and no terminal to ask on: %v", err)
	}

	return Prompt(os.Stdin, os.Stderr)
}

// Prompt reads a path from r until it names an existing file. An empty
// line or EOF cancels.
func Prompt(r io.Reader, w io.Writer) (string, error) {
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprintf(w, "Path to music file (%s), empty to cancel: ", strings.Join(Extensions, " "))
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", pkgerrors.Wrapf(err, "failed to read answer")
			}
			return "", ErrCanceled
		}

		answer := strings.Trim(strings.TrimSpace(scanner.Text()), `"'`)
		if answer == "" {
			return "", ErrCanceled
		}

		p, err := filepath.Abs(expandHome(answer))
		if err != nil {
			fmt.Fprintf(w, "Invalid path: %v\n", err)
			continue
		}
		if err := config.CheckMusicFile(p); err != nil {
			fmt.Fprintf(w, "Not a usable file: %v\n", err)
			continue
		}
		return p, nil
	}
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
