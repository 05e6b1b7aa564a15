package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	appDirName     = "battmusic"
	configFileName = "music_config.txt"
)

// File stores the music file path as a single line of plain text.
type File struct {
	musicFilePath string
	mu            *sync.RWMutex
	filepath      string
}

// DefaultPath returns <UserConfigDir>/battmusic/music_config.txt.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", pkgerrors.Wrapf(homeErr, "failed to locate config dir")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appDirName, configFileName), nil
}

// NewFile returns a File backed by configPath and loads it.
// A missing or empty file is not an error.
func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func (f *File) Path() string {
	return f.filepath
}

// MusicFilePath returns the stored path, or "" if nothing is stored.
func (f *File) MusicFilePath() string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.musicFilePath
}

func (f *File) SetMusicFilePath(p string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.musicFilePath = p
}

// UsableMusicFilePath returns the stored path if it still points to a
// regular file. Otherwise it returns an error wrapping ErrNoMusicFile.
func (f *File) UsableMusicFilePath() (string, error) {
	p := f.MusicFilePath()
	if err := CheckMusicFile(p); err != nil {
		return "", err
	}
	return p, nil
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			f.musicFilePath = ""
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	f.musicFilePath = strings.TrimSpace(string(b))

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.musicFilePath == "" {
		return pkgerrors.Wrapf(ErrNoMusicFile, "refusing to save empty music path")
	}

	err := os.MkdirAll(filepath.Dir(f.filepath), 0o755)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to create config dir for %s", f.filepath)
	}

	err = os.WriteFile(f.filepath, []byte(f.musicFilePath+"\n"), 0o644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to write file %s", f.filepath)
	}

	return nil
}

// CheckMusicFile verifies that p is an absolute path to an existing regular file.
func CheckMusicFile(p string) error {
	if p == "" {
		return ErrNoMusicFile
	}
	if !filepath.IsAbs(p) {
		return pkgerrors.Wrapf(ErrNoMusicFile, "music path %q is not absolute", p)
	}
	st, err := os.Stat(p)
	if err != nil {
		return pkgerrors.Wrapf(ErrNoMusicFile, "music file %s: %v", p, err)
	}
	if st.IsDir() {
		return pkgerrors.Wrapf(ErrNoMusicFile, "music path %s is a directory", p)
	}
	return nil
}
