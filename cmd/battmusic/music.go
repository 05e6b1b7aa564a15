package main

import (
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/battmusic/battmusic/pkg/config"
	"github.com/battmusic/battmusic/pkg/picker"
)

// NewMusicCommand .
func NewMusicCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "music",
		GroupID: gMusic,
		Short:   "Show the configured music file",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := openConfig()
			if err != nil {
				return err
			}
			p := file.MusicFilePath()
			if p == "" {
				return pkgerrors.Wrapf(config.ErrNoMusicFile, "nothing stored in %s", file.Path())
			}
			cmd.Println(p)
			if err := config.CheckMusicFile(p); err != nil {
				logrus.WithError(err).Warn("stored music file is not usable")
			}
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set PATH",
			Short: "Store the music file to play",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				p, err := filepath.Abs(args[0])
				if err != nil {
					return pkgerrors.Wrapf(err, "invalid music path %s", args[0])
				}
				return saveMusicFile(p)
			},
		},
		&cobra.Command{
			Use:   "pick",
			Short: "Choose the music file with a file dialog",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				p, err := picker.Select()
				if err != nil {
					return pkgerrors.Wrapf(config.ErrNoMusicFile, "no music file selected: %v", err)
				}
				return saveMusicFile(p)
			},
		},
	)

	return cmd
}

func saveMusicFile(p string) error {
	if err := config.CheckMusicFile(p); err != nil {
		return err
	}

	file, err := openConfig()
	if err != nil {
		return err
	}
	file.SetMusicFilePath(p)
	if err := file.Save(); err != nil {
		return pkgerrors.Wrapf(err, "failed to save music config")
	}

	logrus.WithFields(logrus.Fields{
		"path":   p,
		"config": file.Path(),
	}).Info("music file saved")
	return nil
}
