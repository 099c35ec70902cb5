package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"easyapp_server/config"
	"easyapp_server/internal/build"
	"easyapp_server/internal/materialize"
	"easyapp_server/internal/packager"
	"easyapp_server/internal/store"
	"easyapp_server/internal/types"
)

type generateOptions struct {
	name        string
	description string
	iconPath    string
	adID        string
	refs        []string
	out         string
	outDir      string
}

var genOpts generateOptions

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate project files once and write the zip archive",
	Example: `  easyapp generate --name "Recipe Box" --description "Save and tag recipes" \
    --icon icon.png --ad-id ca-app-pub-3940256099942544~3347511713 --ref notes.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		return runGenerate(cmd.Context(), build.NewService(newGenerator(cfg)), genOpts, cmd.OutOrStdout())
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genOpts.name, "name", "", "app name")
	f.StringVar(&genOpts.description, "description", "", "feature description")
	f.StringVar(&genOpts.iconPath, "icon", "", "path to the app icon image")
	f.StringVar(&genOpts.adID, "ad-id", "", "AdMob app ID")
	f.StringArrayVar(&genOpts.refs, "ref", nil, "reference file to include in the prompt (repeatable)")
	f.StringVarP(&genOpts.out, "out", "o", "", "archive path (default <app_name>.zip)")
	f.StringVar(&genOpts.outDir, "out-dir", "", "also write the files unpacked into this directory")
}

func runGenerate(ctx context.Context, svc *build.Service, opts generateOptions, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	input := build.Input{
		AppName:            opts.name,
		FeatureDescription: opts.description,
		AdIdentifier:       opts.adID,
	}
	if opts.iconPath != "" {
		icon := materialize.FromPath(opts.iconPath)
		input.Icon = &icon
	}
	for _, ref := range opts.refs {
		input.References = append(input.References, materialize.FromPath(ref))
	}

	files, err := svc.Run(ctx, store.New(), input)
	if err != nil {
		return err
	}

	out := opts.out
	if out == "" {
		out = packager.ArchiveFileName(opts.name)
	}
	if err := writeArchiveFile(out, files); err != nil {
		return err
	}
	log.Printf("Wrote archive %s", out)
	fmt.Fprintln(stdout, out)

	if opts.outDir != "" {
		n, err := packager.WriteDir(opts.outDir, files)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s (%d files)\n", opts.outDir, n)
	}
	return nil
}

// writeArchiveFile writes to a temporary sibling first so a failed write leaves no partial zip.
func writeArchiveFile(path string, files types.ProjectFiles) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".easyapp-*.zip")
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := packager.WriteArchive(tmp, files); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move archive into place: %w", err)
	}
	return nil
}
