package main

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/logger"
	"github.com/Faultbox/scenekit/pkg/grf"
)

func cmdList(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	limit := fs.Int("n", 0, "Limit output to N files (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		return errUsage
	}

	archive, err := grf.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer archive.Close()

	files := archive.List()
	if fs.NArg() == 2 {
		if files, err = archive.Glob(fs.Arg(1)); err != nil {
			return err
		}
	}

	for i, f := range files {
		if *limit > 0 && i >= *limit {
			fmt.Fprintf(stderr, "(showing first %d of %d files)\n", *limit, len(files))
			break
		}
		fmt.Fprintln(stdout, f)
	}
	return nil
}

func cmdExtract(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 || fs.NArg() > 3 {
		return errUsage
	}

	outputDir := "."
	if fs.NArg() == 3 {
		outputDir = fs.Arg(2)
	}

	archive, err := grf.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer archive.Close()

	pattern := fs.Arg(1)
	var files []string
	if strings.ContainsAny(pattern, "*?[") {
		if files, err = archive.Glob(pattern); err != nil {
			return err
		}
	} else {
		files = []string{pattern}
	}

	for _, f := range files {
		data, err := archive.Read(f)
		if err != nil {
			return err
		}

		// Archive paths are relative; refuse anything escaping outputDir.
		rel := filepath.FromSlash(strings.ReplaceAll(f, "\\", "/"))
		if !filepath.IsLocal(rel) {
			return fmt.Errorf("refusing to extract %q outside %s", f, outputDir)
		}
		outputPath := filepath.Join(outputDir, rel)
		if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outputPath, err)
		}
		logger.Debug("extracted", zap.String("file", f), zap.Int("bytes", len(data)))
		fmt.Fprintf(stdout, "Extracted: %s (%d bytes)\n", outputPath, len(data))
	}

	fmt.Fprintf(stderr, "Extracted %d files\n", len(files))
	return nil
}

func cmdPack(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("pack", flag.ContinueOnError)
	flags.SetOutput(stderr)
	base := flags.String("C", "", "Store names relative to this directory")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() < 2 {
		return errUsage
	}

	w, err := grf.Create(flags.Arg(0))
	if err != nil {
		return err
	}

	add := func(path string) error {
		name := path
		if *base != "" {
			rel, err := filepath.Rel(*base, path)
			if err != nil {
				return err
			}
			name = rel
		}
		if err := w.AddFile(filepath.ToSlash(name), path); err != nil {
			return err
		}
		fmt.Fprintln(stdout, filepath.ToSlash(name))
		return nil
	}

	for _, arg := range flags.Args()[1:] {
		path := arg
		if *base != "" && !filepath.IsAbs(path) {
			path = filepath.Join(*base, path)
		}
		err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			return add(p)
		})
		if err != nil {
			w.Close()
			return fmt.Errorf("packing %s: %w", arg, err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}
	logger.Info("archive written", zap.String("path", flags.Arg(0)), zap.Int("files", w.Len()))
	fmt.Fprintf(stderr, "Packed %d files into %s\n", w.Len(), flags.Arg(0))
	return nil
}
