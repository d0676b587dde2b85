/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

// Package templatepack bundles template descriptors into shareable zip
// archives. A pack is flat: descriptor files at the archive root plus a
// small manifest, mirroring the flat templates directory the catalog
// loads from.
package templatepack

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"carouselstudio/internal/catalog"
	applog "carouselstudio/internal/log"
)

// ManifestName is the informational text file written at the root of
// every pack. It is skipped on install.
const ManifestName = "templatepack.manifest.txt"

func isDescriptorName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// Export zips the descriptor files of templatesDir into a single pack.
// Only .yaml/.yml files are included; subdirectories are ignored, like
// the catalog loader does. The manifest lists each file with the
// template id parsed from it, or a note when a file does not parse.
func Export(templatesDir, destZipPath string) error {
	l := applog.WithOperation(applog.WithComponent("templatepack"), "export").With(slog.String("dir", templatesDir))
	if strings.TrimSpace(templatesDir) == "" {
		return errors.New("templates dir is required")
	}
	if strings.TrimSpace(destZipPath) == "" {
		return errors.New("destination zip path is required")
	}
	ents, err := os.ReadDir(templatesDir)
	if err != nil {
		return fmt.Errorf("read templates dir: %w", err)
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() || !isDescriptorName(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if err := os.MkdirAll(filepath.Dir(destZipPath), 0o755); err != nil {
		return fmt.Errorf("ensure zip dir: %w", err)
	}
	// On Windows, remove destination if present before create
	_ = os.Remove(destZipPath)
	zf, err := os.Create(destZipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = zf.Close() }()
	zw := zip.NewWriter(zf)

	var manifest strings.Builder
	fmt.Fprintf(&manifest, "Carousel Studio Template Pack\nCreated: %s\nSource: %s\n\n", time.Now().Format(time.RFC3339), templatesDir)
	added := 0
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(templatesDir, name))
		if err != nil {
			_ = zw.Close()
			return fmt.Errorf("read descriptor %s: %w", name, err)
		}
		if t, perr := catalog.ParseDescriptor(data); perr != nil {
			fmt.Fprintf(&manifest, "%s: not a valid descriptor (%v)\n", name, perr)
		} else {
			fmt.Fprintf(&manifest, "%s: template %q (%s)\n", name, t.ID, t.Name)
		}
		fw, err := zw.Create(name)
		if err != nil {
			_ = zw.Close()
			return fmt.Errorf("add %s: %w", name, err)
		}
		if _, err := fw.Write(data); err != nil {
			_ = zw.Close()
			return fmt.Errorf("write %s: %w", name, err)
		}
		added++
	}
	mw, err := zw.Create(ManifestName)
	if err != nil {
		_ = zw.Close()
		return fmt.Errorf("add manifest: %w", err)
	}
	if _, err := io.WriteString(mw, manifest.String()); err != nil {
		_ = zw.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish zip: %w", err)
	}
	l.Info("template pack exported", slog.Int("files", added), slog.String("zip", destZipPath))
	return nil
}

// Install extracts the descriptors of a pack into templatesDir, which is
// created when missing. Entries are flattened to their base name, so a
// crafted archive cannot write outside the directory. Files that already
// exist are kept; entries that do not parse as a template descriptor are
// skipped. Returns the number of descriptors installed.
func Install(templatesDir, packZipPath string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("templatepack"), "install").With(slog.String("dir", templatesDir))
	if strings.TrimSpace(templatesDir) == "" {
		return 0, errors.New("templates dir is required")
	}
	if strings.TrimSpace(packZipPath) == "" {
		return 0, errors.New("pack zip path is required")
	}
	if err := os.MkdirAll(templatesDir, 0o755); err != nil {
		return 0, fmt.Errorf("ensure templates dir: %w", err)
	}
	r, err := zip.OpenReader(packZipPath)
	if err != nil {
		return 0, fmt.Errorf("open pack: %w", err)
	}
	defer func() { _ = r.Close() }()

	installed := 0
	for _, f := range r.File {
		name := path.Base(f.Name)
		if f.FileInfo().IsDir() || name == ManifestName || !isDescriptorName(name) {
			continue
		}
		target := filepath.Join(templatesDir, name)
		if _, err := os.Stat(target); err == nil {
			l.Warn("skip existing descriptor", slog.String("file", name))
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return installed, fmt.Errorf("open %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return installed, fmt.Errorf("read %s: %w", f.Name, err)
		}
		if _, perr := catalog.ParseDescriptor(data); perr != nil {
			l.Warn("skip invalid descriptor", slog.String("file", name), slog.Any("err", perr))
			continue
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return installed, fmt.Errorf("write %s: %w", name, err)
		}
		installed++
	}
	l.Info("template pack installed", slog.Int("files", installed))
	return installed, nil
}
