/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package templatepack

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"carouselstudio/internal/catalog"
)

const launchDescriptor = `id: launch-light
name: Launch Light
style: minimalist
slides:
  - background: "#FFFFFF"
    elements:
      - type: text
        x: 60
        y: 80
        width: 492
        height: 120
        text: Launch day
        font_size: 44
`

const recapDescriptor = `id: weekly-recap
name: Weekly Recap
style: data
slides:
  - background: "#0B1020"
  - background: "#101828"
`

func TestExportAndInstallRoundTrip(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "launch.yaml"), []byte(launchDescriptor), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "recap.yml"), []byte(recapDescriptor), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}
	// Non-descriptor files stay out of the pack.
	if err := os.WriteFile(filepath.Join(src, "notes.txt"), []byte("scratch"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}

	zipPath := filepath.Join(t.TempDir(), "brand.zip")
	if err := Export(src, zipPath); err != nil {
		t.Fatalf("export pack: %v", err)
	}

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	names := map[string]bool{}
	var manifest string
	for _, f := range r.File {
		names[f.Name] = true
		if f.Name == ManifestName {
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("open manifest: %v", err)
			}
			b, err := io.ReadAll(rc)
			_ = rc.Close()
			if err != nil {
				t.Fatalf("read manifest: %v", err)
			}
			manifest = string(b)
		}
	}
	_ = r.Close()
	if !names["launch.yaml"] || !names["recap.yml"] {
		t.Fatalf("descriptors missing from pack: %v", names)
	}
	if names["notes.txt"] {
		t.Fatalf("stray file ended up in pack")
	}
	if !strings.Contains(manifest, `"launch-light"`) || !strings.Contains(manifest, `"weekly-recap"`) {
		t.Fatalf("manifest should list template ids, got:\n%s", manifest)
	}

	dest := t.TempDir()
	installed, err := Install(dest, zipPath)
	if err != nil {
		t.Fatalf("install pack: %v", err)
	}
	if installed != 2 {
		t.Fatalf("installed = %d, want 2", installed)
	}

	// The catalog must pick up the installed descriptors.
	c := catalog.New()
	n, err := c.LoadDir(dest)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if n != 2 {
		t.Fatalf("catalog loaded %d templates, want 2", n)
	}
	if _, ok := c.Get("launch-light"); !ok {
		t.Fatalf("launch-light not loaded after install")
	}
	if _, ok := c.Get("weekly-recap"); !ok {
		t.Fatalf("weekly-recap not loaded after install")
	}
}

func TestExport_ErrorArgsAndEmptyDir(t *testing.T) {
	if err := Export("", ""); err == nil {
		t.Fatalf("expected error on empty args")
	}
	src := t.TempDir() // no descriptors
	zipPath := filepath.Join(t.TempDir(), "empty.zip")
	if err := Export(src, zipPath); err != nil {
		t.Fatalf("export empty dir: %v", err)
	}
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer r.Close()
	if len(r.File) != 1 || r.File[0].Name != ManifestName {
		t.Fatalf("empty pack should hold only the manifest, got %d entries", len(r.File))
	}
}
