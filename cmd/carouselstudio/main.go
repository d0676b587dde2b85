/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"carouselstudio/internal/backend"
	"carouselstudio/internal/catalog"
	"carouselstudio/internal/config"
	"carouselstudio/internal/crash"
	"carouselstudio/internal/domain"
	"carouselstudio/internal/editor"
	"carouselstudio/internal/export"
	applog "carouselstudio/internal/log"
	"carouselstudio/internal/outline"
	"carouselstudio/internal/storage"
	"carouselstudio/internal/telemetry"
	"carouselstudio/internal/templatepack"
	"carouselstudio/internal/version"
)

func usage() {
	fmt.Println("Carousel Studio — carousel deck editor and exporter")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  carouselstudio version|-v|--version                     Show version")
	fmt.Println("  carouselstudio new <dir> <name> [template]              Create a deck at <dir>, optionally from a template")
	fmt.Println("  carouselstudio import <dir> <name> <outline>            Create a deck at <dir> from an outline text file")
	fmt.Println("  carouselstudio open <dir>                               Open the deck at <dir> and print a summary")
	fmt.Println("  carouselstudio save <dir>                               Promote the autosaved draft into the deck file")
	fmt.Println("  carouselstudio templates                                List available templates")
	fmt.Println("  carouselstudio pack <out.zip> [templates-dir]           Bundle template descriptors into a pack")
	fmt.Println("  carouselstudio unpack <pack.zip> [templates-dir]        Install a template pack")
	fmt.Println("  carouselstudio export <dir> <out.pdf> [style] [format]  Render the deck to a PDF document")
	fmt.Println("  carouselstudio preview <dir> <n> <out.png> [width]      Render slide <n> to a PNG preview")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var h *storage.DeckHandle
	defer func() { crash.Recover(h) }()

	cfg, token, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	tcfg := telemetry.FromEnv()
	tcfg.OptIn = tcfg.OptIn || cfg.General.TelemetryOptIn
	telemetry.NewDefault(tcfg)
	defer telemetry.Flush(context.Background())
	telemetry.Event(telemetry.EventSessionStarted, nil)

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Carousel Studio — carousel deck editor and exporter")
			fmt.Println(version.String())
			return
		case "new":
			if len(args) < 4 {
				fmt.Println("new requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			name := args[3]
			abs, _ := filepath.Abs(dir)
			l.Info("new deck", slog.String("root", abs), slog.String("name", name))
			slides := []domain.Slide{domain.NewSlide()}
			if len(args) > 4 {
				t, err := lookupTemplate(cfg, token, args[4], l)
				if err != nil {
					l.Error("template lookup failed", slog.String("template", args[4]), slog.Any("err", err))
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				// Run the template through the editor so that cloning,
				// renumbering and the slide cap behave exactly as in a
				// live session.
				ed := editor.New(editor.Options{Logger: l})
				ed.Dispatch(editor.ApplyTemplate{Template: t})
				slides = ed.State().Slides
				telemetry.Event(telemetry.EventTemplateApplied, map[string]any{"template": t.ID, "slides": len(slides)})
			}
			nh, err := storage.InitDeck(abs, domain.Deck{Name: name, Slides: slides})
			if err != nil {
				l.Error("new deck failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			fmt.Println("Created deck at", abs)
			fmt.Printf("Slides: %d\n", len(nh.Deck.Slides))
			return
		case "import":
			if len(args) < 5 {
				fmt.Println("import requires <dir>, <name> and <outline file>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			name := args[3]
			src := args[4]
			abs, _ := filepath.Abs(dir)
			data, err := os.ReadFile(src)
			if err != nil {
				l.Error("read outline failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			o, problems := outline.Parse(string(data))
			for _, p := range problems {
				fmt.Printf("%s:%d: %s\n", src, p.Line, p.Message)
			}
			deck := o.Deck(name)
			l.Info("import outline", slog.String("root", abs), slog.Int("slides", len(deck.Slides)), slog.Int("problems", len(problems)))
			nh, err := storage.InitDeck(abs, deck)
			if err != nil {
				l.Error("import failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			telemetry.Event(telemetry.EventOutlineImported, map[string]any{"slides": len(deck.Slides), "problems": len(problems)})
			fmt.Printf("Imported %d slides into %s\n", len(deck.Slides), abs)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <dir>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			abs, _ := filepath.Abs(dir)
			l.Info("open deck", slog.String("root", abs))
			oh, err := storage.OpenDeck(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = oh
			ctx := applog.ContextWithDeck(context.Background(), oh.DeckPath)
			ed := editor.New(editor.Options{Logger: applog.WithComponent("editor")})
			ed.Restore(oh.Deck.Slides)
			if store, serr := storage.OpenStore(abs); serr != nil {
				l.Warn("draft store unavailable", slog.Any("err", serr))
			} else {
				if draft, ok := storage.LoadDraft(ctx, store); ok && ed.Restore(draft) {
					fmt.Printf("Restored autosaved draft (%d slides)\n", len(draft))
					telemetry.Event(telemetry.EventDraftRestored, map[string]any{"slides": len(draft)})
				}
				store.Close()
			}
			st := ed.State()
			elements := 0
			for _, s := range st.Slides {
				elements += len(s.Elements)
			}
			fmt.Printf("Opened deck: %s\n", oh.Deck.Name)
			fmt.Printf("Slides: %d\n", len(st.Slides))
			fmt.Printf("Elements: %d\n", elements)
			fmt.Println("Root:", oh.Root)
			return
		case "save":
			if len(args) < 3 {
				fmt.Println("save requires <dir>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			abs, _ := filepath.Abs(dir)
			l.Info("save deck", slog.String("root", abs))
			sh, err := storage.OpenDeck(abs)
			if err != nil {
				l.Error("open before save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = sh
			ctx := applog.ContextWithDeck(context.Background(), sh.DeckPath)
			store, err := storage.OpenStore(abs)
			if err != nil {
				l.Error("open draft store failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			draft, ok := storage.LoadDraft(ctx, store)
			if !ok {
				store.Close()
				fmt.Println("No autosaved draft found; deck file left as is.")
				return
			}
			sh.Deck.Slides = draft
			if err := storage.SaveDeck(sh); err != nil {
				store.Close()
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			if err := storage.ClearDraft(ctx, store); err != nil {
				l.Warn("clear draft failed", slog.Any("err", err))
			}
			store.Close()
			fmt.Printf("Saved %d slides and created a backup of the previous deck file (if any).\n", len(draft))
			return
		case "templates":
			c := buildCatalog(cfg, l)
			defer c.Close()
			for _, t := range c.Templates() {
				fmt.Printf("%-22s %-28s %-12s %d slides\n", t.ID, t.Name, t.Style, len(t.DefaultSlides))
			}
			if cfg.Backend.Enabled {
				rows, err := remoteList(context.Background(), cfg, token)
				if err != nil {
					l.Warn("remote catalog unavailable", slog.Any("err", err))
					fmt.Println("Remote catalog unavailable:", err)
					return
				}
				for _, r := range rows {
					fmt.Printf("%-22s %-28s %-12s v%d remote, updated %s\n", r.StableID, r.Name, r.Style, r.Version, r.UpdatedAt.Format("2006-01-02"))
				}
			}
			return
		case "pack":
			if len(args) < 3 {
				fmt.Println("pack requires <out.zip>")
				usage()
				os.Exit(2)
			}
			dir := cfg.General.TemplatesDir
			if len(args) > 3 {
				dir = args[3]
			}
			if dir == "" {
				fmt.Println("no templates directory configured; pass one as the second argument")
				os.Exit(2)
			}
			if err := templatepack.Export(dir, args[2]); err != nil {
				l.Error("pack failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Wrote template pack", args[2])
			return
		case "unpack":
			if len(args) < 3 {
				fmt.Println("unpack requires <pack.zip>")
				usage()
				os.Exit(2)
			}
			dir := cfg.General.TemplatesDir
			if len(args) > 3 {
				dir = args[3]
			}
			if dir == "" {
				fmt.Println("no templates directory configured; pass one as the second argument")
				os.Exit(2)
			}
			n, err := templatepack.Install(dir, args[2])
			if err != nil {
				l.Error("unpack failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Installed %d template descriptors into %s\n", n, dir)
			return
		case "export":
			if len(args) < 4 {
				fmt.Println("export requires <dir> and <outfile>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			out := args[3]
			styleName := cfg.Export.Style
			formatName := cfg.Export.Format
			if len(args) > 4 {
				styleName = args[4]
			}
			if len(args) > 5 {
				formatName = args[5]
			}
			style, err := export.ParseStyle(styleName)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(2)
			}
			format, err := export.ParseFormat(formatName)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(2)
			}
			abs, _ := filepath.Abs(dir)
			l.Info("export deck", slog.String("root", abs), slog.String("style", string(style)), slog.String("format", string(format)))
			eh, err := storage.OpenDeck(abs)
			if err != nil {
				l.Error("open before export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = eh
			data, err := export.RenderDeckPDF(eh.Deck.Slides, domain.BrandKit{}, style, format)
			if err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			path, err := export.WriteBlob(out, data)
			if err != nil {
				l.Error("write export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			telemetry.Event(telemetry.EventExportCompleted, map[string]any{
				"style":  string(style),
				"format": string(format),
				"slides": len(eh.Deck.Slides),
				"bytes":  len(data),
			})
			fmt.Printf("Exported %d slides to %s (%d bytes)\n", len(eh.Deck.Slides), path, len(data))
			return
		case "preview":
			if len(args) < 5 {
				fmt.Println("preview requires <dir>, <slide number> and <outfile>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			num, err := strconv.Atoi(args[3])
			if err != nil || num < 1 {
				fmt.Println("slide number must be a positive integer")
				os.Exit(2)
			}
			out := args[4]
			width := 512
			if len(args) > 5 {
				w, err := strconv.Atoi(args[5])
				if err != nil || w < 1 {
					fmt.Println("width must be a positive integer")
					os.Exit(2)
				}
				width = w
			}
			format, err := export.ParseFormat(cfg.Export.Format)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(2)
			}
			abs, _ := filepath.Abs(dir)
			ph, err := storage.OpenDeck(abs)
			if err != nil {
				l.Error("open before preview failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = ph
			if num > len(ph.Deck.Slides) {
				fmt.Printf("deck has only %d slides\n", len(ph.Deck.Slides))
				os.Exit(1)
			}
			slide := ph.Deck.Slides[num-1]
			var png []byte
			if store, serr := storage.OpenStore(abs); serr != nil {
				// Render directly when the cache cannot be opened.
				l.Warn("preview cache unavailable", slog.Any("err", serr))
				png, err = export.RenderSlidePNG(slide, format, width)
			} else {
				key := storage.PreviewContentKey(slide)
				png, err = store.GetOrCreatePreview(context.Background(), slide.ID, width, key, func(ctx context.Context) ([]byte, error) {
					return export.RenderSlidePNG(slide, format, width)
				})
				store.Close()
			}
			if err != nil {
				l.Error("preview failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			if err := os.WriteFile(out, png, 0o644); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Wrote preview of slide %d to %s (%d bytes)\n", num, out, len(png))
			return
		}
	}

	usage()
}

// buildCatalog assembles the local template catalog: builtins plus any
// descriptors found in the configured templates directory.
func buildCatalog(cfg config.AppConfig, l *slog.Logger) *catalog.Catalog {
	c := catalog.New()
	if dir := cfg.General.TemplatesDir; dir != "" {
		if n, err := c.LoadDir(dir); err != nil {
			l.Warn("template dir load failed", slog.String("dir", dir), slog.Any("err", err))
		} else {
			l.Debug("templates loaded", slog.String("dir", dir), slog.Int("count", n))
		}
	}
	return c
}

// lookupTemplate resolves a template id against the local catalog first
// and falls back to the remote catalog when the backend is enabled.
func lookupTemplate(cfg config.AppConfig, token, id string, l *slog.Logger) (domain.Template, error) {
	c := buildCatalog(cfg, l)
	defer c.Close()
	if t, ok := c.Get(id); ok {
		return t, nil
	}
	if !cfg.Backend.Enabled {
		return domain.Template{}, fmt.Errorf("unknown template %q", id)
	}
	env, err := remoteFetch(context.Background(), cfg, token, id)
	if err != nil {
		return domain.Template{}, fmt.Errorf("remote template %q: %w", id, err)
	}
	return env.Decode()
}

// remoteList queries the remote template catalog, preferring the direct
// Postgres source when a database URL is configured.
func remoteList(ctx context.Context, cfg config.AppConfig, token string) ([]backend.TemplateSummary, error) {
	if dsn := cfg.Backend.DatabaseURL; dsn != "" {
		src, err := backend.OpenPG(ctx, dsn)
		if err != nil {
			return nil, err
		}
		defer src.Close()
		return src.ListTemplates(ctx)
	}
	return httpClient(cfg, token).ListTemplates(ctx)
}

func remoteFetch(ctx context.Context, cfg config.AppConfig, token, id string) (*backend.TemplateEnvelope, error) {
	if dsn := cfg.Backend.DatabaseURL; dsn != "" {
		src, err := backend.OpenPG(ctx, dsn)
		if err != nil {
			return nil, err
		}
		defer src.Close()
		return src.GetTemplate(ctx, id)
	}
	return httpClient(cfg, token).GetTemplate(ctx, id)
}

func httpClient(cfg config.AppConfig, token string) *backend.Client {
	cli := backend.NewClient(cfg.Backend.BaseURL, token, cfg.Backend.Timeout())
	if cfg.Backend.TLSInsecure {
		cli.AllowInsecureTLS()
	}
	return cli
}
