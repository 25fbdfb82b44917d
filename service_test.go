package mdforge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeRenderer records the document it was asked to render.
type fakeRenderer struct {
	lastHTML string
	lastCfg  *Config
	inspects int
	renders  int
	pdf      []byte
	err      error
}

func (f *fakeRenderer) RenderPDF(_ context.Context, htmlContent string, cfg *Config) ([]byte, error) {
	f.renders++
	f.lastHTML = htmlContent
	f.lastCfg = cfg
	if f.err != nil {
		return nil, f.err
	}
	if f.pdf == nil {
		return []byte("%PDF-fake"), nil
	}
	return f.pdf, nil
}

func (f *fakeRenderer) Inspect(_ context.Context, htmlContent string, cfg *Config) error {
	f.inspects++
	f.lastHTML = htmlContent
	f.lastCfg = cfg
	return f.err
}

func (f *fakeRenderer) Close() error { return nil }

func newTestService(r documentRenderer, opts ...Option) *Service {
	return New(append([]Option{withRenderer(r)}, opts...)...)
}

func writeMarkdown(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestConvert(t *testing.T) {
	ctx := context.Background()

	t.Run("empty input rejected", func(t *testing.T) {
		svc := newTestService(&fakeRenderer{})
		defer svc.Close()

		_, err := svc.Convert(ctx, Input{})
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("error = %v, want ErrEmptyInput", err)
		}
	})

	t.Run("missing file wraps ErrReadInput", func(t *testing.T) {
		svc := newTestService(&fakeRenderer{})
		defer svc.Close()

		_, err := svc.Convert(ctx, Input{Path: "/no/such/file.md"})
		if !errors.Is(err, ErrReadInput) {
			t.Errorf("error = %v, want ErrReadInput", err)
		}
	})

	t.Run("content to pdf on stdout", func(t *testing.T) {
		renderer := &fakeRenderer{}
		svc := newTestService(renderer)
		defer svc.Close()

		out, err := svc.Convert(ctx, Input{Content: "# Hello\n\nworld"})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if out.Filename != DestStdout {
			t.Errorf("Filename = %q, want stdout sentinel", out.Filename)
		}
		if string(out.Content) != "%PDF-fake" {
			t.Errorf("Content = %q, want fake PDF", out.Content)
		}
		if !strings.Contains(renderer.lastHTML, "<h1") {
			t.Error("rendered document missing heading")
		}
	})

	t.Run("file input derives destination", func(t *testing.T) {
		path := writeMarkdown(t, "report.md", "# Report")
		svc := newTestService(&fakeRenderer{})
		defer svc.Close()

		out, err := svc.Convert(ctx, Input{Path: path})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		want := strings.TrimSuffix(path, ".md") + ".pdf"
		if out.Filename != want {
			t.Errorf("Filename = %q, want %q", out.Filename, want)
		}
	})

	t.Run("as_html returns document without renderer", func(t *testing.T) {
		renderer := &fakeRenderer{}
		svc := newTestService(renderer)
		defer svc.Close()

		out, err := svc.Convert(ctx, Input{
			Content: "# Hi",
			Overlay: &Overlay{AsHTML: boolPtr(true)},
		})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if renderer.renders != 0 {
			t.Error("renderer invoked for HTML output")
		}
		if !strings.Contains(string(out.Content), "<!DOCTYPE html>") {
			t.Error("output is not a complete HTML document")
		}
	})

	t.Run("devtools produces no artifact", func(t *testing.T) {
		renderer := &fakeRenderer{}
		svc := newTestService(renderer)
		defer svc.Close()

		out, err := svc.Convert(ctx, Input{
			Content: "# Hi",
			Overlay: &Overlay{Devtools: boolPtr(true)},
		})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if renderer.inspects != 1 {
			t.Errorf("inspects = %d, want 1", renderer.inspects)
		}
		if len(out.Content) != 0 {
			t.Error("devtools mode produced content")
		}
	})

	t.Run("devtools with as_html rejected", func(t *testing.T) {
		svc := newTestService(&fakeRenderer{})
		defer svc.Close()

		_, err := svc.Convert(ctx, Input{
			Content: "# Hi",
			Overlay: &Overlay{Devtools: boolPtr(true), AsHTML: boolPtr(true)},
		})
		if !errors.Is(err, ErrIncompatibleDevtools) {
			t.Errorf("error = %v, want ErrIncompatibleDevtools", err)
		}
	})

	t.Run("front matter steers the conversion", func(t *testing.T) {
		doc := "---\ndest: custom.pdf\ndocument_title: Front Matter Title\n---\n# Body\n"
		path := writeMarkdown(t, "doc.md", doc)
		renderer := &fakeRenderer{}
		svc := newTestService(renderer)
		defer svc.Close()

		out, err := svc.Convert(ctx, Input{Path: path})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if out.Filename != "custom.pdf" {
			t.Errorf("Filename = %q, want front matter dest", out.Filename)
		}
		if !strings.Contains(renderer.lastHTML, "<title>Front Matter Title</title>") {
			t.Error("front matter title not applied")
		}
		if strings.Contains(renderer.lastHTML, "dest:") {
			t.Error("front matter leaked into rendered body")
		}
	})

	t.Run("overlay outranks front matter", func(t *testing.T) {
		doc := "---\nhighlight_style: monokai\n---\n# Body\n"
		path := writeMarkdown(t, "doc.md", doc)
		renderer := &fakeRenderer{}
		svc := newTestService(renderer)
		defer svc.Close()

		_, err := svc.Convert(ctx, Input{
			Path:    path,
			Overlay: &Overlay{HighlightStyle: "dracula"},
		})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if renderer.lastCfg.HighlightStyle != "dracula" {
			t.Errorf("HighlightStyle = %q, want overlay to win", renderer.lastCfg.HighlightStyle)
		}
	})

	t.Run("broken front matter warns and continues", func(t *testing.T) {
		doc := "---\ndest: [unclosed\n---\n# Still Converts\n"
		path := writeMarkdown(t, "doc.md", doc)
		var warnings strings.Builder
		renderer := &fakeRenderer{}
		svc := newTestService(renderer, WithLogWriter(&warnings))
		defer svc.Close()

		out, err := svc.Convert(ctx, Input{Path: path})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if !strings.Contains(warnings.String(), "warning") {
			t.Error("no warning emitted for broken front matter")
		}
		if !strings.Contains(renderer.lastHTML, "Still Converts") {
			t.Error("body not converted after front matter failure")
		}
		if out.Filename == "" {
			t.Error("no destination resolved")
		}
	})

	t.Run("title falls back to first heading", func(t *testing.T) {
		renderer := &fakeRenderer{}
		svc := newTestService(renderer)
		defer svc.Close()

		_, err := svc.Convert(ctx, Input{Content: "# The *Real* Title\n\ntext"})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if !strings.Contains(renderer.lastHTML, "<title>The Real Title</title>") {
			t.Error("first heading not used as title")
		}
	})

	t.Run("title falls back to Document without headings", func(t *testing.T) {
		renderer := &fakeRenderer{}
		svc := newTestService(renderer)
		defer svc.Close()

		_, err := svc.Convert(ctx, Input{Content: "plain text"})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if !strings.Contains(renderer.lastHTML, "<title>Document</title>") {
			t.Error("default title missing")
		}
	})

	t.Run("katex math reaches the document", func(t *testing.T) {
		renderer := &fakeRenderer{}
		svc := newTestService(renderer)
		defer svc.Close()

		_, err := svc.Convert(ctx, Input{
			Content: "Euler: $e^{i\\pi} = -1$\n",
			Overlay: &Overlay{MathEngine: MathEngineKatex},
		})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if !strings.Contains(renderer.lastHTML, `class="katex-inline"`) {
			t.Error("inline math not rendered")
		}
		if !strings.Contains(renderer.lastHTML, "@font-face") {
			t.Error("math stylesheet not injected")
		}
	})

	t.Run("base config feeds every conversion", func(t *testing.T) {
		base := DefaultConfig()
		base.DocumentTitle = "Base Title"
		renderer := &fakeRenderer{}
		svc := newTestService(renderer, WithBaseConfig(base))
		defer svc.Close()

		for i := 0; i < 2; i++ {
			if _, err := svc.Convert(ctx, Input{Content: "text"}); err != nil {
				t.Fatalf("Convert() #%d error = %v", i+1, err)
			}
			if !strings.Contains(renderer.lastHTML, "<title>Base Title</title>") {
				t.Errorf("conversion #%d missing base title", i+1)
			}
		}
		if base.mathApplied {
			t.Error("base config mutated by conversion")
		}
	})
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{"plain heading", "<h1>Hello</h1>", "Hello"},
		{"heading with id", `<h1 id="hello">Hello</h1>`, "Hello"},
		{"inline markup stripped", "<h1><em>Hi</em> there</h1>", "Hi there"},
		{"first of several", "<h1>One</h1><h1>Two</h1>", "One"},
		{"no heading", "<p>text</p>", "Document"},
		{"empty heading", "<h1></h1>", "Document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTitle(tt.fragment); got != tt.want {
				t.Errorf("extractTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsRecoverable(t *testing.T) {
	if !IsRecoverable(ErrReadInput) {
		t.Error("ErrReadInput should be recoverable")
	}
	if IsRecoverable(ErrBrowserConnect) {
		t.Error("ErrBrowserConnect should not be recoverable")
	}
	if IsRecoverable(nil) {
		t.Error("nil should not be recoverable")
	}
}
