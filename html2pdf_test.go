package mdforge

import (
	"errors"
	"math"
	"testing"
)

func TestBuildPrintOptions(t *testing.T) {
	t.Run("named format sets paper size", func(t *testing.T) {
		opts, err := buildPrintOptions(&PDFOptions{Format: "Letter"})
		if err != nil {
			t.Fatalf("buildPrintOptions() error = %v", err)
		}
		if opts.PaperWidth == nil || *opts.PaperWidth != 8.5 {
			t.Errorf("PaperWidth = %v, want 8.5", opts.PaperWidth)
		}
		if opts.PaperHeight == nil || *opts.PaperHeight != 11 {
			t.Errorf("PaperHeight = %v, want 11", opts.PaperHeight)
		}
	})

	t.Run("unknown format rejected", func(t *testing.T) {
		_, err := buildPrintOptions(&PDFOptions{Format: "a9"})
		if !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("error = %v, want ErrUnknownFormat", err)
		}
	})

	t.Run("explicit dimensions override format", func(t *testing.T) {
		opts, err := buildPrintOptions(&PDFOptions{
			Format: "a4",
			Width:  "10cm",
			Height: "20cm",
		})
		if err != nil {
			t.Fatalf("buildPrintOptions() error = %v", err)
		}
		if opts.PaperWidth == nil || math.Abs(*opts.PaperWidth-10.0/2.54) > 1e-9 {
			t.Errorf("PaperWidth = %v, want 10cm in inches", opts.PaperWidth)
		}
		if opts.PaperHeight == nil || math.Abs(*opts.PaperHeight-20.0/2.54) > 1e-9 {
			t.Errorf("PaperHeight = %v, want 20cm in inches", opts.PaperHeight)
		}
	})

	t.Run("margins converted to inches", func(t *testing.T) {
		opts, err := buildPrintOptions(&PDFOptions{
			Margin: Margin{Top: "1in", Right: "2.54cm", Bottom: "72pt", Left: "96px"},
		})
		if err != nil {
			t.Fatalf("buildPrintOptions() error = %v", err)
		}
		for name, got := range map[string]*float64{
			"top":    opts.MarginTop,
			"right":  opts.MarginRight,
			"bottom": opts.MarginBottom,
			"left":   opts.MarginLeft,
		} {
			if got == nil || math.Abs(*got-1) > 1e-9 {
				t.Errorf("margin %s = %v, want 1 inch", name, got)
			}
		}
	})

	t.Run("invalid margin rejected", func(t *testing.T) {
		_, err := buildPrintOptions(&PDFOptions{Margin: Margin{Top: "wide"}})
		if !errors.Is(err, ErrInvalidMargin) {
			t.Errorf("error = %v, want ErrInvalidMargin", err)
		}
	})

	t.Run("header footer templates default when displayed", func(t *testing.T) {
		opts, err := buildPrintOptions(&PDFOptions{
			DisplayHeaderFooter: boolPtr(true),
			FooterTemplate:      "<div>footer</div>",
		})
		if err != nil {
			t.Fatalf("buildPrintOptions() error = %v", err)
		}
		if !opts.DisplayHeaderFooter {
			t.Error("DisplayHeaderFooter = false, want true")
		}
		if opts.HeaderTemplate != "<span></span>" {
			t.Errorf("HeaderTemplate = %q, want empty span", opts.HeaderTemplate)
		}
		if opts.FooterTemplate != "<div>footer</div>" {
			t.Errorf("FooterTemplate = %q, want configured template", opts.FooterTemplate)
		}
	})

	t.Run("templates ignored when not displayed", func(t *testing.T) {
		opts, err := buildPrintOptions(&PDFOptions{HeaderTemplate: "<div>h</div>"})
		if err != nil {
			t.Fatalf("buildPrintOptions() error = %v", err)
		}
		if opts.DisplayHeaderFooter {
			t.Error("DisplayHeaderFooter = true, want false without explicit flag")
		}
		if opts.HeaderTemplate != "" {
			t.Errorf("HeaderTemplate = %q, want empty", opts.HeaderTemplate)
		}
	})

	t.Run("scale and ranges pass through", func(t *testing.T) {
		opts, err := buildPrintOptions(&PDFOptions{
			Scale:      floatPtr(0.8),
			PageRanges: "1-3",
			Landscape:  boolPtr(true),
		})
		if err != nil {
			t.Fatalf("buildPrintOptions() error = %v", err)
		}
		if opts.Scale == nil || *opts.Scale != 0.8 {
			t.Errorf("Scale = %v, want 0.8", opts.Scale)
		}
		if opts.PageRanges != "1-3" {
			t.Errorf("PageRanges = %q, want 1-3", opts.PageRanges)
		}
		if !opts.Landscape {
			t.Error("Landscape = false, want true")
		}
	})
}
