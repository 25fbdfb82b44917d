// Package mdforge converts Markdown documents to PDF or HTML using
// headless Chrome.
//
// # Quick Start
//
// Create a service, convert a document, and close when done:
//
//	svc := mdforge.New()
//	defer svc.Close()
//
//	out, err := svc.Convert(ctx, mdforge.Input{Path: "report.md"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(out.Filename, out.Content, 0644)
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Front matter extraction (YAML between --- delimiters)
//  2. Configuration merge (defaults, front matter, per-call overlay)
//  3. Markdown to HTML conversion via Goldmark (GFM, syntax highlighting,
//     optional KaTeX math)
//  4. Document composition (shell, stylesheets, inline CSS, scripts)
//  5. PDF rendering via headless Chrome (go-rod)
//
// # Configuration
//
// Options come from three layers that merge field by field, later layers
// winning: the base configuration (WithBaseConfig, typically loaded from a
// config file), the document's front matter, and the per-call overlay:
//
//	out, err := svc.Convert(ctx, mdforge.Input{
//	    Path: "report.md",
//	    Overlay: &mdforge.Overlay{
//	        HighlightStyle: "monokai",
//	        PDFOptions:     &mdforge.PDFOptions{Format: "letter"},
//	    },
//	})
//
// pdf_options merges key by key, so front matter can set the paper format
// while a flag flips landscape. Setting math_engine to "katex" enables
// $...$ and $$...$$ math with the KaTeX stylesheet inlined into the
// document, fonts included, so the output renders offline.
//
// # Parallel Processing
//
// For batch conversion, use ServicePool to manage multiple browser
// instances:
//
//	pool := mdforge.NewServicePool(4)
//	defer pool.Close()
//
//	svc := pool.Acquire()
//	defer pool.Release(svc)
//	out, err := svc.Convert(ctx, input)
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library
// automatically downloads a managed Chromium instance on first run
// (~/.cache/rod/browser/). Use launch_options to point at a pre-installed
// binary or disable the sandbox in containers.
package mdforge
