// Package assets manages the stylesheet assets shipped with mdforge.
//
// The KaTeX distribution under katex/ is embedded into the binary. Its
// stylesheet references font files with relative url(fonts/...) paths;
// InlineFonts rewrites those references into base64 data URIs so the
// stylesheet can be injected into a document without any companion files.
// MathStylesheet memoizes the inlined result for the lifetime of the
// process, since every conversion that enables math support needs the
// same text.
//
// The files under katex/fonts are truncated stand-ins that exercise the
// inlining pipeline; the stylesheet declares serif fallbacks so rendering
// degrades gracefully. TODO: swap in the full KaTeX woff2 files from the
// upstream distribution when packaging a release.
package assets
