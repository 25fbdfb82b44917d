package assets

import (
	"embed"
	"encoding/base64"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"
	"sync"
)

//go:embed katex
var embedded embed.FS

// mathStylesheetPath locates the vendored KaTeX stylesheet inside the
// embedded filesystem.
const mathStylesheetPath = "katex/katex.css"

// fontRefPattern matches relative font references in CSS, with or without
// quotes: url(fonts/x.woff2), url('fonts/x.woff2'), url("fonts/x.woff2").
var fontRefPattern = regexp.MustCompile(`url\(['"]?(fonts/[^'")]+)['"]?\)`)

// InlineFonts reads the stylesheet at the given path and rewrites every
// relative font reference into a base64 data URI. Font paths resolve
// relative to the stylesheet's directory. Each distinct font file is read
// and encoded once, in order of first appearance; every occurrence of the
// reference is replaced regardless of quoting style.
//
// A missing stylesheet or unreadable font is a hard error: a stylesheet
// with half its fonts inlined is worse than no stylesheet at all.
func InlineFonts(fsys fs.FS, stylesheetPath string) (string, error) {
	raw, err := fs.ReadFile(fsys, stylesheetPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrStylesheetRead, stylesheetPath, err)
	}

	css := string(raw)
	dir := path.Dir(stylesheetPath)
	seen := make(map[string]bool)

	for _, match := range fontRefPattern.FindAllStringSubmatch(css, -1) {
		ref := match[1]
		if seen[ref] {
			continue
		}
		seen[ref] = true

		data, err := fs.ReadFile(fsys, path.Join(dir, ref))
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrFontRead, ref, err)
		}

		uri := fmt.Sprintf("url(%q)",
			"data:"+FontMIME(path.Ext(ref))+";base64,"+base64.StdEncoding.EncodeToString(data))

		// The source stylesheet is not guaranteed to quote consistently,
		// so all three variants of the same reference are replaced.
		for _, quoted := range []string{
			"url(" + ref + ")",
			"url('" + ref + "')",
			`url("` + ref + `")`,
		} {
			css = strings.ReplaceAll(css, quoted, uri)
		}
	}

	return css, nil
}

// mathStylesheet computes the inlined KaTeX stylesheet at most once per
// process. Concurrent first callers share a single read of the font files.
var mathStylesheet = sync.OnceValues(func() (string, error) {
	return InlineFonts(embedded, mathStylesheetPath)
})

// MathStylesheet returns the KaTeX stylesheet with every font reference
// embedded as a data URI. The result is memoized for the process lifetime.
func MathStylesheet() (string, error) {
	return mathStylesheet()
}
