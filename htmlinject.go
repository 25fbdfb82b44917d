package mdforge

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/mdforge/mdforge/internal/fileutil"
)

// documentShell wraps an HTML fragment in a complete HTML5 document.
const documentShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body%s>
%s
</body>
</html>`

// composeDocument builds the final HTML document: shell, stylesheets,
// inline CSS, and scripts. Local stylesheet and script paths resolve
// relative to basedir (the directory of the source file, or the working
// directory for raw content).
func composeDocument(cfg *Config, body, basedir, title string) (string, error) {
	bodyAttr := ""
	if len(cfg.BodyClass) > 0 {
		bodyAttr = ` class="` + html.EscapeString(strings.Join(cfg.BodyClass, " ")) + `"`
	}
	doc := fmt.Sprintf(documentShell, html.EscapeString(title), bodyAttr, body)

	for _, sheet := range cfg.Stylesheet {
		block, err := stylesheetBlock(sheet, basedir)
		if err != nil {
			return "", err
		}
		doc = injectHead(doc, block)
	}

	doc = injectCSS(doc, cfg.CSS)

	for _, script := range cfg.Script {
		block, err := scriptBlock(script, basedir)
		if err != nil {
			return "", err
		}
		doc = injectBodyEnd(doc, block)
	}

	return doc, nil
}

// stylesheetBlock resolves one stylesheet entry to an HTML block. Remote
// URLs become <link> tags; the chroma scheme becomes generated highlight
// CSS; anything else is read from disk and inlined, so the document stays
// self-contained.
func stylesheetBlock(sheet, basedir string) (string, error) {
	switch {
	case strings.HasPrefix(sheet, chromaStylesheetScheme):
		css, err := highlightCSS(strings.TrimPrefix(sheet, chromaStylesheetScheme))
		if err != nil {
			return "", err
		}
		return "<style>" + sanitizeCSS(css) + "</style>", nil
	case fileutil.IsURL(sheet):
		return `<link rel="stylesheet" href="` + html.EscapeString(sheet) + `">`, nil
	default:
		data, err := os.ReadFile(resolvePath(sheet, basedir))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrReadStylesheet, err)
		}
		return "<style>" + sanitizeCSS(string(data)) + "</style>", nil
	}
}

// scriptBlock resolves one script entry to an HTML block, mirroring
// stylesheetBlock: remote URLs load by reference, local files inline.
func scriptBlock(script, basedir string) (string, error) {
	if fileutil.IsURL(script) {
		return `<script src="` + html.EscapeString(script) + `"></script>`, nil
	}
	data, err := os.ReadFile(resolvePath(script, basedir))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadScript, err)
	}
	return "<script>" + sanitizeScript(string(data)) + "</script>", nil
}

func resolvePath(p, basedir string) string {
	if filepath.IsAbs(p) || basedir == "" {
		return p
	}
	return filepath.Join(basedir, p)
}

// highlightCSS generates the stylesheet for a chroma style. Unknown style
// names are an error rather than a silent fallback, since a typo would
// otherwise ship unstyled code blocks.
func highlightCSS(name string) (string, error) {
	style, ok := styles.Registry[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownHighlightStyle, name)
	}
	var buf strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, style); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnknownHighlightStyle, err)
	}
	return buf.String(), nil
}

// injectCSS inserts a <style> block into HTML content. Tries </head>
// first, then after <body>, then prepends. CSS content is sanitized so it
// cannot close the style tag early.
func injectCSS(htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}
	return injectHead(htmlContent, "<style>"+sanitizeCSS(cssContent)+"</style>")
}

// injectHead inserts a block before </head>, falling back to after <body>
// and finally to prepending.
func injectHead(htmlContent, block string) string {
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + block + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		// Find the closing > of <body...>
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + block + htmlContent[insertPos:]
		}
	}

	return block + htmlContent
}

// injectBodyEnd inserts a block before </body>, falling back to appending.
func injectBodyEnd(htmlContent, block string) string {
	lowerHTML := strings.ToLower(htmlContent)
	if idx := strings.Index(lowerHTML, "</body>"); idx != -1 {
		return htmlContent[:idx] + block + htmlContent[idx:]
	}
	return htmlContent + block
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// sanitizeScript escapes the closing tag inside inline script content.
func sanitizeScript(js string) string {
	return strings.ReplaceAll(js, "</script", `<\/script`)
}
