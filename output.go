package mdforge

import (
	"path/filepath"
	"slices"
	"strings"
)

// chromaStylesheetScheme marks a stylesheet entry that resolves to a chroma
// highlight style rather than a file or URL. The style CSS is generated at
// injection time.
const chromaStylesheetScheme = "chroma://"

// resolveOutput fills in the destination and the stylesheet list after the
// merge. A conversion with no explicit destination writes next to the
// source file with the extension swapped, or to stdout when the input came
// as raw content with no path to derive from.
//
// The highlight style rides on the stylesheet list so that injection
// handles it together with the user's stylesheets, after all of them.
func resolveOutput(cfg *Config, in Input) {
	if cfg.Dest == "" {
		if in.Path == "" {
			cfg.Dest = DestStdout
		} else {
			ext := ".pdf"
			if cfg.AsHTML {
				ext = ".html"
			}
			cfg.Dest = siblingPath(in.Path, ext)
		}
	}

	if cfg.HighlightStyle != "" {
		cfg.Stylesheet = appendUnique(cfg.Stylesheet, chromaStylesheetScheme+cfg.HighlightStyle)
	}
}

// siblingPath swaps the extension of path, keeping the directory.
func siblingPath(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func appendUnique(list StringList, s string) StringList {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}
