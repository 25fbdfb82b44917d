// Package frontmatter extracts a leading YAML metadata block from a
// markdown document. The block is delimited by lines containing only "---",
// the first of which must be the first line of the document.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mdforge/mdforge/internal/yamlutil"
)

// ErrParse indicates the front matter block is present but not valid YAML.
// Callers are expected to treat this as recoverable: warn and render the
// body without metadata.
var ErrParse = errors.New("failed to parse front matter")

var delimiter = []byte("---")

// Extract splits data into front matter and body. The front matter block,
// if present, is decoded into v. Returns the document body (the full input
// when no block is present) and whether a block was found.
//
// A malformed block returns ErrParse together with the body so the caller
// can continue without metadata.
func Extract(data []byte, v any) (body []byte, found bool, err error) {
	block, rest, ok := split(data)
	if !ok {
		return data, false, nil
	}

	if len(bytes.TrimSpace(block)) == 0 {
		// An empty block ("---\n---") carries no overrides.
		return rest, true, nil
	}

	if err := yamlutil.Unmarshal(block, v); err != nil {
		return rest, true, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return rest, true, nil
}

// split separates the front matter block from the body. Returns ok=false
// when the document does not open with a delimiter line or the closing
// delimiter is missing.
func split(data []byte) (block, rest []byte, ok bool) {
	nl := bytes.IndexByte(data, '\n')
	if nl < 0 {
		return nil, nil, false
	}
	if !bytes.Equal(bytes.TrimRight(data[:nl], "\r"), delimiter) {
		return nil, nil, false
	}

	body := data[nl+1:]
	offset := 0
	for {
		lineEnd := bytes.IndexByte(body[offset:], '\n')
		var line []byte
		var next int
		if lineEnd < 0 {
			line = body[offset:]
			next = len(body)
		} else {
			line = body[offset : offset+lineEnd]
			next = offset + lineEnd + 1
		}
		if bytes.Equal(bytes.TrimRight(line, "\r"), delimiter) {
			return body[:offset], body[next:], true
		}
		if lineEnd < 0 {
			return nil, nil, false
		}
		offset = next
	}
}
