package mdforge

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// lengthPattern matches CSS length values in the units Chrome's print API
// understands. A bare number is treated as pixels, matching browser behavior.
var lengthPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)(in|cm|mm|px|pt)?$`)

// parseLength converts a CSS length string to inches.
func parseLength(s string) (float64, error) {
	m := lengthPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLength, s)
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLength, s)
	}

	switch m[2] {
	case "in":
		return v, nil
	case "cm":
		return v / 2.54, nil
	case "mm":
		return v / 25.4, nil
	case "pt":
		return v / 72, nil
	default: // px or unitless
		return v / 96, nil
	}
}
