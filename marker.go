package changeling

import (
	"fmt"
	"strings"
)

// MarkerPolicy selects which side of the verbatim marker is preserved.
type MarkerPolicy string

const (
	// PreservePrefix keeps everything up to and including the marker
	// verbatim and translates the remainder.
	PreservePrefix MarkerPolicy = "prefix-preserved"
	// PreserveSuffix translates everything up to the marker and keeps the
	// remainder verbatim.
	PreserveSuffix MarkerPolicy = "suffix-preserved"
)

// ParseMarkerPolicy parses a policy name from configuration.
func ParseMarkerPolicy(s string) (MarkerPolicy, error) {
	switch MarkerPolicy(strings.TrimSpace(s)) {
	case PreservePrefix:
		return PreservePrefix, nil
	case PreserveSuffix:
		return PreserveSuffix, nil
	default:
		return "", fmt.Errorf("unknown verbatim policy %q (want %q or %q)", s, PreservePrefix, PreserveSuffix)
	}
}

// SplitMarker splits text into a translate-eligible region and a verbatim
// region at the first literal occurrence of marker. The marker may span
// multiple lines. An empty or absent marker is not an error: the whole
// text is eligible and the preserved region is empty, found is false.
//
// For PreservePrefix, preserved runs through the end of the marker; for
// PreserveSuffix, preserved starts at the marker. In both cases the two
// regions concatenated in source order reproduce text exactly.
func SplitMarker(text, marker string, policy MarkerPolicy) (eligible, preserved string, found bool) {
	if marker == "" {
		return text, "", false
	}

	idx := strings.Index(text, marker)
	if idx < 0 {
		return text, "", false
	}

	if policy == PreserveSuffix {
		return text[:idx], text[idx:], true
	}

	cut := idx + len(marker)
	return text[cut:], text[:cut], true
}
