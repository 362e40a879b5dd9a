package entities

import (
	"fmt"
	"regexp"
	"strings"
)

// pinLineFmt matches e.g. "HAPROXY_VERSION=2.8.1  # https://www.haproxy.org/..."
// and captures the dotted version (2 to 4 segments).
const pinLineFmt = `^%s=((?:[0-9]+\.){1,3}[0-9]+)\s+#.*$`

// FindPinnedVersion scans the packaging file content line by line and returns
// the version assigned to varName.
func FindPinnedVersion(content, varName string) (Version, error) {
	rgx := regexp.MustCompile(fmt.Sprintf(pinLineFmt, regexp.QuoteMeta(varName)))

	for _, line := range strings.SplitAfter(content, "\n") {
		if !strings.HasPrefix(line, varName) {
			continue
		}
		match := rgx.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
		if match == nil {
			continue
		}
		return ParseVersion(match[1])
	}

	return Version{}, fmt.Errorf("%w: %s", ErrVersionNotFound, varName)
}

// RewritePinLine replaces the assignment of varName with the new version and
// source URL. Every other line, including its line ending, is kept verbatim.
func RewritePinLine(content, varName string, version Version, sourceURL string) string {
	var sb strings.Builder
	sb.Grow(len(content))

	prefix := varName + "="
	for _, line := range strings.SplitAfter(content, "\n") {
		if !strings.HasPrefix(line, prefix) {
			sb.WriteString(line)
			continue
		}
		ending := line[len(strings.TrimRight(line, "\r\n")):]
		sb.WriteString(fmt.Sprintf("%s%s  # %s%s", prefix, version, sourceURL, ending))
	}

	return sb.String()
}
