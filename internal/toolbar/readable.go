package toolbar

import (
	"strings"
)

const ellipsis = "..."

// collapse joins segments keeping the first, the parent of the last and the
// last when there are three or more.
func collapse(segments []string, sep string) string {
	n := len(segments)
	if n <= 2 {
		return strings.Join(segments, sep)
	}
	return strings.Join([]string{segments[0], ellipsis, segments[n-2], segments[n-1]}, sep)
}

// remoteReadable renders remote:/first/.../parent/last.
func remoteReadable(full string) string {
	name, rest, found := strings.Cut(full, ":")
	if !found {
		return full + ":/"
	}
	segments := strings.FieldsFunc(rest, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return name + ":/"
	}
	return name + ":/" + collapse(segments, "/")
}

// localReadable renders a local path with the same collapsing rule, keeping
// a drive prefix or a leading separator when the path has one.
func localReadable(full, sep string) string {
	isSep := func(r rune) bool { return r == '/' || r == '\\' }

	if hasDrivePrefix(full) || (len(full) == 2 && isDriveLetter(full[:1]) && full[1] == ':') {
		drive := full[:2]
		segments := strings.FieldsFunc(full[2:], isSep)
		if len(segments) == 0 {
			return drive + sep
		}
		return drive + sep + collapse(segments, sep)
	}

	absolute := strings.HasPrefix(full, "/") || strings.HasPrefix(full, "\\")
	segments := strings.FieldsFunc(full, isSep)
	if len(segments) == 0 {
		if absolute {
			return sep
		}
		return full
	}
	if absolute {
		return sep + collapse(segments, sep)
	}
	return collapse(segments, sep)
}
