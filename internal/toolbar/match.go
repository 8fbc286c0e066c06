package toolbar

import (
	"net/url"
	"regexp"
	"strings"
)

var simpleURLPattern = regexp.MustCompile(`^[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}([/:?][^\s]*)?$`)

// MatchesKeyword reports whether the first word of query is a substring of
// one of keywords or contains one of them. Both sides are compared in lower
// case. Short words match broadly; "c" matches "copy" and "cleanup".
func MatchesKeyword(query string, keywords []string) bool {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return false
	}
	first := strings.ToLower(fields[0])
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if strings.Contains(kw, first) || strings.Contains(first, kw) {
			return true
		}
	}
	return false
}

// queryGate implements the rule shared by most actions: an empty residual
// query always passes, otherwise the first word must match a keyword.
func queryGate(query string, keywords []string) bool {
	return query == "" || MatchesKeyword(query, keywords)
}

// findFirstURL returns the first token that looks like a URL. Bare domains
// get an https scheme.
func findFirstURL(query string) string {
	for _, raw := range strings.Fields(query) {
		tok := stripToken(raw)
		if tok == "" {
			continue
		}
		if strings.Contains(tok, "://") {
			return tok
		}
		if simpleURLPattern.MatchString(tok) {
			if strings.HasPrefix(tok, "http") {
				return tok
			}
			return "https://" + tok
		}
	}
	return ""
}

// urlLabel names a URL by its last path segment, falling back to the host.
func urlLabel(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		parts := strings.FieldsFunc(strings.TrimRight(raw, "/"), func(r rune) bool { return r == '/' })
		if len(parts) == 0 {
			return raw
		}
		return parts[len(parts)-1]
	}
	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(segments) > 0 {
		return segments[len(segments)-1]
	}
	return u.Hostname()
}

// argPath is the form of a path passed to a command window. A bare remote
// becomes the root of that remote.
func argPath(p Path) string {
	if p.IsLocal {
		return p.Full
	}
	name, rest, _ := strings.Cut(p.Full, ":")
	if rest == "" {
		return name + ":/"
	}
	return p.Full
}

// destinationLabel names a remote path by its remote, a local path by its
// readable form.
func destinationLabel(p Path) string {
	if !p.IsLocal {
		if i := strings.IndexByte(p.Full, ':'); i > 0 {
			return p.Full[:i]
		}
	}
	return p.Readable
}

// findServeType returns the first serve protocol mentioned in query.
func findServeType(query string) string {
	lower := strings.ToLower(query)
	for _, t := range serveTypes {
		if strings.Contains(lower, t) {
			return t
		}
	}
	return ""
}

// transferResults emits the candidates of a source/destination action: one
// combined candidate when exactly two paths are present, then one guess per
// path. The last of several paths is guessed as the destination.
func transferResults(verb, arrow, description string, paths []Path) []Result {
	results := make([]Result, 0, len(paths)+1)
	if len(paths) == 2 {
		src, dst := paths[0], paths[1]
		results = append(results, Result{
			Label:       verb + " " + src.Readable + " " + arrow + " " + dst.Readable,
			Description: description,
			Args:        Args{ArgSource: argPath(src), ArgDestination: argPath(dst)},
			Score:       ScorePair,
		})
	}
	for i, p := range paths {
		isDest := len(paths) > 1 && i == len(paths)-1
		args := Args{ArgSource: argPath(p)}
		score := ScoreRemoteSource
		if isDest {
			args = Args{ArgDestination: argPath(p)}
			score = ScoreRemoteDest
		}
		if p.IsLocal {
			score = ScoreLocal
		}
		results = append(results, Result{
			Label:       verb + " " + p.Readable,
			Description: description,
			Args:        args,
			Score:       score,
		})
	}
	return results
}

// uniqueRemotes returns the remote names of the remote paths in order of
// first appearance.
func uniqueRemotes(paths []Path, keep func(Path) bool) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range paths {
		if p.IsLocal || p.RemoteName == "" || seen[p.RemoteName] {
			continue
		}
		if keep != nil && !keep(p) {
			continue
		}
		seen[p.RemoteName] = true
		out = append(out, p.RemoteName)
	}
	return out
}
