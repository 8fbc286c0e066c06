package toolbar

import (
	"os"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	quoteChars      = "\"'`"
	trailingTrimSet = "\"'`.,;!?"
)

// token is a contiguous run of input text. start and end delimit the literal
// span in the input, quotes included.
type token struct {
	text  string
	start int
	end   int
}

// Extractor turns raw query text into paths and a residual keyword query.
// The zero value renders local paths with the OS separator.
type Extractor struct {
	// Separator used when rendering readable local paths.
	Separator string
}

// Extraction is the outcome of running the extractor on one query.
type Extraction struct {
	Query string // residual text with every path token removed
	Paths []Path
}

// Extract classifies the tokens of input against the configured remotes.
func (e Extractor) Extract(input string, remotes []string, remoteTypes map[string]string) Extraction {
	input = strings.TrimSpace(input)
	if input == "" {
		return Extraction{}
	}

	canonical := make(map[string]string, len(remotes))
	for _, r := range remotes {
		canonical[strings.ToLower(r)] = r
	}

	sep := e.separator()
	seen := make(map[string]bool)
	var paths []Path
	var spans []token

	for _, tok := range tokenize(input, remotes) {
		cleaned := stripToken(tok.text)
		if cleaned == "" {
			continue
		}
		p, ok := classify(cleaned, canonical, remoteTypes)
		if !ok {
			continue
		}
		spans = append(spans, tok)

		key := strings.ToLower(p.Full)
		if seen[key] {
			continue
		}
		seen[key] = true
		if p.IsLocal {
			p.Readable = localReadable(p.Full, sep)
		} else {
			p.Readable = remoteReadable(p.Full)
		}
		paths = append(paths, p)
	}

	return Extraction{
		Query: removeSpans(input, spans),
		Paths: paths,
	}
}

func (e Extractor) separator() string {
	if e.Separator != "" {
		return e.Separator
	}
	return string(os.PathSeparator)
}

// tokenize splits input into quote-aware tokens, recognising configured
// remote names that contain spaces without requiring quotes.
func tokenize(input string, remotes []string) []token {
	var spaced []string
	for _, r := range remotes {
		if strings.ContainsFunc(r, unicode.IsSpace) {
			spaced = append(spaced, r)
		}
	}
	sort.SliceStable(spaced, func(i, j int) bool {
		return len(spaced[i]) > len(spaced[j])
	})

	var tokens []token
	pos := 0
	for {
		pos = skipSpace(input, pos)
		if pos >= len(input) {
			break
		}
		rest := input[pos:]

		if strings.IndexByte(quoteChars, rest[0]) >= 0 {
			q := rest[0]
			closing := strings.IndexByte(rest[1:], q)
			if closing < 0 {
				tokens = append(tokens, token{text: rest[1:], start: pos, end: len(input)})
				break
			}
			end := pos + 1 + closing + 1
			tokens = append(tokens, token{text: rest[1 : 1+closing], start: pos, end: end})
			pos = end
			continue
		}

		if n := matchSpacedRemote(rest, spaced); n > 0 {
			end := pos + n
			if end < len(input) && input[end] == ':' {
				end = nextSpace(input, end)
			}
			tokens = append(tokens, token{text: input[pos:end], start: pos, end: end})
			pos = end
			continue
		}

		end := nextSpace(input, pos)
		tokens = append(tokens, token{text: input[pos:end], start: pos, end: end})
		pos = end
	}
	return tokens
}

// matchSpacedRemote returns the byte length of the longest remote in spaced
// that prefixes s case-insensitively and ends at whitespace, a colon or the
// end of s.
func matchSpacedRemote(s string, spaced []string) int {
	for _, r := range spaced {
		if len(s) < len(r) || !strings.EqualFold(s[:len(r)], r) {
			continue
		}
		if len(s) == len(r) {
			return len(r)
		}
		next, _ := utf8.DecodeRuneInString(s[len(r):])
		if next == ':' || unicode.IsSpace(next) {
			return len(r)
		}
	}
	return 0
}

func skipSpace(s string, pos int) int {
	for pos < len(s) {
		r, size := utf8.DecodeRuneInString(s[pos:])
		if !unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	return pos
}

func nextSpace(s string, pos int) int {
	for pos < len(s) {
		r, size := utf8.DecodeRuneInString(s[pos:])
		if unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	return pos
}

func stripToken(s string) string {
	s = strings.TrimLeft(s, quoteChars)
	return strings.TrimRight(s, trailingTrimSet)
}

// classify decides whether a cleaned token is a remote reference, a remote
// path, a local path, or plain text.
func classify(s string, canonical map[string]string, remoteTypes map[string]string) (Path, bool) {
	if name, ok := canonical[strings.ToLower(s)]; ok {
		return Path{Full: name, RemoteName: name, RemoteType: remoteTypes[name]}, true
	}

	if name, rest, ok := splitRemotePath(s); ok {
		remote, known := canonical[strings.ToLower(name)]
		if !known {
			return Path{}, false
		}
		return Path{Full: remote + ":" + rest, RemoteName: remote, RemoteType: remoteTypes[remote]}, true
	}

	if isLocalPath(s) {
		return Path{Full: s, IsLocal: true}, true
	}
	return Path{}, false
}

// splitRemotePath reports whether s has the shape name:rest, excluding URLs
// and Windows drive paths.
func splitRemotePath(s string) (name, rest string, ok bool) {
	if strings.Contains(s, "://") {
		return "", "", false
	}
	name, rest, found := strings.Cut(s, ":")
	if !found || name == "" {
		return "", "", false
	}
	if isDriveLetter(name) && (strings.HasPrefix(rest, "\\") || strings.HasPrefix(rest, "/")) {
		return "", "", false
	}
	return name, rest, true
}

func isLocalPath(s string) bool {
	for _, prefix := range []string{"/", "~/", "./", "../"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return hasDrivePrefix(s)
}

// hasDrivePrefix matches X:\ and X:/.
func hasDrivePrefix(s string) bool {
	return len(s) >= 3 && isDriveLetter(s[:1]) && s[1] == ':' && (s[2] == '\\' || s[2] == '/')
}

func isDriveLetter(s string) bool {
	if len(s) != 1 {
		return false
	}
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// removeSpans cuts every span out of s. Spans are ordered and disjoint
// because they come from a single left-to-right tokenization.
func removeSpans(s string, spans []token) string {
	if len(spans) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	prev := 0
	for _, sp := range spans {
		b.WriteString(s[prev:sp.start])
		prev = sp.end
	}
	b.WriteString(s[prev:])
	return strings.TrimSpace(b.String())
}
