// Package logseq reads and rewrites the Logseq structured text config
// (config.edn): the favorites list and the journal page-title format.
package logseq

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// commentMarker prefixes comment lines in the config text.
const commentMarker = ";;"

var (
	// Non-greedy up to the first closing bracket. A literal ] inside a
	// quoted name truncates the capture; known input-format limitation.
	favoritesRe   = regexp.MustCompile(`:favorites\s*\[([^\]]*)\]`)
	quotedNameRe  = regexp.MustCompile(`"([^"]*)"`)
	titleFormatRe = regexp.MustCompile(`:journal/page-title-format\s+"([^"]*)"`)
)

// maskComments blanks out comment lines while preserving byte offsets,
// so matches found in the masked text can be spliced into the original.
func maskComments(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), commentMarker) {
			lines[i] = strings.Repeat(" ", len(line))
		}
	}
	return strings.Join(lines, "\n")
}

// ExtractFavorites returns the favorite page names from the config text,
// deduplicated, in encounter order. An absent :favorites key yields an
// empty result, not an error.
func ExtractFavorites(text string) []string {
	m := favoritesRe.FindStringSubmatch(maskComments(text))
	if m == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, q := range quotedNameRe.FindAllStringSubmatch(m[1], -1) {
		name := q[1]
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// PageTitleFormat returns the :journal/page-title-format value, or empty
// string when the key is absent.
func PageTitleFormat(text string) string {
	m := titleFormatRe.FindStringSubmatch(maskComments(text))
	if m == nil {
		return ""
	}
	return m[1]
}

// SerializeFavorites renders names sorted ascending as a quoted,
// space-separated list body.
func SerializeFavorites(names []string) string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	quoted := make([]string, len(sorted))
	for i, n := range sorted {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, " ")
}

// SpliceFavorites substitutes the full favorites set back into the
// config text. The rest of the text is preserved byte-for-byte outside
// the substituted span; when the key is absent a new one is appended.
func SpliceFavorites(text string, names []string) string {
	entry := ":favorites [" + SerializeFavorites(names) + "]"
	loc := favoritesRe.FindStringIndex(maskComments(text))
	if loc == nil {
		if text != "" && !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		return text + entry + "\n"
	}
	return text[:loc[0]] + entry + text[loc[1]:]
}
