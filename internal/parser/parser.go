// Package parser analyzes Markdown content: Logseq task markers and
// frontmatter-aware line insertion.
package parser

import (
	"regexp"
	"strings"
)

// Marker vocabulary. TODO/DOING/NOW are open or in-progress,
// LATER/WAITING are scheduled, DONE is completed.
var (
	uncheckedRe = regexp.MustCompile(`(?mi)^([ \t]*)(?:- )?(?:TODO|DOING|NOW|LATER|WAITING) `)
	checkedRe   = regexp.MustCompile(`(?mi)^([ \t]*)(?:- )?DONE `)
)

// HasTaskMarker reports whether content contains a marker line the
// rewrite would act on. Detection matches the rewrite exactly, so every
// flagged file changes when its fix is applied; markers in mid-line
// prose are not task lines.
func HasTaskMarker(content string) bool {
	return uncheckedRe.MatchString(content) || checkedRe.MatchString(content)
}

// RewriteTaskMarkers converts marker-prefixed lines to checkbox task
// syntax: open/in-progress/scheduled markers become "- [ ] ", done
// markers become "- [x] ". Matching is line-anchored, case-insensitive,
// tolerates a leading list dash, and preserves the rest of the line.
func RewriteTaskMarkers(content string) string {
	out := uncheckedRe.ReplaceAllString(content, "${1}- [ ] ")
	out = checkedRe.ReplaceAllString(out, "${1}- [x] ")
	return out
}

const fmDelim = "---"

// frontmatterEnd returns the offset just past the closing frontmatter
// delimiter line, or -1 when content has no leading frontmatter block.
// The close delimiter must be a whole line: a longer dash run (a
// horizontal rule) inside the block does not close it.
func frontmatterEnd(content string) int {
	if !strings.HasPrefix(content, fmDelim+"\n") {
		return -1
	}
	rest := content[len(fmDelim)+1:]
	for off := 0; ; {
		idx := strings.Index(rest[off:], "\n"+fmDelim)
		if idx < 0 {
			return -1
		}
		lineStart := off + idx + 1
		lineEnd := lineStart + len(fmDelim)
		if lineEnd == len(rest) || rest[lineEnd] == '\n' {
			end := len(fmDelim) + 1 + lineEnd
			// Swallow the newline after the closing delimiter when present.
			if end < len(content) && content[end] == '\n' {
				end++
			}
			return end
		}
		off = lineStart
	}
}

// InsertAfterFrontmatter inserts line (with a trailing newline) after
// the frontmatter block when one is present, else prepends it.
func InsertAfterFrontmatter(content, line string) string {
	end := frontmatterEnd(content)
	if end < 0 {
		return line + "\n" + content
	}
	return content[:end] + line + "\n" + content[end:]
}
