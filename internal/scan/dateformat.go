package scan

import "strings"

// DefaultDailyFormat is the expected Obsidian daily-note format when
// the Logseq journal format cannot be read.
const DefaultDailyFormat = "YYYY-MM-DD"

// TranslateDateFormat maps a Logseq :journal/page-title-format token
// string to the equivalent Obsidian daily-note format: the four-letter
// lowercase year token becomes uppercase, day and month tokens pass
// through, underscores become hyphens.
func TranslateDateFormat(logseqFormat string) string {
	if logseqFormat == "" {
		return DefaultDailyFormat
	}
	out := strings.ReplaceAll(logseqFormat, "yyyy", "YYYY")
	out = strings.ReplaceAll(out, "_", "-")
	return out
}
