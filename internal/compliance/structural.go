package compliance

import (
	"sort"
	"strings"
)

// insertion is one pending CTA insertion at a byte offset of the body.
type insertion struct {
	offset  int
	snippet string
}

// ApplyStructure runs the deterministic structural pass: heading line,
// disclosure-tag prefix, disclosure sentence as the second line, and a
// minimum number of CTA links at fixed anchor points. Pure text
// transformation, no network calls. Running it on its own output is a
// no-op.
func ApplyStructure(text, affiliateURL string, cc *Context) string {
	lines := splitLines(text)
	if len(lines) == 0 {
		return text
	}

	first := strings.TrimSpace(lines[0])
	if !strings.HasPrefix(first, "# ") {
		lines = append([]string{"# " + cc.HeadingTag + " " + cc.PlaceholderTitle}, lines...)
	} else {
		title := strings.TrimSpace(lines[0][2:])
		if !strings.HasPrefix(title, cc.HeadingTag) {
			lines[0] = "# " + cc.HeadingTag + " " + title
		}
	}

	if len(lines) < 2 || !strings.Contains(lines[1], cc.Disclosure) {
		lines = append(lines[:1], append([]string{cc.Disclosure}, lines[1:]...)...)
	}

	body := strings.Join(lines, "\n")
	return insertCTAs(body, affiliateURL, cc)
}

// insertCTAs guarantees at least cc.MinCTAs of the canonical CTA
// phrasings appear in body. Missing phrasings are inserted at two fixed
// anchor points: after the paragraph break following the disclosure
// line, then after the first Markdown table block (else after the
// second H2, else at the end). A phrasing already present is never
// inserted again. Insertions apply in descending offset order so
// earlier ones do not invalidate later offsets.
func insertCTAs(body, affiliateURL string, cc *Context) string {
	ctas := cc.ctas(affiliateURL)

	var missing []string
	present := 0
	for _, cta := range ctas {
		if strings.Contains(body, cta) {
			present++
		} else {
			missing = append(missing, cta)
		}
	}

	needed := cc.MinCTAs - present
	if needed <= 0 {
		return body
	}
	if needed > len(missing) {
		needed = len(missing)
	}

	var inserts []insertion

	// Anchor 1: right after the paragraph break following the disclosure.
	offset := len(body)
	if disc := strings.Index(body, cc.Disclosure); disc != -1 {
		if pos := strings.Index(body[disc+len(cc.Disclosure):], "\n\n"); pos != -1 {
			offset = disc + len(cc.Disclosure) + pos
		}
	}
	inserts = append(inserts, insertion{offset, "\n\n" + missing[0] + "\n"})
	needed--

	// Anchor 2: after the first table block, else after the second H2,
	// else at the end of the document.
	if needed > 0 {
		cta := missing[1]
		lines := strings.Split(body, "\n")
		if end := firstTableEnd(lines); end != -1 {
			inserts = append(inserts, insertion{lineOffset(lines, end), "\n" + cta + "\n"})
		} else if h2s := headingIndexes(lines); len(h2s) >= 2 {
			inserts = append(inserts, insertion{lineOffset(lines, h2s[1]), "\n\n" + cta + "\n"})
		} else {
			inserts = append(inserts, insertion{len(body), "\n\n" + cta + "\n"})
		}
	}

	sort.Slice(inserts, func(i, j int) bool { return inserts[i].offset > inserts[j].offset })
	for _, ins := range inserts {
		body = body[:ins.offset] + ins.snippet + body[ins.offset:]
	}
	return body
}

// firstTableEnd returns the index of the blank line terminating the
// first Markdown table block, or -1 when no table exists.
func firstTableEnd(lines []string) int {
	inTable := false
	for i, l := range lines {
		if strings.HasPrefix(l, "|") {
			inTable = true
		} else if inTable && strings.TrimSpace(l) == "" {
			return i
		}
	}
	return -1
}

// headingIndexes returns line indexes of H2 headings.
func headingIndexes(lines []string) []int {
	var out []int
	for i, l := range lines {
		if strings.HasPrefix(l, "## ") {
			out = append(out, i)
		}
	}
	return out
}

// lineOffset returns the byte offset of the start of line i.
func lineOffset(lines []string, i int) int {
	offset := 0
	for j := 0; j < i; j++ {
		offset += len(lines[j]) + 1
	}
	return offset
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	return lines
}
