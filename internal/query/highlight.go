package query

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// Segment is a run of display text, marked when it matches the search term.
type Segment struct {
	Text    string `json:"text"`
	Matched bool   `json:"matched"`
}

// markPolicy strips everything except the <mark> wrappers HighlightHTML adds.
var markPolicy = bluemonday.StrictPolicy().AllowElements("mark")

// foldedText is text in the same folded form Filter searches, with every
// folded byte traced back to the normalization segment it came from.
type foldedText struct {
	folded string
	owner  []int    // segment index per folded byte
	bounds [][2]int // original byte range per segment
	starts []int    // folded offset per segment
}

func foldText(f *folder, text string) foldedText {
	var ft foldedText
	var b strings.Builder
	var it norm.Iter
	it.InitString(norm.NFC, text)
	for !it.Done() {
		start := it.Pos()
		seg := f.caser.String(string(it.Next()))
		idx := len(ft.bounds)
		ft.bounds = append(ft.bounds, [2]int{start, it.Pos()})
		ft.starts = append(ft.starts, b.Len())
		b.WriteString(seg)
		for range len(seg) {
			ft.owner = append(ft.owner, idx)
		}
	}
	ft.folded = b.String()
	return ft
}

// Highlight splits text around every occurrence of term, compared the way
// Filter compares (case folded, NFC), so "strasse" marks "Straße". The term
// is matched literally. Empty text or term yields a single unmatched segment.
func Highlight(text, term string) []Segment {
	if text == "" || term == "" {
		return []Segment{{Text: text}}
	}

	f := newFolder()
	needle := f.fold(term)
	if needle == "" {
		return []Segment{{Text: text}}
	}
	ft := foldText(f, text)

	var segments []Segment
	last, pos := 0, 0
	for pos < len(ft.folded) {
		i := strings.Index(ft.folded[pos:], needle)
		if i < 0 {
			break
		}
		first, final := ft.owner[pos+i], ft.owner[pos+i+len(needle)-1]
		start, end := ft.bounds[first][0], ft.bounds[final][1]

		if start > last {
			segments = append(segments, Segment{Text: text[last:start]})
		}
		segments = append(segments, Segment{Text: text[start:end], Matched: true})
		last = end

		if final+1 < len(ft.starts) {
			pos = ft.starts[final+1]
		} else {
			pos = len(ft.folded)
		}
	}

	if len(segments) == 0 {
		return []Segment{{Text: text}}
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

// HighlightHTML renders Highlight's segments as escaped HTML with matches
// wrapped in <mark>.
func HighlightHTML(text, term string) string {
	var b strings.Builder
	for _, s := range Highlight(text, term) {
		if s.Matched {
			b.WriteString("<mark>")
			b.WriteString(html.EscapeString(s.Text))
			b.WriteString("</mark>")
			continue
		}
		b.WriteString(html.EscapeString(s.Text))
	}
	return markPolicy.Sanitize(b.String())
}

// HasMatch reports whether any segment matched.
func HasMatch(segments []Segment) bool {
	for _, s := range segments {
		if s.Matched {
			return true
		}
	}
	return false
}
