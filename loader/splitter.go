package loader

import (
	"strings"
	"unicode/utf8"
)

// defaultSeparators is the split hierarchy, largest semantic unit first.
var defaultSeparators = []string{
	"\n\n", // paragraph break
	"\n",   // line break
	". ",   // sentence end
	"? ",
	"! ",
	" ", // word boundary
	"",  // character (last resort)
}

// Splitter breaks text into chunks of at most chunkSize bytes where
// consecutive chunks share overlap bytes. It recursively tries larger
// separators first so chunk boundaries land on paragraph or sentence
// breaks whenever possible. Splitting is deterministic, and every byte of
// the input appears in at least one chunk.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 800
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 5
	}
	return &Splitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: defaultSeparators,
	}
}

// SplitText splits text into overlapping chunks. The overlap is realized
// as a prefix copied from the previous chunk, so the chunk bodies alone
// concatenate back to the original text.
func (s *Splitter) SplitText(text string) []string {
	if text == "" {
		return nil
	}

	// Bodies are budgeted to chunkSize-overlap so the final chunk,
	// overlap prefix included, never exceeds chunkSize.
	limit := s.chunkSize - s.overlap

	pieces := splitRecursive(text, s.separators, limit)
	bodies := mergePieces(pieces, limit)
	return s.addOverlap(bodies)
}

// splitRecursive cuts text into pieces of at most limit bytes, trying
// separators in order. The concatenation of the pieces is exactly text.
func splitRecursive(text string, separators []string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	if len(separators) == 0 {
		return hardCut(text, limit)
	}

	sep := separators[0]
	rest := separators[1:]

	if sep == "" {
		return hardCut(text, limit)
	}
	if !strings.Contains(text, sep) {
		return splitRecursive(text, rest, limit)
	}

	// SplitAfter keeps the separator attached, so nothing is lost.
	parts := strings.SplitAfter(text, sep)
	var pieces []string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if len(part) > limit {
			pieces = append(pieces, splitRecursive(part, rest, limit)...)
		} else {
			pieces = append(pieces, part)
		}
	}
	return pieces
}

// hardCut slices text into limit-sized pieces at rune boundaries.
func hardCut(text string, limit int) []string {
	var pieces []string
	for len(text) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = limit // degenerate input, split mid-rune rather than loop
		}
		pieces = append(pieces, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		pieces = append(pieces, text)
	}
	return pieces
}

// mergePieces greedily packs adjacent pieces into bodies of at most limit
// bytes, preserving order and content.
func mergePieces(pieces []string, limit int) []string {
	var bodies []string
	var cur strings.Builder
	for _, piece := range pieces {
		if cur.Len() > 0 && cur.Len()+len(piece) > limit {
			bodies = append(bodies, cur.String())
			cur.Reset()
		}
		cur.WriteString(piece)
	}
	if cur.Len() > 0 {
		bodies = append(bodies, cur.String())
	}
	return bodies
}

// addOverlap prefixes every body after the first with the tail of its
// predecessor.
func (s *Splitter) addOverlap(bodies []string) []string {
	if s.overlap <= 0 || len(bodies) <= 1 {
		return bodies
	}
	out := make([]string, len(bodies))
	out[0] = bodies[0]
	for i := 1; i < len(bodies); i++ {
		prev := bodies[i-1]
		start := len(prev) - s.overlap
		if start < 0 {
			start = 0
		}
		for start > 0 && start < len(prev) && !utf8.RuneStart(prev[start]) {
			start++
		}
		out[i] = prev[start:] + bodies[i]
	}
	return out
}
