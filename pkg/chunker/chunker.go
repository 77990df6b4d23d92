// Package chunker splits normalized document text into bounded, labeled,
// overlapping chunks suitable for embedding and retrieval.
package chunker

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// DefaultMaxChars bounds the size of a single chunk.
	DefaultMaxChars = 1200

	// DefaultOverlapChars is how much trailing text a chunk carries into
	// its successor so content near a boundary is retrievable from either.
	DefaultOverlapChars = 150

	// DefaultSection labels text that appears under no detected heading.
	DefaultSection = "BODY"
)

// headingRe matches common resume section headings on a line of their own.
var headingRe = regexp.MustCompile(`(?i)^(summary|experience|work experience|projects|skills|education|certifications|certificates|publications|achievements|languages|interests)$`)

var (
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
	lineEdgeRe   = regexp.MustCompile(` *\n *`)
	newlineRunRe = regexp.MustCompile(`\n{3,}`)
)

// Chunk is a bounded span of document text, the atomic retrievable and
// citable unit. Text always equals the normalized document text between
// StartOffset and EndOffset.
type Chunk struct {
	ChunkID     string
	DocID       string
	Ordinal     int
	Text        string
	Section     string
	StartOffset int
	EndOffset   int
}

// Config holds chunking bounds.
type Config struct {
	// MaxChars is the maximum chunk size. Defaults to DefaultMaxChars.
	MaxChars int

	// OverlapChars is the overlap carried between adjacent chunks.
	// Defaults to DefaultOverlapChars, clamped to half of MaxChars.
	OverlapChars int
}

// Chunker packs section paragraphs into bounded overlapping chunks.
type Chunker struct {
	maxChars int
	overlap  int
}

// New creates a Chunker, applying defaults for zero or invalid bounds.
func New(cfg Config) *Chunker {
	maxChars := cfg.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	overlap := cfg.OverlapChars
	if overlap < 0 {
		overlap = DefaultOverlapChars
	}
	// An overlap beyond half the chunk size would replicate boundary text
	// into three or more chunks.
	if overlap > maxChars/2 {
		overlap = maxChars / 2
	}
	return &Chunker{maxChars: maxChars, overlap: overlap}
}

// Normalize collapses horizontal whitespace runs, strips spaces around line
// breaks, squeezes blank-line runs down to a single blank line, and trims the
// ends. Chunk offsets are relative to the normalized text.
func Normalize(text string) string {
	s := strings.ReplaceAll(text, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = lineEdgeRe.ReplaceAllString(s, "\n")
	s = newlineRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// section is a labeled contiguous region of the normalized text.
type section struct {
	label string
	start int
	end   int
}

// splitSections scans the normalized text line by line, starting a new
// section at every heading line. Headings are labels, not content. Text
// before the first heading falls under DefaultSection.
func splitSections(text string) []section {
	var sections []section
	label := DefaultSection
	bodyStart := 0
	pos := 0

	flush := func(end int) {
		if strings.TrimSpace(text[bodyStart:end]) != "" {
			sections = append(sections, section{label: label, start: bodyStart, end: end})
		}
	}

	for pos < len(text) {
		lineEnd := strings.IndexByte(text[pos:], '\n')
		if lineEnd < 0 {
			lineEnd = len(text)
		} else {
			lineEnd += pos
		}
		line := text[pos:lineEnd]
		if headingRe.MatchString(line) {
			flush(pos)
			label = line
			bodyStart = lineEnd
			if bodyStart < len(text) {
				bodyStart++ // skip the newline after the heading
			}
		}
		pos = lineEnd + 1
	}
	flush(len(text))
	return sections
}

// paragraph is a contiguous paragraph with its absolute offset.
type paragraph struct {
	text string
	off  int
}

func splitParagraphs(text string, base int) []paragraph {
	var paras []paragraph
	off := 0
	for _, part := range strings.Split(text, "\n\n") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			lead := strings.Index(part, trimmed)
			paras = append(paras, paragraph{text: trimmed, off: base + off + lead})
		}
		off += len(part) + 2
	}
	return paras
}

// Split chunks normalized document text. Returned chunks carry strictly
// increasing ordinals; an empty document yields nil. The input must already
// be normalized (see Normalize).
func (c *Chunker) Split(docID, text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	sections := splitSections(text)
	if len(sections) == 0 {
		sections = []section{{label: DefaultSection, start: 0, end: len(text)}}
	}

	var chunks []Chunk
	ordinal := 0

	emit := func(label string, start, end int) {
		chunks = append(chunks, Chunk{
			ChunkID:     fmt.Sprintf("%s:%04d", docID, ordinal),
			DocID:       docID,
			Ordinal:     ordinal,
			Text:        text[start:end],
			Section:     label,
			StartOffset: start,
			EndOffset:   end,
		})
		ordinal++
	}

	for _, sec := range sections {
		paras := splitParagraphs(text[sec.start:sec.end], sec.start)

		// buf spans text[bufStart:bufEnd]; bufStart < 0 means empty.
		bufStart, bufEnd := -1, -1

		for _, p := range paras {
			pEnd := p.off + len(p.text)

			if bufStart >= 0 && pEnd-bufStart <= c.maxChars {
				bufEnd = pEnd
				continue
			}
			if bufStart < 0 && len(p.text) <= c.maxChars {
				bufStart, bufEnd = p.off, pEnd
				continue
			}

			// Flush the buffer, remembering its tail for overlap.
			tail := 0
			if bufStart >= 0 {
				emit(sec.label, bufStart, bufEnd)
				tail = c.overlap
				if tail > bufEnd-bufStart {
					tail = bufEnd - bufStart
				}
			}

			if len(p.text) <= c.maxChars {
				// Start the next chunk with the overlap tail of the
				// flushed one so boundary text lives in both.
				bufStart, bufEnd = bufEnd-tail, pEnd
				if bufEnd-bufStart > c.maxChars {
					bufStart = p.off
				}
				continue
			}

			// Oversized paragraph: hard-split with the same overlap.
			stride := c.maxChars - c.overlap
			if stride <= 0 {
				stride = c.maxChars
			}
			for start := p.off; start < pEnd; start += stride {
				end := start + c.maxChars
				if end > pEnd {
					end = pEnd
				}
				emit(sec.label, start, end)
				if end == pEnd {
					break
				}
			}
			bufStart, bufEnd = -1, -1
		}

		if bufStart >= 0 {
			emit(sec.label, bufStart, bufEnd)
		}
	}

	return chunks
}
