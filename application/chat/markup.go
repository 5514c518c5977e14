package chat

import "strings"

// SpanKind classifies an inline text run
type SpanKind string

// Inline run kinds
const (
	SpanPlain  SpanKind = "plain"
	SpanBold   SpanKind = "bold"
	SpanItalic SpanKind = "italic"
)

// Span is a run of text with a single style
type Span struct {
	Kind SpanKind `json:"kind"`
	Text string   `json:"text"`
}

// BlockKind classifies a line-level element
type BlockKind string

// Block kinds
const (
	BlockParagraph BlockKind = "paragraph"
	BlockHeader    BlockKind = "header"
	BlockBullet    BlockKind = "bullet"
)

// Block is one line-level element of a parsed reply
type Block struct {
	Kind  BlockKind `json:"kind"`
	Level int       `json:"level,omitempty"`
	Spans []Span    `json:"spans"`
}

// Parse converts assistant reply text into a structured block list so the
// presentation layer never interprets raw markup. Supported forms are
// headers (leading #), bullets (leading - or *) and **bold** / *italic*
// inline runs; everything else is a plain paragraph. Malformed markers are
// kept as literal text rather than dropped.
func Parse(text string) []Block {
	var blocks []Block
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "#"):
			level := 0
			for level < len(trimmed) && trimmed[level] == '#' {
				level++
			}
			rest := strings.TrimSpace(trimmed[level:])
			if rest == "" {
				blocks = append(blocks, Block{Kind: BlockParagraph, Spans: parseSpans(trimmed)})
				continue
			}
			if level > 4 {
				level = 4
			}
			blocks = append(blocks, Block{Kind: BlockHeader, Level: level, Spans: parseSpans(rest)})

		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			blocks = append(blocks, Block{Kind: BlockBullet, Spans: parseSpans(strings.TrimSpace(trimmed[2:]))})

		default:
			blocks = append(blocks, Block{Kind: BlockParagraph, Spans: parseSpans(trimmed)})
		}
	}
	return blocks
}

// parseSpans splits a line into styled runs. An unmatched ** or * is
// treated as literal text.
func parseSpans(text string) []Span {
	var spans []Span
	plainStart := 0
	i := 0

	flushPlain := func(end int) {
		if end > plainStart {
			spans = append(spans, Span{Kind: SpanPlain, Text: text[plainStart:end]})
		}
	}

	for i < len(text) {
		if strings.HasPrefix(text[i:], "**") {
			if end := strings.Index(text[i+2:], "**"); end > 0 {
				flushPlain(i)
				spans = append(spans, Span{Kind: SpanBold, Text: text[i+2 : i+2+end]})
				i += 2 + end + 2
				plainStart = i
				continue
			}
			i += 2
			continue
		}
		if text[i] == '*' {
			if end := strings.IndexByte(text[i+1:], '*'); end > 0 {
				flushPlain(i)
				spans = append(spans, Span{Kind: SpanItalic, Text: text[i+1 : i+1+end]})
				i += 1 + end + 1
				plainStart = i
				continue
			}
		}
		i++
	}
	flushPlain(len(text))

	if spans == nil {
		spans = []Span{{Kind: SpanPlain, Text: text}}
	}
	return spans
}
