// Package mgctrace gives every preprocessed MML line a verifiable position
// record tying it back to the original source, completing the VLQ source
// map round trip left unfinished as a TODO in the prior version (see
// DESIGN.md). The preprocessor guarantees stripped and raw line counts match 1:1,
// but commands, the parser, and engines all read from the *stripped*
// text; mgctrace is how a diagnostic raised against stripped-text byte
// offsets is translated back to the MML file the user actually wrote.
package mgctrace

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	sourcemap "github.com/go-sourcemap/sourcemap"
)

// Mapping records a single original-line → generated-line correspondence.
// Column is always 0: the preprocessor only ever shifts whole lines
// (comments out a directive line, blanks out a disabled line), never
// columns within a line, so every mapping is line-granular.
type Mapping struct {
	SourceLine int
	GenLine    int
}

// Generator accumulates Mappings while the preprocessor walks the source,
// then encodes them as a standard Source Map v3 payload.
type Generator struct {
	sourceFile string
	mappings   []Mapping
}

// NewGenerator creates a Generator attributing every mapping to sourceFile.
func NewGenerator(sourceFile string) *Generator {
	return &Generator{sourceFile: sourceFile}
}

// Add records that generated line genLine (1-indexed) corresponds to
// source line srcLine (1-indexed) in the original MML text.
func (g *Generator) Add(srcLine, genLine int) {
	g.mappings = append(g.mappings, Mapping{SourceLine: srcLine, GenLine: genLine})
}

// vlqBase64 is the standard source-map base64 alphabet.
const vlqBase64 = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// encodeVLQ appends the Base64-VLQ encoding of value to buf.
func encodeVLQ(buf []byte, value int) []byte {
	vlq := value << 1
	if value < 0 {
		vlq = (-value << 1) | 1
	}
	for {
		digit := vlq & 0x1f
		vlq >>= 5
		if vlq > 0 {
			digit |= 0x20
		}
		buf = append(buf, vlqBase64[digit])
		if vlq == 0 {
			break
		}
	}
	return buf
}

// Generate encodes the accumulated mappings as a Source Map v3 JSON
// document whose "mappings" field is properly VLQ-encoded (see
// DESIGN.md: the prior generator left this field empty).
func (g *Generator) Generate(genFile string) ([]byte, error) {
	mappingsStr := g.encodeMappings()

	doc := struct {
		Version  int      `json:"version"`
		File     string   `json:"file"`
		Sources  []string `json:"sources"`
		Names    []string `json:"names"`
		Mappings string   `json:"mappings"`
	}{
		Version:  3,
		File:     genFile,
		Sources:  []string{g.sourceFile},
		Names:    []string{},
		Mappings: mappingsStr,
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("mgctrace: marshal source map: %w", err)
	}
	return data, nil
}

// encodeMappings emits one VLQ segment group per generated line, in the
// "AAAA" / "AACA" style used by the Source Map v3 format: each segment is
// [genCol, sourceIndex, sourceLine, sourceCol], all deltas from the
// previous segment's fields (only genCol resets to 0 on a new line;
// segments on different lines are separated by ';'; sourceIndex,
// sourceLine and sourceCol deltas are cumulative across the whole mapping).
func (g *Generator) encodeMappings() string {
	if len(g.mappings) == 0 {
		return ""
	}

	var out []byte
	prevGenLine := 1
	prevSourceLine := 0
	first := true

	for _, m := range g.mappings {
		for prevGenLine < m.GenLine {
			out = append(out, ';')
			prevGenLine++
		}
		if !first && len(out) > 0 && out[len(out)-1] != ';' {
			out = append(out, ',')
		}
		first = false

		out = encodeVLQ(out, 0)                          // generated column (always 0: line granular)
		out = encodeVLQ(out, 0)                          // source index (single source file)
		out = encodeVLQ(out, m.SourceLine-1-prevSourceLine) // source line delta (0-indexed)
		out = encodeVLQ(out, 0)                          // source column
		prevSourceLine = m.SourceLine - 1
	}

	return string(out)
}

// Consumer looks up original-source positions for generated-line
// positions, backed by go-sourcemap's VLQ parser.
type Consumer struct {
	sm *sourcemap.Consumer
}

// NewConsumer parses a Source Map v3 document produced by Generate.
func NewConsumer(data []byte) (*Consumer, error) {
	sm, err := sourcemap.Parse("", data)
	if err != nil {
		return nil, fmt.Errorf("mgctrace: parse source map: %w", err)
	}
	return &Consumer{sm: sm}, nil
}

// SourceLine returns the original 1-indexed source line for a generated
// 1-indexed line number.
func (c *Consumer) SourceLine(genLine int) (line int, ok bool) {
	_, _, srcLine, _, found := c.sm.Source(genLine-1, 0)
	if !found {
		return 0, false
	}
	return srcLine + 1, true
}

// B64 is exposed for callers that want to embed a generated map inline.
func B64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
