package parser

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"i18n-extractor/internal/hashlit"
)

// HAMLParser splits HAML templates into typed lines. It reads each line on
// its own apart from tracking filter and -# comment blocks; it does not
// build a document tree.
type HAMLParser struct{}

func NewHAMLParser() *HAMLParser { return &HAMLParser{} }

func (p *HAMLParser) CanParse(ext string) bool {
	return ext == ".haml"
}

func (p *HAMLParser) Parse(filePath string) (*ParseResult, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open haml file: %w", err)
	}
	defer file.Close()

	var rawLines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		rawLines = append(rawLines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan haml file: %w", err)
	}

	result := ParseLines(rawLines)
	result.FilePath = filePath
	return result, nil
}

// ParseLines types each of rawLines. Blank lines produce no record.
func ParseLines(rawLines []string) *ParseResult {
	result := &ParseResult{RawLines: rawLines}

	// Indentation of an open filter or -# block; -1 when none.
	blockIndent := -1
	blockType := LineFilter

	for i, raw := range rawLines {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		indent := len(Indentation(raw))

		if blockIndent >= 0 {
			if indent > blockIndent {
				result.Lines = append(result.Lines, SourceLine{Type: blockType, Number: i + 1, Raw: raw, Text: trimmed})
				continue
			}
			blockIndent = -1
		}

		line := ParseLine(raw)
		line.Number = i + 1
		if line.Type == LineFilter || line.Type == LineHamlComment {
			blockIndent = indent
			blockType = line.Type
		}
		result.Lines = append(result.Lines, line)
	}
	return result
}

// ParseLine types a single line with no surrounding context.
func ParseLine(raw string) SourceLine {
	text := strings.TrimSpace(raw)
	line := SourceLine{Raw: raw, Text: text}

	switch {
	case text == "":
		line.Type = LineRoot
	case strings.HasPrefix(text, "!!!"):
		line.Type = LineDoctype
	case strings.HasPrefix(text, "-#"):
		line.Type = LineHamlComment
	case strings.HasPrefix(text, "-"):
		line.Type = LineSilentScript
		line.Text = strings.TrimSpace(text[1:])
	case hasScriptMarker(text):
		line.Type = LineScript
		line.Text = stripScriptMarker(text)
	case strings.HasPrefix(text, "/"):
		line.Type = LineComment
		line.Text = strings.TrimSpace(text[1:])
	case strings.HasPrefix(text, ":") && len(text) > 1 && isWordByte(text[1]):
		line.Type = LineFilter
	case isTagStart(text):
		line.Type = LineTag
		line.Tag = parseTag(raw)
	case strings.HasPrefix(text, `\`):
		line.Type = LinePlain
		line.Text = text[1:]
	default:
		line.Type = LinePlain
	}
	return line
}

// Indentation returns the leading whitespace of s.
func Indentation(s string) string {
	return s[:SkipIndent(s, 0)]
}

func hasScriptMarker(text string) bool {
	for _, m := range []string{"=", "!=", "&=", "~"} {
		if strings.HasPrefix(text, m) {
			return true
		}
	}
	return false
}

func stripScriptMarker(text string) string {
	for _, m := range []string{"!=", "&=", "=", "~"} {
		if strings.HasPrefix(text, m) {
			return strings.TrimSpace(text[len(m):])
		}
	}
	return text
}

func isTagStart(text string) bool {
	if len(text) < 2 {
		return false
	}
	switch text[0] {
	case '%':
		return isWordByte(text[1])
	case '.', '#':
		return isWordByte(text[1]) || text[1] == '-'
	}
	return false
}

func parseTag(raw string) *TagFields {
	tag := &TagFields{Attributes: make(map[string]string), Name: "div"}

	pos := SkipIndent(raw, 0)
	if end := SkipTagName(raw, pos); end > pos {
		tag.Name = raw[pos+1 : end]
		pos = end
	}
	pos = SkipShorthand(raw, pos)

	var dynamicNew []string
	for pos < len(raw) {
		open := raw[pos]
		if open != '{' && open != '(' && open != '[' {
			break
		}
		end := BlockEnd(raw, pos)
		block := raw[pos:end]
		pos = end

		switch open {
		case '{':
			tag.AttributesHashes = append(tag.AttributesHashes, strings.TrimSuffix(block[1:], "}"))
			if !staticHash(block, tag.Attributes) {
				tag.DynamicAttributes.Old = block
			}
		case '(':
			dynamicNew = append(dynamicNew, htmlAttributes(block, tag.Attributes)...)
		}
	}
	if len(dynamicNew) > 0 {
		tag.DynamicAttributes.New = "{" + strings.Join(dynamicNew, ", ") + "}"
	}

	// Whitespace removal and self-closing markers.
	for pos < len(raw) && (raw[pos] == '<' || raw[pos] == '>') {
		pos++
	}
	rest := raw[pos:]
	switch {
	case hasScriptMarker(rest):
		tag.Parse = true
		tag.Value = stripScriptMarker(rest)
	case strings.HasPrefix(rest, "/"):
	default:
		tag.Value = strings.TrimSpace(rest)
	}
	return tag
}

// staticHash copies literal entries of a {...} block into attrs and reports
// whether every entry was literal. Nested hashes flatten into hyphenated
// keys the way HAML renders data: {bind: ...}.
func staticHash(block string, attrs map[string]string) bool {
	h, err := hashlit.Parse(block)
	if err != nil {
		return false
	}
	return flatten("", h, attrs)
}

func flatten(prefix string, h hashlit.Hash, attrs map[string]string) bool {
	static := true
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := h[k]
		name := k
		if prefix != "" {
			name = prefix + "-" + k
		}
		switch v.Kind {
		case hashlit.String, hashlit.Symbol, hashlit.Number:
			attrs[name] = v.Str
		case hashlit.Nested:
			if !flatten(name, v.Hash, attrs) {
				static = false
			}
		default:
			static = false
		}
	}
	return static
}

// htmlAttributes reads a (name="value" other=expr) block. Quoted values go
// into attrs; the rest come back as hash-literal entries.
func htmlAttributes(block string, attrs map[string]string) []string {
	body := strings.TrimSuffix(strings.TrimPrefix(block, "("), ")")
	var dynamic []string
	pos := 0
	for {
		pos = SkipIndent(body, pos)
		if pos >= len(body) {
			return dynamic
		}
		start := pos
		for pos < len(body) && body[pos] != '=' && body[pos] != ' ' && body[pos] != '\t' {
			pos++
		}
		name := body[start:pos]
		if name == "" {
			pos++
			continue
		}
		if pos >= len(body) || body[pos] != '=' {
			attrs[name] = name
			continue
		}
		pos++
		if pos < len(body) && (body[pos] == '\'' || body[pos] == '"') {
			q := body[pos]
			end := stringEnd(body, pos)
			value := body[pos+1 : max(end, pos+1)]
			pos = end + 1
			if q == '"' && strings.Contains(value, "#{") {
				dynamic = append(dynamic, fmt.Sprintf("%q => \"%s\"", name, value))
				continue
			}
			attrs[name] = value
			continue
		}
		vstart := pos
		for pos < len(body) && body[pos] != ' ' && body[pos] != '\t' {
			if body[pos] == '(' || body[pos] == '[' || body[pos] == '{' {
				pos = BlockEnd(body, pos)
				continue
			}
			pos++
		}
		dynamic = append(dynamic, fmt.Sprintf("%q => %s", name, body[vstart:pos]))
	}
}

func (p *HAMLParser) Reconstruct(result *ParseResult, replacements map[int]string) ([]byte, error) {
	lines := make([]string, len(result.RawLines))
	copy(lines, result.RawLines)

	for lineNum, text := range replacements {
		idx := lineNum - 1
		if idx < 0 || idx >= len(lines) {
			return nil, fmt.Errorf("reconstruct %s: line %d out of range", result.FilePath, lineNum)
		}
		lines[idx] = text
	}

	return []byte(strings.Join(lines, "\n") + "\n"), nil
}
