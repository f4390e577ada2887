package utils

import (
	"encoding/json"
	"strings"
)

// Bare words rewritten outside string literals
var bareLiterals = map[string]string{
	"undefined": "null",
	"None":      "null",
	"NaN":       "null",
	"True":      "true",
	"False":     "false",
}

// RepairJSON extracts the first JSON object or array from model output and
// returns it as valid JSON. Markdown code fences, surrounding prose and light
// syntax damage (unquoted keys, single quotes, trailing commas, undefined/None)
// are tolerated. The boolean is false when nothing decodable was found.
func RepairJSON(raw string) (json.RawMessage, bool) {
	text := stripCodeFences(raw)
	text = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(text)

	span, ok := locateJSONSpan(text)
	if !ok {
		return nil, false
	}

	if json.Valid([]byte(span)) {
		return json.RawMessage(span), true
	}

	repaired := repairSpan(span)
	if json.Valid([]byte(repaired)) {
		return json.RawMessage(repaired), true
	}
	return nil, false
}

// DecodeJSON repairs raw model output and decodes it into T.
// It never panics; the boolean reports success.
func DecodeJSON[T any](raw string) (T, bool) {
	var out T
	data, ok := RepairJSON(raw)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, false
	}
	return out, true
}

// repairSpan fixes unquoted keys, single-quoted strings, trailing commas and
// non-JSON literals. Double-quoted string literals are copied untouched.
func repairSpan(span string) string {
	var out strings.Builder
	out.Grow(len(span) + 16)

	lastSig := byte(0)
	pendingComma := false
	emit := func(tok string, sig byte) {
		if pendingComma {
			out.WriteByte(',')
			pendingComma = false
		}
		out.WriteString(tok)
		lastSig = sig
	}

	for i := 0; i < len(span); {
		c := span[i]
		switch {
		case c == ' ':
			if !pendingComma {
				out.WriteByte(c)
			}
			i++
		case c == '"':
			end, _ := stringEnd(span, i, '"')
			emit(span[i:end], '"')
			i = end
		case c == '\'':
			end, closed := stringEnd(span, i, '\'')
			body := span[i+1 : end]
			if closed {
				body = span[i+1 : end-1]
			}
			emit(requote(body), '"')
			i = end
		case c == ',':
			if pendingComma {
				// doubled comma
				i++
				continue
			}
			pendingComma = true
			lastSig = ','
			i++
		case c == '}' || c == ']':
			pendingComma = false
			out.WriteByte(c)
			lastSig = c
			i++
		case c == '-' || (c >= '0' && c <= '9'):
			j := i + 1
			for j < len(span) && strings.IndexByte("0123456789.eE+-", span[j]) >= 0 {
				j++
			}
			emit(span[i:j], '0')
			i = j
		case isIdentStart(c):
			j := i + 1
			for j < len(span) && isIdentPart(span[j]) {
				j++
			}
			word := span[i:j]
			k := j
			for k < len(span) && span[k] == ' ' {
				k++
			}
			switch {
			case (lastSig == '{' || lastSig == ',') && k < len(span) && span[k] == ':':
				emit(`"`+word+`"`, '"')
			case bareLiterals[word] != "":
				emit(bareLiterals[word], 'l')
			default:
				emit(word, 'l')
			}
			i = j
		default:
			emit(span[i:i+1], c)
			i++
		}
	}
	return out.String()
}

// stringEnd returns the index just past the literal opened at span[start].
// An unterminated literal runs to the end of span and reports closed=false.
func stringEnd(span string, start int, quote byte) (end int, closed bool) {
	for i := start + 1; i < len(span); i++ {
		switch span[i] {
		case '\\':
			i++
		case quote:
			return i + 1, true
		}
	}
	return len(span), false
}

// requote turns the body of a single-quoted literal into a JSON string
func requote(body string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body) && body[i+1] == '\'':
			b.WriteByte('\'')
			i++
		case c == '\\' && i+1 < len(body):
			b.WriteByte(c)
			b.WriteByte(body[i+1])
			i++
		case c == '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```JSON", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// locateJSONSpan returns the first balanced {...} or [...] span, skipping
// brackets inside string literals. If the brackets never balance, the span
// runs greedily to the last matching closer.
func locateJSONSpan(text string) (string, bool) {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", false
	}
	open := text[start]
	closer := byte('}')
	if open == '[' {
		closer = ']'
	}

	depth := 0
	inString := byte(0)
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == inString:
				inString = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			inString = c
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	end := strings.LastIndexByte(text, closer)
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}
