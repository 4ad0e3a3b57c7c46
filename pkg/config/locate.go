package config

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stardust-engine/shaderbuild/pkg/logger"
)

var locateLog = logger.New("config:locate")

var (
	additionalPropsPattern = regexp.MustCompile(`additional propert(?:y|ies) (.+?) not allowed`)
	quotedNamePattern      = regexp.MustCompile(`'([^']+)'`)
)

// pathSegment is one step of a JSON pointer: a mapping key or a list index.
type pathSegment struct {
	key     string
	index   int
	isIndex bool
}

func parsePointer(path string) []pathSegment {
	var segments []pathSegment
	for _, part := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		if part == "" {
			continue
		}
		if i, err := strconv.Atoi(part); err == nil {
			segments = append(segments, pathSegment{index: i, isIndex: true})
			continue
		}
		segments = append(segments, pathSegment{key: part})
	}
	return segments
}

// additionalPropertyNames extracts the offending keys from an
// "additional properties 'a', 'b' not allowed" message.
func additionalPropertyNames(message string) []string {
	match := additionalPropsPattern.FindStringSubmatch(message)
	if len(match) < 2 {
		return nil
	}
	var names []string
	for _, m := range quotedNamePattern.FindAllStringSubmatch(match[1], -1) {
		if name := strings.TrimSpace(m[1]); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// yamlLine is a non-blank, non-comment source line.
type yamlLine struct {
	number int
	indent int
	text   string
}

func significantLines(source string) []yamlLine {
	var lines []yamlLine
	for i, raw := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines = append(lines, yamlLine{
			number: i + 1,
			indent: len(raw) - len(strings.TrimLeft(raw, " \t")),
			text:   trimmed,
		})
	}
	return lines
}

func isKeyLine(text, key string) bool {
	return strings.HasPrefix(text, key+":") || strings.HasPrefix(text, `"`+key+`":`)
}

// locateLine maps a JSON pointer into the YAML source and returns its 1-based
// line, or 0 when it cannot be found. Errors about unknown keys point at the
// first unknown key inside the reported object.
func locateLine(source, path, message string) int {
	lines := significantLines(source)
	if len(lines) == 0 {
		return 0
	}

	// Search window [start, end) and the indentation its children must exceed.
	start, end, parentIndent := 0, len(lines), -1
	line := 0
	for _, seg := range parsePointer(path) {
		found := -1
		childIndent := -1
		count := 0
		for i := start; i < end; i++ {
			l := lines[i]
			if l.indent <= parentIndent {
				break
			}
			if childIndent == -1 {
				childIndent = l.indent
			}
			if seg.isIndex {
				if strings.HasPrefix(l.text, "-") && l.indent == childIndent {
					if count == seg.index {
						found = i
						break
					}
					count++
				}
				continue
			}
			if l.indent == childIndent && isKeyLine(l.text, seg.key) {
				found = i
				break
			}
		}
		if found == -1 {
			locateLog.Printf("Path %s not found in source", path)
			return line
		}

		line = lines[found].number
		parentIndent = lines[found].indent
		start = found + 1
		// A list item written inline ("- dir: x") opens its mapping on the
		// same line. Re-indent it as the first key of that mapping.
		if item := lines[found]; seg.isIndex && strings.HasPrefix(item.text, "- ") {
			lines[found] = yamlLine{number: item.number, indent: item.indent + 2, text: strings.TrimPrefix(item.text, "- ")}
			start = found
			end = found + 1
			for end < len(lines) && lines[end].indent > item.indent {
				end++
			}
			continue
		}
		end = len(lines)
	}

	for _, name := range additionalPropertyNames(message) {
		for i := start; i < end && i < len(lines); i++ {
			l := lines[i]
			if l.indent <= parentIndent {
				break
			}
			if isKeyLine(l.text, name) {
				return l.number
			}
		}
	}
	if line == 0 {
		return 1
	}
	return line
}
