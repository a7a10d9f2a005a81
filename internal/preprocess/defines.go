package preprocess

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// applyDefines заменяет макросы по границам слов. Строковые литералы и
// комментарии не трогаются. depth: глубина вложенных /* */ с прошлой строки,
// как в лексере.
func applyDefines(line string, defines map[string]string, depth int) (string, int) {
	if len(defines) == 0 {
		return line, blockDepthAfter(line, depth)
	}
	var sb strings.Builder
	sb.Grow(len(line))
	n := len(line)
	i := 0
	for i < n {
		if depth > 0 {
			j, d := skipBlock(line, i, depth)
			sb.WriteString(line[i:j])
			i, depth = j, d
			continue
		}
		c := line[i]
		switch {
		case c == '"':
			j := skipString(line, i)
			sb.WriteString(line[i:j])
			i = j
		case c == '/' && i+1 < n && line[i+1] == '/':
			sb.WriteString(line[i:])
			return sb.String(), 0
		case c == '/' && i+1 < n && line[i+1] == '*':
			sb.WriteString("/*")
			i += 2
			depth = 1
		case c >= '0' && c <= '9':
			// число целиком, чтобы "1e5" не задело макрос e5
			j := identEnd(line, i)
			sb.WriteString(line[i:j])
			i = j
		case isIdentStart(line, i):
			j := identEnd(line, i)
			word := line[i:j]
			if val, ok := defines[word]; ok {
				sb.WriteString(val)
			} else {
				sb.WriteString(word)
			}
			i = j
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String(), depth
}

func blockDepthAfter(line string, depth int) int {
	i := 0
	for i < len(line) {
		if depth > 0 {
			i, depth = skipBlock(line, i, depth)
			continue
		}
		switch {
		case line[i] == '"':
			i = skipString(line, i)
		case strings.HasPrefix(line[i:], "//"):
			return 0
		case strings.HasPrefix(line[i:], "/*"):
			depth = 1
			i += 2
		default:
			i++
		}
	}
	return depth
}

// skipBlock идёт внутри комментария до закрытия внешнего */ или до конца
// строки. Возвращает позицию и оставшуюся глубину.
func skipBlock(line string, i, depth int) (int, int) {
	for i < len(line) && depth > 0 {
		switch {
		case strings.HasPrefix(line[i:], "/*"):
			depth++
			i += 2
		case strings.HasPrefix(line[i:], "*/"):
			depth--
			i += 2
		default:
			i++
		}
	}
	return i, depth
}

// skipString возвращает индекс сразу после закрывающей кавычки (или конец строки).
func skipString(line string, i int) int {
	i++
	for i < len(line) {
		switch line[i] {
		case '\\':
			i += 2
			continue
		case '"':
			return i + 1
		}
		i++
	}
	return len(line)
}

func isIdentStart(s string, i int) bool {
	r, _ := utf8.DecodeRuneInString(s[i:])
	return r == '_' || unicode.IsLetter(r)
}

func identEnd(s string, i int) int {
	for i < len(s) {
		r, sz := utf8.DecodeRuneInString(s[i:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		i += sz
	}
	return i
}

func isIdent(s string) bool {
	return s != "" && isIdentStart(s, 0) && identEnd(s, 0) == len(s)
}
