package layout

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	lineComment  = regexp.MustCompile(`//[^\n]*`)
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	attribute    = regexp.MustCompile(`@(\w+)\s*(?:\(\s*([^)]*?)\s*\))?`)
)

// ParseWGSL extracts struct name from WGSL source and resolves its layout.
func ParseWGSL(src, name string) (Table, error) {
	body, ok := structBody(stripComments(src), name)
	if !ok {
		return Table{}, fmt.Errorf("%s: %w", name, ErrStructNotFound)
	}

	var decls []Decl
	for _, member := range splitMembers(body) {
		d, err := parseMember(member)
		if err != nil {
			return Table{}, fmt.Errorf("%s: %w", name, err)
		}
		decls = append(decls, d)
	}
	return Build(name, decls)
}

// HasStruct reports whether src declares struct name.
func HasStruct(src, name string) bool {
	_, ok := structBody(stripComments(src), name)
	return ok
}

func stripComments(src string) string {
	src = blockComment.ReplaceAllString(src, " ")
	return lineComment.ReplaceAllString(src, "")
}

func structBody(src, name string) (string, bool) {
	re := regexp.MustCompile(`\bstruct\s+` + regexp.QuoteMeta(name) + `\s*\{`)
	loc := re.FindStringIndex(src)
	if loc == nil {
		return "", false
	}
	rest := src[loc[1]:]
	end := strings.IndexByte(rest, '}')
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// splitMembers splits a struct body on the separators that are not nested
// inside a template list such as vec4<f32> or array<f32, 4>.
func splitMembers(body string) []string {
	var members []string
	depth, start := 0, 0
	for i, r := range body {
		switch r {
		case '<', '(':
			depth++
		case '>', ')':
			depth--
		case ',', ';':
			if depth == 0 {
				members = append(members, body[start:i])
				start = i + 1
			}
		}
	}
	members = append(members, body[start:])

	out := members[:0]
	for _, m := range members {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}

func parseMember(member string) (Decl, error) {
	var d Decl
	for _, m := range attribute.FindAllStringSubmatch(member, -1) {
		switch m[1] {
		case "align", "size":
			// WGSL allows an i or u suffix on integer literals.
			lit := m[2]
			if strings.HasSuffix(lit, "u") || strings.HasSuffix(lit, "i") {
				lit = lit[:len(lit)-1]
			}
			n, err := strconv.ParseUint(lit, 0, 64)
			if err != nil {
				return Decl{}, fmt.Errorf("bad @%s(%s): %w", m[1], m[2], err)
			}
			if m[1] == "align" {
				d.Align = n
			} else {
				d.Size = n
			}
		}
	}
	member = strings.TrimSpace(attribute.ReplaceAllString(member, ""))

	name, typ, ok := strings.Cut(member, ":")
	if !ok {
		return Decl{}, fmt.Errorf("malformed member %q", member)
	}
	d.Name = strings.TrimSpace(name)
	d.Type = strings.TrimSpace(typ)
	if d.Name == "" || d.Type == "" {
		return Decl{}, fmt.Errorf("malformed member %q", member)
	}
	return d, nil
}
