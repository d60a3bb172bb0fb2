package template

import "regexp"

// space is the whitespace allowed around a variable name: ASCII whitespace plus
// vertical tab, Unicode separators and the byte order mark.
const space = `[\s\v\p{Z}\x{FEFF}]`

// placeholder matches "{{", optional whitespace, an identifier, optional whitespace, "}}".
var placeholder = regexp.MustCompile(`\{\{` + space + `*([A-Za-z_$][A-Za-z0-9_$]*)` + space + `*\}\}`)

// Extract returns the distinct variable names referenced in text, in first-occurrence order.
// It never returns nil so callers can range and compare without special cases.
func Extract(text string) []string {
	vars := []string{}
	if text == "" {
		return vars
	}

	seen := make(map[string]struct{})
	for _, m := range placeholder.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		vars = append(vars, name)
	}
	return vars
}
