package config

import "strings"

// ParseFilePattern expands a brace pattern like "*.{py,js}" into its
// component glob patterns ["*.py", "*.js"]. Comma-separated lists
// without braces ("*.py,*.js") are split as well. A plain pattern is
// returned as a single-element slice.
func ParseFilePattern(pattern string) []string {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}

	open := strings.Index(pattern, "{")
	close := strings.Index(pattern, "}")
	if open >= 0 && close > open {
		prefix := pattern[:open]
		suffix := pattern[close+1:]
		var out []string
		for _, alt := range strings.Split(pattern[open+1:close], ",") {
			alt = strings.TrimSpace(alt)
			if alt == "" {
				continue
			}
			out = append(out, prefix+alt+suffix)
		}
		return out
	}

	if strings.Contains(pattern, ",") {
		var out []string
		for _, p := range strings.Split(pattern, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out
	}

	return []string{pattern}
}
