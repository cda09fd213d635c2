package script

import "strings"

// Marker is the token distinguishing script expressions from literal
// tag values.
const Marker = "tagscript:"

// Prefix is the full marker prefix, including the trailing space that
// separates the marker from the script body.
const Prefix = Marker + " "

// arrow separates the parameter list from the body in parameterized
// scripts.
const arrow = "=>"

// cutset contains the whitespace permitted around the arrow token and
// at the start of the body.
const cutset = " \t\r\n"

// Script is a parsed script expression: an ordered list of parameter
// names (possibly empty) and the expression body.
type Script struct {
	Params []string
	Body   string
}

// IsScript reports whether a raw tag value carries the script marker.
// The resolver uses this to decide between literal substitution and
// evaluation; a marker without its trailing space is still "a script"
// here, and fails later in Parse.
func IsScript(raw string) bool {
	return strings.HasPrefix(raw, Marker)
}

// Parse recognizes the script marker in a raw tag value and separates
// the optional parameter list from the expression body.
//
// Two shapes are attempted in order:
//
//  1. (p1, p2, ...) => body
//  2. body
//
// Shape 1 requires the parenthesized list and arrow; when it does not
// match, shape 2 captures everything after the prefix verbatim,
// including any stray parentheses or arrows. Parse never fails on a
// prefixed value: the second return is false only when raw does not
// begin with [Prefix], which signals "treat as literal value".
func Parse(raw string) (Script, bool) {
	rest, ok := strings.CutPrefix(raw, Prefix)
	if !ok {
		return Script{}, false
	}

	if s, ok := parseParameterized(rest); ok {
		return s, true
	}

	return Script{Body: rest}, true
}

// parseParameterized attempts shape 1. The parameter list is maximal:
// the closing parenthesis is the last one that is still followed by an
// arrow, mirroring a greedy match.
func parseParameterized(rest string) (Script, bool) {
	if !strings.HasPrefix(rest, "(") {
		return Script{}, false
	}

	for end := len(rest) - 1; end > 0; end-- {
		if rest[end] != ')' {
			continue
		}

		after := strings.TrimLeft(rest[end+1:], cutset)

		body, ok := strings.CutPrefix(after, arrow)
		if !ok {
			continue
		}

		return Script{
			Params: splitParams(rest[1:end]),
			Body:   strings.TrimLeft(body, cutset),
		}, true
	}

	return Script{}, false
}

// splitParams splits a parameter list on commas, trimming surrounding
// whitespace from each name. An empty list yields zero parameters.
func splitParams(list string) []string {
	if strings.TrimSpace(list) == "" {
		return []string{}
	}

	parts := strings.Split(list, ",")
	params := make([]string, len(parts))

	for i, p := range parts {
		params[i] = strings.TrimSpace(p)
	}

	return params
}
