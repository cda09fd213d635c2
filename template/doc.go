// Package template resolves <<...>> placeholder markers in tag
// template documents.
//
// A Template owns a table of named tags and one script sandbox. A
// tag's raw value is either a literal, substituted as-is, or a
// tagscript expression (see the script package), evaluated at render
// time. Two marker shapes are recognized in content:
//
//	<<name>>            simple reference
//	<<name(arg, ...)>>  parameterized reference (script tags only)
//
// Documents are YAML files of the form:
//
//	version: "1.0"
//	tags:
//	  - user: John Doe
//	  - shout: "tagscript: (s) => upper(s)"
//	template: "name: <<user>>"
//
// where template may also be a string-keyed mapping, in which case
// resolution applies to every value independently.
package template
