// Package highlights holds the node-type-to-highlight-name tables for the
// grammars bundled via go-sitter-forest. Names match the theme-key
// vocabulary of SPEC_FULL.md §6.2 (keyword, string, comment, function,
// type, constant, operator, variable).
package highlights

// PHP maps a representative subset of php-tree-sitter's node types.
var PHP = map[string]string{
	"comment":               "comment",
	"string":                "string",
	"encapsed_string":       "string",
	"integer":               "constant",
	"float":                 "constant",
	"boolean":               "constant",
	"null":                  "constant",
	"function_definition":   "function",
	"method_declaration":    "function",
	"name":                  "variable",
	"variable_name":         "variable",
	"class_declaration":     "type",
	"primitive_type":        "type",
	"visibility_modifier":   "keyword",
	"echo_statement":        "keyword",
	"if_statement":          "keyword",
	"return_statement":      "keyword",
	"foreach_statement":     "keyword",
	"binary_expression":     "operator",
}

// XML maps a representative subset of xml-tree-sitter's node types.
var XML = map[string]string{
	"comment":       "comment",
	"tag_name":      "keyword",
	"attribute_name": "variable",
	"attribute_value": "string",
	"text":          "variable",
	"cdata_section": "string",
}

// Twig maps a representative subset of twig-tree-sitter's node types.
var Twig = map[string]string{
	"comment":       "comment",
	"string":        "string",
	"number":        "constant",
	"identifier":    "variable",
	"tag_name":      "keyword",
	"filter":        "function",
	"operator":      "operator",
}
