// Package logformat defines log format descriptions: which line shapes a log
// contains, how to extract typed fields from them, and how lines correlate
// into requests.
//
// A Format owns a set of line definitions. Regex-driven formats declare one
// LineDef per line shape, with named capture groups becoming entry fields;
// JSON-lines formats declare a JSONDef whose fields are extracted with
// JSONPath expressions. Every format also declares its correlation rules:
// the field carrying the request identity, the line types allowed to open a
// request, and the line type that completes one.
//
// Built-in formats (rails, apache, jsonl) register themselves at init time.
// Custom formats load from YAML or JSON files and are validated against a
// JSON Schema before use.
package logformat
