package logformat

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/reqsift/reqsift/pkg/logline"
)

// Common errors for format definitions.
var (
	ErrNoLineDefs   = errors.New("format defines no line shapes")
	ErrNotCompiled  = errors.New("format not compiled")
	ErrNoMatch      = errors.New("line matches no definition")
	ErrBadCapture   = errors.New("capture value does not convert to its declared kind")
	ErrUnknownKind  = errors.New("unknown capture kind")
	ErrUnknownName  = errors.New("unknown format")
	ErrInvalidRegex = errors.New("invalid line pattern")
)

// Kind is the type a captured field value converts to.
type Kind string

// Capture kinds.
const (
	KindString   Kind = "string"
	KindInt      Kind = "int"
	KindFloat    Kind = "float"
	KindBool     Kind = "bool"
	KindDuration Kind = "duration"
	KindTime     Kind = "time"
)

// defaultTimeLayout is used by KindTime captures when the line definition
// declares none.
const defaultTimeLayout = "2006-01-02 15:04:05"

// LineDef describes one regex-matched line shape. Named capture groups
// become entry fields; the Kinds map assigns a conversion per group name,
// defaulting to string.
type LineDef struct {
	// Type is the line type tag entries matching this definition receive.
	Type string `yaml:"type" json:"type"`

	// Pattern is a regular expression with named capture groups.
	Pattern string `yaml:"pattern" json:"pattern"`

	// Kinds maps capture group names to their conversion kind.
	// Groups not listed convert as strings.
	Kinds map[string]Kind `yaml:"kinds,omitempty" json:"kinds,omitempty"`

	// TimeLayout is the time.Parse layout for KindTime captures.
	TimeLayout string `yaml:"time_layout,omitempty" json:"time_layout,omitempty"`

	re *regexp.Regexp
}

// JSONField binds an entry field name to a JSONPath expression.
type JSONField struct {
	Name string `yaml:"name" json:"name"`
	Path string `yaml:"path" json:"path"`
	Kind Kind   `yaml:"kind,omitempty" json:"kind,omitempty"`

	expr jp.Expr
}

// JSONDef describes a JSON-lines format: each raw line is one JSON document.
// Declared fields are extracted by JSONPath; with no declared fields every
// top-level member becomes an entry field as-is.
type JSONDef struct {
	// Type is a fixed line type tag for every line. Ignored when TypePath
	// is set.
	Type string `yaml:"type,omitempty" json:"type,omitempty"`

	// TypePath is a JSONPath expression yielding the line type tag.
	TypePath string `yaml:"type_path,omitempty" json:"type_path,omitempty"`

	// Fields are the extractions to run per line.
	Fields []JSONField `yaml:"fields,omitempty" json:"fields,omitempty"`

	typeExpr jp.Expr
}

// Correlate declares how a format's lines group into requests. The zero
// value means: sequential attachment, any line type may open, every line
// completes its request immediately.
type Correlate struct {
	// KeyField is the entry field carrying the correlation identity.
	// Empty selects sequential mode: entries attach to the most recently
	// opened request.
	KeyField string `yaml:"key_field,omitempty" json:"key_field,omitempty"`

	// StartTypes lists the line types allowed to open a request.
	// Empty allows any.
	StartTypes []string `yaml:"start_types,omitempty" json:"start_types,omitempty"`

	// TerminalType is the line type that completes a request. Empty means
	// every entry completes its request immediately (single-line formats).
	TerminalType string `yaml:"terminal_type,omitempty" json:"terminal_type,omitempty"`

	// MaxOpen caps the number of concurrently open requests. Zero selects
	// the correlator default.
	MaxOpen int `yaml:"max_open,omitempty" json:"max_open,omitempty"`

	// IdleLines evicts a request untouched for this many processed lines.
	// Zero disables idle eviction.
	IdleLines int `yaml:"idle_lines,omitempty" json:"idle_lines,omitempty"`
}

// Format is a complete log format description.
type Format struct {
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Lines       []*LineDef `yaml:"lines,omitempty" json:"lines,omitempty"`
	JSON        *JSONDef   `yaml:"json,omitempty" json:"json,omitempty"`
	Correlate   Correlate  `yaml:"correlate,omitempty" json:"correlate,omitempty"`

	compiled bool
}

// Compile prepares the format for matching: line patterns become regexps and
// JSONPath expressions are parsed. Must be called once before Match.
func (f *Format) Compile() error {
	if len(f.Lines) == 0 && f.JSON == nil {
		return fmt.Errorf("%w: %s", ErrNoLineDefs, f.Name)
	}
	for _, def := range f.Lines {
		re, err := regexp.Compile(def.Pattern)
		if err != nil {
			return fmt.Errorf("%w: line type %q: %v", ErrInvalidRegex, def.Type, err)
		}
		def.re = re
		for group, kind := range def.Kinds {
			if !validKind(kind) {
				return fmt.Errorf("%w: %q for capture %q in line type %q", ErrUnknownKind, kind, group, def.Type)
			}
		}
	}
	if f.JSON != nil {
		if err := f.JSON.compile(); err != nil {
			return err
		}
	}
	f.compiled = true
	return nil
}

func (d *JSONDef) compile() error {
	if d.TypePath != "" {
		expr, err := jp.ParseString(d.TypePath)
		if err != nil {
			return fmt.Errorf("type_path %q: %w", d.TypePath, err)
		}
		d.typeExpr = expr
	}
	for i := range d.Fields {
		fld := &d.Fields[i]
		expr, err := jp.ParseString(fld.Path)
		if err != nil {
			return fmt.Errorf("field %q path %q: %w", fld.Name, fld.Path, err)
		}
		fld.expr = expr
		if fld.Kind != "" && !validKind(fld.Kind) {
			return fmt.Errorf("%w: %q for field %q", ErrUnknownKind, fld.Kind, fld.Name)
		}
	}
	return nil
}

func validKind(k Kind) bool {
	switch k {
	case "", KindString, KindInt, KindFloat, KindBool, KindDuration, KindTime:
		return true
	}
	return false
}

// Match extracts an entry from a raw line. Returns ErrNoMatch when the line
// fits no definition; conversion failures return ErrBadCapture wraps. The
// parser treats both as skip-with-diagnostic conditions.
func (f *Format) Match(raw string, lineNo int) (*logline.Entry, error) {
	if !f.compiled {
		return nil, ErrNotCompiled
	}
	if f.JSON != nil {
		return f.JSON.match(raw, lineNo)
	}
	for _, def := range f.Lines {
		m := def.re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		fields := make(map[string]any)
		for i, name := range def.re.SubexpNames() {
			if name == "" || i >= len(m) {
				continue
			}
			val, ok, err := convert(m[i], def.Kinds[name], def.TimeLayout)
			if err != nil {
				return nil, fmt.Errorf("%w: line type %q field %q: %v", ErrBadCapture, def.Type, name, err)
			}
			if ok {
				fields[name] = val
			}
		}
		return logline.New(def.Type, fields, lineNo, raw), nil
	}
	return nil, ErrNoMatch
}

func (d *JSONDef) match(raw string, lineNo int) (*logline.Entry, error) {
	doc, err := oj.ParseString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoMatch, err)
	}

	lineType := d.Type
	if d.typeExpr != nil {
		if v := d.typeExpr.First(doc); v != nil {
			lineType = fmt.Sprint(v)
		}
	}
	if lineType == "" {
		lineType = "entry"
	}

	fields := make(map[string]any)
	if len(d.Fields) == 0 {
		// No declared extractions: take the top-level members as-is.
		obj, ok := doc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: document is not an object", ErrNoMatch)
		}
		for k, v := range obj {
			fields[k] = normalizeJSON(v)
		}
		return logline.New(lineType, fields, lineNo, raw), nil
	}

	for i := range d.Fields {
		fld := &d.Fields[i]
		v := fld.expr.First(doc)
		if v == nil {
			continue
		}
		if fld.Kind == "" || fld.Kind == KindString {
			fields[fld.Name] = normalizeJSON(v)
			continue
		}
		val, ok, err := convert(fmt.Sprint(v), fld.Kind, "")
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrBadCapture, fld.Name, err)
		}
		if ok {
			fields[fld.Name] = val
		}
	}
	return logline.New(lineType, fields, lineNo, raw), nil
}

// normalizeJSON keeps extracted JSON scalars in the same shape regex
// captures produce: json numbers that are whole become int64.
func normalizeJSON(v any) any {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return int64(f)
	}
	return v
}

// convert turns a raw capture into its declared kind. An empty capture, or
// the conventional "-" placeholder for numeric kinds, yields no field at all
// rather than an error.
func convert(s string, kind Kind, timeLayout string) (any, bool, error) {
	if s == "" {
		return nil, false, nil
	}
	switch kind {
	case "", KindString:
		return s, true, nil
	case KindInt:
		if s == "-" {
			return nil, false, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, false, err
		}
		return n, true, nil
	case KindFloat:
		if s == "-" {
			return nil, false, nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false, err
		}
		return n, true, nil
	case KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, false, err
		}
		return b, true, nil
	case KindDuration:
		return convertDuration(s)
	case KindTime:
		layout := timeLayout
		if layout == "" {
			layout = defaultTimeLayout
		}
		t, err := time.Parse(layout, s)
		if err != nil {
			return nil, false, err
		}
		return t, true, nil
	}
	return nil, false, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// convertDuration accepts Go duration syntax ("150ms") and bare decimal
// seconds ("0.21665"), the form request timing lines usually carry.
func convertDuration(s string) (any, bool, error) {
	if strings.IndexFunc(s, func(r rune) bool { return r != '.' && (r < '0' || r > '9') }) == -1 {
		sec, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false, err
		}
		return time.Duration(sec * float64(time.Second)), true, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, false, err
	}
	return d, true, nil
}
