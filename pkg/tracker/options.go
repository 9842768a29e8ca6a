package tracker

import "github.com/reqsift/reqsift/pkg/reqlog"

// NoneCategory is the bucket label requests with a nil category count under
// when Nils is enabled.
const NoneCategory = "<none>"

// CategorizerFunc maps a request to a category key. The second return is
// false when the request has no category (the nil case).
type CategorizerFunc func(req *reqlog.Request) (string, bool)

// PredicateFunc gates whether a tracker sees a request.
type PredicateFunc func(req *reqlog.Request) bool

// Options is the shared tracker configuration surface. Expression fields
// hold expr-lang source; the matching Func fields take precedence when both
// are set, which is how Go callers inject behavior directly.
type Options struct {
	// Title is the report heading.
	Title string `yaml:"title,omitempty" json:"title,omitempty"`

	// Category is the categorizer expression. Mandatory for frequency
	// unless CategoryFunc is set. A nil/absent result means no category.
	Category string `yaml:"category,omitempty" json:"category,omitempty"`

	// CategoryFunc is a programmatic categorizer.
	CategoryFunc CategorizerFunc `yaml:"-" json:"-"`

	// If gates Update: the tracker only sees requests the expression is
	// truthy for.
	If string `yaml:"if,omitempty" json:"if,omitempty"`

	// IfFunc is a programmatic If.
	IfFunc PredicateFunc `yaml:"-" json:"-"`

	// Unless gates Update: requests the expression is truthy for are
	// excluded.
	Unless string `yaml:"unless,omitempty" json:"unless,omitempty"`

	// UnlessFunc is a programmatic Unless.
	UnlessFunc PredicateFunc `yaml:"-" json:"-"`

	// LineType restricts the tracker to requests containing the given line
	// type.
	LineType string `yaml:"line_type,omitempty" json:"line_type,omitempty"`

	// Nils counts nil-category requests under NoneCategory instead of
	// dropping them.
	Nils bool `yaml:"nils,omitempty" json:"nils,omitempty"`

	// AllCategories pre-seeds the category set at zero so absent
	// categories still render.
	AllCategories []string `yaml:"all_categories,omitempty" json:"all_categories,omitempty"`

	// Amount truncates the displayed rows. Zero shows everything.
	// Percentages always reflect the full distribution.
	Amount int `yaml:"amount,omitempty" json:"amount,omitempty"`

	// Value is the expression yielding the numeric value a duration
	// tracker accumulates per request. Mandatory there, unused elsewhere.
	Value string `yaml:"value,omitempty" json:"value,omitempty"`
}
