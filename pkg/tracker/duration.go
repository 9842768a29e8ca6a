package tracker

import (
	"fmt"
	"sort"

	"github.com/reqsift/reqsift/pkg/report"
	"github.com/reqsift/reqsift/pkg/reqlog"
)

// DurationStats is the per-category aggregate a duration tracker keeps.
type DurationStats struct {
	Hits int64   `json:"hits" yaml:"hits"`
	Sum  float64 `json:"sum" yaml:"sum"`
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
}

// Mean returns the average value per hit.
func (s DurationStats) Mean() float64 {
	if s.Hits == 0 {
		return 0
	}
	return s.Sum / float64(s.Hits)
}

// Duration accumulates a numeric value (typically elapsed seconds) per
// category: hits, cumulative sum, min, and max. Categories rank by
// cumulative sum, so the categories eating the most total time come first.
type Duration struct {
	opts Options

	filters filters
	cat     categorizer
	val     *valuer

	stats map[string]*DurationStats
	order []string
}

// NewDuration creates an unprepared duration tracker.
func NewDuration(opts Options) *Duration {
	return &Duration{opts: opts}
}

// Prepare implements Tracker. Both a categorizer and a value expression are
// mandatory.
func (d *Duration) Prepare() error {
	cat, err := compileCategorizer(d.opts)
	if err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("%w: duration tracker %q needs a category", ErrConfiguration, d.title())
	}
	d.cat = cat

	if d.opts.Value == "" {
		return fmt.Errorf("%w: duration tracker %q needs a value expression", ErrConfiguration, d.title())
	}
	d.val, err = newValuer(d.opts.Value)
	if err != nil {
		return err
	}

	d.filters, err = compileFilters(d.opts)
	if err != nil {
		return err
	}

	d.stats = make(map[string]*DurationStats)
	d.order = nil
	for _, category := range d.opts.AllCategories {
		d.observe(category)
	}
	return nil
}

// Accepts implements Tracker.
func (d *Duration) Accepts(req *reqlog.Request) (bool, error) {
	return d.filters.accepts(req)
}

// Update implements Tracker. Requests without a category or without a value
// are excluded, mirroring the frequency nil semantics.
func (d *Duration) Update(req *reqlog.Request) error {
	key, ok, err := d.cat.categorize(req)
	if err != nil {
		return err
	}
	if !ok {
		if !d.opts.Nils {
			return nil
		}
		key = NoneCategory
	}

	value, ok, err := d.val.value(req)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	s := d.observe(key)
	if s.Hits == 0 || value < s.Min {
		s.Min = value
	}
	if s.Hits == 0 || value > s.Max {
		s.Max = value
	}
	s.Hits++
	s.Sum += value
	return nil
}

func (d *Duration) observe(key string) *DurationStats {
	s, seen := d.stats[key]
	if !seen {
		s = &DurationStats{}
		d.stats[key] = s
		d.order = append(d.order, key)
	}
	return s
}

// Stats returns the aggregate for a category, a zero value when unseen.
func (d *Duration) Stats(key string) DurationStats {
	if s, ok := d.stats[key]; ok {
		return *s
	}
	return DurationStats{}
}

// OverallSum returns the cumulative value across all categories.
func (d *Duration) OverallSum() float64 {
	var total float64
	for _, s := range d.stats {
		total += s.Sum
	}
	return total
}

// SortedBySum returns categories ordered by descending cumulative sum,
// first-observed order on ties.
func (d *Duration) SortedBySum() []string {
	sorted := append([]string(nil), d.order...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return d.stats[sorted[i]].Sum > d.stats[sorted[j]].Sum
	})
	return sorted
}

// Report implements Tracker. Same contract as frequency: full-set sort and
// total before display truncation.
func (d *Duration) Report(sink report.Sink) {
	sink.Title(d.title())
	if len(d.stats) == 0 {
		sink.Line("None found.")
		return
	}

	sorted := d.SortedBySum()

	var totalSum float64
	for _, key := range sorted {
		totalSum += d.stats[key].Sum
	}

	if d.opts.Amount > 0 && len(sorted) > d.opts.Amount {
		sorted = sorted[:d.opts.Amount]
	}

	rows := make([]report.Row, 0, len(sorted))
	for _, key := range sorted {
		s := d.stats[key]
		ratio := 0.0
		if totalSum > 0 {
			ratio = s.Sum / totalSum
		}
		rows = append(rows, report.Row{
			Cells: []string{
				key,
				countPrinter.Sprintf("%d", s.Hits),
				fmt.Sprintf("%.2fs", s.Mean()),
				fmt.Sprintf("%.1fs", s.Sum),
				"",
			},
			Ratio: ratio,
		})
	}

	sink.Table([]report.Column{
		{Align: report.AlignLeft},
		{Header: "hits", Align: report.AlignRight},
		{Header: "mean", Align: report.AlignRight},
		{Header: "total", Align: report.AlignRight},
		{Kind: report.KindBar, Remaining: true},
	}, rows)
}

// Exportable implements Tracker.
func (d *Duration) Exportable() *Snapshot {
	var hits int64
	for _, s := range d.stats {
		hits += s.Hits
	}
	if hits == 0 {
		return nil
	}
	data := make(map[string]any, len(d.stats))
	for key, s := range d.stats {
		data[key] = *s
	}
	return &Snapshot{Title: d.title(), Kind: KindDuration, Data: data}
}

func (d *Duration) title() string {
	if d.opts.Title != "" {
		return d.opts.Title
	}
	return "Duration"
}
