package tracker

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/reqsift/reqsift/pkg/report"
	"github.com/reqsift/reqsift/pkg/reqlog"
)

// countPrinter formats counts with digit grouping ("22,248").
var countPrinter = message.NewPrinter(language.English)

// Frequency counts requests per category. The category comes from the
// configured categorizer; requests it maps to nil are dropped from all
// counts unless Nils routes them to the none bucket.
type Frequency struct {
	opts Options

	filters filters
	cat     categorizer

	counts map[string]int64
	order  []string // categories in first-observed order
}

// NewFrequency creates an unprepared frequency tracker.
func NewFrequency(opts Options) *Frequency {
	return &Frequency{opts: opts}
}

// Prepare implements Tracker. A frequency tracker without a categorizer is
// a configuration error.
func (f *Frequency) Prepare() error {
	cat, err := compileCategorizer(f.opts)
	if err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("%w: frequency tracker %q needs a category", ErrConfiguration, f.title())
	}
	f.cat = cat

	f.filters, err = compileFilters(f.opts)
	if err != nil {
		return err
	}

	f.counts = make(map[string]int64)
	f.order = nil
	for _, category := range f.opts.AllCategories {
		f.observe(category)
	}
	return nil
}

// Accepts implements Tracker.
func (f *Frequency) Accepts(req *reqlog.Request) (bool, error) {
	return f.filters.accepts(req)
}

// Update implements Tracker.
func (f *Frequency) Update(req *reqlog.Request) error {
	key, ok, err := f.cat.categorize(req)
	if err != nil {
		return err
	}
	if !ok {
		if !f.opts.Nils {
			return nil
		}
		key = NoneCategory
	}
	f.observe(key)
	f.counts[key]++
	return nil
}

// observe registers a category at zero count if unseen, preserving
// first-observed order for tie-breaking.
func (f *Frequency) observe(key string) {
	if _, seen := f.counts[key]; !seen {
		f.counts[key] = 0
		f.order = append(f.order, key)
	}
}

// Frequency returns the count for a category, zero when unseen.
func (f *Frequency) Frequency(key string) int64 {
	return f.counts[key]
}

// OverallFrequency returns the sum of all counts.
func (f *Frequency) OverallFrequency() int64 {
	var total int64
	for _, n := range f.counts {
		total += n
	}
	return total
}

// SortedByFrequency returns the categories ordered by descending count.
// Equal counts keep their first-observed relative order.
func (f *Frequency) SortedByFrequency() []string {
	sorted := append([]string(nil), f.order...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return f.counts[sorted[i]] > f.counts[sorted[j]]
	})
	return sorted
}

// Report implements Tracker. Order matters: sort the full category set,
// total over the full set, and only then truncate for display. Percentages
// must reflect the true distribution even when the table is cut short.
func (f *Frequency) Report(sink report.Sink) {
	sink.Title(f.title())
	if len(f.counts) == 0 {
		sink.Line("None found.")
		return
	}

	sorted := f.SortedByFrequency()

	var totalHits int64
	for _, key := range sorted {
		totalHits += f.counts[key]
	}

	if f.opts.Amount > 0 && len(sorted) > f.opts.Amount {
		sorted = sorted[:f.opts.Amount]
	}

	rows := make([]report.Row, 0, len(sorted))
	for _, key := range sorted {
		count := f.counts[key]
		pct, ratio := 0.0, 0.0
		if totalHits > 0 {
			ratio = float64(count) / float64(totalHits)
			pct = ratio * 100
		}
		rows = append(rows, report.Row{
			Cells: []string{
				key,
				countPrinter.Sprintf("%d", count),
				fmt.Sprintf("%.1f%%", pct),
				"",
			},
			Ratio: ratio,
		})
	}

	sink.Table([]report.Column{
		{Align: report.AlignLeft},
		{Align: report.AlignRight},
		{Align: report.AlignRight},
		{Kind: report.KindBar, Remaining: true},
	}, rows)
}

// Exportable implements Tracker. Nil until any request was counted;
// pre-seeded zero categories alone do not make a snapshot.
func (f *Frequency) Exportable() *Snapshot {
	if f.OverallFrequency() == 0 {
		return nil
	}
	data := make(map[string]any, len(f.counts))
	for key, count := range f.counts {
		data[key] = count
	}
	return &Snapshot{Title: f.title(), Kind: KindFrequency, Data: data}
}

func (f *Frequency) title() string {
	if f.opts.Title != "" {
		return f.opts.Title
	}
	return "Frequency"
}
