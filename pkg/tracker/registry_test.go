package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqsift/reqsift/pkg/logline"
	"github.com/reqsift/reqsift/pkg/report"
	"github.com/reqsift/reqsift/pkg/reqlog"
)

func TestRegistry_PrepareFailsFast(t *testing.T) {
	reg := NewRegistry(
		NewFrequency(Options{Category: "method"}),
		NewFrequency(Options{}), // no categorizer
	)
	assert.ErrorIs(t, reg.Prepare(), ErrConfiguration)
}

func TestRegistry_DispatchAppliesPerTrackerFilters(t *testing.T) {
	all := NewFrequency(Options{Title: "all", Category: "method"})
	errorsOnly := NewFrequency(Options{Title: "errors", Category: "method", If: "status >= 500"})
	notGets := NewFrequency(Options{Title: "not-gets", Category: "method", Unless: `method == "GET"`})

	reg := NewRegistry(all, errorsOnly, notGets)
	require.NoError(t, reg.Prepare())

	dispatch := func(fields map[string]any) {
		require.NoError(t, reg.Dispatch(request(t, fields)))
	}
	dispatch(map[string]any{"method": "GET", "status": int64(200)})
	dispatch(map[string]any{"method": "POST", "status": int64(503)})
	dispatch(map[string]any{"method": "PUT", "status": int64(204)})

	assert.Equal(t, int64(3), all.OverallFrequency())
	assert.Equal(t, int64(1), errorsOnly.OverallFrequency())
	assert.Equal(t, int64(1), errorsOnly.Frequency("POST"))
	assert.Equal(t, int64(2), notGets.OverallFrequency())
	assert.Equal(t, int64(0), notGets.Frequency("GET"))
}

func TestRegistry_LineTypeFilter(t *testing.T) {
	completed := NewFrequency(Options{Category: "method", LineType: "completed"})
	reg := NewRegistry(completed)
	require.NoError(t, reg.Prepare())

	// A request holding only a processing line.
	open := reqlog.NewRequest("", logline.New("processing", map[string]any{"method": "GET"}, 1, ""))
	require.NoError(t, open.Complete(reqlog.CompletedByFlush, "id-1"))
	require.NoError(t, reg.Dispatch(open))
	assert.Equal(t, int64(0), completed.OverallFrequency())

	// A request that saw its completed line.
	full := reqlog.NewRequest("", logline.New("processing", map[string]any{"method": "GET"}, 2, ""))
	require.NoError(t, full.Append(logline.New("completed", map[string]any{"status": int64(200)}, 3, "")))
	require.NoError(t, full.Complete(reqlog.CompletedByTerminal, "id-2"))
	require.NoError(t, reg.Dispatch(full))
	assert.Equal(t, int64(1), completed.OverallFrequency())
}

func TestRegistry_PredicateErrorAbortsDispatch(t *testing.T) {
	broken := NewFrequency(Options{Category: "method", If: "1 / (status - status)"})
	reg := NewRegistry(broken)
	require.NoError(t, reg.Prepare())

	err := reg.Dispatch(request(t, map[string]any{"method": "GET", "status": int64(1)}))
	require.Error(t, err)
}

func TestRegistry_ReportAndExportablesInRegistrationOrder(t *testing.T) {
	first := NewFrequency(Options{Title: "first", Category: "method"})
	empty := NewFrequency(Options{Title: "empty", Category: "missing_field"})
	second := NewFrequency(Options{Title: "second", Category: "method"})

	reg := NewRegistry(first, empty, second)
	require.NoError(t, reg.Prepare())
	require.NoError(t, reg.Dispatch(request(t, map[string]any{"method": "GET"})))

	rec := &report.Recording{}
	reg.Report(rec)
	assert.Equal(t, []string{"first", "empty", "second"}, rec.Titles)

	snaps := reg.Exportables()
	require.Len(t, snaps, 2, "trackers with no data are omitted")
	assert.Equal(t, "first", snaps[0].Title)
	assert.Equal(t, "second", snaps[1].Title)
}

func TestNew_SelectsVariantByKind(t *testing.T) {
	fr, err := New(KindFrequency, Options{Category: "method"})
	require.NoError(t, err)
	assert.IsType(t, &Frequency{}, fr)

	du, err := New(KindDuration, Options{Category: "action", Value: "duration"})
	require.NoError(t, err)
	assert.IsType(t, &Duration{}, du)

	_, err = New("histogram", Options{})
	assert.ErrorIs(t, err, ErrUnknownTrackerKind)
}
