package export

import (
	"fmt"
	"sort"

	"github.com/beevik/etree"

	"github.com/reqsift/reqsift/pkg/tracker"
)

// xmlMarshaler renders a snapshot as an XML document. Category keys carry
// arbitrary text, so they become attribute values rather than element names.
type xmlMarshaler struct{}

func (xmlMarshaler) Format() string { return "xml" }

func (xmlMarshaler) Marshal(snap *Snapshot) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("analysis")
	root.CreateAttr("run_id", snap.RunID)
	root.CreateAttr("generated_at", snap.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"))
	root.CreateAttr("source", snap.Source)
	root.CreateAttr("format", snap.Format)
	root.CreateAttr("requests", fmt.Sprint(snap.Requests))

	for _, ts := range snap.Trackers {
		el := root.CreateElement("tracker")
		el.CreateAttr("title", ts.Title)
		el.CreateAttr("kind", ts.Kind)
		writeCategories(el, ts)
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func writeCategories(parent *etree.Element, ts *tracker.Snapshot) {
	keys := make([]string, 0, len(ts.Data))
	for key := range ts.Data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		cat := parent.CreateElement("category")
		cat.CreateAttr("key", key)
		switch v := ts.Data[key].(type) {
		case tracker.DurationStats:
			cat.CreateAttr("hits", fmt.Sprint(v.Hits))
			cat.CreateAttr("sum", fmt.Sprintf("%.6f", v.Sum))
			cat.CreateAttr("min", fmt.Sprintf("%.6f", v.Min))
			cat.CreateAttr("max", fmt.Sprintf("%.6f", v.Max))
		default:
			cat.CreateAttr("count", fmt.Sprint(v))
		}
	}
}
