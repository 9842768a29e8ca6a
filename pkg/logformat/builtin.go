package logformat

func init() {
	mustRegister(railsFormat())
	mustRegister(apacheFormat())
	mustRegister(jsonlFormat())
}

// railsFormat matches classic Rails production logs, where one request spans
// a "Processing" line and a "Completed" line with the timing and status.
func railsFormat() *Format {
	return &Format{
		Name:        "rails",
		Description: "Rails production log (Processing/Completed line pairs)",
		Lines: []*LineDef{
			{
				Type: "processing",
				Pattern: `^Processing (?P<controller>\w+)#(?P<action>\w+)` +
					` \(for (?P<ip>[\d.]+) at (?P<timestamp>\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\)` +
					` \[(?P<method>[A-Z]+)\]`,
				Kinds: map[string]Kind{"timestamp": KindTime},
			},
			{
				Type: "completed",
				Pattern: `^Completed in (?P<duration>\d+\.\d+) \((?P<reqs_per_sec>\d+) reqs/sec\)` +
					`(?: \| Rendering: (?P<rendering>\d+\.\d+) \(\d+%\))?` +
					`(?: \| DB: (?P<db>\d+\.\d+) \(\d+%\))?` +
					` \| (?P<status>\d{3}) (?P<status_text>[\w ]+) \[(?P<url>[^\]]+)\]`,
				Kinds: map[string]Kind{
					"duration":     KindDuration,
					"rendering":    KindDuration,
					"db":           KindDuration,
					"reqs_per_sec": KindInt,
					"status":       KindInt,
				},
			},
			{
				Type:    "failure",
				Pattern: `^(?P<error>\w+(?:::\w+)*) \((?P<message>.*)\) on line #(?P<line>\d+)`,
				Kinds:   map[string]Kind{"line": KindInt},
			},
		},
		Correlate: Correlate{
			StartTypes:   []string{"processing"},
			TerminalType: "completed",
		},
	}
}

// apacheFormat matches the Apache/nginx combined access log. Every line is
// one complete request.
func apacheFormat() *Format {
	return &Format{
		Name:        "apache",
		Description: "Apache/nginx combined access log (one request per line)",
		Lines: []*LineDef{
			{
				Type: "access",
				Pattern: `^(?P<remote_host>\S+) \S+ (?P<user>\S+) \[(?P<timestamp>[^\]]+)\]` +
					` "(?P<method>[A-Z]+) (?P<path>\S+) (?P<protocol>[^"]*)"` +
					` (?P<status>\d{3}) (?P<bytes_sent>\d+|-)` +
					`(?: "(?P<referer>[^"]*)" "(?P<user_agent>[^"]*)")?`,
				Kinds: map[string]Kind{
					"timestamp":  KindTime,
					"status":     KindInt,
					"bytes_sent": KindInt,
				},
				TimeLayout: "02/Jan/2006:15:04:05 -0700",
			},
		},
	}
}

// jsonlFormat accepts one JSON object per line, taking every top-level
// member as a field. The line type comes from a "type" member when present.
func jsonlFormat() *Format {
	return &Format{
		Name:        "jsonl",
		Description: "JSON lines (one object per line, fields taken as-is)",
		JSON: &JSONDef{
			Type:     "entry",
			TypePath: "$.type",
		},
	}
}
