// Package parse turns raw log text into typed line entries using a compiled
// format. It owns the read loop: lines are consumed in arrival order, lines
// matching no definition are skipped with a diagnostic, and nothing here
// ever aborts a run.
package parse

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/reqsift/reqsift/pkg/logformat"
	"github.com/reqsift/reqsift/pkg/logline"
)

// maxLineBytes bounds a single log line. Lines beyond it are skipped rather
// than buffered without limit.
const maxLineBytes = 1 << 20

// errLineTooLong signals an oversized line inside the read loop. It never
// escapes Stream; the line is counted as skipped.
var errLineTooLong = errors.New("line exceeds size limit")

// Stats summarizes one parsing pass.
type Stats struct {
	// Lines is the number of raw lines read.
	Lines int
	// Parsed is the number of lines that produced an entry.
	Parsed int
	// Skipped is the number of lines matching no definition or failing a
	// capture conversion.
	Skipped int
}

// Parser extracts entries line by line for a single format.
type Parser struct {
	format *logformat.Format
	logger *slog.Logger
	lineNo int
	stats  Stats
}

// New creates a Parser. The logger receives skip diagnostics; pass a Nop
// logger to silence them.
func New(format *logformat.Format, logger *slog.Logger) *Parser {
	return &Parser{format: format, logger: logger}
}

// Line parses a single raw line, advancing the line counter. The second
// return is false when the line was skipped.
func (p *Parser) Line(raw string) (*logline.Entry, bool) {
	p.lineNo++
	p.stats.Lines++

	if strings.TrimSpace(raw) == "" {
		p.stats.Skipped++
		return nil, false
	}

	entry, err := p.format.Match(raw, p.lineNo)
	if err != nil {
		p.stats.Skipped++
		p.logger.Debug("skipping unparsable line",
			"lineno", p.lineNo,
			"format", p.format.Name,
			"reason", err)
		return nil, false
	}
	p.stats.Parsed++
	return entry, true
}

// Stream reads r line by line, invoking emit for every parsed entry. The
// context is checked between lines so a cancelled run stops at a line
// boundary. Returns the pass statistics and the first read or emit error.
func (p *Parser) Stream(ctx context.Context, r io.Reader, emit func(*logline.Entry) error) (Stats, error) {
	reader := bufio.NewReaderSize(r, 64*1024)

	for {
		if err := ctx.Err(); err != nil {
			return p.stats, err
		}
		raw, err := readLine(reader)
		switch {
		case err == io.EOF:
			return p.stats, nil
		case errors.Is(err, errLineTooLong):
			p.lineNo++
			p.stats.Lines++
			p.stats.Skipped++
			p.logger.Debug("skipping oversized line",
				"lineno", p.lineNo,
				"limit", maxLineBytes)
			continue
		case err != nil:
			return p.stats, err
		}
		entry, ok := p.Line(raw)
		if !ok {
			continue
		}
		if err := emit(entry); err != nil {
			return p.stats, err
		}
	}
}

// readLine assembles one line from the reader's fixed-size fragments. A line
// growing past maxLineBytes has its remainder discarded and comes back as
// errLineTooLong, so one runaway line cannot sink the pass.
func readLine(reader *bufio.Reader) (string, error) {
	var buf []byte
	for {
		chunk, isPrefix, err := reader.ReadLine()
		if err != nil {
			if len(buf) > 0 && err == io.EOF {
				// Final line without a trailing newline.
				return string(buf), nil
			}
			return "", err
		}
		buf = append(buf, chunk...)
		if !isPrefix {
			return string(buf), nil
		}
		if len(buf) > maxLineBytes {
			for isPrefix && err == nil {
				_, isPrefix, err = reader.ReadLine()
			}
			return "", errLineTooLong
		}
	}
}

// Stats returns the counters accumulated so far.
func (p *Parser) Stats() Stats { return p.stats }
