package correlate

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/reqsift/reqsift/pkg/logformat"
	"github.com/reqsift/reqsift/pkg/logline"
	"github.com/reqsift/reqsift/pkg/reqlog"
)

// DefaultMaxOpen caps the open working set when the config declares no cap.
const DefaultMaxOpen = 128

// sequentialKey is the working-set key used in sequential mode, where at
// most one request is open at a time.
const sequentialKey = ""

// Config controls the correlation behavior for one run. It mirrors the
// format's Correlate declaration, with per-run overrides applied on top.
type Config struct {
	// KeyField names the entry field carrying the correlation identity.
	// Empty selects sequential mode.
	KeyField string

	// StartTypes lists line types allowed to open a request. Empty allows
	// any line type to open.
	StartTypes []string

	// TerminalType completes a request when observed. Empty completes every
	// request immediately after its first entry.
	TerminalType string

	// MaxOpen bounds the open working set. Zero selects DefaultMaxOpen.
	MaxOpen int

	// IdleLines evicts a request untouched for this many processed lines.
	// Zero disables idle eviction.
	IdleLines int
}

// ConfigFromFormat builds a Config from a format's correlation declaration.
func ConfigFromFormat(decl logformat.Correlate) Config {
	return Config{
		KeyField:     decl.KeyField,
		StartTypes:   decl.StartTypes,
		TerminalType: decl.TerminalType,
		MaxOpen:      decl.MaxOpen,
		IdleLines:    decl.IdleLines,
	}
}

// EmitFunc receives each completed request exactly once, in completion
// order. An error return aborts the run.
type EmitFunc func(*reqlog.Request) error

// Correlator assembles entries into requests. Not safe for concurrent use;
// the analysis pipeline is single-goroutine by contract.
type Correlator struct {
	cfg    Config
	emit   EmitFunc
	logger *slog.Logger

	open    map[string]*reqlog.Request
	touched map[string]int // key -> line counter at last attach
	order   []string       // keys, least recently touched first

	lines   int
	emitted int
	dropped int
	evicted int
}

// New creates a Correlator emitting completed requests through emit.
func New(cfg Config, emit EmitFunc, logger *slog.Logger) *Correlator {
	if cfg.MaxOpen <= 0 {
		cfg.MaxOpen = DefaultMaxOpen
	}
	return &Correlator{
		cfg:     cfg,
		emit:    emit,
		logger:  logger,
		open:    make(map[string]*reqlog.Request),
		touched: make(map[string]int),
	}
}

// Observe processes one entry: attach it to its open request, open a new
// request, or drop it. Completed requests are emitted before Observe
// returns. Only emit errors propagate; unattachable entries are dropped
// with a diagnostic.
func (c *Correlator) Observe(e *logline.Entry) error {
	c.lines++

	key, hasKey := c.correlationKey(e)
	if !hasKey {
		c.drop(e, "entry has no correlation key field")
		return c.evictIdle()
	}

	req, found := c.open[key]
	if found && c.cfg.KeyField == "" && len(c.cfg.StartTypes) > 0 && c.canOpen(e) {
		// Sequential mode: a fresh start line means the previous request
		// never saw its terminal. Displace it rather than corrupting it
		// with the new transaction's entries.
		if err := c.makeRoomFor(0); err != nil {
			return err
		}
		found = false
	}
	if found {
		// Attach cannot fail: open requests are never completed in place.
		_ = req.Append(e)
		c.touch(key)
	} else {
		if !c.canOpen(e) {
			c.drop(e, "line type cannot open a request")
			return c.evictIdle()
		}
		if err := c.makeRoom(); err != nil {
			return err
		}
		req = reqlog.NewRequest(key, e)
		c.open[key] = req
		c.touch(key)
	}

	if c.cfg.TerminalType == "" || e.Type() == c.cfg.TerminalType {
		if err := c.completeAs(key, reqlog.CompletedByTerminal); err != nil {
			return err
		}
	}
	return c.evictIdle()
}

// Flush completes every still-open request in arrival order. Call once at
// end of input.
func (c *Correlator) Flush() error {
	for len(c.order) > 0 {
		if err := c.completeAs(c.order[0], reqlog.CompletedByFlush); err != nil {
			return err
		}
	}
	return nil
}

// Open returns the number of currently open requests.
func (c *Correlator) Open() int { return len(c.open) }

// Emitted returns the number of requests emitted so far.
func (c *Correlator) Emitted() int { return c.emitted }

// Dropped returns the number of entries dropped as unattachable.
func (c *Correlator) Dropped() int { return c.dropped }

// Evicted returns the number of requests completed by eviction.
func (c *Correlator) Evicted() int { return c.evicted }

// correlationKey extracts the identity an entry correlates under.
func (c *Correlator) correlationKey(e *logline.Entry) (string, bool) {
	if c.cfg.KeyField == "" {
		return sequentialKey, true
	}
	v, ok := e.Field(c.cfg.KeyField)
	if !ok {
		return "", false
	}
	return fmt.Sprint(v), true
}

func (c *Correlator) canOpen(e *logline.Entry) bool {
	if len(c.cfg.StartTypes) == 0 {
		return true
	}
	for _, t := range c.cfg.StartTypes {
		if e.Type() == t {
			return true
		}
	}
	return false
}

// makeRoom evicts the least recently touched request when the working set
// is at capacity. In sequential mode capacity is one, so a new start line
// displaces the still-open predecessor.
func (c *Correlator) makeRoom() error {
	limit := c.cfg.MaxOpen
	if c.cfg.KeyField == "" {
		limit = 1
	}
	return c.makeRoomFor(limit - 1)
}

// makeRoomFor evicts LRU-first until the working set holds at most max
// requests.
func (c *Correlator) makeRoomFor(max int) error {
	for len(c.open) > max && len(c.order) > 0 {
		key := c.order[0]
		c.logger.Warn("evicting open request to bound memory",
			"key", key,
			"entries", c.open[key].Len(),
			"first_lineno", c.open[key].FirstLineNo())
		c.evicted++
		if err := c.completeAs(key, reqlog.CompletedByEviction); err != nil {
			return err
		}
	}
	return nil
}

// evictIdle evicts requests untouched for longer than the configured line
// distance. Only the working set's LRU end needs checking.
func (c *Correlator) evictIdle() error {
	if c.cfg.IdleLines <= 0 {
		return nil
	}
	for len(c.order) > 0 {
		key := c.order[0]
		if c.lines-c.touched[key] <= c.cfg.IdleLines {
			return nil
		}
		c.logger.Warn("evicting idle request",
			"key", key,
			"idle_lines", c.lines-c.touched[key])
		c.evicted++
		if err := c.completeAs(key, reqlog.CompletedByEviction); err != nil {
			return err
		}
	}
	return nil
}

// completeAs finishes an open request, removes it from the working set, and
// emits it downstream.
func (c *Correlator) completeAs(key string, cause reqlog.CompletionCause) error {
	req, ok := c.open[key]
	if !ok {
		return nil
	}
	delete(c.open, key)
	delete(c.touched, key)
	c.removeFromOrder(key)

	if err := req.Complete(cause, uuid.NewString()); err != nil {
		return err
	}
	c.emitted++
	return c.emit(req)
}

func (c *Correlator) drop(e *logline.Entry, reason string) {
	c.dropped++
	c.logger.Warn("dropping uncorrelatable entry",
		"lineno", e.LineNo(),
		"line_type", e.Type(),
		"reason", reason)
}

func (c *Correlator) touch(key string) {
	c.touched[key] = c.lines
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *Correlator) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
