package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reqsift/reqsift/pkg/tracker"
)

// ErrUnknownFormat is returned for format names no marshaler registered.
var ErrUnknownFormat = errors.New("unknown export format")

// Snapshot is the exportable outcome of one analysis run.
type Snapshot struct {
	RunID       string              `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time           `json:"generated_at" yaml:"generated_at"`
	Source      string              `json:"source" yaml:"source"`
	Format      string              `json:"format" yaml:"format"`
	Requests    int                 `json:"requests" yaml:"requests"`
	Trackers    []*tracker.Snapshot `json:"trackers" yaml:"trackers"`
}

// Marshaler serializes a snapshot into one output format.
type Marshaler interface {
	// Format is the registry name ("json", "yaml", "xml").
	Format() string
	// Marshal renders the snapshot.
	Marshal(snap *Snapshot) ([]byte, error)
}

var (
	registryMu sync.RWMutex
	marshalers = make(map[string]Marshaler)
)

// RegisterMarshaler adds a marshaler, replacing any with the same format
// name. Built-ins register at init time.
func RegisterMarshaler(m Marshaler) {
	registryMu.Lock()
	defer registryMu.Unlock()
	marshalers[m.Format()] = m
}

// GetMarshaler returns the marshaler for a format name.
func GetMarshaler(format string) (Marshaler, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	m, ok := marshalers[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return m, nil
}

// Formats returns the registered format names in lexical order.
func Formats() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(marshalers))
	for name := range marshalers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DetectFormat resolves the export format from a path's extension,
// defaulting to json.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".xml":
		return "xml"
	default:
		return "json"
	}
}

// Marshal renders the snapshot in the named format, or the path-detected
// format when name is empty.
func Marshal(snap *Snapshot, format string) ([]byte, error) {
	m, err := GetMarshaler(format)
	if err != nil {
		return nil, err
	}
	return m.Marshal(snap)
}

// WriteFile marshals the snapshot and writes it to path. An empty format
// name falls back to extension detection.
func WriteFile(path string, snap *Snapshot, format string) error {
	if format == "" {
		format = DetectFormat(path)
	}
	data, err := Marshal(snap, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

func init() {
	RegisterMarshaler(jsonMarshaler{})
	RegisterMarshaler(yamlMarshaler{})
	RegisterMarshaler(xmlMarshaler{})
}

type jsonMarshaler struct{}

func (jsonMarshaler) Format() string { return "json" }

func (jsonMarshaler) Marshal(snap *Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

type yamlMarshaler struct{}

func (yamlMarshaler) Format() string { return "yaml" }

func (yamlMarshaler) Marshal(snap *Snapshot) ([]byte, error) {
	return yaml.Marshal(snap)
}
