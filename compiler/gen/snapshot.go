package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/avnt-sistemas/fac/compiler/load"
)

const (
	snapshotDir     = ".fac"
	snapshotFile    = "snapshot"
	snapshotVersion = 1
)

// Snapshot is the persisted input of a generation run. Two runs with equal
// snapshots emit the same files.
type Snapshot struct {
	Version  int          `msgpack:"version"`
	App      *load.Config `msgpack:"app"`
	Order    []string     `msgpack:"order"`
	Features []string     `msgpack:"features"`
	Storage  string       `msgpack:"storage"`
	Header   string       `msgpack:"header"`
}

// Snapshot returns the snapshot of the graph.
func (g *Graph) Snapshot() *Snapshot {
	s := &Snapshot{
		Version: snapshotVersion,
		App:     g.App,
		Order:   g.Order.Modules,
		Storage: g.Storage.Name,
		Header:  g.Header,
	}
	for _, f := range AllFeatures {
		if enabled, _ := g.FeatureEnabled(f.Name); enabled {
			s.Features = append(s.Features, f.Name)
		}
	}
	return s
}

// MarshalSnapshot encodes s. Map keys are sorted, so equal snapshots have
// equal encodings.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalSnapshot decodes a snapshot encoded with MarshalSnapshot.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	s := &Snapshot{}
	if err := dec.Decode(s); err != nil {
		return nil, err
	}
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	return s, nil
}

// SnapshotPath returns the snapshot location in the target directory.
func SnapshotPath(target string) string {
	return filepath.Join(target, snapshotDir, snapshotFile)
}

// snapshotChanged reports if the stored snapshot differs from the encoded one.
// A missing or unreadable snapshot counts as changed.
func snapshotChanged(target string, encoded []byte) bool {
	stored, err := os.ReadFile(SnapshotPath(target))
	if err != nil {
		return true
	}
	return !bytes.Equal(stored, encoded)
}

// writeSnapshot stores the encoded snapshot in the target directory.
func writeSnapshot(target string, encoded []byte) error {
	path := SnapshotPath(target)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, encoded, 0o644)
}
