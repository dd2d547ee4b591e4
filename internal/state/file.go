package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"poswatch/internal/logger"
)

// snapshotSchema guards against half-written or hand-edited state files
// being silently misread as "everything closed".
const snapshotSchema = `{
	"type": "object",
	"properties": {
		"keys": {"type": "array", "items": {"type": "string"}},
		"sizes": {"type": "object", "additionalProperties": {"type": "number"}},
		"ordersKeys": {"type": "array", "items": {"type": "string"}},
		"lastHeartbeat": {"type": "integer"}
	}
}`

var snapshotSchemaCompiled = jsonschema.MustCompileString("snapshot.json", snapshotSchema)

// FileStore keeps the snapshot as a pretty-printed JSON file, the format
// the original cron deployment used.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() Snapshot {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warnf("state: reading %s failed, starting cold: %v", s.path, err)
		}
		return Empty()
	}
	snap, err := decodeSnapshot(raw)
	if err != nil {
		logger.Warnf("state: snapshot %s is malformed, starting cold: %v", s.path, err)
		return Empty()
	}
	return snap
}

func (s *FileStore) Save(snap Snapshot) error {
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating state dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func decodeSnapshot(raw []byte) (Snapshot, error) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return Snapshot{}, err
	}
	if err := snapshotSchemaCompiled.Validate(generic); err != nil {
		return Snapshot{}, err
	}
	snap := Empty()
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, err
	}
	if snap.Keys == nil {
		snap.Keys = []string{}
	}
	if snap.Sizes == nil {
		snap.Sizes = map[string]float64{}
	}
	if snap.OrdersKeys == nil {
		snap.OrdersKeys = []string{}
	}
	return snap, nil
}
