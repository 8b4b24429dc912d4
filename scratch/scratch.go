// Package scratch manages the per-operation scratch directories. Each encode
// or decode operation exclusively owns one directory: the external codec
// stages its temporary files there, and raw pixel planes are parked in a
// losslessly compressed store between compression-ladder retries.
//
// Cleanup runs on every exit path. A background sweep is the only
// process-wide actor; it owns the scratch root alone and removes directories
// abandoned by crashed operations.
package scratch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/veduco/EFTSuite-Public/compress"
	"github.com/veduco/EFTSuite-Public/internal/hash"
	"github.com/veduco/EFTSuite-Public/logging"
)

// DefaultSweepAge is how long an abandoned scratch directory survives.
const DefaultSweepAge = 60 * time.Minute

// Dir is one operation's scratch directory and plane store.
// It is owned by a single operation and is not safe for concurrent use.
type Dir struct {
	path   string
	codec  compress.Codec
	logger *logging.Logger
}

// New allocates a fresh scratch directory under root, creating root if
// needed. kind selects the plane-store codec; KindZstd is the usual choice.
func New(root string, kind compress.Kind, logger *logging.Logger) (*Dir, error) {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	codec, err := compress.GetCodec(kind)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("creating scratch root: %w", err)
	}

	path, err := os.MkdirTemp(root, "op-")
	if err != nil {
		return nil, fmt.Errorf("creating scratch dir: %w", err)
	}
	logger.Debug("scratch dir allocated", "path", path, "codec", kind)

	return &Dir{path: path, codec: codec, logger: logger}, nil
}

// Path returns the directory path, for handing to the codec adapter.
func (d *Dir) Path() string {
	return d.path
}

// PutPlane compresses and stores a pixel plane, returning its content ID.
// Storing identical content twice reuses the same file.
func (d *Dir) PutPlane(pixels []byte) (uint64, error) {
	id := hash.ID(pixels)
	path := d.planePath(id)
	if _, err := os.Stat(path); err == nil {
		return id, nil
	}

	compressed, err := d.codec.Compress(pixels)
	if err != nil {
		return 0, fmt.Errorf("compressing plane: %w", err)
	}

	if err := os.WriteFile(path, compressed, 0o600); err != nil {
		return 0, fmt.Errorf("storing plane: %w", err)
	}

	stats := compress.Stats{OriginalSize: int64(len(pixels)), CompressedSize: int64(len(compressed))}
	d.logger.Trace("plane stored", "id", fmt.Sprintf("%016x", id), "ratio", stats.Ratio())

	return id, nil
}

// GetPlane restores a stored pixel plane by content ID.
func (d *Dir) GetPlane(id uint64) ([]byte, error) {
	compressed, err := os.ReadFile(d.planePath(id))
	if err != nil {
		return nil, fmt.Errorf("loading plane %016x: %w", id, err)
	}

	pixels, err := d.codec.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("decompressing plane %016x: %w", id, err)
	}

	return pixels, nil
}

// Remove deletes the directory and everything in it. Safe to call more than
// once; deferred on every operation exit path.
func (d *Dir) Remove() error {
	return os.RemoveAll(d.path)
}

func (d *Dir) planePath(id uint64) string {
	return filepath.Join(d.path, fmt.Sprintf("%016x.plane", id))
}

// Sweep removes scratch directories under root whose last modification is
// older than maxAge (DefaultSweepAge when maxAge <= 0). It returns the count
// removed; a missing root is not an error.
func Sweep(root string, maxAge time.Duration, logger *logging.Logger) (int, error) {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	if maxAge <= 0 {
		maxAge = DefaultSweepAge
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}

		return 0, fmt.Errorf("reading scratch root: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(root, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			logger.Error(err, "sweep failed to remove scratch dir", "path", path)
			continue
		}
		removed++
	}
	if removed > 0 {
		logger.Info("swept stale scratch dirs", "count", removed)
	}

	return removed, nil
}
