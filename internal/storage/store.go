package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/fraczoom/internal/fractal"
)

const metadataFile = "metadata.json"

// Store keeps recordings as sibling directories under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Dir returns the base directory.
func (s *Store) Dir() string { return s.baseDir }

// RecordingMetadata describes an exported frame sequence. Complete is only
// set once every frame was written; FramesWritten frames starting at
// frame_00000.png are always present and contiguous.
type RecordingMetadata struct {
	ID            string    `json:"id"`
	Mode          string    `json:"mode"`
	Timestamp     time.Time `json:"timestamp"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	Supersample   int       `json:"supersample"`
	FrameCount    int       `json:"frame_count"`
	FramesWritten int       `json:"frames_written"`
	Complete      bool      `json:"complete"`
	MaxIterations int       `json:"max_iterations"`
	TimeSource    string    `json:"time_source"`
	Palette       string    `json:"palette"`
	StartView     any       `json:"start_view"`
	EndView       any       `json:"end_view"`
}

// NewRecording prepares a sink. Nothing touches the disk until the first
// frame or Finish. An empty ID becomes <mode>_<unix time>.
func (s *Store) NewRecording(meta RecordingMetadata) *Recording {
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Mode, time.Now().Unix())
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.FramesWritten = 0
	meta.Complete = false
	return &Recording{
		dir:  filepath.Join(s.baseDir, meta.ID),
		meta: meta,
	}
}

func (s *Store) List() ([]RecordingMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RecordingMetadata{}, nil
		}
		return nil, err
	}

	recs := make([]RecordingMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		recs = append(recs, *meta)
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].Timestamp.Before(recs[j].Timestamp)
	})
	return recs, nil
}

func (s *Store) Load(id string) (*RecordingMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RecordingMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// FrameName returns the file name of frame index.
func FrameName(index int) string {
	return fmt.Sprintf("frame_%05d.png", index)
}

func writeJSON(path string, v any) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Join(err, f.Close(), os.Remove(tmp))
	}
	if err := f.Close(); err != nil {
		return errors.Join(err, os.Remove(tmp))
	}
	return os.Rename(tmp, path)
}

var _ fractal.FrameSink = (*Recording)(nil)
