package trace

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Store persists recorded runs under baseDir, one directory per run.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Preset    string    `json:"preset"`
	Pattern   string    `json:"pattern"`
	Timestamp time.Time `json:"timestamp"`
	Dt        float64   `json:"dt"`
	Duration  float64   `json:"duration"`
	Ticks     int       `json:"ticks"`
	Landings  int       `json:"landings"`
	Jumps     int       `json:"jumps"`
}

var tickHeader = []string{"time", "pos_x", "pos_y", "vel_x", "vel_y", "grounded", "jumps"}

// Save writes metadata.json and ticks.csv for a finished run and returns the
// generated run ID.
func (s *Store) Save(meta RunMetadata, rec *Recorder) (string, error) {
	runID := fmt.Sprintf("%s_%s_%d", meta.Preset, meta.Pattern, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Ticks = rec.Len()
	if n := rec.Len(); n > 0 {
		meta.Duration = rec.Samples()[n-1].Time
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "ticks.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(tickHeader); err != nil {
		return "", err
	}
	for _, sample := range rec.Samples() {
		grounded := "0"
		if sample.Grounded {
			grounded = "1"
		}
		row := []string{
			strconv.FormatFloat(sample.Time, 'f', 6, 64),
			strconv.FormatFloat(sample.PosX, 'f', 6, 64),
			strconv.FormatFloat(sample.PosY, 'f', 6, 64),
			strconv.FormatFloat(sample.VelX, 'f', 6, 64),
			strconv.FormatFloat(sample.VelY, 'f', 6, 64),
			grounded,
			strconv.Itoa(sample.Jumps),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List returns the metadata of every readable run. Unreadable or foreign
// directories are skipped, not errors.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTicks reads a run's samples back.
func (s *Store) LoadTicks(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "ticks.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(tickHeader) {
			continue
		}
		fields := make([]float64, 5)
		bad := false
		for i := range fields {
			v, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				bad = true
				break
			}
			fields[i] = v
		}
		if bad {
			continue
		}
		jumps, err := strconv.Atoi(record[6])
		if err != nil {
			continue
		}
		samples = append(samples, Sample{
			Time:     fields[0],
			PosX:     fields[1],
			PosY:     fields[2],
			VelX:     fields[3],
			VelY:     fields[4],
			Grounded: record[5] == "1",
			Jumps:    jumps,
		})
	}
	return samples, nil
}
