// Package dataset loads the labeled training corpus and the queue of reports
// awaiting classification.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Veraticus/radstage/internal/model"
)

// Dataset layout.
const (
	TrainDir   = "train"
	ValDir     = "val"
	LabelFile  = "label.csv"
	ReportExt  = ".txt"
	labelWidth = 4
)

// ErrMissingLabel is returned when a training report has no label row.
var ErrMissingLabel = errors.New("training report has no label")

// Dataset is a corpus directory with train/ and val/ subdirectories.
type Dataset struct {
	Dir string
}

// New returns the dataset rooted at dir after checking both splits exist.
func New(dir string) (*Dataset, error) {
	d := &Dataset{Dir: dir}
	for _, sub := range []string{d.TrainDir(), d.ValDir()} {
		info, err := os.Stat(sub)
		if err != nil {
			return nil, fmt.Errorf("dataset directory %s: %w", sub, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("dataset path %s is not a directory", sub)
		}
	}
	return d, nil
}

// TrainDir holds labeled reports and label.csv.
func (d *Dataset) TrainDir() string { return filepath.Join(d.Dir, TrainDir) }

// ValDir holds the reports to classify.
func (d *Dataset) ValDir() string { return filepath.Join(d.Dir, ValDir) }

// Examples returns labeled training reports sorted by record id. A positive
// limit keeps only the first limit examples.
func (d *Dataset) Examples(limit int) ([]model.Example, error) {
	labels, err := LoadLabels(filepath.Join(d.TrainDir(), LabelFile))
	if err != nil {
		return nil, err
	}

	reports, err := LoadReports(d.TrainDir())
	if err != nil {
		return nil, err
	}

	examples := make([]model.Example, 0, len(reports))
	for _, report := range reports {
		l, ok := labels[report.ID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingLabel, report.ID)
		}
		examples = append(examples, model.Example{Text: report.Text, Labels: l})
		if limit > 0 && len(examples) == limit {
			break
		}
	}
	return examples, nil
}

// Queue returns the reports to classify in record id order.
func (d *Dataset) Queue() ([]model.Record, error) {
	return LoadReports(d.ValDir())
}

// LoadLabels reads a label table with a header row followed by
// record_id,t,n,m rows. Every label must belong to its domain.
func LoadLabels(path string) (map[string]model.Labels, error) {
	f, err := os.Open(path) // #nosec G304 - dataset path is operator-supplied
	if err != nil {
		return nil, fmt.Errorf("failed to open labels: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadLabels(f)
}

// ReadLabels parses a label table from r.
func ReadLabels(r io.Reader) (map[string]model.Labels, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = labelWidth
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("label file is empty")
		}
		return nil, fmt.Errorf("failed to read label header: %w", err)
	}

	labels := make(map[string]model.Labels)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse labels: %w", err)
		}

		line, _ := reader.FieldPos(0)
		id := strings.TrimSpace(row[0])
		if id == "" {
			return nil, fmt.Errorf("line %d: empty record id", line)
		}
		if _, dup := labels[id]; dup {
			return nil, fmt.Errorf("line %d: duplicate record id %s", line, id)
		}

		l, err := model.ParseLabels(strings.TrimSpace(row[1]), strings.TrimSpace(row[2]), strings.TrimSpace(row[3]))
		if err != nil {
			return nil, fmt.Errorf("line %d: record %s: %w", line, id, err)
		}
		labels[id] = l
	}
	return labels, nil
}

// LoadReports reads every report file in dir, sorted by record id. The record
// id is the file name without extension; text is trimmed.
func LoadReports(dir string) ([]model.Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning reports: %w", err)
	}

	records := make([]model.Record, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == ReportExt || !strings.HasSuffix(name, ReportExt) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name)) // #nosec G304 - path comes from a directory listing
		if err != nil {
			return nil, fmt.Errorf("failed to read report: %w", err)
		}
		records = append(records, model.Record{
			ID:   strings.TrimSuffix(name, ReportExt),
			Text: strings.TrimSpace(string(data)),
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})
	return records, nil
}
