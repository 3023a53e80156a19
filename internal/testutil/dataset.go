package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type labeledReport struct {
	id, text, t, n, m string
}

type queuedReport struct {
	id, text string
}

// DatasetBuilder writes a train/val dataset directory for tests.
type DatasetBuilder struct {
	t        *testing.T
	examples []labeledReport
	queue    []queuedReport
}

// NewDatasetBuilder creates an empty dataset builder.
func NewDatasetBuilder(t *testing.T) *DatasetBuilder {
	t.Helper()
	return &DatasetBuilder{t: t}
}

// WithExample adds a labeled training report.
func (b *DatasetBuilder) WithExample(id, text, t, n, m string) *DatasetBuilder {
	b.examples = append(b.examples, labeledReport{id: id, text: text, t: t, n: n, m: m})
	return b
}

// WithQueued adds an unlabeled validation report.
func (b *DatasetBuilder) WithQueued(id, text string) *DatasetBuilder {
	b.queue = append(b.queue, queuedReport{id: id, text: text})
	return b
}

// Build writes the dataset into a temporary directory and returns it.
func (b *DatasetBuilder) Build() string {
	b.t.Helper()
	dir := b.t.TempDir()

	var labels strings.Builder
	labels.WriteString("id,t,n,m\n")
	for _, e := range b.examples {
		fmt.Fprintf(&labels, "%s,%s,%s,%s\n", e.id, e.t, e.n, e.m)
		b.write(filepath.Join(dir, "train", e.id+".txt"), e.text+"\n")
	}
	b.write(filepath.Join(dir, "train", "label.csv"), labels.String())

	if err := os.MkdirAll(filepath.Join(dir, "val"), 0o750); err != nil {
		b.t.Fatalf("failed to create val directory: %v", err)
	}
	for _, q := range b.queue {
		b.write(filepath.Join(dir, "val", q.id+".txt"), q.text+"\n")
	}
	return dir
}

func (b *DatasetBuilder) write(path, content string) {
	b.t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		b.t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		b.t.Fatalf("failed to write %s: %v", path, err)
	}
}
