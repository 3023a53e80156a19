// Package repository persists classification results as one JSON file per
// record under an experiment directory. A record is processed at most once per
// experiment: the presence of its result file is the resume marker.
package repository

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Veraticus/radstage/internal/common"
	"github.com/Veraticus/radstage/internal/model"
)

// Layout of an experiment directory.
const (
	ResultPrefix   = "ret_"
	ResultExt      = ".json"
	PromptPrefix   = "prompt_"
	PromptExt      = ".txt"
	SubmissionFile = "submission.csv"

	dirPerm  = 0o750
	filePerm = 0o600
)

// SubmissionHeader is the header row of the submission table.
var SubmissionHeader = []string{"id", "t", "n", "m"}

// FileRepository stores results under Root/Experiment.
type FileRepository struct {
	Root       string
	Experiment string
}

// New creates a repository for experiment beneath root.
func New(root, experiment string) (*FileRepository, error) {
	if err := validateName(experiment); err != nil {
		return nil, fmt.Errorf("invalid experiment name: %w", err)
	}
	return &FileRepository{Root: root, Experiment: experiment}, nil
}

// Dir is the experiment directory.
func (r *FileRepository) Dir() string {
	return filepath.Join(r.Root, r.Experiment)
}

// ResultPath is the result file for recordID.
func (r *FileRepository) ResultPath(recordID string) string {
	return filepath.Join(r.Dir(), ResultPrefix+recordID+ResultExt)
}

// PromptPath is the prompt file for recordID.
func (r *FileRepository) PromptPath(recordID string) string {
	return filepath.Join(r.Dir(), PromptPrefix+recordID+PromptExt)
}

// Exists reports whether a result has been persisted for recordID.
func (r *FileRepository) Exists(recordID string) (bool, error) {
	if err := validateName(recordID); err != nil {
		return false, err
	}

	_, err := os.Stat(r.ResultPath(recordID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("checking result %s: %w", recordID, err)
	}
	return true, nil
}

// Save writes result, replacing any previous result for the same record.
// The write is atomic: readers see either the old file or the new one.
func (r *FileRepository) Save(result model.Result) error {
	if err := validateName(result.RecordID); err != nil {
		return err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result %s: %w", result.RecordID, err)
	}

	if err := os.MkdirAll(r.Dir(), dirPerm); err != nil {
		return fmt.Errorf("creating experiment directory: %w", err)
	}
	if err := writeFileAtomic(r.ResultPath(result.RecordID), data, filePerm); err != nil {
		return fmt.Errorf("writing result %s: %w", result.RecordID, err)
	}
	return nil
}

// SavePrompt writes the composed prompt for recordID.
func (r *FileRepository) SavePrompt(recordID, prompt string) error {
	if err := validateName(recordID); err != nil {
		return err
	}

	if err := os.MkdirAll(r.Dir(), dirPerm); err != nil {
		return fmt.Errorf("creating experiment directory: %w", err)
	}
	if err := writeFileAtomic(r.PromptPath(recordID), []byte(prompt), filePerm); err != nil {
		return fmt.Errorf("writing prompt %s: %w", recordID, err)
	}
	return nil
}

// Load reads the persisted result for recordID.
func (r *FileRepository) Load(recordID string) (model.Result, error) {
	if err := validateName(recordID); err != nil {
		return model.Result{}, err
	}
	return readResult(r.ResultPath(recordID))
}

// Results decodes every persisted result, sorted by record id. Any unreadable
// or invalid file aborts the scan.
func (r *FileRepository) Results() ([]model.Result, error) {
	entries, err := os.ReadDir(r.Dir())
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Result{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning results: %w", err)
	}

	results := make([]model.Result, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, ResultPrefix) || !strings.HasSuffix(name, ResultExt) {
			continue
		}
		result, err := readResult(filepath.Join(r.Dir(), name))
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].RecordID < results[j].RecordID
	})
	return results, nil
}

// ComposeSubmissionFile writes the submission table and returns its path.
// Nothing is written when any persisted result is corrupt.
func (r *FileRepository) ComposeSubmissionFile() (string, error) {
	results, err := r.Results()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := WriteSubmission(&buf, results); err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.Dir(), dirPerm); err != nil {
		return "", fmt.Errorf("creating experiment directory: %w", err)
	}
	path := filepath.Join(r.Dir(), SubmissionFile)
	if err := writeFileAtomic(path, buf.Bytes(), filePerm); err != nil {
		return "", fmt.Errorf("writing submission file: %w", err)
	}
	return path, nil
}

// WriteSubmission writes the header and one row per result.
func WriteSubmission(w io.Writer, results []model.Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(SubmissionHeader); err != nil {
		return fmt.Errorf("writing submission header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write(SubmissionRow(result)); err != nil {
			return fmt.Errorf("writing submission row %s: %w", result.RecordID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// SubmissionRow is the submission table row for result.
func SubmissionRow(result model.Result) []string {
	return []string{result.RecordID, string(result.T), string(result.N), string(result.M)}
}

func readResult(path string) (model.Result, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is built from a validated record id or a glob
	if err != nil {
		return model.Result{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var result model.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return model.Result{}, fmt.Errorf("%w: %s: %w", common.ErrRepositoryCorruption, filepath.Base(path), err)
	}

	want := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), ResultPrefix), ResultExt)
	if result.RecordID != want {
		return model.Result{}, fmt.Errorf("%w: %s: record id %q does not match file name",
			common.ErrRepositoryCorruption, filepath.Base(path), result.RecordID)
	}
	return result, nil
}

func validateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", common.ErrInvalidRecordID)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", common.ErrInvalidRecordID, name)
	case strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q contains a path separator", common.ErrInvalidRecordID, name)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
