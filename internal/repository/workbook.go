package repository

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Veraticus/radstage/internal/model"
	"github.com/xuri/excelize/v2"
)

// Workbook layout.
const (
	WorkbookFile  = "submission.xlsx"
	WorkbookSheet = "submission"

	defaultSheet = "Sheet1"
)

// ComposeWorkbookFile writes the submission table as an xlsx workbook next to
// the CSV and returns its path. Corrupt results abort the export.
func (r *FileRepository) ComposeWorkbookFile() (string, error) {
	results, err := r.Results()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, results); err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.Dir(), dirPerm); err != nil {
		return "", fmt.Errorf("creating experiment directory: %w", err)
	}
	path := filepath.Join(r.Dir(), WorkbookFile)
	if err := writeFileAtomic(path, buf.Bytes(), filePerm); err != nil {
		return "", fmt.Errorf("writing workbook: %w", err)
	}
	return path, nil
}

// WriteWorkbook writes the header and one row per result to a single sheet.
func WriteWorkbook(w io.Writer, results []model.Result) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(defaultSheet, WorkbookSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if err := setRow(f, 1, SubmissionHeader); err != nil {
		return err
	}
	for i, result := range results {
		if err := setRow(f, i+2, SubmissionRow(result)); err != nil {
			return fmt.Errorf("writing workbook row %s: %w", result.RecordID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("encoding workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(WorkbookSheet, cell, &cells)
}
