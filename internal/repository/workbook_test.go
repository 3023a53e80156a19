package repository

import (
	"bytes"
	"os"
	"testing"

	"github.com/Veraticus/radstage/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func readWorkbook(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{WorkbookSheet}, f.GetSheetList())
	rows, err := f.GetRows(WorkbookSheet)
	require.NoError(t, err)
	return rows
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, []model.Result{
		result("r1", model.T1b, model.N0, model.M0),
		result("r2", model.T4, model.N3, model.M1c),
	}))

	assert.Equal(t, [][]string{
		{"id", "t", "n", "m"},
		{"r1", "T1b", "N0", "M0"},
		{"r2", "T4", "N3", "M1c"},
	}, readWorkbook(t, buf.Bytes()))
}

func TestComposeWorkbookFile(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Save(result("r2", model.T2a, model.N1, model.M0)))
	require.NoError(t, repo.Save(result("r1", model.T1a, model.N0, model.M0)))

	path, err := repo.ComposeWorkbookFile()
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	rows := readWorkbook(t, data)
	require.Len(t, rows, 3)
	assert.Equal(t, "r1", rows[1][0])
	assert.Equal(t, "r2", rows[2][0])
}

func TestComposeWorkbookFile_Empty(t *testing.T) {
	repo := newTestRepository(t)

	path, err := repo.ComposeWorkbookFile()
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "t", "n", "m"}}, readWorkbook(t, data))
}
