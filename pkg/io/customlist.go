package io

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/sequence"
)

// ImportCustomList reads data values for the custom batch mode from path.
//
// Workbooks (.xlsx, .xlsm) contribute the first column of their first sheet
// that holds any value. Every other file is read as text, one value per
// line. The result is the raw newline-joined list, ready for
// label.BatchSettings.CustomList; blank lines are dropped later by the
// sequence generator.
func ImportCustomList(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		values, err := readWorkbook(path)
		if err != nil {
			return "", err
		}
		return sequence.Join(values), nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeNotFound, err, "custom list %s", path)
		}
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadCustomList(f)
}

// ReadCustomList reads a text list from r and returns it with line endings
// normalized to "\n".
func ReadCustomList(r io.Reader) (string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "read custom list")
	}
	if len(lines) > errors.MaxLabels {
		return "", errors.New(errors.ErrCodeInvalidInput, "custom list too long (max %d lines)", errors.MaxLabels)
	}
	return strings.Join(lines, "\n"), nil
}

func readWorkbook(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "workbook %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "open workbook %s", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read sheet %q", sheets[0])
	}
	values := firstColumn(rows)
	if len(values) > errors.MaxLabels {
		return nil, errors.New(errors.ErrCodeInvalidInput, "custom list too long (max %d values)", errors.MaxLabels)
	}
	return values, nil
}

// firstColumn returns the leftmost column that has a non-blank cell, top to
// bottom, with blank cells skipped.
func firstColumn(rows [][]string) []string {
	col := -1
	for _, row := range rows {
		for i, v := range row {
			if strings.TrimSpace(v) != "" && (col < 0 || i < col) {
				col = i
				break
			}
		}
	}
	if col < 0 {
		return nil
	}
	var out []string
	for _, row := range rows {
		if col < len(row) {
			if v := strings.TrimSpace(row[col]); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
