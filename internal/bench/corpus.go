// Package bench provides corpus loading and threshold calibration
// utilities for segmentation evaluation.
package bench

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jamesainslie/go-segeval/label"
)

// Header contains metadata parsed from a case file header.
type Header struct {
	ID         string
	Positive   string
	Categories []string
}

// ParseHeader extracts metadata from case header comments. Returns the
// header, remaining text after the header, and any error.
func ParseHeader(text string) (Header, string, error) {
	var h Header
	scanner := bufio.NewScanner(strings.NewReader(text))
	var bodyStart int
	var lineEnd int

	for scanner.Scan() {
		line := scanner.Text()
		lineEnd += len(line) + 1 // +1 for newline

		if !strings.HasPrefix(line, "#") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			bodyStart = lineEnd - len(line) - 1
			break
		}

		line = strings.TrimPrefix(line, "# ")
		if value, ok := strings.CutPrefix(line, "ID:"); ok {
			h.ID = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(line, "Positive:"); ok {
			h.Positive = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(line, "Categories:"); ok {
			for _, cat := range strings.Split(value, ",") {
				h.Categories = append(h.Categories, strings.TrimSpace(cat))
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return Header{}, "", fmt.Errorf("scan header: %w", err)
	}

	if h.Positive == "" {
		return Header{}, "", errors.New("missing Positive in header")
	}

	body := text[bodyStart:]
	body = strings.TrimSpace(body)

	return h, body, nil
}

// Case is one loaded evaluation case: a probability grid from the model
// and its integer ground-truth grid.
type Case struct {
	ID         string
	Positive   string
	Categories []string
	Pred       label.Grid
	Truth      label.Grid
}

// parseGrids reads the "pred:" and "truth:" blocks. Each block is one
// row of whitespace-separated cells per line; both blocks must share a
// shape.
func parseGrids(body string, categories []string) (pred, truth label.Grid, err error) {
	var predRows, truthRows [][]string
	var current *[][]string

	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "pred:":
			current = &predRows
		case line == "truth:":
			current = &truthRows
		case current == nil:
			return label.Grid{}, label.Grid{}, fmt.Errorf("cell row %q before any pred:/truth: marker", line)
		default:
			*current = append(*current, strings.Fields(line))
		}
	}
	if err := scanner.Err(); err != nil {
		return label.Grid{}, label.Grid{}, fmt.Errorf("scan body: %w", err)
	}

	if len(predRows) == 0 || len(truthRows) == 0 {
		return label.Grid{}, label.Grid{}, errors.New("case needs both a pred: and a truth: block")
	}

	predShape, predCells, err := parseFloatRows(predRows)
	if err != nil {
		return label.Grid{}, label.Grid{}, fmt.Errorf("pred block: %w", err)
	}
	truthShape, truthCells, err := parseIntRows(truthRows)
	if err != nil {
		return label.Grid{}, label.Grid{}, fmt.Errorf("truth block: %w", err)
	}

	if predShape[0] != truthShape[0] || predShape[1] != truthShape[1] {
		return label.Grid{}, label.Grid{}, fmt.Errorf("pred shape %v does not match truth shape %v",
			predShape, truthShape)
	}

	pred = label.FromFloat(predShape, predCells)
	if len(categories) > 0 {
		truth = label.FromCategorical(truthShape, truthCells, categories)
	} else {
		truth = label.FromInt(truthShape, truthCells)
	}
	return pred, truth, nil
}

func parseFloatRows(rows [][]string) ([]int, []float64, error) {
	width := len(rows[0])
	cells := make([]float64, 0, len(rows)*width)
	for r, row := range rows {
		if len(row) != width {
			return nil, nil, fmt.Errorf("row %d has %d cells, want %d", r, len(row), width)
		}
		for _, field := range row {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("row %d: %w", r, err)
			}
			cells = append(cells, v)
		}
	}
	return []int{len(rows), width}, cells, nil
}

func parseIntRows(rows [][]string) ([]int, []int, error) {
	width := len(rows[0])
	cells := make([]int, 0, len(rows)*width)
	for r, row := range rows {
		if len(row) != width {
			return nil, nil, fmt.Errorf("row %d has %d cells, want %d", r, len(row), width)
		}
		for _, field := range row {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, nil, fmt.Errorf("row %d: %w", r, err)
			}
			cells = append(cells, v)
		}
	}
	return []int{len(rows), width}, cells, nil
}

// LoadCase loads and parses a case file.
func LoadCase(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	header, body, err := ParseHeader(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	pred, truth, err := parseGrids(body, header.Categories)
	if err != nil {
		return nil, fmt.Errorf("parse grids: %w", err)
	}

	id := header.ID
	if id == "" {
		base := filepath.Base(path)
		id = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return &Case{
		ID:         id,
		Positive:   header.Positive,
		Categories: header.Categories,
		Pred:       pred,
		Truth:      truth,
	}, nil
}

// ErrMixedPositives reports a corpus whose case headers disagree on
// the positive class.
var ErrMixedPositives = errors.New("bench: corpus cases declare different positive classes")

// CorpusPositive returns the positive class shared by every case
// header, or fallback when no case declares one. Cases that disagree
// cannot be scored as one batch, so a mixed corpus is an error rather
// than a silent override.
func CorpusPositive(cases []*Case, fallback string) (string, error) {
	positive := ""
	for _, c := range cases {
		switch {
		case c.Positive == "":
		case positive == "":
			positive = c.Positive
		case c.Positive != positive:
			return "", fmt.Errorf("%w: case %s declares %q, earlier cases %q",
				ErrMixedPositives, c.ID, c.Positive, positive)
		}
	}
	if positive == "" {
		return fallback, nil
	}
	return positive, nil
}

// LoadCorpus loads all .txt case files from a directory.
func LoadCorpus(dir string) ([]*Case, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var cases []*Case
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) != ".txt" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		c, err := LoadCase(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", entry.Name(), err)
		}
		cases = append(cases, c)
	}

	return cases, nil
}
