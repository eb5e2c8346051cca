package gridbook

// Candidate detection for workbooks that never declared their tables.
// A candidate is the bounding box of the sheet's non-empty cells,
// accepted only when it is dense enough to plausibly be tabular data
// rather than scattered annotations.

// DetectionParams tunes candidate acceptance.
type DetectionParams struct {
	DensityMin       float64
	MinNonemptyCells int
}

// DefaultDetectionParams returns the acceptance thresholds used by the
// CLI's detect command.
func DefaultDetectionParams() DetectionParams {
	return DetectionParams{
		DensityMin:       0.04,
		MinNonemptyCells: 3,
	}
}

// DetectCandidates scans a sheet of a FileStore for table-like regions
// and returns their spans. An empty sheet yields no candidates.
func DetectCandidates(store *FileStore, sheet string, params DetectionParams) ([]Span, error) {
	rows, err := store.File().GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	box, nonEmpty := boundingBox(rows)
	if box.Rows == 0 || nonEmpty < params.MinNonemptyCells {
		return nil, nil
	}

	density := float64(nonEmpty) / float64(box.Rows*box.Cols)
	if density < params.DensityMin {
		return nil, nil
	}
	return []Span{box}, nil
}

// boundingBox returns the span covering every non-empty cell, in
// 1-based coordinates, plus the non-empty cell count. A sheet with no
// content returns the zero span.
func boundingBox(rows [][]string) (Span, int) {
	minRow, maxRow := -1, -1
	minCol, maxCol := -1, -1
	count := 0

	for i, row := range rows {
		for j, cell := range row {
			if cell == "" {
				continue
			}
			count++
			if minRow < 0 || i < minRow {
				minRow = i
			}
			if i > maxRow {
				maxRow = i
			}
			if minCol < 0 || j < minCol {
				minCol = j
			}
			if j > maxCol {
				maxCol = j
			}
		}
	}

	if minRow < 0 {
		return Span{}, 0
	}
	return Span{
		Row:  minRow + 1,
		Col:  minCol + 1,
		Rows: maxRow - minRow + 1,
		Cols: maxCol - minCol + 1,
	}, count
}
