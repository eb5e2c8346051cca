package gridbook

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestDetectCandidates(t *testing.T) {
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "B2", "Name")
	f.SetCellValue("Sheet1", "C2", "Qty")
	f.SetCellValue("Sheet1", "B3", "Herb")
	f.SetCellValue("Sheet1", "C3", 3)

	store := NewFileStore(f)
	defer store.Close()

	candidates, err := DetectCandidates(store, "Sheet1", DefaultDetectionParams())
	if err != nil {
		t.Fatalf("DetectCandidates: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	want := Span{Row: 2, Col: 2, Rows: 2, Cols: 2}
	if candidates[0] != want {
		t.Errorf("candidate = %+v, expected %+v", candidates[0], want)
	}
}

func TestDetectEmptySheet(t *testing.T) {
	f := excelize.NewFile()
	store := NewFileStore(f)
	defer store.Close()

	candidates, err := DetectCandidates(store, "Sheet1", DefaultDetectionParams())
	if err != nil {
		t.Fatalf("DetectCandidates: %v", err)
	}
	if candidates != nil {
		t.Errorf("empty sheet should yield no candidates, got %v", candidates)
	}
}

func TestDetectBelowThreshold(t *testing.T) {
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "x")
	f.SetCellValue("Sheet1", "Z50", "y")

	store := NewFileStore(f)
	defer store.Close()

	candidates, err := DetectCandidates(store, "Sheet1", DefaultDetectionParams())
	if err != nil {
		t.Fatalf("DetectCandidates: %v", err)
	}
	if candidates != nil {
		t.Errorf("sparse sheet should yield no candidates, got %v", candidates)
	}
}
