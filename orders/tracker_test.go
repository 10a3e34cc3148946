package orders

import (
	"strings"
	"testing"

	"ordermatch/matching"
)

// TestTracker_Summary проверяет группировку по причинам и учет предупреждений
func TestTracker_Summary(t *testing.T) {
	tracker := NewTracker()

	tracker.Add(LineResult{LineNumber: 1, Name: "Rakza 9", Status: string(matching.StatusMatched)})
	tracker.Add(LineResult{LineNumber: 2, Name: "Rakza 7", Status: string(matching.StatusMatched), Warnings: []string{"low_quantity: 2"}})
	tracker.Add(LineResult{LineNumber: 3, Name: "Unknown A", Status: string(matching.StatusNoMatch)})
	tracker.Add(LineResult{LineNumber: 4, Name: "Unknown B", Status: string(matching.StatusNoMatch)})
	tracker.Add(LineResult{LineNumber: 5, Raw: "???", Status: StatusParsingError})
	tracker.Add(LineResult{LineNumber: 6, Name: "Old Rubber", Status: string(matching.StatusDiscontinued)})

	summary := tracker.Summary()

	if summary.Total != 6 {
		t.Errorf("Total = %d, want 6", summary.Total)
	}
	if summary.Matched != 2 {
		t.Errorf("Matched = %d, want 2", summary.Matched)
	}
	if summary.MatchedWithWarning != 1 {
		t.Errorf("MatchedWithWarning = %d, want 1", summary.MatchedWithWarning)
	}
	if summary.Unmatched != 4 {
		t.Errorf("Unmatched = %d, want 4", summary.Unmatched)
	}
	if summary.ByReason[string(matching.StatusNoMatch)] != 2 {
		t.Errorf("ByReason[no_match] = %d, want 2", summary.ByReason[string(matching.StatusNoMatch)])
	}

	lines := tracker.Lines(string(matching.StatusNoMatch))
	if len(lines) != 2 || lines[0].Name != "Unknown A" {
		t.Errorf("Lines(no_match) = %+v", lines)
	}
}

// TestTracker_Report проверяет порядок категорий в отчете
func TestTracker_Report(t *testing.T) {
	tracker := NewTracker()

	tracker.Add(LineResult{LineNumber: 1, Name: "Unknown", Status: string(matching.StatusNoMatch)})
	tracker.Add(LineResult{LineNumber: 2, Raw: "garbage", Status: StatusParsingError})

	report := tracker.Report()

	parsingIdx := strings.Index(report, StatusParsingError)
	noMatchIdx := strings.Index(report, string(matching.StatusNoMatch))
	if parsingIdx < 0 || noMatchIdx < 0 {
		t.Fatalf("report missing categories:\n%s", report)
	}
	// Ошибки разбора идут раньше ненайденных наименований
	if parsingIdx > noMatchIdx {
		t.Errorf("parsing_error must precede no_match in report:\n%s", report)
	}
	if !strings.Contains(report, "line 2: garbage") {
		t.Errorf("report must fall back to the raw line when name is empty:\n%s", report)
	}
}

// TestTracker_Reset проверяет очистку трекера
func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker()
	tracker.Add(LineResult{LineNumber: 1, Status: string(matching.StatusNoMatch)})

	tracker.Reset()

	summary := tracker.Summary()
	if summary.Total != 0 || summary.Unmatched != 0 {
		t.Errorf("summary after reset = %+v", summary)
	}
}
