package orders

import "testing"

// TestAnalyzeUnmatched проверяет выделение повторяющихся основ
func TestAnalyzeUnmatched(t *testing.T) {
	lines := []UnmatchedLine{
		{LineNumber: 1, Name: "Sponge cleaner red", Reason: "no_match"},
		{LineNumber: 2, Name: "Sponge protector blue", Reason: "no_match"},
		{LineNumber: 3, Name: "Sponge holder 5x", Reason: "no_match"},
		{LineNumber: 4, Name: "Edge tape 12", Reason: "no_match"},
	}

	patterns := AnalyzeUnmatched(lines, 10)

	if len(patterns) == 0 {
		t.Fatal("expected at least one repeated stem")
	}

	top := patterns[0]
	if top.Count != 3 {
		t.Errorf("top pattern count = %d, want 3 (sponge appears in 3 lines): %+v", top.Count, patterns)
	}
	if len(top.Examples) != 3 {
		t.Errorf("top pattern examples = %v, want 3", top.Examples)
	}

	// Единичные основы (cleaner, protector, edge, tape...) не образуют паттерн
	for _, p := range patterns {
		if p.Count < 2 {
			t.Errorf("pattern %q has count %d, singles must be filtered", p.Stem, p.Count)
		}
	}
}

// TestAnalyzeUnmatched_Cyrillic проверяет стемминг русских наименований:
// разные словоформы сводятся к одной основе
func TestAnalyzeUnmatched_Cyrillic(t *testing.T) {
	lines := []UnmatchedLine{
		{LineNumber: 1, Name: "Накладка профессиональная", Reason: "no_match"},
		{LineNumber: 2, Name: "Накладки тренировочные", Reason: "no_match"},
	}

	patterns := AnalyzeUnmatched(lines, 10)

	if len(patterns) != 1 {
		t.Fatalf("patterns = %+v, want exactly the shared stem", patterns)
	}
	if patterns[0].Count != 2 {
		t.Errorf("count = %d, want 2 word forms folded into one stem", patterns[0].Count)
	}
}

// TestAnalyzeUnmatched_TopN проверяет ограничение размера результата
func TestAnalyzeUnmatched_TopN(t *testing.T) {
	lines := []UnmatchedLine{
		{Name: "alpha widget"},
		{Name: "alpha gadget"},
		{Name: "beta widget"},
		{Name: "beta gadget"},
	}

	patterns := AnalyzeUnmatched(lines, 1)
	if len(patterns) != 1 {
		t.Errorf("patterns = %d, want capped at 1", len(patterns))
	}
}

// TestAnalyzeUnmatched_SkipsNumbers проверяет фильтрацию чисел и коротких слов
func TestAnalyzeUnmatched_SkipsNumbers(t *testing.T) {
	lines := []UnmatchedLine{
		{Name: "120 2.0 aa item"},
		{Name: "120 2.0 bb item"},
	}

	patterns := AnalyzeUnmatched(lines, 10)

	for _, p := range patterns {
		if p.Stem == "120" || p.Stem == "2.0" || p.Stem == "aa" || p.Stem == "bb" {
			t.Errorf("stem %q must be filtered out", p.Stem)
		}
	}
}
