package matching

import "testing"

// TestRatio проверяет базовую шкалу схожести 0-100
func TestRatio(t *testing.T) {
	tests := []struct {
		s1, s2 string
		want   int
	}{
		{"rakza 7", "rakza 7", 100},
		{"Rakza 7", "rakza 7", 100}, // регистр не учитывается
		{"  rakza 7 ", "rakza 7", 100},
		{"abcd", "abce", 75}, // расстояние 1 на длине 4
		{"abcd", "wxyz", 0},
		{"", "", 100},
	}

	for _, tt := range tests {
		if got := Ratio(tt.s1, tt.s2); got != tt.want {
			t.Errorf("Ratio(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.want)
		}
	}
}

// TestTokenSortRatio проверяет нечувствительность к порядку слов
func TestTokenSortRatio(t *testing.T) {
	if got := TokenSortRatio("Black Rakza 9", "Rakza 9 Black"); got != 100 {
		t.Errorf("TokenSortRatio() = %d, want 100 for reordered tokens", got)
	}

	if got := TokenSortRatio("Rakza 9 Black (2.0 mm)", "rakza 9 black 2.0 mm"); got != 100 {
		t.Errorf("TokenSortRatio() = %d, want 100 ignoring punctuation", got)
	}

	if got := TokenSortRatio("Rakza 9", "Tenergy 05"); got >= 80 {
		t.Errorf("TokenSortRatio() = %d for unrelated names, want < 80", got)
	}
}

// TestLevenshteinDistance проверяет расстояние Левенштейна
func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1, s2 string
		want   int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"мяч", "меч", 1}, // юникод считается по рунам
	}

	for _, tt := range tests {
		if got := levenshteinDistance(tt.s1, tt.s2); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.want)
		}
	}
}
