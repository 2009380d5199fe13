package sentiment

import "testing"

func TestParseLabel(t *testing.T) {
	tests := []struct {
		in   string
		want Label
	}{
		{"positive", LabelPositive},
		{"Positive", LabelPositive},
		{"The sentiment is positive.", LabelPositive},
		{"negative", LabelNegative},
		{"NEGATIVE.", LabelNegative},
		{"neutral", LabelNeutral},
		{"mixed feelings", LabelNeutral},
		{"", LabelNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLabel(tt.in); got != tt.want {
				t.Errorf("ParseLabel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewAnalysis(t *testing.T) {
	a := NewAnalysis(42, LabelPositive)

	if a.ReviewID() != 42 {
		t.Errorf("ReviewID() = %d, want 42", a.ReviewID())
	}
	if a.Label() != LabelPositive {
		t.Errorf("Label() = %v, want %v", a.Label(), LabelPositive)
	}
	if a.CreatedAt().IsZero() {
		t.Error("CreatedAt() should not be zero")
	}
}

func TestNewMismatch(t *testing.T) {
	m := NewMismatch(7, "widget", 1, "love it", LabelPositive)

	if m.ReviewID() != 7 {
		t.Errorf("ReviewID() = %d, want 7", m.ReviewID())
	}
	if m.ProductName() != "widget" {
		t.Errorf("ProductName() = %q, want %q", m.ProductName(), "widget")
	}
	if m.Rating() != 1 {
		t.Errorf("Rating() = %d, want 1", m.Rating())
	}
	if m.Label() != LabelPositive {
		t.Errorf("Label() = %v, want %v", m.Label(), LabelPositive)
	}
}
