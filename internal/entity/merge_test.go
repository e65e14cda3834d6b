package entity

import (
	"reflect"
	"testing"
)

func TestMergeSpans(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		spans []Span
		want  []string
	}{
		{
			name:  "gap then overlap",
			text:  "tomato basil pesto",
			spans: []Span{{0, 6, "ING"}, {7, 12, "ING"}, {11, 18, "ING"}},
			want:  []string{"tomato basil pesto"},
		},
		{
			name:  "different labels",
			text:  "spicy tomato soup",
			spans: []Span{{0, 5, "LAB"}, {6, 12, "ING"}},
			want:  []string{"spicy", "tomato"},
		},
		{
			name:  "adjacent same label merges",
			text:  "fresh mozzarella",
			spans: []Span{{0, 5, "FOOD"}, {6, 16, "FOOD"}},
			want:  []string{"fresh mozzarella"},
		},
		{
			name:  "distant spans stay apart",
			text:  "basil and tomato",
			spans: []Span{{0, 5, "FOOD"}, {10, 16, "FOOD"}},
			want:  []string{"basil", "tomato"},
		},
		{
			name:  "gap of two does not merge",
			text:  "ab  cd",
			spans: []Span{{0, 2, "FOOD"}, {4, 6, "FOOD"}},
			want:  []string{"ab", "cd"},
		},
		{
			name:  "label change blocks merge",
			text:  "grilled chicken",
			spans: []Span{{0, 7, "PREP"}, {8, 15, "FOOD"}},
			want:  []string{"grilled", "chicken"},
		},
		{
			name:  "overlap by one merges",
			text:  "cheddar",
			spans: []Span{{0, 4, "FOOD"}, {3, 7, "FOOD"}},
			want:  []string{"cheddar"},
		},
		{
			name:  "chain of three merges",
			text:  "red bell pepper",
			spans: []Span{{0, 3, "FOOD"}, {4, 8, "FOOD"}, {9, 15, "FOOD"}},
			want:  []string{"red bell pepper"},
		},
		{
			name:  "rune offsets",
			text:  "jalape\u00f1o aioli",
			spans: []Span{{0, 8, "FOOD"}},
			want:  []string{"jalape\u00f1o"},
		},
		{
			name:  "offsets clamped",
			text:  "kale",
			spans: []Span{{2, 40, "FOOD"}},
			want:  []string{"le"},
		},
		{
			name: "empty",
			text: "plain text",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeSpans(tt.text, tt.spans)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("MergeSpans() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
