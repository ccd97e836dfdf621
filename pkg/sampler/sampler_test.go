package sampler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/docquery/factgraph/pkg/chunker"
)

func makeChunks(n int, chars int) []chunker.Chunk {
	chunks := make([]chunker.Chunk, n)
	for i := range chunks {
		chunks[i] = chunker.Chunk{
			ID:         fmt.Sprintf("c%d", i),
			DocumentID: "d1",
			Index:      i,
			Text:       strings.Repeat("x", chars),
		}
	}
	return chunks
}

func indices(chunks []chunker.Chunk) []int {
	out := make([]int, len(chunks))
	for i, c := range chunks {
		out[i] = c.Index
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSampleStride(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		chunks int
		want   []int
	}{
		{
			name:   "default stride over ten chunks",
			policy: DefaultPolicy(),
			chunks: 10,
			want:   []int{0, 2, 4, 6, 8},
		},
		{
			name:   "stride one keeps everything",
			policy: Policy{Stride: 1, MinChars: 100},
			chunks: 4,
			want:   []int{0, 1, 2, 3},
		},
		{
			name:   "offset shifts the start",
			policy: Policy{Stride: 2, Offset: 1, MinChars: 100},
			chunks: 10,
			want:   []int{1, 3, 5, 7, 9},
		},
		{
			name:   "stride three",
			policy: Policy{Stride: 3, MinChars: 100},
			chunks: 10,
			want:   []int{0, 3, 6, 9},
		},
		{
			name:   "zero stride clamps to one",
			policy: Policy{Stride: 0, MinChars: 100},
			chunks: 3,
			want:   []int{0, 1, 2},
		},
		{
			name:   "empty input",
			policy: DefaultPolicy(),
			chunks: 0,
			want:   []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := indices(tt.policy.Sample(makeChunks(tt.chunks, 200)))
			if !equalInts(got, tt.want) {
				t.Fatalf("Sample indices = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSampleSkipsShortChunks(t *testing.T) {
	chunks := makeChunks(6, 200)
	chunks[0].Text = "too short"
	chunks[4].Text = strings.Repeat("x", 99)

	got := indices(DefaultPolicy().Sample(chunks))
	want := []int{2}
	if !equalInts(got, want) {
		t.Fatalf("Sample indices = %v, want %v", got, want)
	}
}

func TestFraction(t *testing.T) {
	if f := DefaultPolicy().Fraction(); f != 0.5 {
		t.Fatalf("Fraction() = %v, want 0.5", f)
	}
	if f := (Policy{Stride: 4}).Fraction(); f != 0.25 {
		t.Fatalf("Fraction() = %v, want 0.25", f)
	}
}
