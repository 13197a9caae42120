package custody

import "testing"

func int64p(v int64) *int64 { return &v }

func TestWin(t *testing.T) {
	tests := []struct {
		name    string
		opening int64
		closing *int64
		fills   int64
		credits int64
		drop    *int64
		want    *int64
	}{
		{
			// Floor scenario: fills 500+300, close at 1200 with a 2000 drop.
			name:    "standard close with zero opening",
			opening: 0,
			closing: int64p(1200),
			fills:   800,
			credits: 0,
			drop:    int64p(2000),
			want:    int64p(2400),
		},
		{
			name:    "credits and opening both in play",
			opening: 50000,
			closing: int64p(42000),
			fills:   20000,
			credits: 5000,
			drop:    int64p(30000),
			want:    int64p(7000),
		},
		{
			name:    "unknown drop means undefined win",
			opening: 0,
			closing: int64p(1200),
			fills:   800,
			drop:    nil,
			want:    nil,
		},
		{
			name:    "unknown closing means undefined win",
			opening: 0,
			closing: nil,
			fills:   800,
			drop:    int64p(2000),
			want:    nil,
		},
		{
			name:    "table can lose",
			opening: 10000,
			closing: int64p(2000),
			fills:   0,
			credits: 0,
			drop:    int64p(1000),
			want:    int64p(-7000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Win(tt.opening, tt.closing, tt.fills, tt.credits, tt.drop)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("Win = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Fatalf("Win = %d, want %d", *got, *tt.want)
			}
		})
	}
}

func TestGradeFor(t *testing.T) {
	tests := []struct {
		src  OpeningSource
		want Grade
	}{
		{src: OpeningExplicit, want: GradeVerified},
		{src: OpeningCarried, want: GradeEstimated},
		{src: OpeningAssumedZero, want: GradeProvisional},
		{src: OpeningSource("unknown"), want: GradeProvisional},
	}
	for _, tt := range tests {
		if got := GradeFor(tt.src); got != tt.want {
			t.Fatalf("GradeFor(%s) = %s, want %s", tt.src, got, tt.want)
		}
	}
}
