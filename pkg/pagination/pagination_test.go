package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, DefaultLimit},
		{-3, DefaultLimit},
		{10, 10},
		{MaxLimit, MaxLimit},
		{MaxLimit + 1, MaxLimit},
	}
	for _, tc := range cases {
		if got := NormalizeLimit(tc.in); got != tc.want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestCursorRoundTrip(t *testing.T) {
	want := Cursor{
		CreatedAt: time.Date(2026, 5, 4, 10, 30, 0, 123456789, time.UTC),
		ID:        uuid.New(),
	}

	got, err := ParseCursor(EncodeCursor(want))
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if got == nil || !got.CreatedAt.Equal(want.CreatedAt) || got.ID != want.ID {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestParseCursorBlankMeansFirstPage(t *testing.T) {
	got, err := ParseCursor("  ")
	if err != nil || got != nil {
		t.Fatalf("expected (nil, nil) for blank token, got (%v, %v)", got, err)
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	for _, token := range []string{"%%%", "bm8tcGlwZQ=="} {
		if _, err := ParseCursor(token); err == nil {
			t.Fatalf("expected error for token %q", token)
		}
	}
}
