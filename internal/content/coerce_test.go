package content

import (
	"testing"
	"time"
)

func TestToDate(t *testing.T) {
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cases := []any{
		"2024-03-01",
		" 2024-03-01 ",
		"2024-03-01T15:04:05Z",
		time.Date(2024, 3, 1, 18, 30, 0, 0, time.FixedZone("X", 3600)),
	}
	for _, input := range cases {
		got := toDate(input)
		if got == nil || !got.Equal(want) {
			t.Fatalf("toDate(%v) = %v, want %v", input, got, want)
		}
	}
	for _, input := range []any{nil, "", "soon", 42, []any{"2024-03-01"}} {
		if got := toDate(input); got != nil {
			t.Fatalf("toDate(%v) = %v, want nil", input, got)
		}
	}
}

func TestToBool(t *testing.T) {
	truthy := []any{true, "true", " YES ", "on", "1", 1}
	for _, input := range truthy {
		if !toBool(input, false) {
			t.Fatalf("expected %v to be truthy", input)
		}
	}
	falsy := []any{false, "false", "no", "", "draft", 0}
	for _, input := range falsy {
		if toBool(input, true) {
			t.Fatalf("expected %v to be falsy", input)
		}
	}
	if !toBool(nil, true) || toBool(nil, false) {
		t.Fatal("expected nil to use the fallback")
	}
}

func TestToInt(t *testing.T) {
	cases := map[any]int{
		7:      7,
		"12":   12,
		" 010": 10,
		3.0:    3,
	}
	for input, want := range cases {
		got := toInt(input)
		if got == nil || *got != want {
			t.Fatalf("toInt(%v) = %v, want %d", input, got, want)
		}
	}
	for _, input := range []any{nil, true, "x1", 2.5, "", []any{1}} {
		if got := toInt(input); got != nil {
			t.Fatalf("toInt(%v) = %d, want nil", input, *got)
		}
	}
}

func TestToStringList(t *testing.T) {
	got := toStringList([]any{" go ", "", 3, nil, "web"})
	want := []string{"go", "3", "web"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if got := toStringList("solo"); len(got) != 1 || got[0] != "solo" {
		t.Fatalf("expected scalar to become a list, got %v", got)
	}
	if got := toStringList(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %#v", got)
	}
}
