package platform

import "testing"

func TestRectFromEdges(t *testing.T) {
	r := RectFromEdges(10, 20, 810, 620)
	if r.X != 10 || r.Y != 20 || r.Width != 800 || r.Height != 600 {
		t.Fatalf("unexpected rect: %+v", r)
	}
	if r.Right() != 810 || r.Bottom() != 620 {
		t.Fatalf("expected right/bottom 810/620, got %d/%d", r.Right(), r.Bottom())
	}
	if c := r.Center(); c.X != 410 || c.Y != 320 {
		t.Fatalf("expected center (410,320), got %+v", c)
	}
}

func TestRectEmpty(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		want bool
	}{
		{"normal", Rect{Width: 1, Height: 1}, false},
		{"zero width", Rect{Width: 0, Height: 10}, true},
		{"zero height", Rect{Width: 10, Height: 0}, true},
		{"negative", Rect{Width: -5, Height: 10}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.Empty(); got != tt.want {
				t.Fatalf("Empty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectContainsExcludesFarEdges(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 50}
	if !r.Contains(Point{X: 0, Y: 0}) {
		t.Fatalf("expected origin to be contained")
	}
	if !r.Contains(Point{X: 99, Y: 49}) {
		t.Fatalf("expected (99,49) to be contained")
	}
	if r.Contains(Point{X: 100, Y: 10}) {
		t.Fatalf("expected right edge to be excluded")
	}
	if r.Contains(Point{X: 10, Y: 50}) {
		t.Fatalf("expected bottom edge to be excluded")
	}
}

func TestRectIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	b := Rect{X: 50, Y: 60, Width: 100, Height: 100}
	got := a.Intersect(b)
	want := Rect{X: 50, Y: 60, Width: 50, Height: 40}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := a.Intersect(Rect{X: 200, Y: 0, Width: 10, Height: 10}); !got.Empty() {
		t.Fatalf("expected empty intersection, got %v", got)
	}
}

func TestParseSize(t *testing.T) {
	s, err := ParseSize("1920x1080")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Width != 1920 || s.Height != 1080 {
		t.Fatalf("unexpected size: %v", s)
	}
	if s.String() != "1920x1080" {
		t.Fatalf("expected String() 1920x1080, got %q", s.String())
	}

	for _, in := range []string{"", "1920", "0x100", "100x-1", "wide x tall"} {
		if _, err := ParseSize(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}
