package fonts

import "testing"

func TestCachedFace(t *testing.T) {
	facesMu.Lock()
	defer facesMu.Unlock()

	a, err := cachedFace(14, 400)
	if err != nil {
		t.Fatalf("cachedFace: %v", err)
	}
	b, err := cachedFace(14, 500)
	if err != nil {
		t.Fatalf("cachedFace: %v", err)
	}
	if a != b {
		t.Error("regular weights should share the cached face")
	}
	c, err := cachedFace(14, 700)
	if err != nil {
		t.Fatalf("cachedFace: %v", err)
	}
	if a == c {
		t.Error("bold and regular faces should differ")
	}
}

func TestNewFaceIsFresh(t *testing.T) {
	a, err := NewFace(12, 400)
	if err != nil {
		t.Fatalf("NewFace: %v", err)
	}
	b, err := NewFace(12, 400)
	if err != nil {
		t.Fatalf("NewFace: %v", err)
	}
	if a == b {
		t.Error("NewFace should not share faces")
	}
}

func TestFaceInvalidSize(t *testing.T) {
	for _, size := range []float64{0, -3} {
		if _, err := NewFace(size, 400); err == nil {
			t.Errorf("NewFace(%v) should fail", size)
		}
	}
}

func TestMeasure(t *testing.T) {
	short, err := Measure("ab", 16, 400)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	long, err := Measure("abcdefgh", 16, 400)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if short.Width <= 0 || long.Width <= short.Width {
		t.Errorf("widths = %v, %v; want 0 < short < long", short.Width, long.Width)
	}
	if short.Ascent <= 0 || short.Descent <= 0 {
		t.Errorf("metrics = %+v, want positive ascent and descent", short)
	}

	bigger, _ := Measure("ab", 32, 400)
	if bigger.Width <= short.Width {
		t.Errorf("32px width %v should exceed 16px width %v", bigger.Width, short.Width)
	}
}

func TestMeasureEmpty(t *testing.T) {
	m, err := Measure("", 12, 400)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if m.Width != 0 {
		t.Errorf("Width = %v, want 0", m.Width)
	}
}
