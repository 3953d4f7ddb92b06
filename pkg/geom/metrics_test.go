package geom

import (
	"reflect"
	"testing"
)

func layoutOf(t *testing.T, c Canvas, shapes ...Shape) *Layout {
	t.Helper()
	l := NewLayout(c)
	for _, s := range shapes {
		if _, err := l.Append(s); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	return l
}

func TestScenarioSingleRack(t *testing.T) {
	rack := mustShape(t)(NewRect(0, 0, 100, 100, Style{}))
	l := layoutOf(t, Canvas{Width: 1000, Height: 1000}, rack)

	if got := Area(rack); got != 10000 {
		t.Errorf("Area() = %v, want 10000", got)
	}
	if got := Utilization(l); !approx(got, 1.0) {
		t.Errorf("Utilization() = %v, want 1.0", got)
	}
}

func TestScenarioDuplicateRacks(t *testing.T) {
	m := mustShape(t)
	l := layoutOf(t, Canvas{Width: 1000, Height: 1000},
		m(NewRect(0, 0, 100, 100, Style{})),
		m(NewRect(0, 0, 100, 100, Style{})),
	)

	if got := PairwiseClashes(l); !reflect.DeepEqual(got, []Pair{{0, 1}}) {
		t.Errorf("PairwiseClashes() = %v, want [{0 1}]", got)
	}
	if got := Utilization(l); !approx(got, 2.0) {
		t.Errorf("Utilization() = %v, want 2.0 (double counted)", got)
	}
}

func TestScenarioZeroWidthCanvas(t *testing.T) {
	m := mustShape(t)
	l := layoutOf(t, Canvas{Width: 0, Height: 1000},
		m(NewRect(0, 0, 100, 100, Style{})),
		m(NewCircle(10, 10, 5, Style{})),
	)
	if got := Utilization(l); got != 0 {
		t.Errorf("Utilization() = %v, want 0", got)
	}
}

func TestUtilizationCap(t *testing.T) {
	m := mustShape(t)
	l := NewLayout(Canvas{Width: 10, Height: 10})
	for i := 0; i < 5; i++ {
		l.Append(m(NewRect(0, 0, 10, 10, Style{})))
		if got := Utilization(l); got > 100 {
			t.Fatalf("Utilization() = %v after %d shapes, want <= 100", got, i+1)
		}
	}
	if got := Utilization(l); got != 100 {
		t.Errorf("Utilization() = %v, want 100", got)
	}
}

func TestUtilizationMonotonic(t *testing.T) {
	l := NewLayout(Canvas{Width: 200, Height: 200})
	prev := Utilization(l)
	for _, s := range sampleShapes(t) {
		l.Append(s)
		got := Utilization(l)
		if got < prev {
			t.Fatalf("Utilization decreased from %v to %v after adding %v", prev, got, s.Geometry())
		}
		prev = got
	}
}

func TestUtilizationNegativeRect(t *testing.T) {
	l := layoutOf(t, Canvas{Width: 100, Height: 100}, mustShape(t)(NewRect(50, 50, -10, -10, Style{})))
	if got := Utilization(l); !approx(got, 1.0) {
		t.Errorf("Utilization() = %v, want 1.0", got)
	}
}

func TestTotalLengthAndPerimeter(t *testing.T) {
	m := mustShape(t)
	l := layoutOf(t, Canvas{Width: 100, Height: 100},
		m(NewLine(0, 0, 3, 4, Style{})),
		m(NewLine(0, 0, 0, 10, Style{})),
		m(NewRect(0, 0, 10, 10, Style{})),
		m(NewPolygon([]Point{{0, 0}, {4, 0}, {4, 3}}, Style{})),
	)

	if got := TotalLength(l); !approx(got, 15) {
		t.Errorf("TotalLength() = %v, want 15 (lines only)", got)
	}
	if got := TotalPerimeter(l); !approx(got, 52) {
		t.Errorf("TotalPerimeter() = %v, want 52", got)
	}
}

func TestOutOfBounds(t *testing.T) {
	m := mustShape(t)
	l := layoutOf(t, Canvas{Width: 100, Height: 100},
		m(NewRect(0, 0, 100, 100, Style{})),
		m(NewRect(90, 90, 20, 20, Style{})),
		m(NewCircle(5, 50, 10, Style{})),
		m(NewLine(-1, 0, 10, 10, Style{})),
	)

	if got := OutOfBounds(l); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("OutOfBounds() = %v, want [1 2 3]", got)
	}
}

func TestAnalyze(t *testing.T) {
	m := mustShape(t)
	l := layoutOf(t, Canvas{Width: 1000, Height: 1000},
		m(NewRect(0, 0, 100, 100, Style{})),
		m(NewRect(0, 0, 100, 100, Style{})),
		m(NewLine(500, 500, 503, 504, Style{})),
	)

	got := Analyze(l)
	if got.ShapeCount != 3 {
		t.Errorf("ShapeCount = %d, want 3", got.ShapeCount)
	}
	wantKinds := map[Kind]int{KindLine: 1, KindRect: 2, KindCircle: 0, KindPolygon: 0}
	if !reflect.DeepEqual(got.CountByKind, wantKinds) {
		t.Errorf("CountByKind = %v, want %v", got.CountByKind, wantKinds)
	}
	if got.CanvasArea != 1e6 || got.UsedArea != 20000 {
		t.Errorf("areas = %v/%v, want 1e6/20000", got.CanvasArea, got.UsedArea)
	}
	if !approx(got.Utilization, 2) || !approx(got.TotalLength, 5) || !approx(got.TotalPerimeter, 800) {
		t.Errorf("unexpected metrics: %+v", got)
	}
	if !reflect.DeepEqual(got.Clashes, []Pair{{0, 1}}) {
		t.Errorf("Clashes = %v", got.Clashes)
	}
	if len(got.OutOfBounds) != 0 {
		t.Errorf("OutOfBounds = %v, want none", got.OutOfBounds)
	}
}
