package sim

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTrajectoryBound(t *testing.T) {
	const capacity = 5
	for _, extra := range []int{1, 3, 5, 12} {
		tr := NewTrajectory(capacity)
		total := capacity + extra
		for i := 0; i < total; i++ {
			tr.Append(float64(i), float64(-i))
		}

		if tr.Len() != capacity {
			t.Fatalf("extra=%d: Len() = %d, want %d", extra, tr.Len(), capacity)
		}

		var want []Point
		for i := total - capacity; i < total; i++ {
			want = append(want, Point{X: float64(i), Y: float64(-i)})
		}
		if diff := cmp.Diff(want, tr.Points()); diff != "" {
			t.Errorf("extra=%d: points mismatch (-want +got):\n%s", extra, diff)
		}
	}
}

func TestTrajectoryPartial(t *testing.T) {
	tr := NewTrajectory(4)
	if _, ok := tr.Last(); ok {
		t.Fatal("Last() on empty trajectory should report false")
	}
	if got := tr.Points(); len(got) != 0 {
		t.Fatalf("expected no points, got %v", got)
	}

	tr.Append(1, 1)
	tr.Append(2, 2)

	want := []Point{{1, 1}, {2, 2}}
	if diff := cmp.Diff(want, tr.Points()); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
	if last, ok := tr.Last(); !ok || last != (Point{2, 2}) {
		t.Errorf("Last() = %v, %v", last, ok)
	}
}

func TestTrajectoryLastAfterWrap(t *testing.T) {
	tr := NewTrajectory(3)
	for i := 1; i <= 3; i++ {
		tr.Append(float64(i), 0)
	}
	if last, _ := tr.Last(); last.X != 3 {
		t.Errorf("Last().X = %v, want 3", last.X)
	}
}

func TestTrajectoryClear(t *testing.T) {
	tr := NewTrajectory(3)
	for i := 0; i < 7; i++ {
		tr.Append(float64(i), 0)
	}
	tr.Clear()

	if tr.Len() != 0 {
		t.Errorf("Len() after Clear = %d", tr.Len())
	}
	if tr.Cap() != 3 {
		t.Errorf("Cap() after Clear = %d", tr.Cap())
	}

	tr.Append(9, 9)
	if diff := cmp.Diff([]Point{{9, 9}}, tr.Points()); diff != "" {
		t.Errorf("points after Clear mismatch (-want +got):\n%s", diff)
	}
}

func TestTrajectoryPointsIsCopy(t *testing.T) {
	tr := NewTrajectory(2)
	tr.Append(1, 1)
	pts := tr.Points()
	pts[0].X = 100

	if got := tr.Points()[0].X; got != 1 {
		t.Errorf("mutating Points() result changed the buffer: X = %v", got)
	}
}

func TestTrajectoryAppendDoesNotAllocate(t *testing.T) {
	tr := NewTrajectory(16)
	allocs := testing.AllocsPerRun(100, func() {
		tr.Append(1, 2)
	})
	if allocs != 0 {
		t.Errorf("Append allocated %v times", allocs)
	}
}

func BenchmarkTrajectoryAppend(b *testing.B) {
	tr := NewTrajectory(1000)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		tr.Append(float64(i), float64(i))
	}
}
