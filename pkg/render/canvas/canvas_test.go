package canvas

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWalkAccumulatesOffsets(t *testing.T) {
	d := New(100, 100)
	inner := &Group{X: 5, Y: 7}
	inner.Add(&Rect{Width: 1, Height: 1})
	outer := &Group{X: 10, Y: 20}
	outer.Add(inner)
	d.Add(outer)

	var got [][2]float64
	Walk(d.Root, func(n Node, dx, dy float64) {
		if _, ok := n.(*Rect); ok {
			got = append(got, [2]float64{dx, dy})
		}
	})
	want := [][2]float64{{15, 27}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rect offset mismatch (-want +got):\n%s", diff)
	}
}

func TestCount(t *testing.T) {
	g := &Group{}
	g.Add(&Rect{}, &Circle{}, &Circle{}, &Text{}, &Image{})
	got := Count(g)
	want := map[string]int{"group": 1, "rect": 1, "circle": 2, "text": 1, "image": 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Count() mismatch (-want +got):\n%s", diff)
	}
}
