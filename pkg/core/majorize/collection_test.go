package majorize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/stresslayout/pkg/core/majorize"
)

func TestSliceCollection(t *testing.T) {
	s := majorize.Slice[string]{"a", "b", "c"}
	assert.Equal(t, []int{0, 1, 2}, s.Keys())
	assert.Equal(t, "b", s.Get(1))

	s.Set(1, "z")
	assert.Equal(t, majorize.Slice[string]{"a", "z", "c"}, s)
}

func TestOrdered(t *testing.T) {
	o := majorize.NewOrdered[string, int]()
	o.Put("x", 1)
	o.Put("y", 2)
	o.Put("x", 3)
	o.Set("w", 4)

	assert.Equal(t, 3, o.Len())
	assert.Equal(t, []string{"x", "y", "w"}, o.Keys())
	assert.Equal(t, 3, o.Get("x"))
	assert.Zero(t, o.Get("missing"))

	_, ok := o.Lookup("missing")
	assert.False(t, ok)

	keys := o.Keys()
	keys[0] = "mutated"
	assert.Equal(t, "x", o.Keys()[0], "Keys returns a copy")

	var seen []string
	for k := range o.All() {
		seen = append(seen, k)
		if k == "y" {
			break
		}
	}
	assert.Equal(t, []string{"x", "y"}, seen)
}

func TestPairSet(t *testing.T) {
	s := majorize.NewPairSet(4)
	s.Add(0, 1)
	s.AddSymmetric(2, 3)
	s.Add(9, 0)
	s.Add(-1, 2)

	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains(0, 1))
	assert.False(t, s.Contains(1, 0))
	assert.True(t, s.Contains(2, 3))
	assert.True(t, s.Contains(3, 2))
	assert.False(t, s.Contains(9, 0))

	ignore := s.Ignore()
	assert.True(t, ignore(1, 1, 0, 0, 0, 0))
	assert.True(t, ignore(0, 1, 0, 0, 0, 0))
	assert.False(t, ignore(1, 0, 0, 0, 0, 0))

	nodeIgnore := majorize.IgnoreNodes[string](s)
	assert.True(t, nodeIgnore(3, 2, 0, 0, 0, 0, "d", "c"))
	assert.False(t, nodeIgnore(0, 2, 0, 0, 0, 0, "a", "c"))
}

func TestTrace(t *testing.T) {
	tr := majorize.Trace{4, 2, 2, 1}
	assert.Equal(t, 4, tr.Iterations())
	assert.Equal(t, 1.0, tr.Last())
	assert.Equal(t, 9.0, tr.Total())
	assert.True(t, tr.NonIncreasing())
	assert.True(t, tr.Converged(1))
	assert.False(t, tr.Converged(0.5))
	assert.False(t, tr.HasNaN())
	assert.Equal(t, 4.0, tr.Peak())

	assert.False(t, majorize.Trace{1, 2}.NonIncreasing())

	var empty majorize.Trace
	assert.False(t, empty.Converged(1))
	assert.True(t, empty.NonIncreasing())
	assert.Equal(t, 0.0, empty.Peak())
}
