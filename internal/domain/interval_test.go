package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(hour, minute int) time.Time {
	return time.Date(2026, 9, 15, hour, minute, 0, 0, time.UTC)
}

func TestInterval_Overlaps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{
			name: "identical intervals overlap",
			a:    Interval{Start: ts(10, 0), End: ts(11, 0)},
			b:    Interval{Start: ts(10, 0), End: ts(11, 0)},
			want: true,
		},
		{
			name: "partial overlap",
			a:    Interval{Start: ts(10, 0), End: ts(11, 0)},
			b:    Interval{Start: ts(10, 30), End: ts(11, 30)},
			want: true,
		},
		{
			name: "containment",
			a:    Interval{Start: ts(10, 0), End: ts(12, 0)},
			b:    Interval{Start: ts(10, 30), End: ts(11, 0)},
			want: true,
		},
		{
			name: "touching boundaries do not overlap",
			a:    Interval{Start: ts(10, 0), End: ts(11, 0)},
			b:    Interval{Start: ts(11, 0), End: ts(12, 0)},
			want: false,
		},
		{
			name: "disjoint intervals",
			a:    Interval{Start: ts(10, 0), End: ts(11, 0)},
			b:    Interval{Start: ts(13, 0), End: ts(14, 0)},
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// Пересечение симметрично
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestInterval_Contains(t *testing.T) {
	t.Parallel()

	i := Interval{Start: ts(10, 0), End: ts(11, 0)}

	assert.True(t, i.Contains(ts(10, 0)), "start boundary is inside")
	assert.True(t, i.Contains(ts(10, 30)))
	assert.False(t, i.Contains(ts(11, 0)), "end boundary is outside")
	assert.False(t, i.Contains(ts(9, 59)))
}

func TestInterval_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Interval{Start: ts(10, 0), End: ts(10, 1)}.IsValid())
	assert.False(t, Interval{Start: ts(10, 0), End: ts(10, 0)}.IsValid())
	assert.False(t, Interval{Start: ts(11, 0), End: ts(10, 0)}.IsValid())
}
