package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type block struct {
	name       string
	start, end time.Time
}

func (b block) Bounds() (time.Time, time.Time) { return b.start, b.end }

func at(hhmm string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2025-01-06 "+hhmm)
	if err != nil {
		panic(err)
	}
	return t
}

func blk(name, from, to string) block { return block{name: name, start: at(from), end: at(to)} }

func lanesOf[T Timed](ps []Placement[T]) (lanes, counts []int) {
	for _, p := range ps {
		lanes = append(lanes, p.Lane)
		counts = append(counts, p.LaneCount)
	}
	return lanes, counts
}

func TestAssignLanes_ThreeReservations(t *testing.T) {
	got := AssignLanes([]block{
		blk("a", "09:00", "10:00"),
		blk("b", "09:30", "10:30"),
		blk("c", "10:00", "11:00"),
	})
	lanes, counts := lanesOf(got)
	assert.Equal(t, []int{0, 1, 0}, lanes)
	assert.Equal(t, []int{2, 2, 2}, counts)
}

func TestAssignLanes_KeepsInputOrder(t *testing.T) {
	got := AssignLanes([]block{
		blk("late", "14:00", "15:00"),
		blk("early", "08:00", "09:00"),
		blk("overlap", "14:30", "16:00"),
	})
	require.Len(t, got, 3)
	assert.Equal(t, "late", got[0].Item.name)
	assert.Equal(t, "early", got[1].Item.name)

	lanes, counts := lanesOf(got)
	assert.Equal(t, []int{0, 0, 1}, lanes)
	assert.Equal(t, []int{2, 1, 2}, counts)
}

func TestAssignLanes_TouchingIntervalsShareALane(t *testing.T) {
	got := AssignLanes([]block{
		blk("a", "09:00", "10:00"),
		blk("b", "10:00", "11:00"),
		blk("c", "11:00", "12:00"),
	})
	lanes, counts := lanesOf(got)
	assert.Equal(t, []int{0, 0, 0}, lanes)
	assert.Equal(t, []int{1, 1, 1}, counts)
}

func TestAssignLanes_ReusesLowestFreeLane(t *testing.T) {
	got := AssignLanes([]block{
		blk("long", "08:00", "12:00"),
		blk("short", "08:00", "09:00"),
		blk("third", "08:30", "10:00"),
		blk("fourth", "09:00", "09:30"),
	})
	lanes, counts := lanesOf(got)
	// ties keep input order: long gets lane 0, short lane 1
	assert.Equal(t, []int{0, 1, 2, 1}, lanes)
	assert.Equal(t, []int{3, 3, 3, 3}, counts)
}

func TestAssignLanes_Idempotent(t *testing.T) {
	in := []block{
		blk("a", "09:00", "10:00"),
		blk("b", "09:00", "09:30"),
		blk("c", "09:30", "11:00"),
		blk("d", "10:30", "11:30"),
	}
	first := AssignLanes(in)
	second := AssignLanes(in)
	assert.Equal(t, first, second)
}

func TestAssignLanes_Empty(t *testing.T) {
	assert.Empty(t, AssignLanes[block](nil))
}
