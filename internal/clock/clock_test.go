package clock

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := &RealClock{}

	before := time.Now()
	actual := clock.Now()
	after := time.Now()

	if actual.Before(before) || actual.After(after) {
		t.Errorf("RealClock.Now() returned time outside expected range: got %v, expected between %v and %v", actual, before, after)
	}
}

func TestFakeClock(t *testing.T) {
	fixedTime := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	clock := NewFakeClock(fixedTime)

	t.Run("returns fixed time", func(t *testing.T) {
		if got := clock.Now(); !got.Equal(fixedTime) {
			t.Errorf("FakeClock.Now() = %v, want %v", got, fixedTime)
		}
	})

	t.Run("advance moves time forward", func(t *testing.T) {
		clock.Advance(90 * time.Minute)
		want := fixedTime.Add(90 * time.Minute)
		if got := clock.Now(); !got.Equal(want) {
			t.Errorf("After Advance, Now() = %v, want %v", got, want)
		}
	})
}
