package game

import (
	"github.com/bmarchant/imperium/pkg/refdata"
)

// wheelDistance returns the shortest forward distance from a country's
// current marker position to the target slot. From the start marker
// the distance is zero: the first move onto the wheel is free.
func (e *Engine) wheelDistance(from, to string) (int, error) {
	toIdx, err := e.ref.WheelIndex(to)
	if err != nil {
		return 0, err
	}
	if from == refdata.WheelStart {
		return 0, nil
	}
	fromIdx, err := e.ref.WheelIndex(from)
	if err != nil {
		return 0, err
	}
	size := e.ref.WheelSize()
	d := (toIdx - fromIdx + size) % size
	if d == 0 {
		// Staying put still counts as a full lap.
		d = size
	}
	return d, nil
}

// wheelCost is what the acting player pays for a move of distance d.
func wheelCost(d int) float64 {
	extra := d - wheelFreeSteps
	if extra < 0 {
		extra = 0
	}
	return wheelStepCost * float64(extra)
}

// crossesInvestor reports whether moving from the current position to
// the target slot crosses or lands on the investor slot.
func (e *Engine) crossesInvestor(from, to string) (bool, error) {
	toIdx, err := e.ref.WheelIndex(to)
	if err != nil {
		return false, err
	}
	invIdx, _ := e.ref.WheelIndex(refdata.SlotInvestor)
	if from == refdata.WheelStart {
		return toIdx == invIdx, nil
	}
	fromIdx, err := e.ref.WheelIndex(from)
	if err != nil {
		return false, err
	}
	size := e.ref.WheelSize()
	d := (toIdx - fromIdx + size) % size
	if d == 0 {
		d = size
	}
	for step := 1; step <= d; step++ {
		if (fromIdx+step)%size == invIdx {
			return true, nil
		}
	}
	return false, nil
}
