// Package heading merges the device compass heading with a one-shot gesture
// heading into the bearing handed to the predictor.
//
// An Aggregator is not safe for concurrent use. Its owner must serialize
// every call (an event loop, a single goroutine, or a lock it holds).
package heading

import (
	"city-direction-service/internal/geo"
)

// Stage is a step of the heading flow.
type Stage int

const (
	StageAwaitingSensors Stage = iota
	StageAwaitingGesture
	StageAwaitingApproval
	StageResolved
)

func (s Stage) String() string {
	switch s {
	case StageAwaitingSensors:
		return "awaiting_sensors"
	case StageAwaitingGesture:
		return "awaiting_gesture"
	case StageAwaitingApproval:
		return "awaiting_approval"
	case StageResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Aggregator tracks the latest device heading, the drawn gesture heading and
// the stage of the flow. Transitions only move forward, or back to
// StageAwaitingGesture through Deny/Reset.
//
// Out-of-order calls are ignored and reported through the boolean result;
// they never corrupt state.
type Aggregator struct {
	stage          Stage
	deviceHeading  float64
	gestureHeading float64
	hasGesture     bool
	resolved       float64
}

func NewAggregator() *Aggregator {
	return &Aggregator{stage: StageAwaitingSensors}
}

func (a *Aggregator) Stage() Stage { return a.stage }

func (a *Aggregator) DeviceHeading() float64 { return a.deviceHeading }

// GestureHeading returns the recorded gesture heading, if any.
func (a *Aggregator) GestureHeading() (float64, bool) {
	return a.gestureHeading, a.hasGesture
}

// SensorsReady signals that location and orientation sources are live.
// Only the first call advances the stage; later calls are no-ops.
func (a *Aggregator) SensorsReady() bool {
	if a.stage != StageAwaitingSensors {
		return false
	}
	a.stage = StageAwaitingGesture
	return true
}

// RecordDeviceHeading stores the most recent device heading. Valid in any
// stage; the last reading wins and no smoothing is applied.
func (a *Aggregator) RecordDeviceHeading(bearing float64) {
	a.deviceHeading = geo.Normalize(bearing)
}

// RecordGesture stores the gesture heading and waits for approval.
// Ignored outside StageAwaitingGesture.
func (a *Aggregator) RecordGesture(bearing float64) bool {
	if a.stage != StageAwaitingGesture {
		return false
	}
	a.gestureHeading = geo.Normalize(bearing)
	a.hasGesture = true
	a.stage = StageAwaitingApproval
	return true
}

// Approve fixes the resolved bearing as device + gesture, since the gesture
// is drawn relative to where the device faces. Ignored outside
// StageAwaitingApproval.
func (a *Aggregator) Approve() bool {
	if a.stage != StageAwaitingApproval {
		return false
	}
	a.resolved = geo.Normalize(a.deviceHeading + a.gestureHeading)
	a.stage = StageResolved
	return true
}

// Deny discards the gesture and returns to StageAwaitingGesture.
// Valid from StageAwaitingApproval and StageResolved.
func (a *Aggregator) Deny() bool {
	if a.stage != StageAwaitingApproval && a.stage != StageResolved {
		return false
	}
	a.gestureHeading = 0
	a.hasGesture = false
	a.resolved = 0
	a.stage = StageAwaitingGesture
	return true
}

// Reset is the "report more" path after a result; same edges as Deny.
func (a *Aggregator) Reset() bool {
	return a.Deny()
}

// ResolvedBearing returns the final bearing; ok is false before StageResolved.
func (a *Aggregator) ResolvedBearing() (float64, bool) {
	if a.stage != StageResolved {
		return 0, false
	}
	return a.resolved, true
}
