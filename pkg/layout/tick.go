package layout

import (
	"context"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/observability"
)

// EventType identifies a layout lifecycle notification.
type EventType int

const (
	EventStart EventType = iota
	EventTick
	EventEnd
)

func (t EventType) String() string {
	switch t {
	case EventStart:
		return "start"
	case EventTick:
		return "tick"
	case EventEnd:
		return "end"
	}
	return "unknown"
}

// Event is delivered to handlers registered with On.
type Event struct {
	Type   EventType
	Alpha  float64
	Stress float64
}

// Handler receives layout events.
type Handler func(Event)

// On registers h for events of type t. Handlers run synchronously in
// registration order.
func (l *Layout) On(t EventType, h Handler) {
	l.handlers[t] = append(l.handlers[t], h)
}

func (l *Layout) emit(e Event) {
	for _, h := range l.handlers[e.Type] {
		h(e)
	}
}

// Alpha returns the current alpha: the displacement of the last tick, or
// 0 when the layout is not running.
func (l *Layout) Alpha() float64 { return l.alpha }

// SetAlpha updates alpha. A positive value on a stopped layout starts it
// and emits EventStart; a non-positive value on a running one makes the
// next tick end it.
func (l *Layout) SetAlpha(a float64) {
	switch {
	case l.alpha > 0 && a > 0:
		l.alpha = a
	case l.alpha > 0:
		l.alpha = 0
	case a > 0 && !l.running:
		l.running = true
		l.alpha = a
		l.emit(Event{Type: EventStart, Alpha: a, Stress: l.lastStress})
	}
}

// Resume restarts ticking at alpha 0.1.
func (l *Layout) Resume() { l.SetAlpha(resumeAlpha) }

// Stop makes the next tick end the layout.
func (l *Layout) Stop() { l.SetAlpha(0) }

// Tick advances the layout by one Runge-Kutta step and reports whether the
// layout has ended. Locks are re-read from the fixed nodes first, so a
// pinned node sits exactly on its target after every tick.
func (l *Layout) Tick() bool {
	if l.alpha < l.cfg.Threshold || l.descent == nil {
		was := l.running
		l.running = false
		l.alpha = 0
		if was {
			l.emit(Event{Type: EventEnd, Stress: l.lastStress})
		}
		return true
	}

	l.descent.Locks.Clear()
	for i, v := range l.nodes {
		if v.Fixed {
			l.descent.Locks.Add(i, []float64{v.PX, v.PY})
		}
	}
	disp := l.descent.RungeKutta()
	switch {
	case disp == 0:
		l.alpha = 0
	case l.hasStress:
		l.alpha = disp
	}
	l.hasStress = true
	l.lastStress = l.descent.ComputeStress()
	l.updateNodePositions()
	l.ticks++
	l.emit(Event{Type: EventTick, Alpha: l.alpha, Stress: l.lastStress})
	return false
}

// Converge ticks until the layout ends, maxTicks ticks have run or ctx is
// done. A non-positive maxTicks selects DefaultMaxTicks. ctx is checked
// between ticks only. It returns the number of ticks run.
func (l *Layout) Converge(ctx context.Context, maxTicks int) (int, error) {
	if maxTicks <= 0 {
		maxTicks = DefaultMaxTicks
	}
	hooks := observability.Layout()
	for i := 0; i < maxTicks; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if l.Tick() {
			return i, nil
		}
		hooks.OnTick(ctx, l.alpha, l.lastStress)
	}
	return maxTicks, nil
}
