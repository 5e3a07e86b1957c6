package easel

import (
	"math"
	"math/rand/v2"
)

// ValueFunc maps elapsed time in seconds to a value. The second result is
// false once the interpolation has finished ("no value"); the Value returned
// with it is ignored. The interp_* constructors below build ValueFuncs for
// [Scheduler.Interp].
type ValueFunc func(t float64) (Value, bool)

// Waypoint anchors a linear interpolation curve: reach Value at Time.
// Construct with [At] or [Then].
type Waypoint struct {
	Value Value
	Time  float64
	timed bool
}

// At returns a waypoint with an explicit time.
func At(v Value, t float64) Waypoint {
	return Waypoint{Value: v, Time: t, timed: true}
}

// Then returns a waypoint whose time is filled in automatically: untimed
// waypoints are spaced evenly between the nearest explicit times.
func Then(v Value) Waypoint {
	return Waypoint{Value: v}
}

// InterpLinear builds a piecewise-linear ValueFunc through the given
// waypoints, component-wise across nested numeric structure. Non-numeric
// leaves are taken from the first waypoint and never vary. The first
// waypoint's time defaults to 0; the last waypoint must have an explicit
// time. Before the first waypoint the first value is returned; at or after
// the last, the exact final value is delivered once and the function then
// reports done.
func InterpLinear(waypoints ...Waypoint) ValueFunc {
	if len(waypoints) == 0 {
		panic("easel: InterpLinear needs at least one waypoint")
	}
	if !waypoints[len(waypoints)-1].timed {
		panic("easel: the final waypoint must have an explicit time")
	}
	vs := make([]Value, len(waypoints))
	ts := make([]float64, len(waypoints))
	timed := make([]bool, len(waypoints))
	for i, w := range waypoints {
		vs[i], ts[i], timed[i] = w.Value, w.Time, w.timed
	}
	if !timed[0] {
		ts[0], timed[0] = 0, true
	}
	// Space untimed runs evenly between the bracketing explicit times.
	for i := 1; i < len(ts); i++ {
		if timed[i] {
			continue
		}
		j := i
		for !timed[j] {
			j++
		}
		t0 := ts[i-1]
		dt := (ts[j] - t0) / float64(j-(i-1))
		for k := i; k < j; k++ {
			ts[k] = t0 + dt*float64(k-(i-1))
		}
		i = j
	}
	v0 := vs[0]
	finished := false

	return func(t float64) (Value, bool) {
		if finished {
			return Value{}, false
		}
		// First index with ts[i] > t.
		i := len(ts)
		for k, tk := range ts {
			if tk > t {
				i = k
				break
			}
		}
		switch {
		case i == 0:
			return v0, true
		case i == len(ts):
			// Deliver the exact final value once, then stop.
			finished = true
			v := zipApply(func(l []Value) Value {
				if l[0].IsNum() {
					return l[0]
				}
				return l[1]
			}, vs[len(vs)-1], v0)
			return v, true
		default:
			v1, v2 := vs[i-1], vs[i]
			t1, t2 := ts[i-1], ts[i]
			r := 1.0
			if t2 != t1 {
				r = (t - t1) / (t2 - t1)
			}
			v := zipApply(func(l []Value) Value {
				a, b, initial := l[0], l[1], l[2]
				if b.IsNum() {
					return Num(r*(b.Float()-a.Float()) + a.Float())
				}
				return initial
			}, v1, v2, v0)
			return v, true
		}
	}
}

// TargetOpts tunes [InterpTarget]. The zero value gives a non-oscillating
// approach that stops exactly at the target.
type TargetOpts struct {
	// Freq controls oscillation around the target when the damping rate is
	// small; 0 means no oscillation.
	Freq float64
	// Speed is the initial rate of change, same shape as the start value.
	// Only meaningful when Freq is non-zero.
	Speed Value
	// Threshold stops the interpolation once every varied numeric leaf is
	// within this distance of the target.
	Threshold Value
	// NeverStop disables the threshold entirely.
	NeverStop bool
}

// InterpTarget builds a ValueFunc that decays exponentially from v0 toward
// target at the given damping rate, per numeric leaf. Non-numeric leaves
// pass through unchanged.
func InterpTarget(v0, target Value, damp float64, o TargetOpts) ValueFunc {
	if v0.Equal(target) {
		return func(float64) (Value, bool) { return Value{}, false }
	}

	phase := zipApply(func(l []Value) Value {
		start, tgt, speed := l[0], l[1], l[2]
		if o.Freq == 0 || !start.IsNum() || start.Float() == tgt.Float() {
			return Num(0)
		}
		return Num(math.Atan(-(speed.Float()/(start.Float()-tgt.Float()) + damp) / o.Freq))
	}, v0, target, o.Speed)

	// cos(atan(x)) is never 0, so the division is safe.
	amplitude := zipApply(func(l []Value) Value {
		start, tgt, ph := l[0], l[1], l[2]
		if !start.IsNum() {
			return noValue
		}
		return Num((start.Float() - tgt.Float()) / math.Cos(ph.Float()))
	}, v0, target, phase)

	return func(t float64) (Value, bool) {
		v := zipApply(func(l []Value) Value {
			start, tgt, amp, ph, thr := l[0], l[1], l[2], l[3], l[4]
			if !start.IsNum() {
				return start
			}
			if amp.Equal(noValue) || start.Float() == tgt.Float() {
				if !o.NeverStop {
					return noValue
				}
				return start
			}
			dist := amp.Float() * math.Exp(-damp*t)
			if !o.NeverStop && math.Abs(dist) <= thr.Float() {
				return noValue
			}
			return Num(dist*math.Cos(o.Freq*t+ph.Float()) + tgt.Float())
		}, v0, target, amplitude, phase, o.Threshold)
		if allLeaves(v, func(l Value) bool { return l.Equal(noValue) }) {
			return Value{}, false
		}
		return v, true
	}
}

// ShakeOpts tunes [InterpShake]. The zero value shakes with amplitude 1 in
// both directions and stops only if the amplitude reaches 0.
type ShakeOpts struct {
	// Amplitude scales the random offset, per leaf. A zero Value (and nil
	// AmplitudeFn) means amplitude 1.
	Amplitude Value
	// AmplitudeFn, when set, supplies a time-varying amplitude and takes
	// precedence over Amplitude.
	AmplitudeFn func(t float64) Value
	// Threshold stops the shake once the amplitude is this small.
	Threshold Value
	// NeverStop disables the threshold entirely.
	NeverStop bool
	// Unsigned keeps values on one side of the centre (the amplitude's
	// sign still applies).
	Unsigned bool
}

// InterpShake builds a ValueFunc that returns the centre plus an
// exponentially distributed random offset per numeric leaf each call.
func InterpShake(centre Value, o ShakeOpts) ValueFunc {
	base := o.Amplitude
	if o.AmplitudeFn == nil && base.Equal(Value{}) {
		base = Num(1)
	}
	return func(t float64) (Value, bool) {
		amp := base
		if o.AmplitudeFn != nil {
			amp = o.AmplitudeFn(t)
		}
		v := zipApply(func(l []Value) Value {
			c, a, thr := l[0], l[1], l[2]
			if !c.IsNum() {
				return c
			}
			if !o.NeverStop && math.Abs(a.Float()) <= thr.Float() {
				return noValue
			}
			off := a.Float() * rand.ExpFloat64()
			if !o.Unsigned {
				off *= float64(2*rand.IntN(2) - 1)
			}
			return Num(c.Float() + off)
		}, centre, amp, o.Threshold)
		if allLeaves(v, func(l Value) bool { return l.Equal(noValue) }) {
			return Value{}, false
		}
		return v, true
	}
}

// InterpRound wraps a ValueFunc so every numeric leaf of its output is
// rounded to the nearest integer.
func InterpRound(f ValueFunc) ValueFunc {
	return func(t float64) (Value, bool) {
		v, ok := f(t)
		if !ok {
			return v, false
		}
		return roundValue(v), true
	}
}

// InterpRoundMask is like [InterpRound] but rounds only the leaves whose
// corresponding mask leaf is the boolean true, broadcasting as usual.
func InterpRoundMask(f ValueFunc, mask Value) ValueFunc {
	return func(t float64) (Value, bool) {
		v, ok := f(t)
		if !ok {
			return v, false
		}
		v = zipApply(func(l []Value) Value {
			do, val := l[0], l[1]
			if b, _ := do.LeafValue().(bool); b && val.IsNum() {
				return Num(float64(Round(val.Float())))
			}
			return val
		}, mask, v)
		return v, true
	}
}

// InterpRepeat wraps a ValueFunc so time loops around the range
// [tMin, tMin+period), starting at tStart.
func InterpRepeat(f ValueFunc, period, tMin, tStart float64) ValueFunc {
	return func(t float64) (Value, bool) {
		return f(tMin + math.Mod(tStart-tMin+t, period))
	}
}

// InterpOscillate wraps a ValueFunc so time ping-pongs over the range
// [tMin, tMax), starting at tStart. A tStart in [tMax, 2*tMax-tMin) maps
// onto the return journey.
func InterpOscillate(f ValueFunc, tMax, tMin, tStart float64) ValueFunc {
	period := tMax - tMin
	return func(t float64) (Value, bool) {
		t = math.Mod(tStart-tMin+t, 2*period)
		if t >= period {
			t = 2*period - t
		}
		return f(tMin + t)
	}
}
