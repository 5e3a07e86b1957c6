package easel

import (
	"math"
	"time"
)

// Delay expresses a length of time either in seconds or in frames. Seconds
// respect later frame-rate changes (the same wall time elapses); frames do
// not (the same number of frames elapses). The zero Delay means "not given":
// Run runs forever and AddTimeout repeats with its initial delay.
type Delay struct {
	amount float64
	frames bool
	given  bool
}

// Secs returns a Delay of s seconds.
func Secs(s float64) Delay {
	return Delay{amount: s, given: true}
}

// FrameCount returns a Delay of n frames at the rate current when each
// frame elapses. Fractional frames carry over.
func FrameCount(n float64) Delay {
	return Delay{amount: n, frames: true, given: true}
}

// Timer drives a fixed-frame-rate loop: it calls a callback once per frame
// and sleeps out the remainder of each frame interval, carrying overruns
// forward so the requested duration is honored on average.
//
// The zero Timer is not usable; construct with NewTimer. Timers are
// single-threaded: Stop is expected to be called from within the callback.
type Timer struct {
	fps     int
	frame   float64
	elapsed float64
	stopped bool
	now     func() time.Time
	sleep   func(time.Duration)
}

// NewTimer returns a Timer targeting the given frames per second.
func NewTimer(fps float64) *Timer {
	t := &Timer{now: time.Now, sleep: time.Sleep}
	t.SetFPS(fps)
	return t
}

// FPS returns the current target frame rate.
func (t *Timer) FPS() int {
	return t.fps
}

// SetFPS changes the target frame rate, rounding to an integer. Takes
// effect on the next frame; seconds-based bookkeeping is unaffected.
func (t *Timer) SetFPS(fps float64) {
	t.fps = Round(fps)
	t.frame = 1 / float64(t.fps)
}

// Frame returns the current length of a frame in seconds.
func (t *Timer) Frame() float64 {
	return t.frame
}

// Elapsed returns the frame time accumulated since the start of the current
// Run call. It advances by one frame length per frame, so it tracks frame
// time rather than wall time.
func (t *Timer) Elapsed() float64 {
	return t.elapsed
}

// SetClock replaces the time source and sleep function, for deterministic
// tests and custom frame pumps. Passing nil for either keeps the real one.
func (t *Timer) SetClock(now func() time.Time, sleep func(time.Duration)) {
	if now != nil {
		t.now = now
	}
	if sleep != nil {
		t.sleep = sleep
	}
}

// Run calls cb once per frame until Stop is called or the given duration
// has elapsed (run forever when d is the zero Delay). Returns the remaining
// duration in d's unit, which may be negative if the final frame overran,
// or 0 when running without a duration.
func (t *Timer) Run(cb func(), d Delay) float64 {
	t.elapsed = 0
	t.stopped = false
	var seconds, frames float64
	hasSecs := d.given && !d.frames
	hasFrames := d.given && d.frames
	if hasSecs {
		seconds = math.Max(d.amount, 0)
	} else if hasFrames {
		frames = math.Max(d.amount, 0)
	}
	t0 := t.now()
	for {
		frame := t.frame
		cb()
		now := t.now()
		tGone := math.Min(now.Sub(t0).Seconds(), frame)
		if t.stopped {
			switch {
			case hasSecs:
				return seconds - tGone
			case hasFrames:
				return frames - tGone/frame
			default:
				return 0
			}
		}
		tLeft := frame - tGone
		if hasSecs {
			tLeft = math.Min(seconds, tLeft)
		} else if hasFrames {
			tLeft = math.Min(frames*frame, tLeft)
		}
		if tLeft > 0 {
			t.sleep(time.Duration(tLeft * float64(time.Second)))
			t0 = now.Add(time.Duration(tLeft * float64(time.Second)))
		} else {
			t0 = now
		}
		t.elapsed += frame
		if hasSecs {
			seconds -= tGone + tLeft
			if seconds <= 0 {
				return seconds
			}
		} else if hasFrames {
			frames -= (tGone + tLeft) / frame
			if frames <= 0 {
				return frames
			}
		}
	}
}

// Stop requests that the current Run call end after the current frame.
func (t *Timer) Stop() {
	t.stopped = true
}

// TimeoutID identifies a scheduled timeout. IDs increase monotonically and
// are never reused.
type TimeoutID int

// TimeoutFunc is a timeout callback. Returning true reschedules the timeout
// with its repeat delay; returning false removes it.
type TimeoutFunc func() bool

type timeout struct {
	remain float64 // in seconds or frames, per frames
	frames bool
	repeat Delay
	cb     TimeoutFunc
}

// Scheduler is a Timer that also dispatches delayed and repeating callbacks
// and drives interpolations. All callbacks run on the scheduler's frame
// loop; callbacks may freely add or remove timeouts, including their own.
type Scheduler struct {
	*Timer
	cbs    map[TimeoutID]*timeout
	order  []TimeoutID // reused iteration snapshot
	nextID TimeoutID
}

// NewScheduler returns a Scheduler targeting the given frames per second.
func NewScheduler(fps float64) *Scheduler {
	return &Scheduler{
		Timer: NewTimer(fps),
		cbs:   make(map[TimeoutID]*timeout),
	}
}

// Run starts the scheduler loop. Arguments and return are as for
// [Timer.Run].
func (s *Scheduler) Run(d Delay) float64 {
	return s.Timer.Run(s.update, d)
}

// AddTimeout schedules cb to run after delay, then every repeat while it
// keeps returning true. A zero repeat reuses the initial delay. The delay
// must be given (non-zero Delay literal); fractional delays carry over so
// the average interval is exact.
func (s *Scheduler) AddTimeout(cb TimeoutFunc, delay, repeat Delay) TimeoutID {
	if !delay.given {
		panic("easel: AddTimeout requires a delay")
	}
	if !repeat.given {
		repeat = delay
	}
	id := s.nextID
	s.nextID++
	s.cbs[id] = &timeout{
		remain: delay.amount,
		frames: delay.frames,
		repeat: repeat,
		cb:     cb,
	}
	return id
}

// Step advances the scheduler by exactly one frame without sleeping, for
// callers that drive frames from an external loop.
func (s *Scheduler) Step() {
	s.update()
}

// RemoveTimeout cancels pending timeouts. Unknown or already-removed ids
// are ignored, so double cancellation is safe.
func (s *Scheduler) RemoveTimeout(ids ...TimeoutID) {
	for _, id := range ids {
		delete(s.cbs, id)
	}
}

// update advances every registered timeout by one frame. The id set is
// snapshotted first: timeouts added during this frame run starting next
// frame, and ones removed mid-frame are skipped.
func (s *Scheduler) update() {
	s.order = s.order[:0]
	for id := range s.cbs {
		s.order = append(s.order, id)
	}
	// Map order is arbitrary; fire in registration order.
	sortTimeoutIDs(s.order)
	frame := s.frame
	for _, id := range s.order {
		to, ok := s.cbs[id]
		if !ok {
			continue
		}
		if to.frames {
			to.remain--
		} else {
			to.remain -= frame
		}
		if to.remain > 0 {
			continue
		}
		if to.cb() {
			// Carry the overshoot into the next interval, converting
			// units if the repeat is expressed differently.
			over := to.remain
			if to.frames != to.repeat.frames {
				if to.frames {
					over *= frame
				} else {
					over /= frame
				}
			}
			to.remain = to.repeat.amount + over
			to.frames = to.repeat.frames
		} else if _, still := s.cbs[id]; still {
			delete(s.cbs, id)
		}
	}
}

func sortTimeoutIDs(ids []TimeoutID) {
	// Insertion sort: the set is small and nearly sorted already.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}

// InterpOpts tunes [Scheduler.Interp]. The zero value runs until the value
// function finishes.
type InterpOpts struct {
	// TMax cancels the interpolation once elapsed time exceeds it; 0 means
	// no limit.
	TMax float64
	// ValMin / ValMax bound every numeric leaf. When the value crosses a
	// bound it is clamped, applied once more, and the interpolation ends.
	ValMin, ValMax *float64
	// End is a replacement value applied when the interpolation ends for
	// any reason other than RemoveTimeout.
	End *Value
	// EndFn, when set, produces the end value instead; returning ok=false
	// applies nothing.
	EndFn func() (Value, bool)
	// Round rounds every numeric leaf before applying.
	Round bool
	// MultiSet, when set, receives the value's numeric leaves spread as
	// positional arguments instead of set receiving the Value.
	MultiSet func(...float64)
}

// interpState is the per-interpolation continuation: elapsed time plus the
// last value applied, advanced once per frame by its timeout.
type interpState struct {
	t       float64
	last    Value
	hasLast bool
}

func (st *interpState) apply(v Value, set func(Value), o InterpOpts) {
	if st.hasLast && v.Equal(st.last) {
		return
	}
	if o.MultiSet != nil {
		o.MultiSet(v.Floats()...)
	} else if set != nil {
		set(v)
	}
	st.last = v
	st.hasLast = true
}

// Interp varies a value over time: each frame the elapsed time advances by
// the frame length, get is evaluated, and the result is applied via set
// when it differs from the last applied value. The interpolation ends when
// get reports done, elapsed time exceeds TMax, or the value leaves
// [ValMin, ValMax] (applied once at the bound). Returns a timeout id;
// removing it stops the interpolation without applying End.
func (s *Scheduler) Interp(get ValueFunc, set func(Value), o InterpOpts) TimeoutID {
	if o.Round {
		get = InterpRound(get)
	}
	st := &interpState{}
	return s.AddTimeout(func() bool {
		return s.interpTick(st, get, set, o)
	}, FrameCount(1), Delay{})
}

func (s *Scheduler) interpTick(st *interpState, get ValueFunc, set func(Value), o InterpOpts) bool {
	st.t += s.frame
	v, ok := get(st.t)
	done := false
	switch {
	case !ok:
		done = true
	case o.TMax > 0 && st.t > o.TMax:
		done = true
	default:
		if o.ValMin != nil && anyNumBelow(v, *o.ValMin) {
			done = true
			v = clampValue(v, o.ValMin, nil)
		} else if o.ValMax != nil && anyNumAbove(v, *o.ValMax) {
			done = true
			v = clampValue(v, nil, o.ValMax)
		}
		st.apply(v, set, o)
	}
	if !done {
		return true
	}
	if o.EndFn != nil {
		if end, endOK := o.EndFn(); endOK {
			st.apply(end, set, o)
		}
	} else if o.End != nil {
		st.apply(*o.End, set, o)
	}
	return false
}

// InterpSimple varies a value linearly from current to target over t
// seconds, rounding numeric leaves, and calls endCb (if non-nil) when the
// target has been reached.
func (s *Scheduler) InterpSimple(current, target Value, t float64, set func(Value), endCb func()) TimeoutID {
	o := InterpOpts{Round: true}
	if endCb != nil {
		o.EndFn = func() (Value, bool) {
			endCb()
			return Value{}, false
		}
	}
	return s.Interp(InterpLinear(Then(current), At(target, t)), set, o)
}

func anyNumBelow(v Value, bound float64) bool {
	return !allLeaves(v, func(l Value) bool {
		return !l.IsNum() || l.Float() >= bound
	})
}

func anyNumAbove(v Value, bound float64) bool {
	return !allLeaves(v, func(l Value) bool {
		return !l.IsNum() || l.Float() <= bound
	})
}

func clampValue(v Value, lo, hi *float64) Value {
	return zipApply(func(l []Value) Value {
		x := l[0]
		if !x.IsNum() {
			return x
		}
		f := x.Float()
		if lo != nil && f < *lo {
			f = *lo
		}
		if hi != nil && f > *hi {
			f = *hi
		}
		return Num(f)
	}, v)
}
