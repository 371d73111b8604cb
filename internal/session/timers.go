package session

import "time"

// timerKind names the deadlines a session schedules. At most one timer of
// each kind is pending at a time; scheduling replaces the previous one.
type timerKind int

const (
	timerHighlight     timerKind = iota // advance stimulus playback
	timerReveal                         // presenting window over, open input
	timerInputDeadline                  // response window expired
	timerNextRound                      // inter-round pause over
	timerSessionEnd                     // session countdown expired
)

type scheduledTimer struct {
	kind  timerKind
	at    time.Time
	epoch uint64
}

// timerSet is the session's pending-deadline table. Deadlines are
// level-triggered: due() fires everything whose time has passed, however
// late the tick arrives, so a missed tick can never skip a transition.
// cancelAll bumps the epoch, which invalidates any timer captured before a
// restart — the stale-timer-into-new-session defect class.
type timerSet struct {
	epoch   uint64
	pending []scheduledTimer
}

func (ts *timerSet) schedule(kind timerKind, at time.Time) {
	ts.cancel(kind)
	ts.pending = append(ts.pending, scheduledTimer{kind: kind, at: at, epoch: ts.epoch})
}

func (ts *timerSet) cancel(kind timerKind) {
	out := ts.pending[:0]
	for _, t := range ts.pending {
		if t.kind != kind {
			out = append(out, t)
		}
	}
	ts.pending = out
}

func (ts *timerSet) cancelAll() {
	ts.epoch++
	ts.pending = nil
}

// next returns the earliest pending deadline, or the zero time.
func (ts *timerSet) next() time.Time {
	var at time.Time
	for _, t := range ts.pending {
		if at.IsZero() || t.at.Before(at) {
			at = t.at
		}
	}
	return at
}

// due pops the earliest pending timer that has passed by now. Firing one at
// a time lets the handler reschedule before later timers are considered.
func (ts *timerSet) due(now time.Time) (scheduledTimer, bool) {
	best := -1
	for i, t := range ts.pending {
		if t.at.After(now) {
			continue
		}
		if best < 0 || t.at.Before(ts.pending[best].at) {
			best = i
		}
	}
	if best < 0 {
		return scheduledTimer{}, false
	}
	fired := ts.pending[best]
	ts.pending = append(ts.pending[:best], ts.pending[best+1:]...)
	if fired.epoch != ts.epoch {
		// Stale timer from a superseded session; drop it.
		return ts.due(now)
	}
	return fired, true
}
