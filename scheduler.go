package taxon

import (
	"math"
	"reflect"
)

// System is the common identity every kind of scheduled unit of work
// exposes, used for logging and dependency-cycle error messages.
type System interface {
	Name() string
}

// PassiveSystem runs at the start of each tick, before any scheduled or
// frame system, and again after each scheduled system that fires during
// the tick (see drainScheduled). It does not participate in deadline
// scheduling (spec §4.2 "Scheduler and System model").
type PassiveSystem interface {
	System
	Run(w *World) error
}

// FrameSystem runs once per tick, after every scheduled system has been
// drained for the tick, and receives the tick's elapsed time.
type FrameSystem interface {
	System
	RunFrame(w *World, dt float64) error
}

// ScheduledSystem owns a deadline queue of entities and fires on each
// entity whose deadline has elapsed. Fire returns whether to reschedule
// the entity and, if so, its next deadline.
type ScheduledSystem interface {
	System
	Deadlines() *PriorityQueue[Entity]
	Fire(w *World, e Entity) (reschedule bool, nextDeadline float64, err error)
}

// Emitter and Listener are optional interfaces a system implements to
// declare which event types it produces or consumes, letting the
// Scheduler infer a run-before/run-after ordering constraint between two
// systems without having to observe a live emit (spec §4.2, dependency
// inference between scheduled systems).
type Emitter interface {
	Emits() []reflect.Type
}
type Listener interface {
	Listens() []reflect.Type
}

// Scheduler sequences passive, scheduled, and frame systems each tick,
// ordering scheduled/frame systems by their declared event dependencies
// and draining the event bus's double buffer exactly once per phase
// boundary (spec §4.2 "Scheduler and System model").
//
// Grounded on the teacher's storage.go lock/operationQueue split
// (phases separated by an explicit drain point) and on PriorityQueue for
// the deadline-ordered fire loop.
type Scheduler struct {
	bus *EventBus

	passive   []PassiveSystem
	scheduled []ScheduledSystem
	frame     []FrameSystem

	guard int
	clock float64
}

// NewScheduler constructs a Scheduler bound to bus, using the global
// Config.schedulerGuard as its default runaway-loop guard.
func NewScheduler(bus *EventBus) *Scheduler {
	return &Scheduler{bus: bus, guard: Config.schedulerGuard}
}

func (s *Scheduler) AddPassive(sys PassiveSystem)     { s.passive = append(s.passive, sys) }
func (s *Scheduler) AddScheduled(sys ScheduledSystem) { s.scheduled = append(s.scheduled, sys) }
func (s *Scheduler) AddFrame(sys FrameSystem)         { s.frame = append(s.frame, sys) }

// Clock returns accumulated simulation time.
func (s *Scheduler) Clock() float64 { return s.clock }

// orderSystems sorts sys (a homogeneous slice of System-implementing
// values) so that any system listening for an event type runs after
// every system in the slice that emits it, breaking ties by declaration
// order. Cycles are resolved by falling back to declaration order for
// the systems involved, since a true cycle within one phase cannot be
// satisfied and is not treated as an invariant violation — later
// listeners simply observe the event one tick later, once SwapBuffers
// has run.
func orderSystems[T System](sys []T) []T {
	emitsOf := make([]map[reflect.Type]bool, len(sys))
	listensOf := make([]map[reflect.Type]bool, len(sys))
	for i, v := range sys {
		emitsOf[i] = emitSet(v)
		listensOf[i] = listenSet(v)
	}

	indeg := make([]int, len(sys))
	edges := make([][]int, len(sys))
	for i := range sys {
		for j := range sys {
			if i == j {
				continue
			}
			for t := range emitsOf[i] {
				if listensOf[j][t] {
					edges[i] = append(edges[i], j)
					indeg[j]++
				}
			}
		}
	}

	var queue []int
	for i := range sys {
		if indeg[i] == 0 {
			queue = append(queue, i)
		}
	}
	visited := make([]bool, len(sys))
	var order []int
	for len(order) < len(sys) {
		if len(queue) == 0 {
			// cycle or isolated remainder: append whatever is left in
			// declaration order.
			for i := range sys {
				if !visited[i] {
					queue = append(queue, i)
				}
			}
		}
		next := queue[0]
		queue = queue[1:]
		if visited[next] {
			continue
		}
		visited[next] = true
		order = append(order, next)
		for _, j := range edges[next] {
			indeg[j]--
			if indeg[j] == 0 {
				queue = append(queue, j)
			}
		}
	}

	out := make([]T, len(sys))
	for i, idx := range order {
		out[i] = sys[idx]
	}
	return out
}

func emitSet(v any) map[reflect.Type]bool {
	out := make(map[reflect.Type]bool)
	if e, ok := v.(Emitter); ok {
		for _, t := range e.Emits() {
			out[t] = true
		}
	}
	return out
}

func listenSet(v any) map[reflect.Type]bool {
	out := make(map[reflect.Type]bool)
	if l, ok := v.(Listener); ok {
		for _, t := range l.Listens() {
			out[t] = true
		}
	}
	return out
}

// Tick advances the simulation by dt: swaps event buffers, reconciles
// dirty entities, runs passive systems, drains every scheduled system's
// deadline queue up to the runaway guard, runs frame systems, then
// swaps buffers and reconciles once more so events and structural
// changes produced during this tick become visible before the next one
// (spec §4.2, the tick algorithm).
func (s *Scheduler) Tick(w *World, dt float64) error {
	s.bus.SwapBuffers()
	if err := w.ProcessComponentChanges(); err != nil {
		return err
	}

	for _, sys := range orderSystems(s.passive) {
		if err := sys.Run(w); err != nil {
			return err
		}
	}

	s.clock += dt
	if err := s.drainScheduled(w, s.clock); err != nil {
		return err
	}

	for _, sys := range orderSystems(s.frame) {
		if err := sys.RunFrame(w, dt); err != nil {
			return err
		}
	}

	s.bus.SwapBuffers()
	return w.ProcessComponentChanges()
}

// drainScheduled fires every scheduled system's due entities up to
// deadline, in dependency order. Whenever a system fires at least one
// entity it is immediately followed by a SwapBuffers, a passive-system
// pass, and reconciliation before the next system in the same ordering
// runs — so an Emitter's event becomes visible to a same-tick Listener
// without waiting for the next Tick. A system additionally throttles to
// the earliest pending deadline among the systems it listens to
// (earliestDependencyDeadline), so a dependency cycle within one phase
// cannot let one side race arbitrarily far ahead of the other.
func (s *Scheduler) drainScheduled(w *World, deadline float64) error {
	ordered := orderSystems(s.scheduled)
	for {
		firedPass := false
		for _, sys := range ordered {
			maxTime := deadline
			if dep := s.earliestDependencyDeadline(sys); dep < maxTime {
				maxTime = dep
			}

			firedThis := false
			iterations := 0
			q := sys.Deadlines()
			for !q.Empty() {
				top, err := q.TopPriority()
				if err != nil {
					break
				}
				if top > maxTime {
					break
				}
				e, err := q.Pop()
				if err != nil {
					break
				}
				firedThis = true
				firedPass = true
				iterations++
				if iterations > s.guard {
					return RunawayScheduleError{System: sys.Name(), Guard: s.guard, ClockTime: s.clock}
				}
				reschedule, next, err := sys.Fire(w, e)
				if err != nil {
					return err
				}
				if reschedule {
					q.Push(e, next)
				}
			}

			if firedThis {
				s.bus.SwapBuffers()
				for _, p := range orderSystems(s.passive) {
					if err := p.Run(w); err != nil {
						return err
					}
				}
				if err := w.ProcessComponentChanges(); err != nil {
					return err
				}
			}
		}
		if !firedPass {
			return nil
		}
	}
}

// earliestDependencyDeadline returns the smallest pending deadline among
// scheduled systems sys listens to, or +Inf if sys is not a Listener or
// none of its emitters have anything queued.
func (s *Scheduler) earliestDependencyDeadline(sys ScheduledSystem) float64 {
	lst, ok := sys.(Listener)
	if !ok {
		return math.Inf(1)
	}
	listens := make(map[reflect.Type]bool)
	for _, t := range lst.Listens() {
		listens[t] = true
	}

	best := math.Inf(1)
	for _, other := range s.scheduled {
		if other == sys {
			continue
		}
		em, ok := other.(Emitter)
		if !ok {
			continue
		}
		shared := false
		for _, t := range em.Emits() {
			if listens[t] {
				shared = true
				break
			}
		}
		if !shared {
			continue
		}
		q := other.Deadlines()
		if q.Empty() {
			continue
		}
		top, err := q.TopPriority()
		if err != nil {
			continue
		}
		if top < best {
			best = top
		}
	}
	return best
}
