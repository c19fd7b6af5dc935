package taxon

// Config holds global configuration for the taxon runtime.
var Config config = config{
	schedulerGuard: defaultSchedulerGuard,
}

// defaultSchedulerGuard is the bound on how many entities one scheduled
// system may fire in a single pass of Scheduler.drainScheduled before it
// is treated as a runaway loop.
const defaultSchedulerGuard = 10_000

type config struct {
	schedulerGuard int
	poolEvents     PoolEvents
}

// PoolEvents are the creation/destruction callbacks every pool invokes
// when they are set; a nil callback is skipped. They mirror the shape of
// the teacher's table.TableEvents, one level up: invoked by pools rather
// than by tables, with the pool's ComponentTypeID passed in.
type PoolEvents struct {
	OnComponentCreated   func(typeID ComponentTypeID, e Entity)
	OnComponentDestroyed func(typeID ComponentTypeID, e Entity)
}

// SetSchedulerGuard overrides the default runaway-loop bound applied to
// each scheduled system's pass in Scheduler.drainScheduled (spec REDESIGN
// FLAGS: the 10,000 heuristic may be made configurable). Schedulers read
// it when NewScheduler constructs them.
func (c *config) SetSchedulerGuard(n int) {
	if n <= 0 {
		panic(invariantViolation("scheduler guard must be positive"))
	}
	c.schedulerGuard = n
}

// SetPoolEvents configures the component creation/destruction callbacks
// that every pool invokes; there is no per-pool switch.
func (c *config) SetPoolEvents(pe PoolEvents) {
	c.poolEvents = pe
}
