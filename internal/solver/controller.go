// Package solver searches a level for a route to an exit. The Controller does
// one unit of work per Tick, so a host loop can interleave it with rendering;
// Engine drives it headlessly.
package solver

import (
	"log/slog"
	"math/rand"
	"time"

	"svw.info/griphus/internal/cache"
	"svw.info/griphus/internal/domain"
	"svw.info/griphus/internal/history"
	"svw.info/griphus/internal/pathing"
	"svw.info/griphus/internal/world"
)

// Options configure a Controller.
type Options struct {
	Seed int64
	// StopOnSolve pauses the search as Solved on the first exit reached.
	// Otherwise the branch is abandoned and the search goes on.
	StopOnSolve bool
	// StrictDeath makes a player death pause the search with ErrPlayerDied.
	StrictDeath bool
	Logger      *slog.Logger
}

// Stats are display counters; they have no effect on the search.
type Stats struct {
	Searches   uint64
	DeadEnds   uint64
	Duplicates uint64
	Solutions  uint64
	Deaths     uint64
	CacheSize  int
	Rate       float64 // searches per second since the last resume
	Depth      int
	Steps      int
	Energy     int
}

// Controller is the backtracking search state machine. Backtracking uses an
// explicit frame stack; a frame remembers the step count it was pushed at and
// the candidates not tried yet.
type Controller struct {
	world  *world.World
	log    *history.Log
	paths  *pathing.Planner
	cache  *cache.StatesCache
	rng    *rand.Rand
	logger *slog.Logger
	opts   Options

	status    Status
	done      bool
	show      bool
	frames    []frame
	pending   []SubAction
	failed    bool
	startStep int

	trail          []SubAction
	solution       []SubAction
	solutionEnergy int

	stats       Stats
	now         func() time.Time
	resumedAt   time.Time
	sinceResume uint64
}

// NewController starts a search from the current state of w.
func NewController(w *world.World, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		world:  w,
		log:    history.New(w, logger),
		paths:  pathing.New(w),
		cache:  cache.New(w),
		rng:    rand.New(rand.NewSource(opts.Seed)),
		logger: logger,
		opts:   opts,
		status: Searching,
		now:    time.Now,
	}
	c.startStep = c.log.Steps()
	c.resumedAt = c.now()
	if w.State() == domain.PlayerAtExit {
		// nothing to search for: the empty route is the solution
		c.stats.Solutions++
		c.failed = true
		if opts.StopOnSolve {
			c.status = Solved
		}
	}
	return c
}

func (c *Controller) Status() Status { return c.status }

// Display reports the display toggle; the controller itself ignores it.
func (c *Controller) Display() bool { return c.show }

// Log exposes the action log, mainly for replaying or inspecting a solution.
func (c *Controller) Log() *history.Log { return c.log }

// Solution returns the moves of the last route that reached an exit.
func (c *Controller) Solution() ([]SubAction, bool) {
	if c.stats.Solutions == 0 {
		return nil, false
	}
	return append([]SubAction(nil), c.solution...), true
}

// SolutionEnergy is the energy spent along the route returned by Solution.
func (c *Controller) SolutionEnergy() int { return c.solutionEnergy }

func (c *Controller) Stats() Stats {
	st := c.stats
	st.CacheSize = c.cache.Size()
	st.Depth = len(c.frames)
	st.Steps = c.log.Steps()
	st.Energy = c.log.EnergyUsed()
	if secs := c.now().Sub(c.resumedAt).Seconds(); secs > 0 {
		st.Rate = float64(c.sinceResume) / secs
	}
	return st
}

func (c *Controller) resume() {
	c.status = Searching
	c.resumedAt = c.now()
	c.sinceResume = 0
}

// Tick processes sig and then, unless paused or finished, does one unit of
// work: one frame expansion followed by one sub-action, or one sub-action.
func (c *Controller) Tick(sig Signal) (Status, error) {
	switch sig {
	case SignalAbort:
		if !c.done {
			c.status = Aborted
			c.done = true
			c.logger.Info("search aborted", "steps", c.log.Steps(), "searches", c.stats.Searches)
		}
		return c.status, nil
	case SignalToggleDisplay:
		c.show = !c.show
	case SignalTogglePause:
		switch {
		case c.status == Searching:
			c.status = Paused
		case c.status == Paused, c.status == Solved && !c.done:
			c.resume()
		}
	}
	if c.status != Searching {
		return c.status, nil
	}

	if len(c.pending) == 0 {
		if !c.failed {
			c.expand()
		}
		if c.failed && !c.backtrack() {
			return c.finish(), nil
		}
		top := &c.frames[len(c.frames)-1]
		last := len(top.candidates) - 1
		cand := top.candidates[last]
		top.candidates = top.candidates[:last]
		c.pending = append(c.pending[:0], cand.Steps...)
		c.failed = false
		c.logger.Debug("try candidate", "kind", cand.Kind, "target", cand.Target, "dir", cand.Dir, "depth", len(c.frames))
	}
	return c.playNext()
}

// expand looks at the state just reached and either marks the branch failed
// or pushes a frame of shuffled candidates.
func (c *Controller) expand() {
	c.stats.Searches++
	c.sinceResume++
	if c.cache.HasSeen() {
		c.stats.Duplicates++
		c.failed = true
		return
	}
	if c.world.IsImpossible() {
		c.stats.DeadEnds++
		c.failed = true
		return
	}
	cands := c.candidates()
	if len(cands) == 0 {
		c.stats.DeadEnds++
		c.failed = true
		return
	}
	c.rng.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })
	c.frames = append(c.frames, frame{step: c.log.Steps(), candidates: cands})
}

// backtrack drops exhausted frames and undoes back to the top one. It returns
// false, with the world restored to the start, when no frame is left.
func (c *Controller) backtrack() bool {
	for len(c.frames) > 0 && len(c.frames[len(c.frames)-1].candidates) == 0 {
		c.frames = c.frames[:len(c.frames)-1]
	}
	if len(c.frames) == 0 {
		c.log.Undo(c.log.Steps() - c.startStep)
		c.trail = c.trail[:0]
		return false
	}
	top := c.frames[len(c.frames)-1]
	n := c.log.Steps() - top.step
	c.log.Undo(n)
	c.trail = c.trail[:top.step-c.startStep]
	c.logger.Debug("backtrack", "undo", n, "depth", len(c.frames))
	return true
}

func (c *Controller) finish() Status {
	c.done = true
	c.status = Exhausted
	if c.stats.Solutions > 0 {
		c.status = Solved
	}
	c.logger.Info("search finished",
		"status", c.status,
		"searches", c.stats.Searches,
		"dead_ends", c.stats.DeadEnds,
		"duplicates", c.stats.Duplicates,
		"cache", c.cache.Size())
	return c.status
}

// playNext plays the head of the pending queue as one turn.
func (c *Controller) playNext() (Status, error) {
	sub := c.pending[0]
	c.pending = c.pending[1:]

	var actions []domain.Action
	if sub.Actuate {
		actions = c.world.TryActuate()
	} else {
		actions = c.world.TryMove(sub.Dir)
	}
	if len(actions) == 0 {
		c.stats.DeadEnds++
		c.failed = true
		c.pending = c.pending[:0]
		return c.status, nil
	}
	c.log.PlayTurn(actions)
	c.trail = append(c.trail, sub)

	switch c.log.State() {
	case domain.PlayerDead:
		c.stats.Deaths++
		c.stats.DeadEnds++
		c.failed = true
		c.pending = c.pending[:0]
		c.logger.Error("player died during search",
			"at", c.world.PlayerPosition(), "move", string(sub.Letter()), "steps", c.log.Steps())
		if c.opts.StrictDeath {
			c.status = Paused
			return c.status, ErrPlayerDied
		}
	case domain.PlayerAtExit:
		c.stats.Solutions++
		c.solution = append(c.solution[:0], c.trail...)
		c.solutionEnergy = c.log.EnergyUsed()
		c.failed = true
		c.pending = c.pending[:0]
		c.logger.Info("exit reached", "steps", c.log.Steps(), "energy", c.solutionEnergy, "solutions", c.stats.Solutions)
		if c.opts.StopOnSolve {
			c.status = Solved
		}
	}
	return c.status, nil
}
