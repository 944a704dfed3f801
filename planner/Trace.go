package planner

import "github.com/brannovich/tempoplan/model"

// Step is one committed decision: the action taken and the IDs of the
// STN time-point nodes that stn.STN.AddAction returned for its start
// and end. Start and End are node IDs, not times; Step does not hold
// the action's scheduled start or end time.
type Step struct {
	Action model.ActionID
	Name   string
	Start  int
	End    int
}

// Trace records a planning run's committed steps and any warnings
// raised along the way (e.g. a zero-support probabilistic effect),
// playing the role the teacher's experiment/tracker.Tracker plays for
// an RL episode: a passive recorder the driver pushes events into,
// not a participant in the control flow.
type Trace struct {
	Steps    []Step
	Warnings []string
}

func (t *Trace) record(s Step) {
	t.Steps = append(t.Steps, s)
}

func (t *Trace) warn(msg string) {
	t.Warnings = append(t.Warnings, msg)
}

// Result is the planner's output: the terminal status, the plan's
// makespan (meaningful only on Success, or as a partial value on a
// deadline-exceeded Fail), and the full trace of committed steps.
type Result struct {
	Status   Status
	Makespan int
	Trace    Trace
}
