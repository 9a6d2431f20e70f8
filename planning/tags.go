package planning

// Well-known trajectory tag keys.
const (
	// TagPlanner names the planner that produced a trajectory. Planners set it themselves.
	TagPlanner = "PLANNER"
	// TagMethod is the planning method that produced the trajectory.
	TagMethod = "METHOD"
	// TagPlanTime is the wall time spent planning, in seconds.
	TagPlanTime = "PLAN_TIME"
	// TagLogFile is the name of the planning log record that captured the call.
	TagLogFile = "LOGFILE"
	// TagConstrained marks a trajectory planned under constraints.
	TagConstrained = "CONSTRAINED"
	// TagSmooth marks a smoothed trajectory.
	TagSmooth = "SMOOTH"
)
