package migrate

// Summary is what one step changed and what it deliberately left alone.
// It is consumed by the reporting layer and never persisted.
type Summary struct {
	Step        StepID
	From        Generation
	To          Generation
	FromVersion string
	ToVersion   string

	CommandsUpdated int
	SkillsUpdated   int
	DataUpdated     int
	AgentsUpdated   int

	// Added lists workspace-relative paths (and config sections) created
	// by the step, in the order they were created.
	Added []string
	// Preserved describes pre-existing user content the step did not touch.
	Preserved []string
}

func newSummary(id StepID) *Summary {
	from, to := id.Transition()
	return &Summary{Step: id, From: from, To: to}
}
