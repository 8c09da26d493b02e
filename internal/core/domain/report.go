package domain

import "time"

// Report accumulates the build-status record for one build: the stages
// attempted in order, warnings collected along the way and the final
// outcome. It is created at orchestration start and persisted as
// metadata regardless of how the build ends, so a failed build still
// leaves a diagnostic trail.
type Report struct {
	BuildDir   string    `json:"build_dir"`
	Strategy   string    `json:"strategy,omitzero"`
	CacheState string    `json:"cache_state,omitzero"`
	Stages     []string  `json:"stages"`
	Warnings   []string  `json:"warnings,omitzero"`
	Failed     bool      `json:"failed"`
	Failure    string    `json:"failure,omitzero"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// NewReport creates a report for a build of the given directory.
func NewReport(buildDir string) *Report {
	return &Report{
		BuildDir:  buildDir,
		StartedAt: time.Now().UTC(),
	}
}

// RecordStage appends a stage name. It is called before the stage's
// work runs, so on failure the report retains the last-attempted stage.
func (r *Report) RecordStage(name string) {
	r.Stages = append(r.Stages, name)
}

// RecordWarning appends a non-fatal warning surfaced in the summary.
func (r *Report) RecordWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// LastStage returns the last-attempted stage name, or "" before Init.
func (r *Report) LastStage() string {
	if len(r.Stages) == 0 {
		return ""
	}
	return r.Stages[len(r.Stages)-1]
}

// Finish marks the report finished at the current time.
func (r *Report) Finish() {
	r.FinishedAt = time.Now().UTC()
}

// Fail marks the report failed with the given cause and finishes it.
func (r *Report) Fail(cause string) {
	r.Failed = true
	r.Failure = cause
	r.Finish()
}
