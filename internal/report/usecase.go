package report

// RunRepository stores evaluation runs.
type RunRepository interface {
	Append(run Run)
	Close() error
}
