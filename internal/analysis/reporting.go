package analysis

import "factsift/internal/ports"

// reporting adds nil-safe status helpers to the pipeline stages.
type reporting struct {
	reporter ports.StatusReporter
}

func (r reporting) info(msg string) {
	if r.reporter != nil {
		r.reporter.Info(msg)
	}
}

func (r reporting) success(msg string) {
	if r.reporter != nil {
		r.reporter.Success(msg)
	}
}

func (r reporting) warning(msg string) {
	if r.reporter != nil {
		r.reporter.Warning(msg)
	}
}

func (r reporting) error(msg string) {
	if r.reporter != nil {
		r.reporter.Error(msg)
	}
}

func (r reporting) progress(stage string, current, total int, detail string) {
	if r.reporter != nil {
		r.reporter.Progress(stage, current, total, detail)
	}
}
