package qitype

import (
	"sync"

	"github.com/relaymesh/dynatype/internal/qilog"
)

var failureLog = qilog.NewCategory("qitype.type")

// FailureReporter records, once per type name, the first operation a
// default Type implementation refused to perform, and emits a single
// error-level diagnostic. Subsequent failures for the same type name
// are silenced. The zero value is ready to use.
//
// This is the Go counterpart of the original detail::typeFail, which
// used a process-wide std::set<std::string> guarded implicitly by being
// called only from single-threaded static paths; here the one-shot set
// is a sync.Map so concurrent callers are safe without an explicit
// mutex (per the redesign note in spec.md §9 suggesting "an atomic flag
// per Type").
type FailureReporter struct {
	fired sync.Map // typeName string -> struct{}
}

// Fail reports that operation failed on typeName, once.
func (r *FailureReporter) Fail(typeName, operation string) {
	if _, loaded := r.fired.LoadOrStore(typeName, struct{}{}); loaded {
		return
	}
	failureLog.Error("operation failed on data type", "type", typeName, "operation", operation)
}

// DefaultFailureReporter is the process-wide instance default container
// implementations report through.
var DefaultFailureReporter FailureReporter
