// Package validationtest provides an in-memory ErrorHandler for rule tests.
package validationtest

import (
	"sync"

	"github.com/solatis/ilrkeeper/internal/validation"
)

// Call is one recorded Handle invocation.
type Call struct {
	RuleName          string
	LearnRefNumber    string
	AimSequenceNumber *int64
	Params            []validation.ErrorMessageParameter
}

// Param returns the value of the named parameter and whether it was present.
func (c Call) Param(name string) (any, bool) {
	for _, p := range c.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Recorder records Handle and BuildErrorMessageParameter calls in order.
type Recorder struct {
	mu          sync.Mutex
	calls       []Call
	paramBuilds int
}

// Handle records the call.
func (r *Recorder) Handle(ruleName, learnRefNumber string, aimSequenceNumber *int64, params []validation.ErrorMessageParameter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{
		RuleName:          ruleName,
		LearnRefNumber:    learnRefNumber,
		AimSequenceNumber: aimSequenceNumber,
		Params:            params,
	})
}

// BuildErrorMessageParameter records the build and returns the pair.
func (r *Recorder) BuildErrorMessageParameter(name string, value any) validation.ErrorMessageParameter {
	r.mu.Lock()
	r.paramBuilds++
	r.mu.Unlock()
	return validation.BuildErrorMessageParameter(name, value)
}

// Calls returns a copy of the recorded Handle calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Count returns the number of Handle calls.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// ParamBuilds returns the number of BuildErrorMessageParameter calls.
func (r *Recorder) ParamBuilds() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paramBuilds
}

// Reset clears recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.paramBuilds = 0
}
