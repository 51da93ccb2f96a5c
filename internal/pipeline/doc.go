// Package pipeline implements the roadmap generation pipeline: a fixed,
// ordered list of stages run sequentially against one shared PipelineState.
//
// Each stage transforms the state, then self-validates the fields it is
// responsible for. The runner enforces the generic retry/validate contract:
// a failing retryable stage is re-attempted against the same state up to its
// declared budget; any other failure short-circuits the run. A failed run is
// a normal return value carrying the error in the state, not a panic or a
// returned Go error.
package pipeline
