// Package trace is the logging layer of lazuli.
//
// A run opens a ScopeRun span, each pipeline stage a ScopeStage span and
// every interpreted call a ScopeCall span. Where the events go is decided
// on the command line:
//
//	lazuli run --trace=- --trace-level=phase script.lzr
//
// The driver always feeds a small RingTracer as well; when a script
// crashes, the ring's contents become the "trace" section of the report.
//
// Levels map to the deepest scope they let through:
//
//	off     nothing
//	error   nothing but crash markers
//	phase   run and stage
//	detail  + script (files and imported modules)
//	debug   + call
package trace
