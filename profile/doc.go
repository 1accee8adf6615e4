// Package profile provides optional runtime profiling for tmpl.
//
// Profiling is backed by [github.com/pkg/profile] and is compiled in only
// with the "pprof" build tag:
//
//	go build -tags pprof .
//	tmpl --pprof-mode cpu --pprof-dir ./profiles expand input.tmpl
//	go tool pprof -http=: ./profiles/cpu.pprof
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op
// controller, so callers never need build constraints of their own.
//
// Supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread, and trace.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
