// Package profile starts and stops runtime profiling for the constl command.
//
// Profiling is compiled in only when building with the pprof tag:
//
//	go build -tags pprof .
//	constl --pprof-mode=cpu --pprof-dir=/tmp/prof < input.cst
//
// Without the tag, [Modes] is empty and [Config.Start] always returns a
// stopper that does nothing, so callers never need to check the build
// configuration themselves.
//
// The supported modes are those of github.com/pkg/profile: block, cpu,
// clock, goroutine, mem, allocs, heap, mutex, thread and trace.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
