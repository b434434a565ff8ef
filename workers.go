package cardgen

import "runtime"

// Worker sizing constants.
const (
	// MinWorkers keeps rendering sequential.
	MinWorkers = 1

	// MaxAutoWorkers caps auto-sized concurrency; each incognito page
	// costs tens of MB in the shared browser.
	MaxAutoWorkers = 8

	// MaxWorkers bounds explicit values.
	MaxWorkers = 32

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ResolveWorkers determines how many cards render concurrently.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxAutoWorkers {
		return MaxAutoWorkers
	}
	return n
}
