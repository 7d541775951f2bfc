package common

import (
	"os"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// RuntimeProfile is the GC and scheduler setup applied at startup.
type RuntimeProfile struct {
	GOGC     int
	MemLimit int64
	MaxProcs int
}

const gib = 1024 * 1024 * 1024

// DetectRuntimeProfile sizes the runtime from the CPU count. Quoting is pure
// CPU work with short-lived uint256 temporaries, so every core is used and GC
// is relaxed with a memory limit as the backstop.
func DetectRuntimeProfile(numCPU int) RuntimeProfile {
	switch {
	case numCPU <= 2:
		return RuntimeProfile{GOGC: 200, MemLimit: 1 * gib, MaxProcs: numCPU}
	case numCPU <= 8:
		return RuntimeProfile{GOGC: 400, MemLimit: 4 * gib, MaxProcs: numCPU}
	default:
		return RuntimeProfile{GOGC: 400, MemLimit: 8 * gib, MaxProcs: numCPU}
	}
}

// InitRuntime applies the detected profile. GOGC, GOMAXPROCS and GOMEMLIMIT
// set in the environment win over the profile.
func InitRuntime() {
	profile := DetectRuntimeProfile(runtime.NumCPU())

	if os.Getenv("GOGC") == "" {
		debug.SetGCPercent(profile.GOGC)
	}
	if os.Getenv("GOMAXPROCS") == "" && profile.MaxProcs > 0 {
		runtime.GOMAXPROCS(profile.MaxProcs)
	}
	if os.Getenv("GOMEMLIMIT") == "" {
		debug.SetMemoryLimit(profile.MemLimit)
	}

	log.Info().
		Int("num_cpu", runtime.NumCPU()).
		Int("gomaxprocs", runtime.GOMAXPROCS(0)).
		Int("gogc", profile.GOGC).
		Float64("memlimit_gb", float64(profile.MemLimit)/gib).
		Str("go_version", runtime.Version()).
		Msg("[runtime] runtime configured")
}
