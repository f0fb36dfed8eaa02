package simd

import (
	"os"
	"strings"
)

// ISA represents the instruction set the active kernels were selected for.
type ISA uint8

const (
	// Generic represents the pure Go implementation (no SIMD).
	Generic ISA = iota
	// AVX2 represents x86-64 AVX2 with FMA.
	AVX2
)

// String returns the string representation of an ISA.
func (i ISA) String() string {
	switch i {
	case Generic:
		return "generic"
	case AVX2:
		return "avx2"
	default:
		return "unknown"
	}
}

// ParseISA parses a string into an ISA value.
func ParseISA(s string) (ISA, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic":
		return Generic, true
	case "avx2":
		return AVX2, true
	default:
		return Generic, false
	}
}

// Package-level state - initialized once at package init.
var (
	// activeISA is the selected kernel set.
	activeISA ISA

	// hasOverride is true if VECSHARD_SIMD selected the ISA.
	hasOverride bool

	// CPU feature flags (set by platform-specific init)
	hasAVX2 bool // x86-64 AVX2 + FMA
)

// initCapabilities is called from platform-specific init functions
// after CPU features are detected.
func initCapabilities() {
	activeISA = selectBestISA()

	if override := os.Getenv("VECSHARD_SIMD"); override != "" {
		if isa, ok := ParseISA(override); ok && isISAAvailable(isa) {
			hasOverride = true
			activeISA = isa
		}
	}

	install(activeISA)
}

func isISAAvailable(isa ISA) bool {
	switch isa {
	case Generic:
		return true
	case AVX2:
		return hasAVX2
	default:
		return false
	}
}

func selectBestISA() ISA {
	if hasAVX2 {
		return AVX2
	}
	return Generic
}

// install swaps the kernel pointers for the given ISA.
func install(isa ISA) {
	switch isa {
	case AVX2:
		kernelDot = dotVek
		kernelSquaredL2 = squaredL2Vek
		kernelScale = scaleVek
	default:
		kernelDot = dotGeneric
		kernelSquaredL2 = squaredL2Generic
		kernelScale = scaleGeneric
	}
}

// ActiveISA returns the currently active ISA.
func ActiveISA() ISA {
	return activeISA
}

// IsOverridden returns true if VECSHARD_SIMD was set to an available ISA.
func IsOverridden() bool {
	return hasOverride
}

// HasAVX2 returns true if x86-64 AVX2+FMA is available.
func HasAVX2() bool {
	return hasAVX2
}
