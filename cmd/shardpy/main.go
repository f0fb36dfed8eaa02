// Command shardpy builds a C shared library exposing the default engine to
// foreign callers such as Python ctypes:
//
//	go build -buildmode=c-shared -o shardpy.so ./cmd/shardpy
//
// Buffers are passed as pointer and element count. Every call returns a
// status code (0 on success); query returns the number of ids written or the
// negated status code. Engine settings come from VECSHARD_ environment
// variables.
package main

import "C"

import (
	"os"
	"runtime/pprof"
	"sync"
	"unsafe"

	"github.com/hupe1980/vecshard/ffi"
)

func boundary() (*ffi.Boundary, ffi.Status) {
	b, err := ffi.Default()
	if err != nil {
		return nil, ffi.Internal
	}
	return b, ffi.OK
}

//export initShard
func initShard(dataset *C.char, metric *C.char, vectorSize C.int) C.int {
	b, st := boundary()
	if st != ffi.OK {
		return C.int(st)
	}
	// GoString maps NULL to "", which the engine rejects.
	return C.int(b.InitShard(C.GoString(dataset), C.GoString(metric), int(vectorSize)))
}

//export fit
func fit(data *C.float, n C.longlong) C.int {
	b, st := boundary()
	if st != ffi.OK {
		return C.int(st)
	}
	return C.int(b.FitRaw(unsafe.Pointer(data), int(n)))
}

//export query
func query(x *C.float, n C.longlong, k C.int, out *C.uint, outLen C.longlong) C.longlong {
	b, st := boundary()
	if st != ffi.OK {
		return -C.longlong(st)
	}
	written, st := b.QueryRaw(unsafe.Pointer(x), int(n), int(k), unsafe.Pointer(out), int(outLen))
	if st != ffi.OK {
		return -C.longlong(st)
	}
	return C.longlong(written)
}

//export lastErrorCode
func lastErrorCode() C.int {
	b, st := boundary()
	if st != ffi.OK {
		return C.int(st)
	}
	return C.int(ffi.StatusOf(b.LastError()))
}

var (
	profileMu   sync.Mutex
	profileFile *os.File
)

//export startProfile
func startProfile(path *C.char) C.int {
	profileMu.Lock()
	defer profileMu.Unlock()

	if path == nil || profileFile != nil {
		return C.int(ffi.InvalidArgument)
	}

	f, err := os.Create(C.GoString(path))
	if err != nil {
		return C.int(ffi.Internal)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return C.int(ffi.Internal)
	}
	profileFile = f
	return C.int(ffi.OK)
}

//export stopProfile
func stopProfile() C.int {
	profileMu.Lock()
	defer profileMu.Unlock()

	if profileFile == nil {
		return C.int(ffi.InvalidArgument)
	}
	pprof.StopCPUProfile()
	err := profileFile.Close()
	profileFile = nil
	if err != nil {
		return C.int(ffi.Internal)
	}
	return C.int(ffi.OK)
}

func main() {}
