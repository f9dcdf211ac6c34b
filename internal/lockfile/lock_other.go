//go:build !unix && !windows

package lockfile

import "os"

// Platforms without advisory locks (wasm) run unguarded.
func flockExclusive(*os.File) error { return nil }

func flockUnlock(*os.File) error { return nil }
