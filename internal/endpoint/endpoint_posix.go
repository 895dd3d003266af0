//go:build !windows

package endpoint

import (
	"os"
	"path/filepath"
)

// PipeAddressFromName derives the UNIX domain socket path a worker in IPC
// mode binds to.
func PipeAddressFromName(name string) string {
	return filepath.Join(os.TempDir(), name)
}
