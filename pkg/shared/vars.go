// pkg/shared/vars.go

package shared

import (
	"sync/atomic"

	"github.com/frkngnc/commitor/pkg/logger"
)

// Version is stamped at build time with -ldflags "-X github.com/frkngnc/commitor/pkg/shared.Version=...".
var Version = "dev"

var syncedAlready atomic.Bool

// SafeSync flushes the process logger once; repeated calls are no-ops.
func SafeSync() {
	if syncedAlready.Swap(true) {
		return
	}
	_ = logger.Sync()
}
