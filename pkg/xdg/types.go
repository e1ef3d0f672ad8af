// pkg/xdg/types.go

package xdg

const (
	// AppName is the directory name used under every XDG base directory.
	AppName = "commitor"

	// Permission modes (in octal)
	DirPermPrivate         = 0700
	FilePermOwnerReadWrite = 0600
)
