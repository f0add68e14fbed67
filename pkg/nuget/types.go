// pkg/nuget/types.go
package nuget

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/arc-language/extpkg/pkg/repository"
)

// Config configures NuGet repositories and the package manager
type Config struct {
	InstallPath string        // Install root, packages land in <InstallPath>/<id>.<version>
	CachePath   string        // Where git-hosted feeds are cloned
	Timeout     time.Duration // HTTP timeout per request
	Debug       bool
	Logger      *log.Logger
}

// PackageManager installs packages from a repository into an install root
type PackageManager struct {
	repo   repository.Repository
	local  *LocalRepository
	paths  repository.PathResolver
	config *Config
	logger *log.Logger
}
