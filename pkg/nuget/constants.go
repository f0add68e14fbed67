// pkg/nuget/constants.go
package nuget

const (
	// DefaultFeedURL is the public NuGet v2 feed
	DefaultFeedURL = "https://packages.nuget.org/api/v2"

	// PackageExtension is the archive extension of a package
	PackageExtension = ".nupkg"

	// ManifestExtension is the extension of the package manifest
	ManifestExtension = ".nuspec"

	// ContentFolder holds files merged into the host's input paths
	ContentFolder = "content"

	// LibFolder holds binaries, optionally grouped by framework folder
	LibFolder = "lib"

	// GitPrefix marks a source location as a git-hosted folder feed
	GitPrefix = "git+"

	// maxFeedPages bounds how many "next" links a single lookup follows
	maxFeedPages = 20
)
