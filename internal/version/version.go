package version

// Version is the docshelf release, set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/docshelf/internal/version.Version=v0.3.0".
var Version = "dev"

// Build metadata, also injected via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return "docshelf " + Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
