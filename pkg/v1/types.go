package v1

// ReleaseType is the kind of release a package needs.
type ReleaseType string

const (
	ReleaseNone    ReleaseType = "none"
	ReleasePatch   ReleaseType = "patch"
	ReleaseMinor   ReleaseType = "minor"
	ReleaseMajor   ReleaseType = "major"
	ReleaseInitial ReleaseType = "initial"
)

// Release is the last published or tagged release of a package.
type Release struct {
	Version string `json:"version,omitempty"`
	GitHead string `json:"git_head,omitempty"`
}

// Decision is the outcome of deciding a package release.
type Decision struct {
	Package     string      `json:"package"`
	ReleaseType ReleaseType `json:"release_type"`
	LastRelease Release     `json:"last_release"`
	NextVersion string      `json:"next_version,omitempty"`
	Tag         string      `json:"tag,omitempty"`
}

// Commit is a commit handed to Classify.
type Commit struct {
	Hash    string `json:"hash"`
	Message string `json:"message"`
}
