package models

// Keys used by the version list document.
const (
	KeyPackage     = "package"
	KeyDownloadURL = "downloadUrl"
	KeyVersionCode = "versionCode"
	KeyChangelog   = "changelog"
)

// ReleaseEntry describes a single published version.
type ReleaseEntry struct {
	VersionCode int64    `json:"versionCode"`
	Changelog   []string `json:"changelog"`
}

// Release is a version name paired with its entry, as returned when asking
// for the latest version.
type Release struct {
	Name  string
	Entry ReleaseEntry
}
