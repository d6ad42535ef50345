package model

// Artifact represents one built binary found under the output directory
type Artifact struct {
	Path string // Absolute path to the file
	Name string // Base filename, used as the asset name
}

// PublishResult represents the outcome of a publish run
type PublishResult struct {
	Repository Repository // Target repository
	Tag        string     // Tag used for the release lookup, verbatim from the version file
	Release    *Release   // Resolved release
	Artifacts  []Artifact // Artifacts found under the output directory
	Uploaded   []string   // Asset names uploaded, in order
	DryRun     bool       // True if no uploads were performed
}
