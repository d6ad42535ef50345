package model

// Release represents a pre-existing GitHub release resolved by tag
type Release struct {
	ID      int64  // Release ID used for asset operations
	TagName string // Tag the release was resolved by
	Name    string // Display name of the release
}

// Asset represents a binary file attached to a release
type Asset struct {
	ID   int64  // Asset ID
	Name string // Asset file name
}
