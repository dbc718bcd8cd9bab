package dep

// Repository is the subset of a repository's metadata the property table
// can address. Counts use the API's naming: Watchers is the subscriber
// count (the "Watch" button), not the legacy watchers_count alias for
// stargazers.
type Repository struct {
	Description string
	Language    string
	Stars       int
	Forks       int
	Watchers    int
}

// ReleaseStats is the rollup over a repository's release list: the sum of
// every asset's download count across all non-draft releases.
type ReleaseStats struct {
	Downloads int
}

// TrafficViews holds the view counters for the API's fixed trailing
// window (14 days): total page views and unique visitors.
type TrafficViews struct {
	Count   int
	Uniques int
}
