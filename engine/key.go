package engine

// BindingKey identifies a feed partition: a source id plus the optional
// split value. Used as a map key instead of concatenated strings so a
// separator appearing inside either part cannot collide.
type BindingKey struct {
	SourceID   string
	SplitValue string
}

// FeedLineKey is the composite key both feeds are aggregated by before
// cross-feed comparison.
type FeedLineKey struct {
	SourceID string
	ItemCode string
	LotKey   string
}

// CellKey addresses one cell of a rack item. Indices are 1-based,
// matching the feed's floor/column suffix convention.
type CellKey struct {
	Floor int
	Col   int
}
