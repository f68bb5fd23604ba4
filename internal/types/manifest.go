package types

// DependencyRecord is one entry extracted from a manifest. Immutable once
// produced by a parser. ResolvedVersion is always the locked/pinned version,
// never a range specifier.
type DependencyRecord struct {
	Ecosystem          Ecosystem         `json:"ecosystem"`
	Name               string            `json:"name"`
	RequestedSpecifier string            `json:"requested_specifier,omitempty"`
	ResolvedVersion    string            `json:"resolved_version"`
	Transitive         bool              `json:"transitive"`
	RawMetadata        map[string]string `json:"raw_metadata,omitempty"`
}

// Key identifies a record within one snapshot: (ecosystem, name, version).
// A manifest may legitimately carry the same name at multiple resolved
// versions (npm nesting); those are distinct records.
func (r DependencyRecord) Key() string {
	return string(r.Ecosystem) + ":" + r.Name + "@" + r.ResolvedVersion
}

// ManifestSnapshot is the parsed state of one manifest file at one revision.
// Fingerprint is a content hash of the raw manifest text and scopes
// suppression validity.
type ManifestSnapshot struct {
	SourcePath  string             `json:"source_path"`
	Kind        ManifestKind       `json:"kind"`
	Fingerprint string             `json:"fingerprint"`
	Records     []DependencyRecord `json:"records"`
}

// VersionChange pairs the base and head records for a dependency whose
// resolved version changed. From and To always share a name.
type VersionChange struct {
	From DependencyRecord `json:"from"`
	To   DependencyRecord `json:"to"`
}

// ChangeSet is the forward-looking diff of two snapshots of the same path.
// Removed dependencies are intentionally absent.
type ChangeSet struct {
	SourcePath string             `json:"source_path"`
	Added      []DependencyRecord `json:"added"`
	Changed    []VersionChange    `json:"changed"`
}

func (c ChangeSet) Empty() bool {
	return len(c.Added) == 0 && len(c.Changed) == 0
}
