package core

import (
	"github.com/ZanzyTHEbar/errbuilder-go"

	"depwarden/internal/types"
)

// Diff isolates the added and version-changed records between two snapshots
// of the same manifest path. Removed dependencies carry no forward risk and
// are excluded. Output order follows head insertion order so repeated
// evaluations of identical inputs produce identical reports.
func Diff(base *types.ManifestSnapshot, head types.ManifestSnapshot) (types.ChangeSet, error) {
	if base != nil && base.SourcePath != head.SourcePath {
		return types.ChangeSet{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("snapshots are not comparable: source paths differ")
	}

	result := types.ChangeSet{SourcePath: head.SourcePath}

	if base == nil {
		result.Added = append(result.Added, head.Records...)
		return result, nil
	}

	baseVersions := map[string]map[string]types.DependencyRecord{}
	for _, record := range base.Records {
		if baseVersions[record.Name] == nil {
			baseVersions[record.Name] = map[string]types.DependencyRecord{}
		}
		baseVersions[record.Name][record.ResolvedVersion] = record
	}

	for _, record := range head.Records {
		versions, known := baseVersions[record.Name]
		if !known {
			result.Added = append(result.Added, record)
			continue
		}
		if _, same := versions[record.ResolvedVersion]; same {
			continue
		}
		// A name present at a different resolved version. With npm-style
		// duplication there can be several base versions; pair against an
		// arbitrary-but-stable one (the record order of base decides).
		from := pickBaseCounterpart(base.Records, record.Name)
		result.Changed = append(result.Changed, types.VersionChange{From: from, To: record})
	}

	return result, nil
}

func pickBaseCounterpart(records []types.DependencyRecord, name string) types.DependencyRecord {
	for _, record := range records {
		if record.Name == name {
			return record
		}
	}
	return types.DependencyRecord{}
}
