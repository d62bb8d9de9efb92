package corpus

import (
	"sort"
)

// RetentionPolicy selects which copy of a duplicated file survives
type RetentionPolicy int

const (
	// KeepNewest keeps the copy with the latest creation time
	KeepNewest RetentionPolicy = iota
	// KeepOldest keeps the copy with the earliest creation time
	KeepOldest
)

// String returns the policy name used in reports
func (p RetentionPolicy) String() string {
	if p == KeepOldest {
		return "keep-oldest"
	}
	return "keep-newest"
}

// PolicyFromFlags maps the --keep-newest/--keep-oldest pair onto a policy.
// keepOldest wins whenever it is set.
func PolicyFromFlags(keepNewest, keepOldest bool) RetentionPolicy {
	if keepOldest || !keepNewest {
		return KeepOldest
	}
	return KeepNewest
}

// DuplicateGroup is a display name and every record sharing it, in listing order
type DuplicateGroup struct {
	DisplayName string
	Files       []FileRecord
}

// DuplicateGroups holds groups ordered by where their name first repeats
type DuplicateGroups []DuplicateGroup

// Lookup returns the records sharing name, or nil when name is not duplicated
func (g DuplicateGroups) Lookup(name string) []FileRecord {
	for _, group := range g {
		if group.DisplayName == name {
			return group.Files
		}
	}
	return nil
}

// FileCount returns the number of records across all groups
func (g DuplicateGroups) FileCount() int {
	total := 0
	for _, group := range g {
		total += len(group.Files)
	}
	return total
}

// RedundantCount returns how many records would be removed, one per group survives
func (g DuplicateGroups) RedundantCount() int {
	return g.FileCount() - len(g)
}

// GroupDuplicates partitions records by display name and returns only the
// names seen at least twice. An empty display name is a valid key.
func GroupDuplicates(records []FileRecord) DuplicateGroups {
	first := make(map[string]FileRecord, len(records))
	index := make(map[string]int)
	var groups DuplicateGroups

	for _, rec := range records {
		seen, ok := first[rec.DisplayName]
		if !ok {
			first[rec.DisplayName] = rec
			continue
		}
		i, grouped := index[rec.DisplayName]
		if !grouped {
			i = len(groups)
			index[rec.DisplayName] = i
			groups = append(groups, DuplicateGroup{
				DisplayName: rec.DisplayName,
				Files:       []FileRecord{seen},
			})
		}
		groups[i].Files = append(groups[i].Files, rec)
	}

	return groups
}

// ChooseRetention stable-sorts group by CreateTime ascending and splits it
// into the single record to keep and the records to delete. Zero creation
// times sort first. A single record is kept with nothing to delete; an
// empty group yields nothing.
func ChooseRetention(group []FileRecord, keepNewest bool) (toDelete []FileRecord, toKeep FileRecord) {
	if len(group) == 0 {
		return nil, FileRecord{}
	}

	sorted := make([]FileRecord, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreateTime.Before(sorted[j].CreateTime)
	})

	if keepNewest {
		last := len(sorted) - 1
		return sorted[:last], sorted[last]
	}
	return sorted[1:], sorted[0]
}

// Choose applies the policy to a group
func (p RetentionPolicy) Choose(group []FileRecord) ([]FileRecord, FileRecord) {
	return ChooseRetention(group, p == KeepNewest)
}
