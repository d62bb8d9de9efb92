package corpus

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func record(id, name string, created time.Time) FileRecord {
	return FileRecord{
		Identifier:  "projects/p/locations/l/ragCorpora/c/ragFiles/" + id,
		DisplayName: name,
		CreateTime:  created,
	}
}

func year(y int) time.Time {
	return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
}

func ids(records []FileRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Identifier[len("projects/p/locations/l/ragCorpora/c/ragFiles/"):])
	}
	return out
}

func TestGroupDuplicates(t *testing.T) {
	tests := []struct {
		name  string
		input []FileRecord
		want  map[string][]string
		order []string
	}{
		{
			name:  "empty input",
			input: nil,
			want:  map[string][]string{},
		},
		{
			name: "no duplicates",
			input: []FileRecord{
				record("1", "a.pdf", year(2020)),
				record("2", "b.pdf", year(2020)),
			},
			want: map[string][]string{},
		},
		{
			name: "one duplicated name",
			input: []FileRecord{
				record("t1", "A", year(2020)),
				record("t2", "A", year(2021)),
				record("t3", "B", year(2020)),
			},
			want:  map[string][]string{"A": {"t1", "t2"}},
			order: []string{"A"},
		},
		{
			name: "three copies keep encounter order",
			input: []FileRecord{
				record("3", "A", year(2022)),
				record("1", "A", year(2020)),
				record("x", "B", year(2020)),
				record("2", "A", year(2021)),
			},
			want:  map[string][]string{"A": {"3", "1", "2"}},
			order: []string{"A"},
		},
		{
			name: "empty display name is a key",
			input: []FileRecord{
				record("1", "", time.Time{}),
				record("2", "", time.Time{}),
				record("3", "c", time.Time{}),
			},
			want:  map[string][]string{"": {"1", "2"}},
			order: []string{""},
		},
		{
			name: "groups ordered by first repeat",
			input: []FileRecord{
				record("b1", "B", year(2020)),
				record("a1", "A", year(2020)),
				record("a2", "A", year(2020)),
				record("b2", "B", year(2020)),
			},
			want:  map[string][]string{"A": {"a1", "a2"}, "B": {"b1", "b2"}},
			order: []string{"A", "B"},
		},
		{
			name: "group opens on the second copy",
			input: []FileRecord{
				record("a1", "A", year(2020)),
				record("b1", "B", year(2020)),
				record("b2", "B", year(2020)),
				record("a2", "A", year(2020)),
			},
			want:  map[string][]string{"A": {"a1", "a2"}, "B": {"b1", "b2"}},
			order: []string{"B", "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := GroupDuplicates(tt.input)

			got := make(map[string][]string, len(groups))
			var order []string
			for _, g := range groups {
				got[g.DisplayName] = ids(g.Files)
				order = append(order, g.DisplayName)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("GroupDuplicates() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.order, order, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("group order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGroupDuplicates_MembersMatchFilteredInput(t *testing.T) {
	names := []string{"a", "b", "a", "c", "b", "a", "d", ""}
	var input []FileRecord
	counts := map[string]int{}
	for i, n := range names {
		input = append(input, record(fmt.Sprintf("%d", i), n, year(2000+i)))
		counts[n]++
	}

	groups := GroupDuplicates(input)

	var want []string
	for i, n := range names {
		if counts[n] >= 2 {
			want = append(want, fmt.Sprintf("%d", i))
		}
	}
	var got []string
	for _, g := range groups {
		if len(g.Files) < 2 {
			t.Errorf("group %q has %d files, want at least 2", g.DisplayName, len(g.Files))
		}
		got = append(got, ids(g.Files)...)
	}

	sortStrings := cmpopts.SortSlices(func(a, b string) bool { return a < b })
	if diff := cmp.Diff(want, got, sortStrings); diff != "" {
		t.Errorf("group members mismatch (-want +got):\n%s", diff)
	}
	if groups.FileCount() != 5 {
		t.Errorf("FileCount() = %d, want 5", groups.FileCount())
	}
	if groups.RedundantCount() != 3 {
		t.Errorf("RedundantCount() = %d, want 3", groups.RedundantCount())
	}
}

func TestDuplicateGroups_Lookup(t *testing.T) {
	groups := GroupDuplicates([]FileRecord{
		record("1", "A", year(2020)),
		record("2", "A", year(2021)),
	})

	if got := ids(groups.Lookup("A")); !cmp.Equal(got, []string{"1", "2"}) {
		t.Errorf("Lookup(A) = %v", got)
	}
	if got := groups.Lookup("missing"); got != nil {
		t.Errorf("Lookup(missing) = %v, want nil", got)
	}
}

func TestChooseRetention(t *testing.T) {
	tests := []struct {
		name       string
		group      []FileRecord
		keepNewest bool
		wantKeep   string
		wantDelete []string
	}{
		{
			name: "keep newest",
			group: []FileRecord{
				record("t1", "A", year(2020)),
				record("t2", "A", year(2021)),
			},
			keepNewest: true,
			wantKeep:   "t2",
			wantDelete: []string{"t1"},
		},
		{
			name: "keep oldest",
			group: []FileRecord{
				record("t1", "A", year(2020)),
				record("t2", "A", year(2021)),
			},
			keepNewest: false,
			wantKeep:   "t1",
			wantDelete: []string{"t2"},
		},
		{
			name: "unsorted input keep newest",
			group: []FileRecord{
				record("mid", "A", year(2021)),
				record("new", "A", year(2023)),
				record("old", "A", year(2019)),
			},
			keepNewest: true,
			wantKeep:   "new",
			wantDelete: []string{"old", "mid"},
		},
		{
			name: "identical timestamps keep last listed",
			group: []FileRecord{
				record("first", "A", year(2020)),
				record("second", "A", year(2020)),
				record("third", "A", year(2020)),
			},
			keepNewest: true,
			wantKeep:   "third",
			wantDelete: []string{"first", "second"},
		},
		{
			name: "identical timestamps keep oldest keeps first listed",
			group: []FileRecord{
				record("first", "A", year(2020)),
				record("second", "A", year(2020)),
			},
			keepNewest: false,
			wantKeep:   "first",
			wantDelete: []string{"second"},
		},
		{
			name: "missing creation time sorts first",
			group: []FileRecord{
				record("dated", "A", year(2020)),
				record("undated", "A", time.Time{}),
			},
			keepNewest: true,
			wantKeep:   "dated",
			wantDelete: []string{"undated"},
		},
		{
			name:       "single record is kept",
			group:      []FileRecord{record("only", "A", year(2020))},
			keepNewest: true,
			wantKeep:   "only",
			wantDelete: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toDelete, toKeep := ChooseRetention(tt.group, tt.keepNewest)

			if got := ids([]FileRecord{toKeep})[0]; got != tt.wantKeep {
				t.Errorf("kept %q, want %q", got, tt.wantKeep)
			}
			if diff := cmp.Diff(tt.wantDelete, ids(toDelete)); diff != "" {
				t.Errorf("toDelete mismatch (-want +got):\n%s", diff)
			}
			if len(toDelete) != len(tt.group)-1 {
				t.Errorf("deleted %d records, want %d", len(toDelete), len(tt.group)-1)
			}
		})
	}
}

func TestChooseRetention_PartitionsGroup(t *testing.T) {
	group := []FileRecord{
		record("a", "A", year(2024)),
		record("b", "A", year(2019)),
		record("c", "A", time.Time{}),
		record("d", "A", year(2019)),
	}

	for _, keepNewest := range []bool{true, false} {
		toDelete, toKeep := ChooseRetention(group, keepNewest)

		all := append(ids(toDelete), ids([]FileRecord{toKeep})...)
		sortStrings := cmpopts.SortSlices(func(a, b string) bool { return a < b })
		if diff := cmp.Diff(ids(group), all, sortStrings); diff != "" {
			t.Errorf("keepNewest=%v: partition mismatch (-want +got):\n%s", keepNewest, diff)
		}
		for _, d := range toDelete {
			if d.Identifier == toKeep.Identifier {
				t.Errorf("keepNewest=%v: %s both kept and deleted", keepNewest, d.Identifier)
			}
		}
	}

	_, newest := ChooseRetention(group, true)
	if ids([]FileRecord{newest})[0] != "a" {
		t.Errorf("newest kept = %s, want a", newest.Identifier)
	}
	_, oldest := ChooseRetention(group, false)
	if ids([]FileRecord{oldest})[0] != "c" {
		t.Errorf("oldest kept = %s, want c", oldest.Identifier)
	}
}

func TestChooseRetention_DoesNotReorderInput(t *testing.T) {
	group := []FileRecord{
		record("new", "A", year(2023)),
		record("old", "A", year(2019)),
	}

	ChooseRetention(group, true)

	if diff := cmp.Diff([]string{"new", "old"}, ids(group)); diff != "" {
		t.Errorf("input reordered (-want +got):\n%s", diff)
	}
}

func TestChooseRetention_Empty(t *testing.T) {
	toDelete, toKeep := ChooseRetention(nil, true)
	if toDelete != nil {
		t.Errorf("toDelete = %v, want nil", toDelete)
	}
	if toKeep != (FileRecord{}) {
		t.Errorf("toKeep = %+v, want zero", toKeep)
	}
}

func TestPolicyFromFlags(t *testing.T) {
	tests := []struct {
		name       string
		keepNewest bool
		keepOldest bool
		want       RetentionPolicy
	}{
		{name: "defaults", keepNewest: true, keepOldest: false, want: KeepNewest},
		{name: "keep oldest overrides", keepNewest: true, keepOldest: true, want: KeepOldest},
		{name: "newest disabled", keepNewest: false, keepOldest: false, want: KeepOldest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolicyFromFlags(tt.keepNewest, tt.keepOldest); got != tt.want {
				t.Errorf("PolicyFromFlags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRetentionPolicy_Choose(t *testing.T) {
	group := []FileRecord{
		record("t1", "A", year(2020)),
		record("t2", "A", year(2021)),
	}

	_, kept := KeepOldest.Choose(group)
	if kept.Identifier != group[0].Identifier {
		t.Errorf("KeepOldest kept %s", kept.Identifier)
	}
	_, kept = KeepNewest.Choose(group)
	if kept.Identifier != group[1].Identifier {
		t.Errorf("KeepNewest kept %s", kept.Identifier)
	}
	if KeepOldest.String() != "keep-oldest" || KeepNewest.String() != "keep-newest" {
		t.Errorf("unexpected policy names %q %q", KeepOldest, KeepNewest)
	}
}
