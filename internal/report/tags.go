package report

import (
	"iter"
	"maps"
	"slices"

	"github.com/gorewood/worklog/internal/worklog"
)

// Inventory separates the tags of the most recent tags line from every tag
// used before it.
type Inventory struct {
	Previous []string `json:"previous"`
	New      []string `json:"new"`
}

// TagInventory scans all tag lines. Previous is the union of every tag line
// except the last; New holds the last line's tags not found in Previous.
func TagInventory(lines iter.Seq2[worklog.Line, error]) (Inventory, error) {
	previous := map[string]struct{}{}
	var last []string

	for line, err := range lines {
		if err != nil {
			return Inventory{}, err
		}
		if line.Kind != worklog.KindTags {
			continue
		}
		for _, tag := range last {
			previous[tag] = struct{}{}
		}
		last = line.Tags
	}

	fresh := map[string]struct{}{}
	for _, tag := range last {
		if _, ok := previous[tag]; !ok {
			fresh[tag] = struct{}{}
		}
	}

	inv := Inventory{
		Previous: slices.Sorted(maps.Keys(previous)),
		New:      slices.Sorted(maps.Keys(fresh)),
	}
	if inv.Previous == nil {
		inv.Previous = []string{}
	}
	if inv.New == nil {
		inv.New = []string{}
	}
	return inv, nil
}
