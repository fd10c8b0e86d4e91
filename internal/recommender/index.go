package recommender

import "sort"

// Index maps normalized district keys to their display name and records. It
// is built once, never mutated afterwards, and safe for concurrent readers.
type Index struct {
	display map[string]string
	records map[string][]Record
	keys    []string
}

// BuildIndex derives the district index from the full record set. The
// first-seen raw district string wins as the display name for a key; records
// whose district normalizes to an empty key are dropped.
func BuildIndex(records []Record) *Index {
	idx := &Index{
		display: make(map[string]string),
		records: make(map[string][]Record),
	}
	for _, r := range records {
		key := NormalizeDistrict(r.District)
		if key == "" {
			continue
		}
		if _, ok := idx.display[key]; !ok {
			idx.display[key] = r.District
			idx.keys = append(idx.keys, key)
		}
		idx.records[key] = append(idx.records[key], r)
	}
	sort.Strings(idx.keys)
	return idx
}

// Len returns the number of distinct districts in the index.
func (idx *Index) Len() int {
	return len(idx.keys)
}

// DisplayName returns the display name registered for a normalized key.
func (idx *Index) DisplayName(key string) (string, bool) {
	name, ok := idx.display[key]
	return name, ok
}

// Records returns the records registered for a normalized key, in dataset
// insertion order.
func (idx *Index) Records(key string) []Record {
	return idx.records[key]
}
