package inkwell

// CompoundIndex represents a multi-field index on a MongoDB collection.
// A negative entry in Directions sorts that field descending; missing entries
// default to ascending.
type CompoundIndex struct {
	Fields     []string
	Directions []int
	Unique     bool
}

// NewCompoundIndex creates a non-unique ascending compound index on the given fields.
func NewCompoundIndex(fields ...string) CompoundIndex {
	return CompoundIndex{Fields: fields}
}

// NewUniqueCompoundIndex creates a unique compound index on the given fields.
func NewUniqueCompoundIndex(fields ...string) CompoundIndex {
	return CompoundIndex{Fields: fields, Unique: true}
}

// Desc marks field as descending within the index and returns the index.
func (ci CompoundIndex) Desc(field string) CompoundIndex {
	dirs := make([]int, len(ci.Fields))
	copy(dirs, ci.Directions)
	for i, f := range ci.Fields {
		if dirs[i] == 0 {
			dirs[i] = 1
		}
		if f == field {
			dirs[i] = -1
		}
	}
	ci.Directions = dirs
	return ci
}

func (ci CompoundIndex) direction(i int) int {
	if i < len(ci.Directions) && ci.Directions[i] < 0 {
		return -1
	}
	return 1
}

// Name is the index name MongoDB assigns by default, e.g. "status_1_createdAt_-1".
func (ci CompoundIndex) Name() string {
	return compoundIndexName(ci)
}
