package cache

import "strconv"

// Key addresses one cached query: an entity kind plus an optional id scope.
// ID zero means the unscoped list query for that kind.
type Key struct {
	Kind string
	ID   int64
}

// List is the key for "all rows of kind".
func List(kind string) Key {
	return Key{Kind: kind}
}

// ByID is the key for a single row, or an id-scoped child list (delivery
// items are keyed by their owning delivery).
func ByID(kind string, id int64) Key {
	return Key{Kind: kind, ID: id}
}

func (k Key) String() string {
	if k.ID == 0 {
		return k.Kind
	}
	return k.Kind + "/" + strconv.FormatInt(k.ID, 10)
}
