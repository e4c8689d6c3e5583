package querycache

import "strings"

// Key identifies one cached query: the entity name followed by the ordered
// parameters that scope it, e.g. ("exercises", userID, courseID).
type Key []string

func NewKey(entity string, params ...string) Key {
	k := make(Key, 0, len(params)+1)
	k = append(k, entity)
	return append(k, params...)
}

// Entity is the first element, used as the metrics label.
func (k Key) Entity() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}

func (k Key) String() string {
	return strings.Join(k, "/")
}

// HasPrefix compares element-wise, so documents/u1 is not a prefix of documents/u10.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, p := range prefix {
		if k[i] != p {
			return false
		}
	}
	return true
}

// id is the map key. The unit separator keeps ("a/b") and ("a","b") apart.
func (k Key) id() string {
	return strings.Join(k, "\x1f")
}
