package config

// Backend abstracts config storage so loading can be tested against an
// in-memory map. Everything is stored as strings; boolean keys
// round-trip through strconv.
type Backend interface {
	GetString(key string) (val string, ok bool, err error)
	SetString(key, val string) error
	Delete(key string) error
}
