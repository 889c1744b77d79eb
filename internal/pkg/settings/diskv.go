package settings

import (
	"github.com/peterbourgon/diskv"
)

// Diskv is the default disk-backed Manager, one file per key under a base
// directory.
type Diskv struct {
	d *diskv.Diskv
}

var _ Manager = (*Diskv)(nil)

func NewDiskv(basePath string) *Diskv {
	return &Diskv{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			Transform:    func(s string) []string { return []string{} },
			CacheSizeMax: 64 * 1024,
		}),
	}
}

func (m *Diskv) Clear() error {
	return m.d.EraseAll()
}

func (m *Diskv) Set(key, value string) error {
	return m.d.Write(key, []byte(value))
}

func (m *Diskv) Get(key string) (string, bool) {
	value, err := m.d.Read(key)
	if err != nil {
		return "", false
	}
	return string(value), true
}

func (m *Diskv) ContainsKey(key string) bool {
	return m.d.Has(key)
}
