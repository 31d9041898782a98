// Package history keeps the recent rate samples drawn by the chart.
package history

import (
	"sort"

	"github.com/nozo-moto/netchart/pkg/types"
)

type buffers struct {
	upload   *Ring
	download *Ring
}

// Store holds one pair of rings per interface. Capacity is fixed for the
// lifetime of the store.
type Store struct {
	capacity int
	ifaces   map[string]*buffers
}

func NewStore(capacity int) *Store {
	if capacity < 1 {
		capacity = 1
	}
	return &Store{
		capacity: capacity,
		ifaces:   make(map[string]*buffers),
	}
}

func (s *Store) Capacity() int { return s.capacity }

// Record appends one sample, creating the interface's buffers on first use.
func (s *Store) Record(name string, sample types.RateSample) {
	b, ok := s.ifaces[name]
	if !ok {
		b = &buffers{upload: NewRing(s.capacity), download: NewRing(s.capacity)}
		s.ifaces[name] = b
	}
	b.upload.Push(sample.UploadBps)
	b.download.Push(sample.DownloadBps)
}

// Series returns copies of the upload and download history, oldest first.
func (s *Store) Series(name string) (upload, download []float64, ok bool) {
	b, ok := s.ifaces[name]
	if !ok {
		return nil, nil, false
	}
	return b.upload.Values(), b.download.Values(), true
}

func (s *Store) Has(name string) bool {
	_, ok := s.ifaces[name]
	return ok
}

func (s *Store) Drop(name string) {
	delete(s.ifaces, name)
}

// Names returns the tracked interfaces in lexical order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.ifaces))
	for name := range s.ifaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
