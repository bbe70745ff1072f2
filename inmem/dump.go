package inmem

import (
	"context"
	"sync"

	"github.com/buzkaaclicker/userconf"
)

type DumpStore struct {
	dumps map[userconf.UserId][]byte
	mutex sync.RWMutex
}

var _ userconf.DumpStore = (*DumpStore)(nil)

func NewDumpStore() *DumpStore {
	return &DumpStore{
		dumps: map[userconf.UserId][]byte{},
	}
}

func (s *DumpStore) SaveDump(ctx context.Context, userId userconf.UserId, dump []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.dumps[userId] = append([]byte(nil), dump...)
	return nil
}

func (s *DumpStore) LoadDump(ctx context.Context, userId userconf.UserId) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	dump, ok := s.dumps[userId]
	if !ok {
		return nil, userconf.ErrDumpNotFound
	}
	return append([]byte(nil), dump...), nil
}
