package mock

import (
	"context"

	"github.com/buzkaaclicker/userconf"
)

type DumpStore struct {
	SaveDumpFn func(ctx context.Context, userId userconf.UserId, dump []byte) error

	LoadDumpFn func(ctx context.Context, userId userconf.UserId) ([]byte, error)
}

func (s DumpStore) SaveDump(ctx context.Context, userId userconf.UserId, dump []byte) error {
	return s.SaveDumpFn(ctx, userId, dump)
}

func (s DumpStore) LoadDump(ctx context.Context, userId userconf.UserId) ([]byte, error) {
	return s.LoadDumpFn(ctx, userId)
}
