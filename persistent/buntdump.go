package persistent

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"

	"github.com/buzkaaclicker/userconf"
	"github.com/tidwall/buntdb"
)

const buntDumpKeyPrefix = "profile_dump:"

// BuntDumpStore keeps dumps in a buntdb file (or ":memory:"). Values are
// base64 since buntdb stores strings.
type BuntDumpStore struct {
	Buntdb *buntdb.DB
}

var _ userconf.DumpStore = (*BuntDumpStore)(nil)

func buntDumpKey(userId userconf.UserId) string {
	return buntDumpKeyPrefix + strconv.FormatInt(int64(userId), 10)
}

func (s *BuntDumpStore) SaveDump(ctx context.Context, userId userconf.UserId, dump []byte) error {
	err := s.Buntdb.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(buntDumpKey(userId), base64.StdEncoding.EncodeToString(dump), nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("bunt update: %w", err)
	}
	return nil
}

func (s *BuntDumpStore) LoadDump(ctx context.Context, userId userconf.UserId) ([]byte, error) {
	var raw string
	err := s.Buntdb.View(func(tx *buntdb.Tx) error {
		var err error
		raw, err = tx.Get(buntDumpKey(userId))
		return err
	})
	switch {
	case errors.Is(err, buntdb.ErrNotFound):
		return nil, userconf.ErrDumpNotFound
	case err != nil:
		return nil, fmt.Errorf("bunt view: %w", err)
	}

	dump, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode stored value: %w", err)
	}
	return dump, nil
}
