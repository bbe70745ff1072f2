package persistent

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/buzkaaclicker/userconf"
	"github.com/redis/go-redis/v9"
)

type RedisDumpStore struct {
	Client redis.UniversalClient
	// Prepended to every key, e.g. "userconf:".
	Prefix string
}

var _ userconf.DumpStore = (*RedisDumpStore)(nil)

func (s *RedisDumpStore) key(userId userconf.UserId) string {
	return s.Prefix + "profile_dump:" + strconv.FormatInt(int64(userId), 10)
}

func (s *RedisDumpStore) SaveDump(ctx context.Context, userId userconf.UserId, dump []byte) error {
	if err := s.Client.Set(ctx, s.key(userId), dump, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisDumpStore) LoadDump(ctx context.Context, userId userconf.UserId) ([]byte, error) {
	dump, err := s.Client.Get(ctx, s.key(userId)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, userconf.ErrDumpNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return dump, nil
}
