package persistent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/buzkaaclicker/userconf"
	"github.com/uptrace/bun"
)

type ProfileDump struct {
	bun.BaseModel `bun:"table:profile_dump"`

	UserId    int64     `bun:",pk"`
	Data      []byte    `bun:"type:bytea,notnull"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

type PgDumpStore struct {
	DB *bun.DB
}

var _ userconf.DumpStore = (*PgDumpStore)(nil)

func (s *PgDumpStore) SaveDump(ctx context.Context, userId userconf.UserId, dump []byte) error {
	_, err := s.DB.NewInsert().
		Model(&ProfileDump{
			UserId:    int64(userId),
			Data:      dump,
			UpdatedAt: time.Now().UTC(),
		}).
		On("CONFLICT (user_id) DO UPDATE SET data=EXCLUDED.data, updated_at=EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert profile dump: %w", err)
	}
	return nil
}

func (s *PgDumpStore) LoadDump(ctx context.Context, userId userconf.UserId) ([]byte, error) {
	dump := new(ProfileDump)
	err := s.DB.NewSelect().
		Model(dump).
		Where("user_id=?", int64(userId)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, userconf.ErrDumpNotFound
		}
		return nil, fmt.Errorf("select profile dump: %w", err)
	}
	return dump.Data, nil
}
