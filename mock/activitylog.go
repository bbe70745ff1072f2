package mock

import (
	"context"

	"github.com/buzkaaclicker/userconf"
)

type ActivityStore struct {
	AddLogFn func(ctx context.Context, userId userconf.UserId, activity userconf.Activity) error

	ByUserIdFn func(ctx context.Context, userId userconf.UserId, beforeId int64, limit int32) ([]userconf.ActivityLog, error)
}

func (s ActivityStore) AddLog(ctx context.Context, userId userconf.UserId, activity userconf.Activity) error {
	return s.AddLogFn(ctx, userId, activity)
}

func (s ActivityStore) ByUserId(ctx context.Context, userId userconf.UserId,
	beforeId int64, limit int32) ([]userconf.ActivityLog, error) {
	return s.ByUserIdFn(ctx, userId, beforeId, limit)
}
