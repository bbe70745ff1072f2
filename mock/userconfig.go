package mock

import (
	"context"

	"github.com/buzkaaclicker/userconf"
)

type UserConfigService struct {
	UserInfoFn func(ctx context.Context, userId userconf.UserId) (userconf.UserInfo, error)

	SetUserInfoFn func(ctx context.Context, userId userconf.UserId, update userconf.UserInfoUpdate) (userconf.UserInfo, error)

	BlindedMsgRequestsFn func(ctx context.Context, userId userconf.UserId) (bool, error)

	SetBlindedMsgRequestsFn func(ctx context.Context, userId userconf.UserId, enabled bool) error

	DumpFn func(ctx context.Context, userId userconf.UserId) ([]byte, error)

	MergeFn func(ctx context.Context, userId userconf.UserId, snapshot []byte) (bool, error)
}

var _ userconf.UserConfigService = UserConfigService{}

func (s UserConfigService) UserInfo(ctx context.Context, userId userconf.UserId) (userconf.UserInfo, error) {
	return s.UserInfoFn(ctx, userId)
}

func (s UserConfigService) SetUserInfo(ctx context.Context, userId userconf.UserId,
	update userconf.UserInfoUpdate) (userconf.UserInfo, error) {
	return s.SetUserInfoFn(ctx, userId, update)
}

func (s UserConfigService) BlindedMsgRequests(ctx context.Context, userId userconf.UserId) (bool, error) {
	return s.BlindedMsgRequestsFn(ctx, userId)
}

func (s UserConfigService) SetBlindedMsgRequests(ctx context.Context, userId userconf.UserId, enabled bool) error {
	return s.SetBlindedMsgRequestsFn(ctx, userId, enabled)
}

func (s UserConfigService) Dump(ctx context.Context, userId userconf.UserId) ([]byte, error) {
	return s.DumpFn(ctx, userId)
}

func (s UserConfigService) Merge(ctx context.Context, userId userconf.UserId, snapshot []byte) (bool, error) {
	return s.MergeFn(ctx, userId, snapshot)
}
