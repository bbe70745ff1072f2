package userconf

import (
	"bytes"
	"context"
	"errors"
)

var ErrDumpNotFound = errors.New("dump not found")

type UserId int64

// ProfilePic is the user's avatar location together with the key needed to
// decrypt it. Both parts are set or both are empty.
type ProfilePic struct {
	URL string
	Key []byte
}

func (p ProfilePic) IsSet() bool {
	return p.URL != "" && len(p.Key) > 0
}

func (p ProfilePic) Equal(o ProfilePic) bool {
	return p.URL == o.URL && bytes.Equal(p.Key, o.Key)
}

type UserInfo struct {
	Name     string
	Priority int64
	// Nil when no picture is set.
	ProfilePic *ProfilePic
}

// UserInfoUpdate carries a full replacement of the user info fields.
// Priority is the requested value; the applied one comes from TransitionPriority.
type UserInfoUpdate struct {
	Name       string
	Priority   int64
	ProfilePic *ProfilePic
}

// Config is implemented by every syncable config record store.
type Config interface {
	// Dump serializes the current state and clears the dirty flag.
	Dump() ([]byte, error)

	// Load replaces the current state with a previously dumped one.
	Load(dump []byte) error

	// Merge reconciles the current state with a snapshot produced elsewhere.
	// Reports whether any observable value changed.
	Merge(snapshot []byte) (bool, error)

	NeedsDump() bool

	Seqno() uint64
}

// DumpStore persists config dumps per user.
type DumpStore interface {
	SaveDump(ctx context.Context, userId UserId, dump []byte) error

	// Returns ErrDumpNotFound if nothing was saved for the user yet.
	LoadDump(ctx context.Context, userId UserId) ([]byte, error)
}

type UserConfigService interface {
	UserInfo(ctx context.Context, userId UserId) (UserInfo, error)

	SetUserInfo(ctx context.Context, userId UserId, update UserInfoUpdate) (UserInfo, error)

	BlindedMsgRequests(ctx context.Context, userId UserId) (bool, error)

	SetBlindedMsgRequests(ctx context.Context, userId UserId, enabled bool) error

	Dump(ctx context.Context, userId UserId) ([]byte, error)

	Merge(ctx context.Context, userId UserId, snapshot []byte) (bool, error)
}
