package userconf

import (
	"context"
	"time"
)

const (
	ActivityProfileUpdated     = "profile_updated"
	ActivityProfileMerged      = "profile_merged"
	ActivityBlindedMsgsChanged = "blinded_msg_requests_changed"
)

type Activity struct {
	Name string
	Data map[string]interface{}
}

type ActivityLog struct {
	Id        int64
	CreatedAt time.Time
	UserId    UserId
	Name      string
	Data      map[string]interface{}
}

type ActivityStore interface {
	AddLog(ctx context.Context, userId UserId, activity Activity) error

	// "beforeId" - get logs before log with given id. If lower than 0 then gets recent logs up to "limit".
	// Logs are ordered newest first.
	ByUserId(ctx context.Context, userId UserId, beforeId int64, limit int32) ([]ActivityLog, error)
}
