package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/buzkaaclicker/userconf"
)

type ActivityStore struct {
	lastId int64
	logs   map[userconf.UserId][]userconf.ActivityLog
	mutex  sync.RWMutex
}

var _ userconf.ActivityStore = (*ActivityStore)(nil)

func NewActivityStore() *ActivityStore {
	return &ActivityStore{
		lastId: 0,
		logs:   make(map[userconf.UserId][]userconf.ActivityLog),
	}
}

func (s *ActivityStore) AddLog(ctx context.Context, userId userconf.UserId, activity userconf.Activity) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.lastId++
	s.logs[userId] = append(s.logs[userId], userconf.ActivityLog{
		Id:        s.lastId,
		CreatedAt: time.Now().UTC(),
		UserId:    userId,
		Name:      activity.Name,
		Data:      activity.Data,
	})
	return nil
}

func (s *ActivityStore) ByUserId(ctx context.Context, userId userconf.UserId,
	beforeId int64, limit int32) ([]userconf.ActivityLog, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	logs := s.logs[userId]
	result := make([]userconf.ActivityLog, 0, len(logs))
	// stored oldest first, returned newest first
	for i := len(logs) - 1; i >= 0 && int32(len(result)) < limit; i-- {
		if beforeId >= 0 && logs[i].Id >= beforeId {
			continue
		}
		result = append(result, logs[i])
	}
	return result, nil
}
