// Package session owns the open profile stores of all users. Every operation
// on a user's store runs under that user's lock and persists the dump before
// returning, so a store is never left dirty between calls.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/buzkaaclicker/userconf"
	"github.com/buzkaaclicker/userconf/userprofile"
	"github.com/sirupsen/logrus"
)

type Manager struct {
	Dumps userconf.DumpStore
	// Optional.
	Activities userconf.ActivityStore

	mutex sync.Mutex
	open  map[userconf.UserId]*openProfile
}

type openProfile struct {
	mutex   sync.Mutex
	store   *userprofile.Store
	evicted bool
}

var _ userconf.UserConfigService = (*Manager)(nil)

func NewManager(dumps userconf.DumpStore, activities userconf.ActivityStore) *Manager {
	return &Manager{
		Dumps:      dumps,
		Activities: activities,
		open:       map[userconf.UserId]*openProfile{},
	}
}

func (m *Manager) UserInfo(ctx context.Context, userId userconf.UserId) (userconf.UserInfo, error) {
	var info userconf.UserInfo
	err := m.withProfile(ctx, userId, func(s *userprofile.Store) error {
		info = s.Info()
		return nil
	})
	return info, err
}

// SetUserInfo replaces name, priority and picture together. All three are
// validated before any is written.
func (m *Manager) SetUserInfo(ctx context.Context, userId userconf.UserId,
	update userconf.UserInfoUpdate) (userconf.UserInfo, error) {
	var info userconf.UserInfo
	var seqno uint64
	changed := false
	err := m.withProfile(ctx, userId, func(s *userprofile.Store) error {
		pic := userconf.ProfilePic{}
		if update.ProfilePic != nil {
			pic = *update.ProfilePic
		}
		if err := userconf.ValidateName(update.Name); err != nil {
			return err
		}
		if _, err := userconf.TransitionPriority(s.Priority(), update.Priority); err != nil {
			return err
		}
		if err := userconf.ValidateProfilePic(pic); err != nil {
			return err
		}

		before := s.Seqno()
		if err := s.SetName(update.Name); err != nil {
			return err
		}
		if err := s.SetPriority(update.Priority); err != nil {
			return err
		}
		if err := s.SetProfilePic(pic); err != nil {
			return err
		}
		info = s.Info()
		seqno = s.Seqno()
		changed = seqno != before
		return nil
	})
	if err != nil {
		return userconf.UserInfo{}, err
	}
	if changed {
		m.logActivity(ctx, userId, userconf.Activity{Name: userconf.ActivityProfileUpdated, Data: map[string]interface{}{
			"seqno":    seqno,
			"priority": info.Priority,
		}})
	}
	return info, nil
}

func (m *Manager) BlindedMsgRequests(ctx context.Context, userId userconf.UserId) (bool, error) {
	var enabled bool
	err := m.withProfile(ctx, userId, func(s *userprofile.Store) error {
		enabled = s.BlindedMsgRequests()
		return nil
	})
	return enabled, err
}

func (m *Manager) SetBlindedMsgRequests(ctx context.Context, userId userconf.UserId, enabled bool) error {
	changed := false
	err := m.withProfile(ctx, userId, func(s *userprofile.Store) error {
		changed = s.BlindedMsgRequests() != enabled
		return s.SetBlindedMsgRequests(enabled)
	})
	if err != nil {
		return err
	}
	if changed {
		m.logActivity(ctx, userId, userconf.Activity{Name: userconf.ActivityBlindedMsgsChanged, Data: map[string]interface{}{
			"enabled": enabled,
		}})
	}
	return nil
}

func (m *Manager) Dump(ctx context.Context, userId userconf.UserId) ([]byte, error) {
	var dump []byte
	err := m.withProfile(ctx, userId, func(s *userprofile.Store) error {
		var err error
		dump, err = s.Dump()
		return err
	})
	return dump, err
}

// Merge folds a snapshot received from another device of the same user into
// the user's profile. The merged state is persisted before returning.
func (m *Manager) Merge(ctx context.Context, userId userconf.UserId, snapshot []byte) (bool, error) {
	var changed bool
	var seqno uint64
	err := m.withProfile(ctx, userId, func(s *userprofile.Store) error {
		var err error
		changed, err = s.Merge(snapshot)
		seqno = s.Seqno()
		return err
	})
	if err != nil {
		return false, err
	}

	logrus.WithField("user_id", userId).
		WithField("changed", changed).
		WithField("seqno", seqno).
		Debugln("Merged profile snapshot.")
	if changed {
		m.logActivity(ctx, userId, userconf.Activity{Name: userconf.ActivityProfileMerged, Data: map[string]interface{}{
			"seqno": seqno,
		}})
	}
	return changed, nil
}

// Close drops the user's store from memory. The next call reloads it from Dumps.
func (m *Manager) Close(userId userconf.UserId) {
	m.mutex.Lock()
	p, ok := m.open[userId]
	m.mutex.Unlock()
	if !ok {
		return
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()
	m.evict(userId, p)
}

func (m *Manager) withProfile(ctx context.Context, userId userconf.UserId, fn func(s *userprofile.Store) error) error {
	p, err := m.acquire(ctx, userId)
	if err != nil {
		return err
	}
	defer p.mutex.Unlock()

	if err := fn(p.store); err != nil {
		return err
	}
	return m.persist(ctx, userId, p)
}

// acquire returns the user's open profile with its mutex held, loading the
// store on first use.
func (m *Manager) acquire(ctx context.Context, userId userconf.UserId) (*openProfile, error) {
	for {
		m.mutex.Lock()
		if m.open == nil {
			m.open = map[userconf.UserId]*openProfile{}
		}
		p, ok := m.open[userId]
		if !ok {
			p = &openProfile{}
			m.open[userId] = p
		}
		m.mutex.Unlock()

		p.mutex.Lock()
		if p.evicted {
			p.mutex.Unlock()
			continue
		}
		if p.store == nil {
			store, err := m.load(ctx, userId)
			if err != nil {
				m.evict(userId, p)
				p.mutex.Unlock()
				return nil, err
			}
			p.store = store
		}
		return p, nil
	}
}

func (m *Manager) load(ctx context.Context, userId userconf.UserId) (*userprofile.Store, error) {
	dump, err := m.Dumps.LoadDump(ctx, userId)
	if err != nil {
		if errors.Is(err, userconf.ErrDumpNotFound) {
			return userprofile.New(), nil
		}
		return nil, fmt.Errorf("load dump: %w", err)
	}
	store, err := userprofile.FromDump(dump)
	if err != nil {
		return nil, fmt.Errorf("stored dump of user %d: %w", userId, err)
	}
	return store, nil
}

// persist saves the dump if the store changed. When saving fails the store is
// evicted, dropping the unsaved change.
func (m *Manager) persist(ctx context.Context, userId userconf.UserId, p *openProfile) error {
	if !p.store.NeedsDump() {
		return nil
	}
	dump, err := p.store.Dump()
	if err == nil {
		err = m.Dumps.SaveDump(ctx, userId, dump)
	}
	if err != nil {
		logrus.WithField("user_id", userId).
			WithError(err).
			Warningln("Could not persist profile dump, dropping in-memory state.")
		m.evict(userId, p)
		return fmt.Errorf("save dump: %w", err)
	}
	return nil
}

// evict requires p.mutex to be held.
func (m *Manager) evict(userId userconf.UserId, p *openProfile) {
	p.evicted = true
	m.mutex.Lock()
	if m.open[userId] == p {
		delete(m.open, userId)
	}
	m.mutex.Unlock()
}

func (m *Manager) logActivity(ctx context.Context, userId userconf.UserId, activity userconf.Activity) {
	if m.Activities == nil {
		return
	}
	if err := m.Activities.AddLog(ctx, userId, activity); err != nil {
		logrus.WithField("user_id", userId).
			WithField("activity", activity.Name).
			WithError(err).
			Warningln("Could not add activity log.")
	}
}
