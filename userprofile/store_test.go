package userprofile

import (
	"errors"
	"strings"
	"testing"

	"github.com/buzkaaclicker/userconf"
	"github.com/stretchr/testify/assert"
)

func TestStoreDefaults(t *testing.T) {
	assert := assert.New(t)

	s := New()
	assert.Equal("", s.Name())
	assert.Equal(userconf.NormalPriority, s.Priority())
	_, ok := s.ProfilePic()
	assert.False(ok)
	assert.False(s.BlindedMsgRequests())
	assert.False(s.NeedsDump())
	assert.Equal(uint64(0), s.Seqno())
	assert.Equal(userconf.UserInfo{}, s.Info())
}

func TestStoreSetName(t *testing.T) {
	assert := assert.New(t)

	s := New()
	assert.NoError(s.SetName("alice"))
	assert.Equal("alice", s.Name())
	assert.True(s.NeedsDump())
	assert.Equal(uint64(1), s.Seqno())

	err := s.SetName(strings.Repeat("x", userconf.MaxNameLength+1))
	assert.True(errors.Is(err, userconf.ErrValidation))
	assert.Equal("alice", s.Name())
	assert.Equal(uint64(1), s.Seqno())

	assert.NoError(s.SetName(""))
	assert.Equal("", s.Name())
	assert.Equal(uint64(2), s.Seqno())
}

func TestStoreSetPriority(t *testing.T) {
	assert := assert.New(t)

	s := New()
	assert.NoError(s.SetPriority(1))
	assert.Equal(int64(1), s.Priority())

	// already pinned keeps its rank
	assert.NoError(s.SetPriority(5))
	assert.Equal(int64(1), s.Priority())
	assert.Equal(uint64(1), s.Seqno())

	assert.NoError(s.SetPriority(userconf.HiddenPriority))
	assert.Equal(userconf.HiddenPriority, s.Priority())

	err := s.SetPriority(-3)
	assert.True(errors.Is(err, userconf.ErrValidation))
	assert.Equal(userconf.HiddenPriority, s.Priority())

	assert.NoError(s.SetPriority(4))
	assert.Equal(int64(4), s.Priority())
	assert.Equal(uint64(3), s.Seqno())
}

func TestStoreProfilePic(t *testing.T) {
	assert := assert.New(t)

	s := New()
	key := []byte{0x01, 0x02}
	assert.NoError(s.SetProfilePic(userconf.ProfilePic{URL: "https://x/y", Key: key}))

	pic, ok := s.ProfilePic()
	if assert.True(ok) {
		assert.Equal("https://x/y", pic.URL)
		assert.Equal([]byte{0x01, 0x02}, pic.Key)
	}

	// store never aliases caller memory
	key[0] = 0xff
	pic.Key[1] = 0xff
	pic, _ = s.ProfilePic()
	assert.Equal([]byte{0x01, 0x02}, pic.Key)

	err := s.SetProfilePic(userconf.ProfilePic{URL: "https://x/z"})
	assert.True(errors.Is(err, userconf.ErrValidation))
	err = s.SetProfilePic(userconf.ProfilePic{Key: []byte{0x09}})
	assert.True(errors.Is(err, userconf.ErrValidation))
	pic, ok = s.ProfilePic()
	assert.True(ok)
	assert.Equal("https://x/y", pic.URL)

	assert.NoError(s.SetProfilePic(userconf.ProfilePic{}))
	_, ok = s.ProfilePic()
	assert.False(ok)
	assert.Nil(s.Info().ProfilePic)
}

func TestStoreRejectedPicLeavesAbsence(t *testing.T) {
	assert := assert.New(t)

	s := New()
	assert.Error(s.SetProfilePic(userconf.ProfilePic{URL: "https://x/y"}))
	_, ok := s.ProfilePic()
	assert.False(ok)
	assert.False(s.NeedsDump())
	assert.Equal(uint64(0), s.Seqno())
}

func TestStoreBlindedMsgRequests(t *testing.T) {
	assert := assert.New(t)

	s := New()
	assert.NoError(s.SetBlindedMsgRequests(false))
	assert.False(s.NeedsDump())

	assert.NoError(s.SetBlindedMsgRequests(true))
	assert.True(s.BlindedMsgRequests())
	assert.True(s.NeedsDump())
	assert.Equal(uint64(1), s.Seqno())
}

func TestStoreDirtyFlag(t *testing.T) {
	assert := assert.New(t)

	s := New()
	assert.NoError(s.SetName("alice"))
	assert.True(s.NeedsDump())

	_, err := s.Dump()
	assert.NoError(err)
	assert.False(s.NeedsDump())

	// unchanged values do not dirty the record
	assert.NoError(s.SetName("alice"))
	assert.NoError(s.SetPriority(0))
	assert.NoError(s.SetProfilePic(userconf.ProfilePic{}))
	assert.NoError(s.SetBlindedMsgRequests(false))
	assert.False(s.NeedsDump())
	assert.Equal(uint64(1), s.Seqno())
}

func TestStoreInfo(t *testing.T) {
	assert := assert.New(t)

	s := New()
	assert.NoError(s.SetName("alice"))
	assert.NoError(s.SetPriority(1))
	assert.NoError(s.SetProfilePic(userconf.ProfilePic{URL: "https://x/y", Key: []byte{1}}))

	info := s.Info()
	assert.Equal("alice", info.Name)
	assert.Equal(int64(1), info.Priority)
	if assert.NotNil(info.ProfilePic) {
		assert.Equal("https://x/y", info.ProfilePic.URL)
		assert.Equal([]byte{1}, info.ProfilePic.Key)
	}
}

func TestStoreWritesStopAtLastSeqno(t *testing.T) {
	assert := assert.New(t)

	snapshot, err := encodeSnapshot(&record{name: "remote", nameSeq: maxSeq - 2})
	if !assert.NoError(err) {
		return
	}
	s, err := FromDump(snapshot)
	if !assert.NoError(err) {
		return
	}

	// last seq a snapshot may carry
	assert.NoError(s.SetName("local edit"))
	assert.Equal(maxSeq-1, s.Seqno())
	edited := dump(t, s)

	err = s.SetName("one more")
	assert.True(errors.Is(err, userconf.ErrValidation))
	assert.True(errors.Is(s.SetBlindedMsgRequests(true), userconf.ErrValidation))
	assert.True(errors.Is(s.SetPriority(userconf.PinnedPriority), userconf.ErrValidation))
	assert.Equal("local edit", s.Name())
	assert.False(s.BlindedMsgRequests())
	assert.False(s.NeedsDump())

	// the accepted edit survives merging the snapshot it was loaded from
	changed, err := s.Merge(snapshot)
	assert.NoError(err)
	assert.False(changed)
	assert.Equal("local edit", s.Name())

	restored, err := FromDump(edited)
	if assert.NoError(err) {
		assert.Equal("local edit", restored.Name())
	}
}
