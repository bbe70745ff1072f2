// Package userprofile implements the per-user profile config: name, priority,
// profile picture and the blinded message requests flag. A Store has a single
// owner and does no locking of its own.
package userprofile

import (
	"fmt"

	"github.com/buzkaaclicker/userconf"
)

type Store struct {
	rec   record
	dirty bool
}

var _ userconf.Config = (*Store)(nil)

// New returns a store holding the default (empty) profile.
func New() *Store {
	return &Store{}
}

func FromDump(dump []byte) (*Store, error) {
	s := New()
	if err := s.Load(dump); err != nil {
		return nil, fmt.Errorf("load dump: %w", err)
	}
	return s, nil
}

func (s *Store) Name() string {
	return s.rec.name
}

func (s *Store) Priority() int64 {
	return s.rec.priority
}

// ProfilePic returns a copy of the picture and whether one is set.
func (s *Store) ProfilePic() (userconf.ProfilePic, bool) {
	if !s.rec.pic.IsSet() {
		return userconf.ProfilePic{}, false
	}
	return normalizePic(s.rec.pic), true
}

func (s *Store) BlindedMsgRequests() bool {
	return s.rec.blinded
}

func (s *Store) Info() userconf.UserInfo {
	info := userconf.UserInfo{
		Name:     s.rec.name,
		Priority: s.rec.priority,
	}
	if pic, ok := s.ProfilePic(); ok {
		info.ProfilePic = &pic
	}
	return info
}

func (s *Store) NeedsDump() bool {
	return s.dirty
}

func (s *Store) Seqno() uint64 {
	return s.rec.seqno()
}

func (s *Store) SetName(name string) error {
	if err := userconf.ValidateName(name); err != nil {
		return err
	}
	if name == s.rec.name {
		return nil
	}
	seq, err := s.nextSeq()
	if err != nil {
		return err
	}
	s.rec.nameSeq = seq
	s.rec.name = name
	s.dirty = true
	return nil
}

// SetPriority writes the priority produced by userconf.TransitionPriority,
// which may differ from requested.
func (s *Store) SetPriority(requested int64) error {
	applied, err := userconf.TransitionPriority(s.rec.priority, requested)
	if err != nil {
		return err
	}
	if applied == s.rec.priority {
		return nil
	}
	seq, err := s.nextSeq()
	if err != nil {
		return err
	}
	s.rec.prioritySeq = seq
	s.rec.priority = applied
	s.dirty = true
	return nil
}

// SetProfilePic replaces the picture. A zero ProfilePic clears it.
func (s *Store) SetProfilePic(pic userconf.ProfilePic) error {
	if err := userconf.ValidateProfilePic(pic); err != nil {
		return err
	}
	pic = normalizePic(pic)
	if pic.Equal(s.rec.pic) {
		return nil
	}
	seq, err := s.nextSeq()
	if err != nil {
		return err
	}
	s.rec.picSeq = seq
	s.rec.pic = pic
	s.dirty = true
	return nil
}

func (s *Store) SetBlindedMsgRequests(enabled bool) error {
	if enabled == s.rec.blinded {
		return nil
	}
	seq, err := s.nextSeq()
	if err != nil {
		return err
	}
	s.rec.blindedSeq = seq
	s.rec.blinded = enabled
	s.dirty = true
	return nil
}

// nextSeq returns the seq for the next accepted write. It fails once the
// record reached the last seq a snapshot may carry.
func (s *Store) nextSeq() (uint64, error) {
	seqno := s.rec.seqno()
	if seqno >= maxSeq-1 {
		return 0, &userconf.ValidationError{
			Field:  "seqno",
			Reason: fmt.Sprintf("%d leaves no room for another write", seqno),
		}
	}
	return seqno + 1, nil
}

func (s *Store) Dump() ([]byte, error) {
	dump, err := encodeSnapshot(&s.rec)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	s.dirty = false
	return dump, nil
}

// Load replaces the whole record. On error the store is left as it was.
func (s *Store) Load(dump []byte) error {
	rec, err := decodeSnapshot(dump)
	if err != nil {
		return err
	}
	s.rec = rec
	s.dirty = false
	return nil
}
