package userprofile

import (
	"bytes"
	"strings"

	"github.com/buzkaaclicker/userconf"
)

// maxSeq bounds every field seq. Snapshots at or above it are rejected and
// local writes stop below it, so a seq never wraps.
const maxSeq uint64 = 1 << 63

// record holds one last-writer-wins register per field. A register's seq is
// the record seqno at the moment the field was last written.
type record struct {
	name        string
	nameSeq     uint64
	priority    int64
	prioritySeq uint64
	pic         userconf.ProfilePic
	picSeq      uint64
	blinded     bool
	blindedSeq  uint64
}

func (r *record) seqno() uint64 {
	seq := r.nameSeq
	for _, s := range []uint64{r.prioritySeq, r.picSeq, r.blindedSeq} {
		if s > seq {
			seq = s
		}
	}
	return seq
}

func (r *record) validate() error {
	if err := userconf.ValidateName(r.name); err != nil {
		return err
	}
	if err := userconf.ValidatePriority(r.priority); err != nil {
		return err
	}
	return userconf.ValidateProfilePic(r.pic)
}

func (r *record) equal(o *record) bool {
	return r.name == o.name && r.nameSeq == o.nameSeq &&
		r.priority == o.priority && r.prioritySeq == o.prioritySeq &&
		r.pic.Equal(o.pic) && r.picSeq == o.picSeq &&
		r.blinded == o.blinded && r.blindedSeq == o.blindedSeq
}

func normalizePic(pic userconf.ProfilePic) userconf.ProfilePic {
	if !pic.IsSet() {
		return userconf.ProfilePic{}
	}
	return userconf.ProfilePic{URL: pic.URL, Key: append([]byte(nil), pic.Key...)}
}

func comparePics(a, b userconf.ProfilePic) int {
	if c := strings.Compare(a.URL, b.URL); c != 0 {
		return c
	}
	return bytes.Compare(a.Key, b.Key)
}

func compareInts(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
