package userprofile

import (
	"bytes"
	"fmt"

	"github.com/buzkaaclicker/userconf"
	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

const snapshotVersion uint8 = 1

// Snapshots are [version, payload, checksum] with payload being the
// msgpack-encoded wireRecord and checksum its xxhash64.
type envelope struct {
	_msgpack struct{} `msgpack:",as_array"`

	Version  uint8
	Payload  []byte
	Checksum uint64
}

type wireRecord struct {
	_msgpack struct{} `msgpack:",as_array"`

	NameSeq     uint64
	Name        string
	PrioritySeq uint64
	Priority    int64
	PicSeq      uint64
	PicURL      string
	PicKey      []byte
	BlindedSeq  uint64
	Blinded     bool
}

func toWire(r *record) wireRecord {
	w := wireRecord{
		NameSeq:     r.nameSeq,
		Name:        r.name,
		PrioritySeq: r.prioritySeq,
		Priority:    r.priority,
		PicSeq:      r.picSeq,
		PicURL:      r.pic.URL,
		BlindedSeq:  r.blindedSeq,
		Blinded:     r.blinded,
	}
	// nil and empty keys must encode identically
	if len(r.pic.Key) > 0 {
		w.PicKey = r.pic.Key
	}
	return w
}

func fromWire(w wireRecord) record {
	return record{
		name:        w.Name,
		nameSeq:     w.NameSeq,
		priority:    w.Priority,
		prioritySeq: w.PrioritySeq,
		pic:         normalizePic(userconf.ProfilePic{URL: w.PicURL, Key: w.PicKey}),
		picSeq:      w.PicSeq,
		blinded:     w.Blinded,
		blindedSeq:  w.BlindedSeq,
	}
}

func encodeRecord(r *record) ([]byte, error) {
	w := toWire(r)
	return msgpack.Marshal(&w)
}

func encodeSnapshot(r *record) ([]byte, error) {
	payload, err := encodeRecord(r)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	env := envelope{
		Version:  snapshotVersion,
		Payload:  payload,
		Checksum: xxhash.Sum64(payload),
	}
	snapshot, err := msgpack.Marshal(&env)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return snapshot, nil
}

// decodeSnapshot accepts only byte-exact canonical encodings so that a given
// record has exactly one snapshot representation.
func decodeSnapshot(snapshot []byte) (record, error) {
	if len(snapshot) == 0 {
		return record{}, &userconf.DecodeError{Reason: "empty snapshot"}
	}

	var env envelope
	if err := msgpack.Unmarshal(snapshot, &env); err != nil {
		return record{}, &userconf.DecodeError{Reason: "envelope", Err: err}
	}
	if env.Version != snapshotVersion {
		return record{}, &userconf.DecodeError{
			Reason: fmt.Sprintf("unsupported version %d", env.Version),
		}
	}
	if xxhash.Sum64(env.Payload) != env.Checksum {
		return record{}, &userconf.DecodeError{Reason: "checksum mismatch"}
	}
	canonical, err := msgpack.Marshal(&env)
	if err != nil || !bytes.Equal(canonical, snapshot) {
		return record{}, &userconf.DecodeError{Reason: "non-canonical envelope", Err: err}
	}

	var w wireRecord
	if err := msgpack.Unmarshal(env.Payload, &w); err != nil {
		return record{}, &userconf.DecodeError{Reason: "record", Err: err}
	}
	rec := fromWire(w)
	if seqno := rec.seqno(); seqno >= maxSeq {
		return record{}, &userconf.DecodeError{Reason: fmt.Sprintf("seqno %d out of range", seqno)}
	}
	canonical, err = encodeRecord(&rec)
	if err != nil || !bytes.Equal(canonical, env.Payload) {
		return record{}, &userconf.DecodeError{Reason: "non-canonical record", Err: err}
	}
	if err := rec.validate(); err != nil {
		return record{}, &userconf.DecodeError{Reason: "invalid record", Err: err}
	}
	return rec, nil
}
