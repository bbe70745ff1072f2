package userprofile

import "strings"

// Merge folds a snapshot from another device into the store. Per field the
// register with the higher seq wins; equal seqs go to the greater value, so
// merging is commutative, associative and idempotent.
//
// The returned bool reports whether any observable value changed. The dirty
// flag is raised whenever the record changed at all, including seq-only
// adoption, so the merged state gets dumped.
func (s *Store) Merge(snapshot []byte) (bool, error) {
	remote, err := decodeSnapshot(snapshot)
	if err != nil {
		return false, err
	}

	merged, changed := mergeRecords(s.rec, remote)
	if !merged.equal(&s.rec) {
		s.rec = merged
		s.dirty = true
	}
	return changed, nil
}

func mergeRecords(local, remote record) (record, bool) {
	merged := local
	changed := false

	if remoteWins(local.nameSeq, remote.nameSeq, strings.Compare(local.name, remote.name)) {
		changed = changed || local.name != remote.name
		merged.name, merged.nameSeq = remote.name, remote.nameSeq
	}
	if remoteWins(local.prioritySeq, remote.prioritySeq, compareInts(local.priority, remote.priority)) {
		changed = changed || local.priority != remote.priority
		merged.priority, merged.prioritySeq = remote.priority, remote.prioritySeq
	}
	if remoteWins(local.picSeq, remote.picSeq, comparePics(local.pic, remote.pic)) {
		changed = changed || !local.pic.Equal(remote.pic)
		merged.pic, merged.picSeq = normalizePic(remote.pic), remote.picSeq
	}
	if remoteWins(local.blindedSeq, remote.blindedSeq, compareBools(local.blinded, remote.blinded)) {
		changed = changed || local.blinded != remote.blinded
		merged.blinded, merged.blindedSeq = remote.blinded, remote.blindedSeq
	}
	return merged, changed
}

// cmp is the local value compared to the remote one.
func remoteWins(localSeq, remoteSeq uint64, cmp int) bool {
	if localSeq != remoteSeq {
		return remoteSeq > localSeq
	}
	return cmp < 0
}
