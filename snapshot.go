package ssfs

import "fmt"

// SnapshotID identifies a claimed shadow-root slot.
type SnapshotID int

// Snapshot implements the "apparent purpose" of the reserved shadow-root
// slots (spec.md §9 OQ5): a point-in-time copy of the root j-node into the
// next free shadow-root slot in the superblock. This is metadata-only — data
// blocks are not reference-counted across snapshots, so mutating the live
// volume after a snapshot can overwrite blocks the snapshot's copy still
// points to. It exists to give the reserved on-disk space a concrete,
// documented purpose rather than leaving it silently unused.
func (m *Mount) Snapshot() (SnapshotID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.sb.shadowRoots {
		if m.sb.shadowRoots[i].size == -1 {
			m.sb.shadowRoots[i] = m.sb.root
			if err := m.updateSuperblock(); err != nil {
				return -1, err
			}
			return SnapshotID(i), nil
		}
	}
	return -1, fmt.Errorf("ssfs: snapshot: %w", ErrNoSpace)
}

// SnapshotRootJNode returns the raw direct-pointer array a snapshot
// captured, for inspection or a read-only walk. It does not support
// opening files through the snapshot — see SPEC_FULL.md's shadowroot module
// for why a full copy-on-write read path is out of scope.
func (m *Mount) SnapshotRootJNode(id SnapshotID) ([layout14]int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id < 0 || int(id) >= len(m.sb.shadowRoots) {
		return layout14{}, fmt.Errorf("ssfs: snapshot %d: %w", id, ErrInvalidArgument)
	}
	sr := m.sb.shadowRoots[id]
	if sr.size == -1 {
		return layout14{}, fmt.Errorf("ssfs: snapshot %d: %w", id, ErrNotFound)
	}
	return sr.direct, nil
}

// layout14 names the root j-node's direct-pointer array shape so
// SnapshotRootJNode's signature doesn't leak the jnode type.
type layout14 = [14]int32
