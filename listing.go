package ssfs

// Entry describes one occupied directory slot, for callers that need to
// enumerate the volume (cmd/ssfs's ls subcommand) rather than open a
// specific name.
type Entry struct {
	Name string
	Size int64
}

// List returns every file currently in the root directory. It does not
// open any of them — callers still go through Open to read or write.
func (m *Mount) List() ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.dir.list()
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		size, err := m.fileSize(e.inodeNb)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Name: e.nameString(), Size: size})
	}
	return out, nil
}
