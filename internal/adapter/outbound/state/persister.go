package state

import (
	"github.com/montanha-viva/mv-cli/internal/domain/session"
)

// Load implements session.Persister. A missing file yields an empty,
// signed-out snapshot.
func (s *FileStateStore) Load() (session.Snapshot, error) {
	st, err := s.LoadState()
	if err != nil {
		return session.Snapshot{}, err
	}
	return session.Snapshot{
		Authenticated: st.Authenticated,
		RefreshToken:  st.RefreshToken,
		User:          st.User,
	}, nil
}

// Save implements session.Persister. The file's CreatedAt is preserved
// across saves; a corrupt existing file is overwritten rather than kept.
func (s *FileStateStore) Save(snap session.Snapshot) error {
	st, err := s.LoadState()
	if err != nil {
		st = s.DefaultState()
	}

	st.Authenticated = snap.Authenticated
	st.RefreshToken = snap.RefreshToken
	st.User = snap.User
	return s.SaveState(st)
}

// Compile-time check that FileStateStore implements session.Persister.
var _ session.Persister = (*FileStateStore)(nil)
