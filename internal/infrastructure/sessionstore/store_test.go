package sessionstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/invorya-client/internal/infrastructure/sessionstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// FileStore
// ──────────────────────────────────────────────────────────────────────────────

func TestFileStore_PersisteEntreReaperturas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sesion.json")

	s, err := sessionstore.OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(sessionstore.KeyAuthToken, "tok-123"))
	require.NoError(t, s.Set(sessionstore.KeyUser, `{"id":"u1"}`))

	// Reabrir simula un proceso nuevo.
	s2, err := sessionstore.OpenFileStore(path)
	require.NoError(t, err)
	token, ok := s2.Get(sessionstore.KeyAuthToken)
	require.True(t, ok)
	assert.Equal(t, "tok-123", token)
	blob, ok := s2.Get(sessionstore.KeyUser)
	require.True(t, ok)
	assert.JSONEq(t, `{"id":"u1"}`, blob)
}

func TestFileStore_ArchivoCorruptoArrancaVacio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sesion.json")
	require.NoError(t, os.WriteFile(path, []byte("}}no es json{{"), 0o600))

	s, err := sessionstore.OpenFileStore(path)
	require.NoError(t, err, "un archivo ilegible nunca es fatal")
	_, ok := s.Get(sessionstore.KeyAuthToken)
	assert.False(t, ok)

	// El archivo queda purgado: una segunda apertura también arranca limpia.
	s2, err := sessionstore.OpenFileStore(path)
	require.NoError(t, err)
	_, ok = s2.Get(sessionstore.KeyAuthToken)
	assert.False(t, ok)
}

func TestFileStore_DeletePersiste(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sesion.json")
	s, err := sessionstore.OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(sessionstore.KeyAuthToken, "tok-123"))
	require.NoError(t, s.Delete(sessionstore.KeyAuthToken))

	s2, err := sessionstore.OpenFileStore(path)
	require.NoError(t, err)
	_, ok := s2.Get(sessionstore.KeyAuthToken)
	assert.False(t, ok)

	// Borrar una clave inexistente es un no-op.
	assert.NoError(t, s2.Delete("clave-que-no-existe"))
}

func TestFileStore_CreaDirectoriosIntermedios(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anidado", "mas", "sesion.json")
	s, err := sessionstore.OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("k", "v"))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// MemoryStore
// ──────────────────────────────────────────────────────────────────────────────

func TestMemoryStore_CicloBasico(t *testing.T) {
	s := sessionstore.NewMemoryStore()

	_, ok := s.Get("k")
	assert.False(t, ok)

	require.NoError(t, s.Set("k", "v"))
	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, s.Delete("k"))
	_, ok = s.Get("k")
	assert.False(t, ok)
}
