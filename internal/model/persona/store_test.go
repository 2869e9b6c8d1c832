package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedStoreDefault(t *testing.T) {
	store := NewSeedStore()

	def := store.Default()
	assert.Equal(t, DefaultID, def.ID)
	assert.Equal(t, "WhiteRabbit", def.Name)
	assert.NotEmpty(t, def.Greeting)

	got, ok := store.FindByID(DefaultID)
	require.True(t, ok)
	assert.Equal(t, def, got)

	_, ok = store.FindByID("cheshire-cat")
	assert.False(t, ok)
	assert.Equal(t, "Ravikanth K S", store.Profile().Name)
}

func TestListReturnsCopy(t *testing.T) {
	store := NewSeedStore()

	list := store.List()
	list[0].Name = "mutated"

	assert.Equal(t, "WhiteRabbit", store.List()[0].Name)
}

func TestEmptyStoreDefault(t *testing.T) {
	store := NewMemoryStore(nil, Profile{})
	assert.Equal(t, Persona{}, store.Default())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := `
personas:
  - id: oracle
    name: Oracle
    greeting: "Cookies are ready."
    guidelines:
      - Speak in riddles.
profile:
  name: Neo
  role: The One
  email: neo@example.com
  skills:
    - category: Combat
      items: [Kung Fu]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	store, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "oracle", store.Default().ID)
	assert.Equal(t, []string{"Speak in riddles."}, store.Default().Guidelines)
	assert.Equal(t, "Neo", store.Profile().Name)
	assert.Equal(t, []string{"Kung Fu"}, store.Profile().Skills[0].Items)
}

func TestLoadFileFallsBackToSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))

	store, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultID, store.Default().ID)
	assert.Equal(t, SeedProfile().Name, store.Profile().Name)
}

func TestLoadFileRejectsPersonaWithoutGreeting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("personas:\n  - id: x\n    name: X\n"), 0o600))

	_, err := LoadFile(path)
	assert.ErrorContains(t, err, "greeting")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
