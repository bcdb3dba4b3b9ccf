package persistence

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

type auraState struct {
	Mode  string `json:"mode"`
	Color string `json:"color"`
}

func newTestPersistence(t *testing.T) (Persistence, string) {
	dbPath := filepath.Join(t.TempDir(), "db", "tuf2go.db")
	p := NewPersistence(dbPath)
	require.NoError(t, p.Init())
	return p, dbPath
}

func TestPersistence_SaveAndLoadSetting(t *testing.T) {
	// GIVEN
	p, _ := newTestPersistence(t)
	expected := auraState{Mode: "Breathing", Color: "00ff00"}

	// WHEN
	err := p.SaveSetting(NamespaceLighting, "state", expected)
	require.NoError(t, err)

	var result auraState
	err = p.LoadSetting(NamespaceLighting, "state", &result)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, expected, result)
}

func TestPersistence_NamespacesAreSeparate(t *testing.T) {
	// GIVEN
	p, _ := newTestPersistence(t)
	require.NoError(t, p.SaveSetting(NamespaceBattery, "limit", 80))

	// WHEN
	var value int
	err := p.LoadSetting(NamespaceThermalCurve, "limit", &value)

	// THEN
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPersistence_LoadMissingKey(t *testing.T) {
	// GIVEN
	p, _ := newTestPersistence(t)
	require.NoError(t, p.SaveSetting(NamespaceBattery, "limit", 80))

	// WHEN
	var value int
	err := p.LoadSetting(NamespaceBattery, "other", &value)

	// THEN
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPersistence_DeleteSetting(t *testing.T) {
	// GIVEN
	p, _ := newTestPersistence(t)
	require.NoError(t, p.SaveSetting(NamespaceThermalCurve, "autoCurveEnabled", true))

	// WHEN
	err := p.DeleteSetting(NamespaceThermalCurve, "autoCurveEnabled")
	assert.NoError(t, err)

	// THEN
	var enabled bool
	err = p.LoadSetting(NamespaceThermalCurve, "autoCurveEnabled", &enabled)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPersistence_DeleteSetting_NoBucket(t *testing.T) {
	p, _ := newTestPersistence(t)
	assert.NoError(t, p.DeleteSetting(NamespaceFan, "anything"))
}

func TestPersistence_CorruptValueIsDeleted(t *testing.T) {
	// GIVEN
	p, dbPath := newTestPersistence(t)
	db, err := bolt.Open(dbPath, 0600, nil)
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(NamespaceBattery))
		if err != nil {
			return err
		}
		return b.Put([]byte("limit"), []byte("{not json"))
	}))
	require.NoError(t, db.Close())

	// WHEN
	var limit int
	err = p.LoadSetting(NamespaceBattery, "limit", &limit)

	// THEN
	assert.True(t, errors.Is(err, ErrNotFound))
	err = p.LoadSetting(NamespaceBattery, "limit", &limit)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStore(t *testing.T) {
	// GIVEN
	store := NewMemoryStore()

	// WHEN
	require.NoError(t, store.SaveSetting(NamespaceLighting, "auraColor", "FF0000"))

	// THEN
	var color string
	assert.NoError(t, store.LoadSetting(NamespaceLighting, "auraColor", &color))
	assert.Equal(t, "FF0000", color)

	require.NoError(t, store.DeleteSetting(NamespaceLighting, "auraColor"))
	assert.True(t, errors.Is(store.LoadSetting(NamespaceLighting, "auraColor", &color), ErrNotFound))
}
