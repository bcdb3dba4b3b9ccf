package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tuf2go/tuf2go/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	NamespaceFan          = "fan"
	NamespaceLighting     = "lighting"
	NamespaceThermalCurve = "thermalCurve"
	NamespaceBattery      = "battery"
)

var ErrNotFound = errors.New("setting not found")

// SettingsStore is a key/value store for settings, namespaced per subsystem.
// Values are stored as JSON.
type SettingsStore interface {
	SaveSetting(namespace string, key string, value any) error
	// LoadSetting decodes the stored value into target, returns ErrNotFound if there is none
	LoadSetting(namespace string, key string, target any) error
	DeleteSetting(namespace string, key string) error
}

type Persistence interface {
	SettingsStore
	Init() error
}

type persistence struct {
	dbPath string
}

func NewPersistence(dbPath string) Persistence {
	return &persistence{
		dbPath: dbPath,
	}
}

func (p persistence) Init() (err error) {
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func (p persistence) SaveSetting(namespace string, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(namespace))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		return b.Put([]byte(key), data)
	})
}

func (p persistence) LoadSetting(namespace string, key string, target any) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(namespace))
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}

		err := json.Unmarshal(v, target)
		if err != nil {
			// if we cannot read the saved data, delete it
			ui.Warning("Unable to unmarshal saved setting %s/%s: %v", namespace, key, err)
			if err := b.Delete([]byte(key)); err != nil {
				ui.Error("Unable to delete corrupt setting %s/%s: %v", namespace, key, err)
			}
			return ErrNotFound
		}
		return nil
	})
}

func (p persistence) DeleteSetting(namespace string, key string) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(namespace))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}
