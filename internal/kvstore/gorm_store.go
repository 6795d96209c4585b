package kvstore

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/models"
)

// GormStore is the durable key/value store backed by Postgres. Database
// errors are logged and surface as "absent" so callers fall back to defaults.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(key string) ([]byte, bool) {
	var entry models.KVEntry
	if err := s.db.First(&entry, "key = ?", key).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).WithField("key", key).Error("Failed to read KV entry")
		}
		return nil, false
	}
	return entry.Value, true
}

func (s *GormStore) Set(key string, value []byte) error {
	entry := models.KVEntry{
		Key:   key,
		Value: datatypes.JSON(value),
	}
	result := s.db.Save(&entry)
	if result.Error != nil {
		logrus.WithError(result.Error).WithField("key", key).Error("Failed to write KV entry")
	}
	return result.Error
}

func (s *GormStore) Delete(key string) error {
	result := s.db.Delete(&models.KVEntry{}, "key = ?", key)
	if result.Error != nil {
		logrus.WithError(result.Error).WithField("key", key).Error("Failed to delete KV entry")
	}
	return result.Error
}

func (s *GormStore) Keys() []string {
	var keys []string
	if err := s.db.Model(&models.KVEntry{}).Pluck("key", &keys).Error; err != nil {
		logrus.WithError(err).Error("Failed to list KV keys")
		return nil
	}
	return keys
}
