package store

import (
	"github.com/nishikaramnani04/PIH2026-SHEield/server/models"
	"gorm.io/gorm"
)

// Typed repository operations. Each one is a unit of work on the worker
// queue, so callers from any goroutine serialize with everything else.

func (s *Store) CreateUser(user *models.User) error {
	_, err := s.perform(func(tx *gorm.DB) (interface{}, error) {
		return nil, tx.Create(user).Error
	})

	return err
}

func (s *Store) FindUserByID(id interface{}) (*models.User, error) {
	value, err := s.perform(func(tx *gorm.DB) (interface{}, error) {
		user := models.User{}
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return &user, nil
	})
	if err != nil {
		return nil, err
	}

	return value.(*models.User), nil
}

func (s *Store) FindUserByPhone(phone string) (*models.User, error) {
	value, err := s.perform(func(tx *gorm.DB) (interface{}, error) {
		user := models.User{}
		if err := tx.First(&user, "phone = ?", phone).Error; err != nil {
			return nil, err
		}
		return &user, nil
	})
	if err != nil {
		return nil, err
	}

	return value.(*models.User), nil
}

func (s *Store) AddContact(contact *models.EmergencyContact) error {
	if contact.Relation == "" {
		contact.Relation = models.DefaultRelation
	}

	_, err := s.perform(func(tx *gorm.DB) (interface{}, error) {
		return nil, tx.Create(contact).Error
	})

	return err
}

func (s *Store) ListContacts(userPhone string) ([]models.EmergencyContact, error) {
	value, err := s.perform(func(tx *gorm.DB) (interface{}, error) {
		contacts := []models.EmergencyContact{}
		err := tx.Limit(500).Find(&contacts, "user_phone = ?", userPhone).Error
		if err != nil {
			return nil, err
		}
		return contacts, nil
	})
	if err != nil {
		return nil, err
	}

	return value.([]models.EmergencyContact), nil
}

// DeleteContact removes exactly one contact owned by userPhone. Deleting a
// contact that does not exist (or belongs to someone else) yields
// gorm.ErrRecordNotFound.
func (s *Store) DeleteContact(userPhone string, contactID interface{}) error {
	_, err := s.perform(func(tx *gorm.DB) (interface{}, error) {
		res := tx.Where("user_phone = ?", userPhone).Delete(&models.EmergencyContact{}, contactID)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, nil
	})

	return err
}

func (s *Store) CreateSosLog(entry *models.SosLog) error {
	if entry.Status == "" {
		entry.Status = models.SosStatusSent
	}

	_, err := s.perform(func(tx *gorm.DB) (interface{}, error) {
		return nil, tx.Create(entry).Error
	})

	return err
}

func (s *Store) ListSosLogs(userPhone string) ([]models.SosLog, error) {
	value, err := s.perform(func(tx *gorm.DB) (interface{}, error) {
		entries := []models.SosLog{}
		err := tx.Order("id desc").Limit(500).Find(&entries, "user_phone = ?", userPhone).Error
		if err != nil {
			return nil, err
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}

	return value.([]models.SosLog), nil
}
