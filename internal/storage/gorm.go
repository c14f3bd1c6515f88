// Package storage persists launch profiles and tunable settings in a local
// sqlite database.
package storage

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hyserve/internal/domain"
)

// Profile is the gorm model backing domain.Profile.
type Profile struct {
	ID                 string `gorm:"primaryKey"`
	Name               string
	FolderName         string
	Port               int
	MemoryMin          string
	MemoryMax          string
	AuthMode           string
	AllowOp            bool
	AcceptEarlyPlugins bool
	JavaArgs           string
	ServerArgs         string
	Status             string
	CreatedAt          time.Time
}

type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

// Setting keys with bootstrapped defaults.
const (
	SettingPortRangeStart  = "port_range_start"
	SettingPortRangeEnd    = "port_range_end"
	SettingDefaultMemMin   = "default_memory_min"
	SettingDefaultMemMax   = "default_memory_max"
	SettingDefaultAuthMode = "default_auth_mode"
)

type GormStore struct {
	db *gorm.DB
}

var _ domain.Repository = (*GormStore)(nil)

func NewGormStore(path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Error),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Profile{}, &Setting{}); err != nil {
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	store := &GormStore{db: db}
	if err := store.initDefaultSettings(); err != nil {
		return nil, fmt.Errorf("error initializing settings: %w", err)
	}
	return store, nil
}

func (s *GormStore) initDefaultSettings() error {
	defaults := map[string]string{
		SettingPortRangeStart:  "5520",
		SettingPortRangeEnd:    "5560",
		SettingDefaultMemMin:   "2G",
		SettingDefaultMemMax:   "4G",
		SettingDefaultAuthMode: string(domain.AuthModeAuthenticated),
	}

	for key, value := range defaults {
		var setting Setting
		result := s.db.First(&setting, "key = ?", key)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				if err := s.db.Create(&Setting{Key: key, Value: value}).Error; err != nil {
					return err
				}
			} else {
				return result.Error
			}
		}
	}
	return nil
}

func (s *GormStore) SaveProfile(p *domain.Profile) error {
	return s.db.Create(toModel(p)).Error
}

func (s *GormStore) UpdateProfile(id string, name *string, memoryMax *string, serverArgs *string) error {
	if name == nil && memoryMax == nil && serverArgs == nil {
		return errors.New("no fields to update")
	}

	updates := make(map[string]interface{})
	if name != nil {
		updates["name"] = *name
	}
	if memoryMax != nil {
		updates["memory_max"] = *memoryMax
	}
	if serverArgs != nil {
		updates["server_args"] = *serverArgs
	}
	return s.db.Model(&Profile{}).Where("id = ?", id).Updates(updates).Error
}

func (s *GormStore) UpdateProfilePort(id string, port int) error {
	return s.db.Model(&Profile{}).Where("id = ?", id).Update("port", port).Error
}

func (s *GormStore) ListProfiles() ([]domain.Profile, error) {
	var models []Profile
	if err := s.db.Find(&models).Error; err != nil {
		return nil, err
	}

	var profiles []domain.Profile
	for _, m := range models {
		profiles = append(profiles, *toDomain(&m))
	}
	return profiles, nil
}

func (s *GormStore) GetProfileByID(id string) (*domain.Profile, error) {
	var m Profile
	result := s.db.First(&m, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying profile: %w", result.Error)
	}
	return toDomain(&m), nil
}

func (s *GormStore) DeleteProfile(id string) error {
	return s.db.Delete(&Profile{}, "id = ?", id).Error
}

// ResetRunningStates marks every non-stopped profile STOPPED. Called on
// daemon start, where any recorded live state is necessarily stale.
func (s *GormStore) ResetRunningStates() error {
	return s.db.Model(&Profile{}).
		Where("status IN ?", []string{
			string(domain.StatusStarting),
			string(domain.StatusRunning),
			string(domain.StatusStopping),
		}).
		Update("status", string(domain.StatusStopped)).Error
}

func (s *GormStore) UpdateStatus(id string, status string) error {
	return s.db.Model(&Profile{}).Where("id = ?", id).Update("status", status).Error
}

func (s *GormStore) GetSetting(key string) (string, error) {
	var setting Setting
	result := s.db.First(&setting, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("setting not found: %s", key)
		}
		return "", result.Error
	}
	return setting.Value, nil
}

func (s *GormStore) SetSetting(key string, value string) error {
	var setting Setting
	result := s.db.First(&setting, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return s.db.Create(&Setting{Key: key, Value: value}).Error
		}
		return result.Error
	}
	return s.db.Model(&setting).Update("value", value).Error
}

func (s *GormStore) GetPortRange() (int, int, error) {
	startStr, err := s.GetSetting(SettingPortRangeStart)
	if err != nil {
		return 0, 0, err
	}
	endStr, err := s.GetSetting(SettingPortRangeEnd)
	if err != nil {
		return 0, 0, err
	}

	start, err := strconv.Atoi(startStr)
	if err != nil {
		return 0, 0, fmt.Errorf("error parsing %s: %w", SettingPortRangeStart, err)
	}
	end, err := strconv.Atoi(endStr)
	if err != nil {
		return 0, 0, fmt.Errorf("error parsing %s: %w", SettingPortRangeEnd, err)
	}
	return start, end, nil
}

func (s *GormStore) SetPortRange(start int, end int) error {
	if start <= 0 || end <= 0 || start > end {
		return fmt.Errorf("invalid port range: %d-%d", start, end)
	}
	if err := s.SetSetting(SettingPortRangeStart, strconv.Itoa(start)); err != nil {
		return err
	}
	return s.SetSetting(SettingPortRangeEnd, strconv.Itoa(end))
}

// LaunchDefaults returns the stored default memory strings and auth mode
// applied to profiles that leave them unset.
func (s *GormStore) LaunchDefaults() (memMin, memMax string, mode domain.AuthMode, err error) {
	memMin, err = s.GetSetting(SettingDefaultMemMin)
	if err != nil {
		return "", "", "", err
	}
	memMax, err = s.GetSetting(SettingDefaultMemMax)
	if err != nil {
		return "", "", "", err
	}
	modeStr, err := s.GetSetting(SettingDefaultAuthMode)
	if err != nil {
		return "", "", "", err
	}
	return memMin, memMax, domain.AuthMode(modeStr), nil
}

func toModel(p *domain.Profile) *Profile {
	return &Profile{
		ID:                 p.ID,
		Name:               p.Name,
		FolderName:         p.FolderName,
		Port:               p.Port,
		MemoryMin:          p.MemoryMin,
		MemoryMax:          p.MemoryMax,
		AuthMode:           string(p.AuthMode),
		AllowOp:            p.AllowOp,
		AcceptEarlyPlugins: p.AcceptEarlyPlugins,
		JavaArgs:           p.JavaArgs,
		ServerArgs:         p.ServerArgs,
		Status:             p.Status,
		CreatedAt:          p.CreatedAt,
	}
}

func toDomain(m *Profile) *domain.Profile {
	return &domain.Profile{
		ID:                 m.ID,
		Name:               m.Name,
		FolderName:         m.FolderName,
		Port:               m.Port,
		MemoryMin:          m.MemoryMin,
		MemoryMax:          m.MemoryMax,
		AuthMode:           domain.AuthMode(m.AuthMode),
		AllowOp:            m.AllowOp,
		AcceptEarlyPlugins: m.AcceptEarlyPlugins,
		JavaArgs:           m.JavaArgs,
		ServerArgs:         m.ServerArgs,
		Status:             m.Status,
		CreatedAt:          m.CreatedAt,
	}
}
