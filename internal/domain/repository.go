package domain

type ProfileRepository interface {
	SaveProfile(p *Profile) error
	UpdateProfile(id string, name *string, memoryMax *string, serverArgs *string) error
	UpdateProfilePort(id string, port int) error
	ListProfiles() ([]Profile, error)
	GetProfileByID(id string) (*Profile, error)
	DeleteProfile(id string) error
	UpdateStatus(id string, status string) error
}

type SettingRepository interface {
	GetSetting(key string) (string, error)
	SetSetting(key string, value string) error
	GetPortRange() (int, int, error)
	SetPortRange(start int, end int) error
}

type Repository interface {
	ProfileRepository
	SettingRepository
}
