package sdk

import "fmt"

func (c *Client) CreateBackup(profileID, name string) error {
	payload := map[string]string{}
	if name != "" {
		payload["name"] = name
	}
	return c.post(fmt.Sprintf("/profiles/%s/backup", profileID), payload, nil)
}

func (c *Client) ListBackups(profileID string) ([]BackupInfo, error) {
	var backups []BackupInfo
	err := c.get(fmt.Sprintf("/profiles/%s/backups", profileID), &backups)
	return backups, err
}

func (c *Client) ListAllBackups() ([]BackupInfo, error) {
	var backups []BackupInfo
	err := c.get("/backups", &backups)
	return backups, err
}

func (c *Client) RestoreBackup(name string, req RestoreBackupRequest) error {
	return c.post(fmt.Sprintf("/backups/%s/restore", name), req, nil)
}

func (c *Client) DeleteBackup(name string) error {
	return c.delete("/backups/" + name)
}
