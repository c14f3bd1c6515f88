package sdk

type UpdateInfo struct {
	CurrentVersion  string `json:"current_version"`
	LatestVersion   string `json:"latest_version"`
	UpdateAvailable bool   `json:"update_available"`
	ReleaseURL      string `json:"release_url"`
}

func (c *Client) CheckUpdates() (*UpdateInfo, error) {
	var info UpdateInfo
	err := c.get("/updates", &info)
	return &info, err
}
