package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() *Settings {
	return &Settings{
		WebServer: WebServerSettings{Enabled: true, Port: "5000"},
		Output: OutputSettings{
			SQLite: SQLiteSettings{Enabled: true, Path: "dustdashboard.db"},
		},
		Dashboard: DashboardSettings{PollInterval: 10, PageSize: 20},
	}
}

func TestValidateSettingsValid(t *testing.T) {
	t.Parallel()
	require.NoError(t, ValidateSettings(validSettings()))
}

func TestValidateSettingsBadPort(t *testing.T) {
	t.Parallel()

	settings := validSettings()
	settings.WebServer.Port = "not-a-port"
	err := ValidateSettings(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestValidateSettingsOutputExclusivity(t *testing.T) {
	t.Parallel()

	neither := validSettings()
	neither.Output.SQLite.Enabled = false
	require.Error(t, ValidateSettings(neither))

	both := validSettings()
	both.Output.MySQL = MySQLSettings{Enabled: true, Database: "dust", Host: "localhost", Port: "3306"}
	require.Error(t, ValidateSettings(both))
}

func TestValidateSettingsDashboard(t *testing.T) {
	t.Parallel()

	settings := validSettings()
	settings.Dashboard.PollInterval = 0
	err := ValidateSettings(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poll interval")
}

func TestValidateSettingsCollectsAllErrors(t *testing.T) {
	t.Parallel()

	settings := validSettings()
	settings.WebServer.Port = "0"
	settings.Dashboard.PageSize = 0

	err := ValidateSettings(settings)
	require.Error(t, err)

	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 2)
}
