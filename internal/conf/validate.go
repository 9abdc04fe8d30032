// conf/validate.go

package conf

import (
	"fmt"
	"strconv"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateWebServerSettings(&settings.WebServer); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateOutputSettings(&settings.Output); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateDashboardSettings(&settings.Dashboard); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateWebServerSettings(settings *WebServerSettings) error {
	if !settings.Enabled {
		return nil
	}
	port, err := strconv.Atoi(settings.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid WebServer port: %s", settings.Port)
	}
	return nil
}

func validateOutputSettings(settings *OutputSettings) error {
	if !settings.SQLite.Enabled && !settings.MySQL.Enabled {
		return fmt.Errorf("no database output enabled, enable either sqlite or mysql")
	}
	if settings.SQLite.Enabled && settings.MySQL.Enabled {
		return fmt.Errorf("both sqlite and mysql outputs enabled, enable only one")
	}
	if settings.SQLite.Enabled && settings.SQLite.Path == "" {
		return fmt.Errorf("sqlite output enabled but path is empty")
	}
	if settings.MySQL.Enabled {
		if settings.MySQL.Database == "" || settings.MySQL.Host == "" {
			return fmt.Errorf("mysql output enabled but database or host is empty")
		}
		if _, err := strconv.Atoi(settings.MySQL.Port); err != nil {
			return fmt.Errorf("invalid MySQL port: %s", settings.MySQL.Port)
		}
	}
	return nil
}

func validateDashboardSettings(settings *DashboardSettings) error {
	if settings.PollInterval < 1 {
		return fmt.Errorf("dashboard poll interval must be at least 1 second, got %d", settings.PollInterval)
	}
	if settings.PageSize < 1 {
		return fmt.Errorf("dashboard page size must be at least 1, got %d", settings.PageSize)
	}
	return nil
}
