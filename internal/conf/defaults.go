// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "DustDashboard")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "logs/dustdashboard.log")

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.port", "5000")
	viper.SetDefault("webserver.debug", false)

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "dustdashboard.db")

	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "dustdashboard")
	viper.SetDefault("output.mysql.password", "secret")
	viper.SetDefault("output.mysql.database", "dustdashboard")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")

	viper.SetDefault("dashboard.pollinterval", 10)
	viper.SetDefault("dashboard.pagesize", 20)
}
