package bmeta

import "github.com/sirupsen/logrus"

const defaultBuildMeta = "N/A" // Значение по умолчанию

// Fields собирает версию, дату и комит сборки в поля для стартового лога.
// Значения прокидываются через ldflags при сборке.
func Fields(version, date, commit string) logrus.Fields {
	if version == "" {
		version = defaultBuildMeta
	}
	if date == "" {
		date = defaultBuildMeta
	}
	if commit == "" {
		commit = defaultBuildMeta
	}
	return logrus.Fields{
		"build_version": version,
		"build_date":    date,
		"build_commit":  commit,
	}
}
