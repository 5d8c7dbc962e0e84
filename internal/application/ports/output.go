// Package ports defines interfaces between the application layer and its adapters.
package ports

import (
	"io"

	"github.com/reglet-dev/profilecache/internal/application/dto"
)

// OutputFormatter renders profiles and import reports.
type OutputFormatter interface {
	FormatProfiles(views []dto.ProfileView) error
	FormatReport(report dto.ReportView) error
}

// OutputFormatterFactory creates formatters by name.
type OutputFormatterFactory interface {
	Create(format string, writer io.Writer) (OutputFormatter, error)
	SupportedFormats() []string
}
