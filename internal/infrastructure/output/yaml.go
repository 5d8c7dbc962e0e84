package output

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/reglet-dev/profilecache/internal/application/dto"
)

// YAMLFormatter formats profiles as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// FormatProfiles writes the profiles as a YAML sequence.
func (f *YAMLFormatter) FormatProfiles(views []dto.ProfileView) error {
	if views == nil {
		views = []dto.ProfileView{}
	}
	return f.encode(views)
}

// FormatReport writes the import report as a YAML document.
func (f *YAMLFormatter) FormatReport(report dto.ReportView) error {
	return f.encode(report)
}

func (f *YAMLFormatter) encode(v any) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))

	if err := encoder.Encode(v); err != nil {
		return err
	}

	return encoder.Close()
}
