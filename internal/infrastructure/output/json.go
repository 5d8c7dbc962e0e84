package output

import (
	"encoding/json"
	"io"

	"github.com/reglet-dev/profilecache/internal/application/dto"
)

// JSONFormatter formats profiles as JSON.
type JSONFormatter struct {
	writer io.Writer
	indent bool
}

// NewJSONFormatter creates a new JSON formatter.
// If indent is true, the output will be pretty-printed with indentation.
func NewJSONFormatter(w io.Writer, indent bool) *JSONFormatter {
	return &JSONFormatter{
		writer: w,
		indent: indent,
	}
}

// FormatProfiles writes the profiles as a JSON array.
func (f *JSONFormatter) FormatProfiles(views []dto.ProfileView) error {
	if views == nil {
		views = []dto.ProfileView{}
	}
	return f.write(views)
}

// FormatReport writes the import report as a JSON object.
func (f *JSONFormatter) FormatReport(report dto.ReportView) error {
	return f.write(report)
}

func (f *JSONFormatter) write(v any) error {
	var data []byte
	var err error

	if f.indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	if _, err := f.writer.Write(data); err != nil {
		return err
	}

	// Add newline for better terminal output
	_, err = f.writer.Write([]byte("\n"))
	return err
}
