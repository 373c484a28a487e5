package pipeline

import (
	"bytes"

	"github.com/matzehuels/floorstack/pkg/errors"
	pkgio "github.com/matzehuels/floorstack/pkg/io"
	"github.com/matzehuels/floorstack/pkg/survey"
	"github.com/matzehuels/floorstack/pkg/survey/roomscan"
)

// Parse decodes survey input in the given format.
func Parse(data []byte, format string) (*survey.Building, error) {
	switch format {
	case errors.FormatRoomScan:
		return roomscan.Parse(bytes.NewReader(data))
	case errors.FormatJSON:
		return pkgio.ReadSurvey(bytes.NewReader(data))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported input format: %q", format)
	}
}

// marshalSurvey is the canonical encoding used for hashing and caching.
func marshalSurvey(b *survey.Building) ([]byte, error) {
	var buf bytes.Buffer
	if err := pkgio.WriteSurvey(b, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
