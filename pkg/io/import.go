package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/floorstack/pkg/errors"
	"github.com/matzehuels/floorstack/pkg/resolve"
	"github.com/matzehuels/floorstack/pkg/survey"
)

// ReadSurvey decodes a JSON survey from r.
//
// Numbers must already be numbers; malformed fields recorded by another
// reader are carried in each record's "malformed" list. ReadSurvey returns
// an INVALID_FORMAT error if the JSON is malformed and does not close r.
func ReadSurvey(r io.Reader) (*survey.Building, error) {
	var b survey.Building
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode survey json")
	}
	return &b, nil
}

// ImportSurvey reads a JSON survey file at path.
func ImportSurvey(path string) (*survey.Building, error) {
	var b *survey.Building
	err := importFile(path, func(r io.Reader) (err error) {
		b, err = ReadSurvey(r)
		return err
	})
	return b, err
}

// ReadBuilding decodes a resolved building written by [WriteBuilding].
func ReadBuilding(r io.Reader) (*resolve.Building, error) {
	var b resolve.Building
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode resolved json")
	}
	return &b, nil
}

// ImportBuilding reads a resolved building JSON file at path.
func ImportBuilding(path string) (*resolve.Building, error) {
	var b *resolve.Building
	err := importFile(path, func(r io.Reader) (err error) {
		b, err = ReadBuilding(r)
		return err
	})
	return b, err
}

func importFile(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if err := read(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
