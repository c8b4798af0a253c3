package config

import "errors"

// Errors returned by Config.Validate, LoadConfigFile and File.Validate.
var (
	// ErrNoInputDir is returned when the input directory is empty.
	ErrNoInputDir = errors.New("no input directory specified")

	// ErrInvalidTextSource is returned for a text source other than sections or statement.
	ErrInvalidTextSource = errors.New("invalid text source: must be sections or statement")

	// ErrUnknownBackend is returned for an unrecognized NER backend.
	ErrUnknownBackend = errors.New("unknown NER backend: must be onnx, http or gazetteer")

	// ErrNoModelDir is returned when the onnx backend has no model directory.
	ErrNoModelDir = errors.New("no model directory specified for the onnx backend")

	// ErrNoNERURL is returned when the http backend has no URL.
	ErrNoNERURL = errors.New("no NER service URL specified for the http backend")

	// ErrEmptyGazetteer is returned when the gazetteer backend has no phrases.
	ErrEmptyGazetteer = errors.New("gazetteer backend selected but no gazetteer configured")

	// ErrInvalidTimeout is returned when the HTTP timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRate is returned when the request rate is negative.
	ErrInvalidRate = errors.New("invalid request rate: must be non-negative")

	// ErrInvalidConfidence is returned when the minimum confidence is outside [0, 1].
	ErrInvalidConfidence = errors.New("invalid minimum confidence: must be between 0 and 1")

	// ErrNoEducationLabel is returned when no label maps to Education.
	ErrNoEducationLabel = errors.New("no education label configured")

	// ErrEmptyLabel is returned when a configured entity label is blank.
	ErrEmptyLabel = errors.New("empty entity label")

	// ErrConflictingReportFormats is returned when both --json and --markdown are set.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidConfigFile is returned when the configuration file fails validation.
	ErrInvalidConfigFile = errors.New("invalid configuration file")
)
