package ner

import "errors"

var (
	// ErrUnknownBackend is returned by New for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown NER backend")

	// ErrBackendNotBuilt is returned when a backend was compiled out of the binary.
	ErrBackendNotBuilt = errors.New("NER backend not included in this build")

	// ErrModelFileMissing is returned when a required model artifact is absent.
	ErrModelFileMissing = errors.New("model file missing")

	// ErrNoEndpoint is returned when the HTTP backend has no URL.
	ErrNoEndpoint = errors.New("no NER endpoint configured")

	// ErrUnexpectedStatus is returned when the NER service answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected response status from NER service")

	// ErrEmptyGazetteer is returned when a gazetteer has no phrases.
	ErrEmptyGazetteer = errors.New("gazetteer has no phrases")

	// ErrLabelMapping is returned when a label mapping file cannot be used.
	ErrLabelMapping = errors.New("invalid label mapping")
)
