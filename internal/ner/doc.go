// Package ner defines the named-entity recognition capability used by psiscan.
//
// Recognizer is the contract: text in, merged entities out. Three backends
// satisfy it:
//
//   - HTTPRecognizer posts text to a model server (rate limited, optional bearer key)
//   - GazetteerRecognizer matches a fixed phrase list, with no model at all
//   - onnx.Recognizer (subpackage) runs an exported model in process
//
// DecodeTokenLabels holds the token-to-entity aggregation shared by in-process
// backends, so it can be tested without native libraries.
package ner
