// Package onnx runs a local token-classification model through onnxruntime.
//
// A model directory holds the exported network, its Hugging Face tokenizer
// and a config.json carrying id2label. The onnxruntime shared library is
// located through ONNXRUNTIME_SHARED_LIBRARY_PATH or WithSharedLibrary.
// Linking requires cgo and the tokenizers static library, so the psiscan
// binary includes this backend only when built with the "onnx" tag.
package onnx
