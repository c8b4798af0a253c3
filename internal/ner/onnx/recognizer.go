//go:build onnx

package onnx

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/daulet/tokenizers"
	"github.com/nao1215/psiscan/internal/ner"
	ort "github.com/yalue/onnxruntime_go"
)

// Default artifact names inside a model directory.
const (
	DefaultModelFile     = "model.onnx"
	DefaultTokenizerFile = "tokenizer.json"
	DefaultLabelFile     = "config.json"

	// DefaultMaxSequenceLength matches BERT's max_position_embeddings.
	DefaultMaxSequenceLength = 512
)

// SharedLibraryEnv names the environment variable holding the onnxruntime library path.
const SharedLibraryEnv = "ONNXRUNTIME_SHARED_LIBRARY_PATH"

// Recognizer runs a BERT-style token-classification model with onnxruntime.
// The session and tensors are created once in New; Recognize calls are
// serialized because they share the tensors.
type Recognizer struct {
	mu sync.Mutex

	tokenizer *tokenizers.Tokenizer
	session   *ort.AdvancedSession
	inputIDs  *ort.Tensor[int64]
	mask      *ort.Tensor[int64]
	typeIDs   *ort.Tensor[int64]
	logits    *ort.Tensor[float32]

	id2label  map[int]string
	numLabels int

	modelFile     string
	tokenizerFile string
	labelFile     string
	sharedLibrary string
	maxSeqLen     int
	minConfidence float64
	tokenTypeIDs  bool
	logger        *slog.Logger
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithModelFile overrides the ONNX file name.
func WithModelFile(name string) Option {
	return func(r *Recognizer) { r.modelFile = name }
}

// WithTokenizerFile overrides the tokenizer file name.
func WithTokenizerFile(name string) Option {
	return func(r *Recognizer) { r.tokenizerFile = name }
}

// WithLabelFile overrides the file holding id2label.
func WithLabelFile(name string) Option {
	return func(r *Recognizer) { r.labelFile = name }
}

// WithSharedLibrary sets the path of the onnxruntime shared library.
func WithSharedLibrary(path string) Option {
	return func(r *Recognizer) { r.sharedLibrary = path }
}

// WithMaxSequenceLength sets the model's input length.
func WithMaxSequenceLength(n int) Option {
	return func(r *Recognizer) { r.maxSeqLen = n }
}

// WithMinConfidence sets the per-token probability threshold.
func WithMinConfidence(p float64) Option {
	return func(r *Recognizer) { r.minConfidence = p }
}

// WithTokenTypeIDs feeds a zeroed token_type_ids input, which some exports require.
func WithTokenTypeIDs() Option {
	return func(r *Recognizer) { r.tokenTypeIDs = true }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recognizer) { r.logger = logger }
}

// New loads the model in modelDir and prepares an inference session.
func New(modelDir string, opts ...Option) (*Recognizer, error) {
	r := &Recognizer{
		modelFile:     DefaultModelFile,
		tokenizerFile: DefaultTokenizerFile,
		labelFile:     DefaultLabelFile,
		sharedLibrary: os.Getenv(SharedLibraryEnv),
		maxSeqLen:     DefaultMaxSequenceLength,
		minConfidence: ner.DefaultMinConfidence,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := ner.CheckModelDir(modelDir, r.modelFile, r.tokenizerFile, r.labelFile); err != nil {
		return nil, err
	}

	id2label, err := ner.LoadLabelMapping(filepath.Join(modelDir, r.labelFile))
	if err != nil {
		return nil, err
	}
	r.id2label = id2label
	for id := range id2label {
		if id+1 > r.numLabels {
			r.numLabels = id + 1
		}
	}

	if r.sharedLibrary != "" {
		ort.SetSharedLibraryPath(r.sharedLibrary)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize onnxruntime: %w", err)
		}
	}

	tk, err := tokenizers.FromFile(filepath.Join(modelDir, r.tokenizerFile))
	if err != nil {
		_ = ort.DestroyEnvironment()
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}
	r.tokenizer = tk

	if err := r.initSession(filepath.Join(modelDir, r.modelFile)); err != nil {
		_ = r.Close()
		return nil, err
	}

	r.logger.Debug("onnx model loaded",
		"dir", modelDir,
		"labels", r.numLabels,
		"maxSequenceLength", r.maxSeqLen,
	)
	return r, nil
}

func (r *Recognizer) initSession(modelPath string) error {
	seqLen := int64(r.maxSeqLen)
	inputShape := ort.NewShape(1, seqLen)

	var err error
	if r.inputIDs, err = ort.NewTensor(inputShape, make([]int64, seqLen)); err != nil {
		return fmt.Errorf("failed to create input tensor: %w", err)
	}
	if r.mask, err = ort.NewTensor(inputShape, make([]int64, seqLen)); err != nil {
		return fmt.Errorf("failed to create mask tensor: %w", err)
	}
	if r.logits, err = ort.NewEmptyTensor[float32](ort.NewShape(1, seqLen, int64(r.numLabels))); err != nil {
		return fmt.Errorf("failed to create output tensor: %w", err)
	}

	inputNames := []string{"input_ids", "attention_mask"}
	inputs := []ort.Value{r.inputIDs, r.mask}
	if r.tokenTypeIDs {
		if r.typeIDs, err = ort.NewTensor(inputShape, make([]int64, seqLen)); err != nil {
			return fmt.Errorf("failed to create token type tensor: %w", err)
		}
		inputNames = append(inputNames, "token_type_ids")
		inputs = append(inputs, r.typeIDs)
	}

	r.session, err = ort.NewAdvancedSession(modelPath,
		inputNames,
		[]string{"logits"},
		inputs,
		[]ort.Value{r.logits},
		nil)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Name returns "onnx".
func (r *Recognizer) Name() string {
	return "onnx"
}

// Recognize tokenizes text, runs the model and merges token labels into entities.
// Text beyond the model's input length is not examined.
func (r *Recognizer) Recognize(ctx context.Context, text string) ([]ner.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	encoding := r.tokenizer.EncodeWithOptions(text, true, tokenizers.WithReturnOffsets())
	n := len(encoding.IDs)
	if len(encoding.Offsets) < n {
		n = len(encoding.Offsets)
	}
	if n > r.maxSeqLen {
		r.logger.Warn("input truncated to model sequence length",
			"tokens", n,
			"maxSequenceLength", r.maxSeqLen,
		)
		n = r.maxSeqLen
	}

	ids := r.inputIDs.GetData()
	mask := r.mask.GetData()
	clear(ids)
	clear(mask)
	for i := 0; i < n; i++ {
		ids[i] = int64(encoding.IDs[i])
		mask[i] = 1
	}

	if err := r.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	spans := make([]ner.Span, n)
	for i := 0; i < n; i++ {
		off := encoding.Offsets[i]
		spans[i] = ner.Span{Start: int(off[0]), End: int(off[1])} //nolint:gosec // offsets are bounded by len(text)
	}

	logits := r.logits.GetData()[:n*r.numLabels]
	return ner.DecodeTokenLabels(text, logits, r.numLabels, r.id2label, spans, r.minConfidence), nil
}

// Close releases the session, tensors, tokenizer and the onnxruntime environment.
func (r *Recognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session != nil {
		_ = r.session.Destroy()
		r.session = nil
	}
	for _, t := range []*ort.Tensor[int64]{r.inputIDs, r.mask, r.typeIDs} {
		if t != nil {
			_ = t.Destroy()
		}
	}
	r.inputIDs, r.mask, r.typeIDs = nil, nil, nil
	if r.logits != nil {
		_ = r.logits.Destroy()
		r.logits = nil
	}
	if r.tokenizer != nil {
		_ = r.tokenizer.Close()
		r.tokenizer = nil
	}
	if ort.IsInitialized() {
		return ort.DestroyEnvironment()
	}
	return nil
}
