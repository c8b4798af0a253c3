// Package pipeline processes one CV at a time through a fixed sequence of steps.
//
// The default sequence assembles the CV text, runs the regex extractor, runs
// entity recognition, merges the two results and anonymizes the merged record.
// Each step reads and extends a *model.FileResult. A step failure skips the
// file, except a recognizer failure, which is returned as ErrRecognition and
// ends the run.
package pipeline
