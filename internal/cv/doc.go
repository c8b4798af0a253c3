// Package cv reads CV documents and turns them into text for extraction.
//
// A CV file is a JSON object with a single top-level member whose value maps
// section names to content. Content is either a list of entries or a single
// entry, and entries carry their prose in a "text" member:
//
//	{"cv": {
//	    "PersonalStatement": [{"text": "John Smith, 34 years old ..."}],
//	    "Education": {"text": "MSc, University of Leeds"}
//	}}
//
// Load lists a directory and parses files lazily, one at a time. AssembleText
// joins every text member in declared section order; PersonalStatement
// returns only the first personal statement entry.
package cv
