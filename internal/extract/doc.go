// Package extract finds personally-sensitive information in CV text.
//
// RegexExtractor covers names, date of birth, gender, age, nationality and
// marital status. NERExtractor asks a ner.Recognizer for entities and buckets
// them into Organization, Education, Location and Person through a LabelMap,
// which is where the education label is configured. Merge combines both
// results into one record.
package extract
