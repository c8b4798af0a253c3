// Package model defines the data structures shared across psiscan.
//
//   - Attribute: the closed vocabulary of PSI kinds (First Name, Location, ...)
//   - Value and Record: an ordered PSI record whose values are strings or string lists
//   - FileResult: the outcome of processing a single CV file
//   - Run: all file results of one pass over an input directory
//
// Records keep insertion order so that reports list attributes in the order
// they were extracted, and the anonymized record mirrors the original.
package model
