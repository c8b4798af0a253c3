// Package main provides the entry point for the psiscan CLI.
//
// psiscan reads a directory of CVs stored as JSON, extracts personally
// sensitive information (names, date of birth, gender, age, nationality,
// marital status, organizations, education, locations and people) and prints
// each record next to an anonymized copy.
//
// Usage:
//
//	psiscan scan [dir]
//	psiscan init
//
// See --help for all available options.
package main

import "github.com/joho/godotenv"

func main() {
	// A missing .env is not an error.
	_ = godotenv.Load()
	Execute()
}
