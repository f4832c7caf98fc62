// Package migrations holds the schema history for users and cafes.
// Each file registers itself from init(); importing the package is enough
// to make the migrations visible to the runner.
package migrations
