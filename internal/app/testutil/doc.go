// Package testutil provides shared testing doubles for the a2s pipeline.
//
// The mocks follow one pattern: construct with New*, configure with the
// fluent With* methods, then inspect recorded calls after the code under
// test ran. All of them are safe for concurrent use so worker-pool code can
// be exercised directly.
package testutil
