// Package mocks provides hand-written test doubles for the service and
// store interfaces. Each mock exposes Fn fields to override behavior per
// test and tracks calls for verification.
package mocks
