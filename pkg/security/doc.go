// Package security provides validation, sanitization, and limits for the jobs package.
//
// This package includes:
//   - Input validation for queue identifiers and job names
//   - Error message sanitization before failures are recorded
//   - Clamping functions to enforce safe limits on retries and delays
//
// Most users should import the root package github.com/jdziat/simple-sequential-jobs
// which re-exports these functions.
package security
