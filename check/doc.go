// Package check contains the pure, network-free gates for mailprobe.
// These can be used directly, but the recommended approach is the
// Verifier API from the github.com/optimode/mailprobe package.
package check
