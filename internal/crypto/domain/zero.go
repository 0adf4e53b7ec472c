package domain

import "github.com/awnumar/memguard"

// Zero securely overwrites a byte slice with zeros to clear sensitive data from memory.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	memguard.WipeBytes(b)
}
