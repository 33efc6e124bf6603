package config

import (
	"os"
	"testing"
)

// unsetForTest removes key for the duration of the test and restores it after
func unsetForTest(t *testing.T, key string) {
	t.Helper()
	original, existed := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("Failed to clear environment variable %s: %v", key, err)
	}
	t.Cleanup(func() {
		if existed {
			_ = os.Setenv(key, original)
		}
	})
}
