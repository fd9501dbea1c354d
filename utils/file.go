package utils

import "os"

// GetFileSizeMB returns the size of path in mebibytes.
func GetFileSizeMB(path string) (float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return float64(info.Size()) / (1024 * 1024), nil
}
