package utils

import "fmt"

// FormatByteSize memformat ukuran file untuk ditampilkan
// Example: 512 -> "512 B", 2048 -> "2.0 KB", 3145728 -> "3.0 MB"
func FormatByteSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
}
