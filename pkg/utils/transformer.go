package utils

// ReverseStrMap swaps keys and values; duplicate values keep an arbitrary key.
func ReverseStrMap(m map[string]string) map[string]string {
	reversed := make(map[string]string, len(m))
	for k, v := range m {
		reversed[v] = k
	}
	return reversed
}
