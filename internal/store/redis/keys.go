package redis

const (
	// KeyPrefixResult is the prefix for cached conversion results.
	KeyPrefixResult = "bmconv:result:"
)

// ResultKey returns the Redis key for a conversion result by payload digest.
func ResultKey(digest string) string {
	return KeyPrefixResult + digest
}
