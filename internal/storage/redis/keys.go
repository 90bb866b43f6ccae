package redis

import "fmt"

// accountsKey returns the Redis key for the LIST holding one JSON account per element
func accountsKey(prefix string) string {
	return fmt.Sprintf("%s:accounts", prefix)
}
