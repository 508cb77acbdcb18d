package gamee

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// DefaultSalt is the shared secret the scoring service mixes into every
// gameplay checksum.
const DefaultSalt = "crmjbjm3lczhlgnek9uaxz2l9svlfjw14npauhen"

// Checksum computes the tamper-evidence digest the service expects with a
// gameplay record: md5 over "score:playTime:gameURL::salt". It is not a
// secret, just a token the server recomputes and compares.
func Checksum(score, playTime int, gameURL, salt string) string {
	raw := fmt.Sprintf("%d:%d:%s::%s", score, playTime, gameURL, salt)
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
