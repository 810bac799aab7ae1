package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"lukechampine.com/blake3"
)

type HashAlgo string

const (
	HashAlgoSHA256 = "sha256"
	HashAlgoBLAKE3 = "blake3"
)

var digesters = map[HashAlgo]func([]byte) [32]byte{
	HashAlgoSHA256: sha256.Sum256,
	HashAlgoBLAKE3: blake3.Sum256,
}

// HashBytes hex-encodes the digest of data under algo. It is used both for
// the page store's content-change detection and for the crawl checkpoint's
// content hash list, so callers must pick a stable algo up front: digests
// computed under different algos are never comparable.
func HashBytes(data []byte, algo HashAlgo) (string, error) {
	digest, ok := digesters[algo]
	if !ok {
		return "", fmt.Errorf("unsupported hash algorithm: %s", algo)
	}
	sum := digest(data)
	return hex.EncodeToString(sum[:]), nil
}
