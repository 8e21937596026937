package trie

import (
	"bytes"

	"github.com/PigCharid/go-rlp/common"
	"github.com/PigCharid/go-rlp/rlp"
)

// DeriveRoot computes the root hash of a trie holding the items of a list, each
// stored under the RLP encoding of its index. This is how Ethereum commits to
// the transactions and receipts of a block.
// 以rlp(index)为key把列表的每一项放入trie，返回根哈希
func DeriveRoot(items [][]byte) common.Hash {
	var (
		t      = new(Trie)
		keybuf = new(bytes.Buffer)
	)
	for i, item := range items {
		keybuf.Reset()
		rlp.Encode(keybuf, uint(i))
		t.Update(keybuf.Bytes(), item)
	}
	return t.Hash()
}
