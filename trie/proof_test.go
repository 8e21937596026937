// Copyright 2015 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package trie

import (
	"bytes"
	crand "crypto/rand"
	mrand "math/rand"
	"testing"
	"time"

	"github.com/PigCharid/go-rlp/common"
	"github.com/PigCharid/go-rlp/crypto"
	"github.com/PigCharid/go-rlp/ethdb"
	"github.com/stretchr/testify/require"
)

func init() {
	mrand.Seed(time.Now().Unix())
}

type kv struct {
	k, v []byte
}

func randomTrie(n int) (*Trie, map[string]*kv) {
	trie := newEmpty()
	vals := make(map[string]*kv)
	for i := byte(0); i < 100; i++ {
		value := &kv{common.LeftPadBytes([]byte{i}, 32), []byte{i}}
		value2 := &kv{common.LeftPadBytes([]byte{i + 10}, 32), []byte{i}}
		trie.Update(value.k, value.v)
		trie.Update(value2.k, value2.v)
		vals[string(value.k)] = value
		vals[string(value2.k)] = value2
	}
	for i := 0; i < n; i++ {
		value := &kv{randBytes(32), randBytes(20)}
		trie.Update(value.k, value.v)
		vals[string(value.k)] = value
	}
	return trie, vals
}

func randBytes(n int) []byte {
	r := make([]byte, n)
	crand.Read(r)
	return r
}

func TestProof(t *testing.T) {
	trie, vals := randomTrie(500)
	root := trie.Hash()
	for i, prover := range makeProvers(trie) {
		for _, kv := range vals {
			proof := prover(kv.k)
			if proof == nil {
				t.Fatalf("prover %d: missing key %x while constructing proof", i, kv.k)
			}
			val, err := VerifyProof(root, kv.k, proof)
			if err != nil {
				t.Fatalf("prover %d: failed to verify proof for key %x: %v\nraw proof: %x", i, kv.k, err, proof)
			}
			if !bytes.Equal(val, kv.v) {
				t.Fatalf("prover %d: verified value mismatch for key %x: have %x, want %x", i, kv.k, val, kv.v)
			}
		}
	}
}

// makeProvers creates proofs from the in-memory trie and from a trie reloaded
// out of the database after a commit.
func makeProvers(trie *Trie) []func(key []byte) [][]byte {
	var provers []func(key []byte) [][]byte

	// Create a direct trie based Merkle prover
	provers = append(provers, func(key []byte) [][]byte {
		proof, err := trie.Prove(key)
		if err != nil {
			return nil
		}
		return proof
	})
	// Create a prover that works on a committed and reloaded copy
	root, _, err := trie.Copy().Commit()
	if err != nil {
		panic(err)
	}
	provers = append(provers, func(key []byte) [][]byte {
		reloaded, err := New(root, trie.db)
		if err != nil {
			return nil
		}
		proof, err := reloaded.Prove(key)
		if err != nil {
			return nil
		}
		return proof
	})
	return provers
}

func TestOneElementProof(t *testing.T) {
	trie := newEmpty()
	updateString(trie, "k", "v")
	for i, prover := range makeProvers(trie) {
		proof := prover([]byte("k"))
		if proof == nil {
			t.Fatalf("prover %d: nil proof", i)
		}
		if len(proof) != 1 {
			t.Errorf("prover %d: proof should have one element", i)
		}
		val, err := VerifyProof(trie.Hash(), []byte("k"), proof)
		if err != nil {
			t.Fatalf("prover %d: failed to verify proof: %v\nraw proof: %x", i, err, proof)
		}
		if !bytes.Equal(val, []byte("v")) {
			t.Fatalf("prover %d: verified value mismatch: have %x, want 'k'", i, val)
		}
	}
}

func TestBadProof(t *testing.T) {
	trie, vals := randomTrie(800)
	root := trie.Hash()
	for i, prover := range makeProvers(trie) {
		for _, kv := range vals {
			proof := prover(kv.k)
			if proof == nil {
				t.Fatalf("prover %d: nil proof", i)
			}
			// flip a byte in a random node of the proof
			node := proof[mrand.Intn(len(proof))]
			mutateByte(node)
			if _, err := VerifyProof(root, kv.k, proof); err == nil {
				t.Fatalf("prover %d: expected proof to fail for key %x", i, kv.k)
			}
		}
	}
}

// Tests that missing keys can also be proven. The test explicitly uses a single
// entry trie and checks for missing keys both before and after the single entry.
func TestMissingKeyProof(t *testing.T) {
	trie := newEmpty()
	updateString(trie, "k", "v")

	for i, key := range []string{"a", "j", "l", "z"} {
		proof, err := trie.Prove([]byte(key))
		require.NoError(t, err)
		if len(proof) != 1 {
			t.Errorf("test %d: proof should have one element", i)
		}
		val, err := VerifyProof(trie.Hash(), []byte(key), proof)
		if err != nil {
			t.Fatalf("test %d: failed to verify proof: %v\nraw proof: %x", i, err, proof)
		}
		if val != nil {
			t.Fatalf("test %d: verified value mismatch: have %x, want nil", i, val)
		}
	}
}

func TestEmptyTrieProof(t *testing.T) {
	trie := newEmpty()
	proof, err := trie.Prove([]byte("anything"))
	require.NoError(t, err)
	require.Empty(t, proof)

	val, err := VerifyProof(trie.Hash(), []byte("anything"), proof)
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestProofErrors(t *testing.T) {
	trie, vals := randomTrie(100)
	root := trie.Hash()

	var key, want []byte
	for _, kv := range vals {
		key, want = kv.k, kv.v
		break
	}
	proof, err := trie.Prove(key)
	require.NoError(t, err)
	require.True(t, len(proof) > 1)

	val, err := VerifyProof(root, key, proof)
	require.NoError(t, err)
	require.Equal(t, want, val)

	_, err = VerifyProof(root, key, proof[:len(proof)-1])
	require.EqualError(t, err, "unexpected end of proof")

	extra := append(append([][]byte{}, proof...), proof[len(proof)-1])
	_, err = VerifyProof(root, key, extra)
	require.EqualError(t, err, "additional nodes at end of proof")

	_, err = VerifyProof(crypto.Keccak256Hash([]byte("other root")), key, proof)
	require.EqualError(t, err, "bad proof node 0: hash mismatch")
}

func TestProveMissingNode(t *testing.T) {
	diskdb := ethdb.NewMemoryDatabase()
	triedb := NewDatabase(diskdb)
	trie := NewEmpty(triedb)
	updateString(trie, "120000", "qwerqwerqwerqwerqwerqwerqwerqwer")
	updateString(trie, "123456", "asdfasdfasdfasdfasdfasdfasdfasdf")
	root, _, err := trie.Commit()
	require.NoError(t, err)
	require.NoError(t, triedb.Commit(root, false))
	require.NoError(t, diskdb.Delete(leafHash(t, diskdb, []byte("qwerqwerqwerqwerqwerqwerqwerqwer"))))

	trie, err = New(root, triedb)
	require.NoError(t, err)
	_, err = trie.Prove([]byte("120000"))
	if _, ok := err.(*MissingNodeError); !ok {
		t.Fatalf("wrong error: %v", err)
	}
}

// mutateByte changes one byte in b.
func mutateByte(b []byte) {
	for r := mrand.Intn(len(b)); ; {
		new := byte(mrand.Intn(255))
		if new != b[r] {
			b[r] = new
			break
		}
	}
}

func BenchmarkProve(b *testing.B) {
	trie, vals := randomTrie(100)
	var keys []string
	for k := range vals {
		keys = append(keys, k)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		kv := vals[keys[i%len(keys)]]
		if proof, _ := trie.Prove(kv.k); len(proof) == 0 {
			b.Fatalf("zero length proof for %x", kv.k)
		}
	}
}

func BenchmarkVerifyProof(b *testing.B) {
	trie, vals := randomTrie(100)
	root := trie.Hash()
	var keys []string
	var proofs [][][]byte
	for k := range vals {
		keys = append(keys, k)
		proof, _ := trie.Prove([]byte(k))
		proofs = append(proofs, proof)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		im := i % len(keys)
		if _, err := VerifyProof(root, []byte(keys[im]), proofs[im]); err != nil {
			b.Fatalf("key %x: %v", keys[im], err)
		}
	}
}
