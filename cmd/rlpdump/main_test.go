package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PigCharid/go-rlp/common"
	"github.com/PigCharid/go-rlp/ethdb"
	"github.com/PigCharid/go-rlp/rlp"
	"github.com/PigCharid/go-rlp/trie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes rlpdump with the given arguments and returns its output.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	app.Reader = strings.NewReader(stdin)
	err := app.Run(append([]string{"rlpdump"}, args...))
	return out.String(), err
}

func TestDecode(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--hex", "c88363617483646f67"}, "[\n  \"cat\",\n  \"dog\"\n]\n"},
		{[]string{"--hex", "0xc88363617483646f67", "decode"}, "[\n  \"cat\",\n  \"dog\"\n]\n"},
		{[]string{"--noascii", "--hex", "c88363617483646f67"}, "[\n  636174,\n  646f67\n]\n"},
		{[]string{"--hex", "c0"}, "[]\n"},
		{[]string{"--hex", "80"}, "\"\"\n"},
		{[]string{"--hex", "820400"}, "0400\n"},
		{[]string{"--hex", "c7c0c1c0c3c0c1c0"}, "[\n  [],\n  [\n    []\n  ],\n  [\n    [],\n    [\n      []\n    ]\n  ]\n]\n"},
		// a stream of values is printed one per line
		{[]string{"--hex", "83636174c0"}, "\"cat\"\n[]\n"},
	}
	for _, test := range tests {
		out, err := run(t, "", test.args...)
		require.NoError(t, err, "args %v", test.args)
		assert.Equal(t, test.want, out, "args %v", test.args)
	}
}

func TestDecodeSingle(t *testing.T) {
	_, err := run(t, "", "--single", "--hex", "83636174c0")
	assert.True(t, errors.Is(err, rlp.ErrInvalidRemainder), "got %v", err)

	out, err := run(t, "", "--single", "--hex", "83636174")
	require.NoError(t, err)
	assert.Equal(t, "\"cat\"\n", out)
}

func TestDecodeInputSources(t *testing.T) {
	out, err := run(t, string([]byte{0x83, 'd', 'o', 'g'}))
	require.NoError(t, err)
	assert.Equal(t, "\"dog\"\n", out)

	file := filepath.Join(t.TempDir(), "input.rlp")
	require.NoError(t, os.WriteFile(file, []byte{0xc1, 0x01}, 0644))
	out, err = run(t, "", file)
	require.NoError(t, err)
	assert.Equal(t, "[\n  01\n]\n", out)

	_, err = run(t, "", "--hex", "zz")
	assert.Error(t, err)
}

func TestDecodeErrors(t *testing.T) {
	_, err := run(t, "", "--hex", "8100")
	assert.True(t, errors.Is(err, rlp.ErrInvalidEncoding), "got %v", err)

	_, err = run(t, "", "--hex", "c3c2c1c0", "--maxdepth", "2")
	assert.True(t, errors.Is(err, rlp.ErrMaxDepth), "got %v", err)

	_, err = run(t, "", "--hex", "83636174", "--maxsize", "3")
	assert.True(t, errors.Is(err, rlp.ErrMaxSize), "got %v", err)

	_, err = run(t, "", "--hex", "c3c2c1c0", "--maxdepth", "-1")
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	tests := []struct {
		json string
		want string
	}{
		{`"Aaa"`, "83416161"},
		{`["cat", "dog"]`, "c88363617483646f67"},
		{`[]`, "c0"},
		{`null`, "80"},
		{`0`, "80"},
		{`15`, "0f"},
		{`1024`, "820400"},
		{`"0x0400"`, "820400"},
		{`18446744073709551616`, "89010000000000000000"},
		{`[[], [[]], [[], [[]]]]`, "c7c0c1c0c3c0c1c0"},
	}
	for _, test := range tests {
		out, err := run(t, "", "encode", test.json)
		require.NoError(t, err, "input %s", test.json)
		assert.Equal(t, test.want+"\n", out, "input %s", test.json)
	}
	// input from stdin
	out, err := run(t, `["dog"]`, "encode")
	require.NoError(t, err)
	assert.Equal(t, "c483646f67\n", out)
}

func TestEncodeErrors(t *testing.T) {
	for _, input := range []string{
		`-1`,
		`1.5`,
		`true`,
		`{"a": 1}`,
		`["0xzz"]`,
		`[1, 2`,
		`1 2`,
		`115792089237316195423570985008687907853269984665640564039457584007913129639936`,
	} {
		_, err := run(t, "", "encode", input)
		assert.Error(t, err, "input %s", input)
	}
}

func TestSnappy(t *testing.T) {
	out, err := run(t, "", "--snappy", "encode", `["cat", "dog"]`)
	require.NoError(t, err)

	out, err = run(t, "", "--snappy", "--hex", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"cat\",\n  \"dog\"\n]\n", out)

	_, err = run(t, "", "--snappy", "--hex", "c88363617483646f67")
	assert.Error(t, err)
}

func TestLength(t *testing.T) {
	tests := []struct {
		hex  string
		want string
	}{
		{"c88363617483646f67", "9"},
		{"0f", "1"},
		{"b90400", "1027"}, // only the header is needed
		{"", "0"},
	}
	for _, test := range tests {
		out, err := run(t, "", "--hex", test.hex, "length")
		require.NoError(t, err, "input %s", test.hex)
		assert.Equal(t, test.want+"\n", out, "input %s", test.hex)
	}
	_, err := run(t, "", "--hex", "b800", "length")
	assert.Error(t, err)
}

func TestSplit(t *testing.T) {
	out, err := run(t, "", "--hex", "83636174c001", "split")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7, "output:\n%s", out)
	assert.Contains(t, lines[1], "INDEX")
	for i, want := range [][]string{
		{"0", "0", "String", "4", "3"},
		{"1", "4", "List", "1", "0"},
		{"2", "5", "Byte", "1", "1"},
	} {
		assert.Equal(t, want, strings.Fields(strings.ReplaceAll(lines[i+3], "|", " ")), "row %d", i)
	}

	_, err = run(t, "", "--hex", "83636174c2", "split")
	assert.Error(t, err)
}

func TestHash(t *testing.T) {
	out, err := run(t, "", "--hex", "80", "hash")
	require.NoError(t, err)
	assert.Equal(t, trie.EmptyRoot().Hex()+"\n", out)

	out, err = run(t, "", "--hex", "", "hash")
	require.NoError(t, err)
	assert.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470\n", out)
}

const (
	animalList = "ce8363617483646f6785686f727365"
	animalRoot = "0x0b69341950fa88b611369441660479538024466b8ab9b2bea9f45966cd6c1739"
)

func TestRoot(t *testing.T) {
	out, err := run(t, "", "--hex", animalList, "root")
	require.NoError(t, err)
	assert.Equal(t, animalRoot+"\n", out)

	out, err = run(t, "", "--hex", "c0", "root")
	require.NoError(t, err)
	assert.Equal(t, trie.EmptyRoot().Hex()+"\n", out)

	_, err = run(t, "", "--hex", "83636174", "root")
	assert.True(t, errors.Is(err, rlp.ErrExpectedList), "got %v", err)
}

func TestRootDataDir(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "", "--datadir", dir, "--hex", animalList, "root")
	require.NoError(t, err)
	assert.Equal(t, animalRoot+"\n", out)

	db, err := ethdb.OpenLevelDB(dir, 0, 0, true)
	require.NoError(t, err)
	defer db.Close()

	tr, err := trie.New(common.HexToHash(animalRoot), trie.NewDatabase(db))
	require.NoError(t, err)
	for i, want := range []string{"83636174", "83646f67", "85686f727365"} {
		key, _ := rlp.EncodeToBytes(uint(i))
		got, err := tr.TryGet(key)
		require.NoError(t, err)
		assert.Equal(t, common.FromHex(want), got, "item %d", i)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(file, []byte("[Decoder]\nMaxDepth = 2\n\n[Log]\nVerbosity = 1\n"), 0644))

	_, err := run(t, "", "--config", file, "--hex", "c3c2c1c0")
	assert.True(t, errors.Is(err, rlp.ErrMaxDepth), "got %v", err)

	// flags take precedence over the file
	_, err = run(t, "", "--config", file, "--maxdepth", "4", "--hex", "c3c2c1c0")
	assert.NoError(t, err)

	out, err := run(t, "", "--config", file, "--maxsize", "100", "dumpconfig")
	require.NoError(t, err)
	assert.Contains(t, out, "MaxDepth = 2")
	assert.Contains(t, out, "MaxSize = 100")
	assert.Contains(t, out, "Verbosity = 1")

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[Decoder]\nDepth = 2\n"), 0644))
	_, err = run(t, "", "--config", bad, "--hex", "c0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Depth")

	_, err = run(t, "", "--config", filepath.Join(dir, "missing.toml"), "--hex", "c0")
	assert.Error(t, err)
}

func TestDumpConfigDefaults(t *testing.T) {
	out, err := run(t, "", "dumpconfig")
	require.NoError(t, err)
	assert.Contains(t, out, "[Decoder]")
	assert.Contains(t, out, "MaxDepth = 1024")
	assert.Contains(t, out, "[Log]")
}

func TestColorDump(t *testing.T) {
	out, err := run(t, "", "--color", "--hex", "c483636174")
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "\"cat\"")
}

func Example_encode() {
	for _, args := range [][]string{
		{"rlpdump", "encode", `"Aaa"`},
		{"rlpdump", "--hex", "83416161"},
	} {
		app := newApp()
		app.Writer = os.Stdout
		app.Run(args)
	}
	// Output:
	// 83416161
	// "Aaa"
}
