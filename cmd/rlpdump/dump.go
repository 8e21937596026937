package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/PigCharid/go-rlp/common"
	"github.com/PigCharid/go-rlp/crypto"
	"github.com/PigCharid/go-rlp/ethdb"
	"github.com/PigCharid/go-rlp/log"
	"github.com/PigCharid/go-rlp/rlp"
	"github.com/PigCharid/go-rlp/trie"
	"github.com/fatih/color"
	"github.com/golang/snappy"
	"github.com/holiman/uint256"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

// dumper pretty-prints decoded values. Strings that are printable ASCII are
// quoted, everything else is shown as hex.
type dumper struct {
	out     io.Writer
	noASCII bool
	str     func(a ...interface{}) string
	bin     func(a ...interface{}) string
}

func newDumper(out io.Writer, noASCII, usecolor bool) *dumper {
	d := &dumper{out: out, noASCII: noASCII, str: fmt.Sprint, bin: fmt.Sprint}
	if usecolor {
		str, bin := color.New(color.FgGreen), color.New(color.FgCyan)
		str.EnableColor()
		bin.EnableColor()
		d.str, d.bin = str.SprintFunc(), bin.SprintFunc()
	}
	return d
}

func (d *dumper) dump(v rlp.Value, depth int) {
	switch v := v.(type) {
	case rlp.Bytes:
		if len(v) == 0 || !d.noASCII && isASCII(v) {
			fmt.Fprintf(d.out, "%s%s", ws(depth), d.str(strconv.Quote(string(v))))
		} else {
			fmt.Fprintf(d.out, "%s%s", ws(depth), d.bin(hex.EncodeToString(v)))
		}
	case rlp.List:
		if len(v) == 0 {
			fmt.Fprint(d.out, ws(depth)+"[]")
			return
		}
		fmt.Fprintln(d.out, ws(depth)+"[")
		for i, elem := range v {
			if i > 0 {
				fmt.Fprint(d.out, ",\n")
			}
			d.dump(elem, depth+1)
		}
		fmt.Fprint(d.out, "\n"+ws(depth)+"]")
	default:
		panic(fmt.Sprintf("unexpected decoded value %T", v))
	}
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c < 32 || c > 126 {
			return false
		}
	}
	return true
}

func ws(n int) string {
	return strings.Repeat("  ", n)
}

func decodeCommand(ctx *cli.Context) error {
	var (
		cfg = config(ctx)
		out = ctx.App.Writer
		d   = newDumper(out, ctx.Bool(noASCIIFlag.Name), ctx.Bool(colorFlag.Name))
	)
	data, err := readInput(ctx)
	if err != nil {
		return err
	}
	if ctx.Bool(singleFlag.Name) {
		v, err := cfg.Decoder.Decode(data)
		if err != nil {
			return err
		}
		d.dump(v, 0)
		fmt.Fprintln(out)
		return nil
	}
	vals, err := cfg.Decoder.DecodeAll(data)
	if err != nil {
		return err
	}
	for _, v := range vals {
		d.dump(v, 0)
		fmt.Fprintln(out)
	}
	return nil
}

func encodeCommand(ctx *cli.Context) error {
	var (
		src []byte
		err error
	)
	if ctx.NArg() > 0 {
		src = []byte(ctx.Args().First())
	} else if src, err = io.ReadAll(ctx.App.Reader); err != nil {
		return err
	}
	v, err := parseJSONValue(src)
	if err != nil {
		return err
	}
	enc, err := rlp.EncodeToBytes(v)
	if err != nil {
		return err
	}
	if ctx.Bool(snappyFlag.Name) {
		enc = snappy.Encode(nil, enc)
	}
	fmt.Fprintln(ctx.App.Writer, hex.EncodeToString(enc))
	return nil
}

// parseJSONValue reads a single JSON document and converts it into an RLP value.
func parseJSONValue(src []byte) (rlp.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()

	var x interface{}
	if err := dec.Decode(&x); err != nil {
		return nil, fmt.Errorf("invalid JSON: %v", err)
	}
	if dec.More() {
		return nil, errors.New("invalid JSON: data after top-level value")
	}
	return jsonToValue(x)
}

func jsonToValue(x interface{}) (rlp.Value, error) {
	switch x := x.(type) {
	case nil:
		return rlp.Empty{}, nil
	case string:
		return rlp.Text(x), nil
	case json.Number:
		n, ok := new(big.Int).SetString(string(x), 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer %s", x)
		}
		if n.Sign() < 0 {
			return nil, fmt.Errorf("negative integer %s", x)
		}
		if n.IsUint64() {
			return rlp.Uint(n.Uint64()), nil
		}
		u, overflow := uint256.FromBig(n)
		if overflow {
			return nil, fmt.Errorf("integer %s exceeds 256 bits", x)
		}
		return rlp.NewUint256(u), nil
	case []interface{}:
		list := make(rlp.List, len(x))
		for i, elem := range x {
			v, err := jsonToValue(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %v", i, err)
			}
			list[i] = v
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unsupported JSON value of type %T", x)
	}
}

func lengthCommand(ctx *cli.Context) error {
	data, err := readInput(ctx)
	if err != nil {
		return err
	}
	size, err := rlp.GetLength(data)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, size)
	return nil
}

func splitCommand(ctx *cli.Context) error {
	data, err := readInput(ctx)
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetHeader([]string{"Index", "Offset", "Kind", "Size", "Content"})

	for i, offset := 0, 0; len(data) > 0; i++ {
		kind, content, rest, err := rlp.Split(data)
		if err != nil {
			return fmt.Errorf("value %d at offset %d: %w", i, offset, err)
		}
		size := len(data) - len(rest)
		table.Append([]string{
			strconv.Itoa(i),
			strconv.Itoa(offset),
			kind.String(),
			strconv.Itoa(size),
			strconv.Itoa(len(content)),
		})
		offset += size
		data = rest
	}
	table.Render()
	return nil
}

func hashCommand(ctx *cli.Context) error {
	data, err := readInput(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, crypto.Keccak256Hash(data).Hex())
	return nil
}

// listItems returns the encodings of the elements of the list in data.
func listItems(dec *rlp.Decoder, data []byte) ([][]byte, error) {
	if _, err := dec.Decode(data); err != nil {
		return nil, err
	}
	content, _, err := rlp.SplitList(data)
	if err != nil {
		return nil, err
	}
	var items [][]byte
	for len(content) > 0 {
		_, _, rest, err := rlp.Split(content)
		if err != nil {
			return nil, err
		}
		items = append(items, content[:len(content)-len(rest)])
		content = rest
	}
	return items, nil
}

func rootCommand(ctx *cli.Context) error {
	cfg := config(ctx)
	data, err := readInput(ctx)
	if err != nil {
		return err
	}
	items, err := listItems(&cfg.Decoder, data)
	if err != nil {
		return err
	}
	if !ctx.IsSet(dataDirFlag.Name) {
		fmt.Fprintln(ctx.App.Writer, trie.DeriveRoot(items).Hex())
		return nil
	}
	root, err := storeItems(ctx.String(dataDirFlag.Name), ctx.Int(cacheFlag.Name), items)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, root.Hex())
	return nil
}

// storeItems builds the item trie in a leveldb database at path and returns
// its root. The trie can be reopened later from the root hash.
func storeItems(path string, cache int, items [][]byte) (common.Hash, error) {
	db, err := ethdb.OpenLevelDB(path, cache, 0, false)
	if err != nil {
		return common.Hash{}, err
	}
	defer db.Close()

	var (
		triedb = trie.NewDatabaseWithConfig(db, &trie.Config{Cache: cache})
		t      = trie.NewEmpty(triedb)
	)
	for i, item := range items {
		key, err := rlp.EncodeToBytes(uint(i))
		if err != nil {
			return common.Hash{}, err
		}
		if err := t.TryUpdate(key, item); err != nil {
			return common.Hash{}, err
		}
	}
	root, nodes, err := t.Commit()
	if err != nil {
		return common.Hash{}, err
	}
	if err := triedb.Commit(root, true); err != nil {
		return common.Hash{}, err
	}
	log.Info("Stored item trie", "root", root, "items", len(items), "nodes", nodes, "path", db.Path())
	return root, nil
}
