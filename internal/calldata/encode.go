// Package calldata turns human supplied initializer arguments into ABI call
// data. Arguments are strings, as they appear in deployment plans and on the
// command line; they are converted according to the method's input types.
package calldata

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
)

// Encode packs a call to method with string arguments converted to the
// method's input types
func Encode(contractABI *abi.ABI, method string, args []string) ([]byte, error) {
	m, ok := contractABI.Methods[method]
	if !ok {
		return nil, fmt.Errorf("method %q not found in ABI", method)
	}
	if len(args) != len(m.Inputs) {
		return nil, fmt.Errorf("%s expects %d arguments, got %d", m.Sig, len(m.Inputs), len(args))
	}

	values := make([]any, len(args))
	for i, input := range m.Inputs {
		v, err := Convert(input.Type, args[i])
		if err != nil {
			name := input.Name
			if name == "" {
				name = strconv.Itoa(i)
			}
			return nil, fmt.Errorf("%s argument %s: %w", m.Name, name, err)
		}
		values[i] = v
	}
	return contractABI.Pack(method, values...)
}

// Convert parses s as a value of the ABI type t
func Convert(t abi.Type, s string) (any, error) {
	s = strings.TrimSpace(s)
	switch t.T {
	case abi.UintTy, abi.IntTy:
		return convertInt(t, s)
	case abi.AddressTy:
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid address %q", s)
		}
		return common.HexToAddress(s), nil
	case abi.StringTy:
		return s, nil
	case abi.BoolTy:
		return strconv.ParseBool(s)
	case abi.BytesTy:
		if s == "" || s == "0x" {
			return []byte{}, nil
		}
		return hexutil.Decode(s)
	case abi.FixedBytesTy:
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("invalid bytes%d %q: %w", t.Size, s, err)
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("invalid bytes%d %q: got %d bytes", t.Size, s, len(b))
		}
		v := reflect.New(t.GetType()).Elem()
		reflect.Copy(v, reflect.ValueOf(b))
		return v.Interface(), nil
	case abi.SliceTy:
		return convertSlice(t, s)
	}
	return nil, fmt.Errorf("unsupported argument type %s", t.String())
}

func convertInt(t abi.Type, s string) (any, error) {
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	if t.T == abi.UintTy && n.Sign() < 0 {
		return nil, fmt.Errorf("negative value %q for %s", s, t.String())
	}
	if n.BitLen() > t.Size {
		return nil, fmt.Errorf("value %q overflows %s", s, t.String())
	}

	// go-ethereum maps these sizes to native Go integers
	switch {
	case t.T == abi.UintTy && t.Size == 8:
		return uint8(n.Uint64()), nil
	case t.T == abi.UintTy && t.Size == 16:
		return uint16(n.Uint64()), nil
	case t.T == abi.UintTy && t.Size == 32:
		return uint32(n.Uint64()), nil
	case t.T == abi.UintTy && t.Size == 64:
		return n.Uint64(), nil
	case t.T == abi.IntTy && t.Size == 8:
		return int8(n.Int64()), nil
	case t.T == abi.IntTy && t.Size == 16:
		return int16(n.Int64()), nil
	case t.T == abi.IntTy && t.Size == 32:
		return int32(n.Int64()), nil
	case t.T == abi.IntTy && t.Size == 64:
		return n.Int64(), nil
	}
	return n, nil
}

// SplitList splits a list argument. "[a, b]", "a,b" and "" (empty list) are accepted.
func SplitList(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return lo.Map(strings.Split(s, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	})
}

func convertSlice(t abi.Type, s string) (any, error) {
	items := SplitList(s)
	out := reflect.MakeSlice(t.GetType(), 0, len(items))
	for i, item := range items {
		v, err := Convert(*t.Elem, item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = reflect.Append(out, reflect.ValueOf(v))
	}
	return out.Interface(), nil
}
