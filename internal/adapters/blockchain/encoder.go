package blockchain

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
)

// ConstructorEncoder converts positional string arguments to the Go types the
// compiled constructor expects and ABI-encodes them
type ConstructorEncoder struct{}

// NewConstructorEncoder creates a new encoder
func NewConstructorEncoder() *ConstructorEncoder {
	return &ConstructorEncoder{}
}

// Encode returns the ABI-encoded constructor arguments (without bytecode).
// Every failure is a configuration error: nothing has touched the chain yet.
func (e *ConstructorEncoder) Encode(parsed abi.ABI, variant domain.ContractVariant, positional []any) ([]byte, error) {
	inputs := parsed.Constructor.Inputs
	if len(inputs) != variant.ConstructorArity() {
		return nil, domain.NewConfigurationError("encode constructor",
			fmt.Errorf("%w: artifact constructor takes %d arguments but the %s variant has %d (%s)",
				domain.ErrVariantMismatch, len(inputs), variant, variant.ConstructorArity(), describeInputs(inputs)))
	}
	if len(positional) != len(inputs) {
		return nil, domain.NewConfigurationError("encode constructor",
			fmt.Errorf("%w: got %d arguments for %d constructor inputs", domain.ErrVariantMismatch, len(positional), len(inputs)))
	}

	converted := make([]any, len(inputs))
	for i, input := range inputs {
		v, err := convertArg(input.Type, positional[i])
		if err != nil {
			return nil, domain.NewConfigurationError("encode constructor",
				fmt.Errorf("%w: argument %d (%s %s): %v", domain.ErrInvalidConfig, i, input.Type.String(), input.Name, err))
		}
		converted[i] = v
	}

	// Pack with an empty method name encodes constructor inputs
	data, err := parsed.Pack("", converted...)
	if err != nil {
		return nil, domain.NewConfigurationError("encode constructor", fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err))
	}
	return data, nil
}

// EncodeHex is Encode as a 0x-prefixed hex string
func (e *ConstructorEncoder) EncodeHex(parsed abi.ABI, variant domain.ContractVariant, positional []any) (string, error) {
	data, err := e.Encode(parsed, variant, positional)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(data), nil
}

func describeInputs(inputs abi.Arguments) string {
	parts := make([]string, len(inputs))
	for i, in := range inputs {
		parts[i] = strings.TrimSpace(in.Type.String() + " " + in.Name)
	}
	return "constructor(" + strings.Join(parts, ", ") + ")"
}

func convertArg(typ abi.Type, value any) (any, error) {
	switch typ.T {
	case abi.SliceTy, abi.ArrayTy:
		items, ok := value.([]string)
		if !ok {
			return nil, fmt.Errorf("expected a list, got %T", value)
		}
		if typ.T == abi.ArrayTy && len(items) != typ.Size {
			return nil, fmt.Errorf("expected %d items, got %d", typ.Size, len(items))
		}
		var out reflect.Value
		if typ.T == abi.SliceTy {
			out = reflect.MakeSlice(typ.GetType(), len(items), len(items))
		} else {
			out = reflect.New(typ.GetType()).Elem()
		}
		for i, item := range items {
			v, err := convertArg(*typ.Elem, item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			out.Index(i).Set(reflect.ValueOf(v))
		}
		return out.Interface(), nil
	}

	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("expected a single value, got %T", value)
	}
	if strings.TrimSpace(s) != s {
		return nil, fmt.Errorf("%q has surrounding whitespace", s)
	}

	switch typ.T {
	case abi.UintTy, abi.IntTy:
		n, err := parseInteger(s)
		if err != nil {
			return nil, err
		}
		if typ.T == abi.UintTy {
			if n.Sign() < 0 {
				return nil, fmt.Errorf("%q is negative", s)
			}
			if n.BitLen() > typ.Size {
				return nil, fmt.Errorf("%q overflows uint%d", s, typ.Size)
			}
		} else if n.BitLen() >= typ.Size {
			return nil, fmt.Errorf("%q overflows int%d", s, typ.Size)
		}
		if typ.Size > 64 {
			return n, nil
		}
		out := reflect.New(typ.GetType()).Elem()
		if typ.T == abi.UintTy {
			out.SetUint(n.Uint64())
		} else {
			out.SetInt(n.Int64())
		}
		return out.Interface(), nil
	case abi.AddressTy:
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("%q is not an address", s)
		}
		return common.HexToAddress(s), nil
	case abi.BoolTy:
		return strconv.ParseBool(s)
	case abi.StringTy:
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported constructor type %s", typ.String())
	}
}

// parseInteger reads decimal, or hex with a 0x prefix. A leading zero is not octal.
func parseInteger(s string) (*big.Int, error) {
	n := new(big.Int)
	var ok bool
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		_, ok = n.SetString(s[2:], 16)
	} else {
		_, ok = n.SetString(s, 10)
	}
	if !ok {
		return nil, fmt.Errorf("%q is not an integer", s)
	}
	return n, nil
}
