package cli

import (
	"encoding/hex"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/bytedance/sonic"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	zlog "github.com/lk2023060901/objwire/pkg/log"
	"github.com/lk2023060901/objwire/pkg/util/merr"
	"github.com/lk2023060901/objwire/pkg/wire"
)

// Result 是 encode 与 decode 每个值输出的一行 JSON。
type Result struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
	Tier  string `json:"tier,omitempty"`
	Hex   string `json:"hex"`
	Size  int    `json:"size"`
}

type kindCodec struct {
	encode func(s string) ([]byte, string, error)
	decode func(src []byte) (string, int, string, error)
}

var kinds = map[string]kindCodec{
	"bool": {
		encode: func(s string) ([]byte, string, error) {
			v, err := strconv.ParseBool(s)
			return wire.AppendBool(nil, v), "", err
		},
		decode: func(src []byte) (string, int, string, error) {
			v, n, err := wire.DecodeBool(src)
			return strconv.FormatBool(v), n, "", err
		},
	},
	"byte": {
		encode: func(s string) ([]byte, string, error) {
			v, err := strconv.ParseUint(s, 0, 8)
			return wire.AppendByte(nil, byte(v)), "", err
		},
		decode: func(src []byte) (string, int, string, error) {
			if len(src) == 0 {
				return "", 0, "", merr.WrapErrIoUnexpectEOF("read byte", io.ErrUnexpectedEOF)
			}
			return strconv.Itoa(int(src[0])), 1, "", nil
		},
	},
	"char": {
		encode: func(s string) ([]byte, string, error) {
			v, err := parseChar(s)
			return wire.AppendChar(nil, v), "", err
		},
		decode: func(src []byte) (string, int, string, error) {
			v, n, err := wire.DecodeChar(src)
			return strconv.Itoa(int(v)), n, "", err
		},
	},
	"int16": {
		encode: func(s string) ([]byte, string, error) {
			v, err := strconv.ParseInt(s, 0, 16)
			return wire.AppendInt16(nil, int16(v)), wire.Int32Tier(int32(v)).String(), err
		},
		decode: func(src []byte) (string, int, string, error) {
			v, n, err := wire.DecodeInt16(src)
			return strconv.Itoa(int(v)), n, wire.Int32Tier(int32(v)).String(), err
		},
	},
	"int32": {
		encode: func(s string) ([]byte, string, error) {
			v, err := strconv.ParseInt(s, 0, 32)
			return wire.AppendInt32(nil, int32(v)), wire.Int32Tier(int32(v)).String(), err
		},
		decode: func(src []byte) (string, int, string, error) {
			v, n, err := wire.DecodeInt32(src)
			return strconv.Itoa(int(v)), n, wire.Int32Tier(v).String(), err
		},
	},
	"int64": {
		encode: func(s string) ([]byte, string, error) {
			v, err := strconv.ParseInt(s, 0, 64)
			return wire.AppendInt64(nil, v), wire.Int64Tier(v).String(), err
		},
		decode: func(src []byte) (string, int, string, error) {
			v, n, err := wire.DecodeInt64(src)
			return strconv.FormatInt(v, 10), n, wire.Int64Tier(v).String(), err
		},
	},
	"float32": {
		encode: func(s string) ([]byte, string, error) {
			v, err := strconv.ParseFloat(s, 32)
			return wire.AppendFloat32(nil, float32(v)), wire.Float32Form(float32(v)).String(), err
		},
		decode: func(src []byte) (string, int, string, error) {
			v, n, err := wire.DecodeFloat32(src)
			return strconv.FormatFloat(float64(v), 'g', -1, 32), n, wire.Float32Form(v).String(), err
		},
	},
	"float64": {
		encode: func(s string) ([]byte, string, error) {
			v, err := strconv.ParseFloat(s, 64)
			return wire.AppendFloat64(nil, v), wire.Float64Form(v).String(), err
		},
		decode: func(src []byte) (string, int, string, error) {
			v, n, err := wire.DecodeFloat64(src)
			return strconv.FormatFloat(v, 'g', -1, 64), n, wire.Float64Form(v).String(), err
		},
	},
	"string": {
		encode: func(s string) ([]byte, string, error) {
			return wire.AppendString(nil, s), "", nil
		},
		decode: func(src []byte) (string, int, string, error) {
			v, n, err := wire.DecodeString(src)
			return v, n, "", err
		},
	},
}

// parseChar 接受数字（十进制或 0x 前缀）或单个 BMP 字符。
func parseChar(s string) (uint16, error) {
	if v, err := strconv.ParseUint(s, 0, 16); err == nil {
		return uint16(v), nil
	}
	runes := []rune(s)
	if len(runes) == 1 && !utf16.IsSurrogate(runes[0]) && runes[0] <= 0xffff {
		return uint16(runes[0]), nil
	}
	return 0, merr.WrapErrParameterInvalidMsg("char must be a number or a single BMP character: %q", s)
}

func lookupKind(kind string) (kindCodec, error) {
	c, ok := kinds[kind]
	if !ok {
		return kindCodec{}, merr.WrapErrParameterInvalidMsg("unknown kind %q, expected one of %s",
			kind, strings.Join(kindNames(), ", "))
	}
	return c, nil
}

func kindNames() []string {
	names := lo.Keys(kinds)
	slices.Sort(names)
	return names
}

func writeResult(cmd *cobra.Command, r Result) error {
	data, err := sonic.Marshal(r)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(append(data, '\n'))
	return err
}

func newEncodeCmd() *cobra.Command {
	var kind string
	encodeCmd := &cobra.Command{
		Use:   "encode VALUE...",
		Short: "Encode values and print their wire bytes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := lookupKind(kind)
			if err != nil {
				return err
			}
			ctx, span := zlog.NewIntentContext("wirectl", "encode")
			defer span.End()
			for _, arg := range args {
				data, tier, err := codec.encode(arg)
				if err != nil {
					return merr.WrapErrParameterInvalidMsg("parse %s %q: %v", kind, arg, err)
				}
				zlog.Ctx(ctx).Debug("encoded", zap.String("kind", kind), zap.String("value", arg), zap.Int("size", len(data)))
				if err := writeResult(cmd, Result{
					Kind:  kind,
					Value: arg,
					Tier:  tier,
					Hex:   hex.EncodeToString(data),
					Size:  len(data),
				}); err != nil {
					return err
				}
			}
			return nil
		},
	}
	encodeCmd.Flags().StringVarP(&kind, "kind", "k", "int32", "value kind: "+strings.Join(kindNames(), ", "))
	return encodeCmd
}

func newDecodeCmd() *cobra.Command {
	var kind string
	decodeCmd := &cobra.Command{
		Use:   "decode HEX...",
		Short: "Decode hex encoded wire bytes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := lookupKind(kind)
			if err != nil {
				return err
			}
			ctx, span := zlog.NewIntentContext("wirectl", "decode")
			defer span.End()
			for _, arg := range args {
				src, err := hex.DecodeString(strings.TrimPrefix(arg, "0x"))
				if err != nil {
					return merr.WrapErrParameterInvalidMsg("decode hex %q: %v", arg, err)
				}
				value, n, tier, err := codec.decode(src)
				if err != nil {
					return err
				}
				if n != len(src) {
					return merr.WrapErrIoMalformed("trailing bytes after value", arg)
				}
				zlog.Ctx(ctx).Debug("decoded", zap.String("kind", kind), zap.String("hex", arg))
				if err := writeResult(cmd, Result{
					Kind:  kind,
					Value: value,
					Tier:  tier,
					Hex:   hex.EncodeToString(src),
					Size:  n,
				}); err != nil {
					return err
				}
			}
			return nil
		},
	}
	decodeCmd.Flags().StringVarP(&kind, "kind", "k", "int32", "value kind: "+strings.Join(kindNames(), ", "))
	return decodeCmd
}
