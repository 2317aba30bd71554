package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/objwire/internal/application"
	"github.com/lk2023060901/objwire/pkg/util/merr"
)

func run(t *testing.T, args ...string) ([]Result, error) {
	t.Setenv(application.ConfigPathEnv, "")
	out := &bytes.Buffer{}
	cmd := NewRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()

	var results []Result
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var r Result
		require.NoError(t, sonic.Unmarshal([]byte(line), &r))
		results = append(results, r)
	}
	return results, err
}

func TestEncode(t *testing.T) {
	results, err := run(t, "encode", "--kind", "int32", "42", "-17", "0x7fffffff")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, Result{Kind: "int32", Value: "42", Tier: "byte", Hex: "ba", Size: 1}, results[0])
	assert.Equal(t, "c7ef", results[1].Hex)
	assert.Equal(t, "short", results[1].Tier)
	assert.Equal(t, "full", results[2].Tier)
	assert.Equal(t, 5, results[2].Size)

	results, err = run(t, "encode", "-k", "float64", "3.14159", "0", "-0")
	require.NoError(t, err)
	assert.Equal(t, "float64", results[0].Tier)
	assert.Equal(t, 9, results[0].Size)
	assert.Equal(t, "5b", results[1].Hex)
	assert.Equal(t, "float32", results[2].Tier)

	results, err = run(t, "encode", "-k", "char", "A")
	require.NoError(t, err)
	assert.Equal(t, "0141", results[0].Hex)

	results, err = run(t, "encode", "-k", "string", "hi")
	require.NoError(t, err)
	assert.Equal(t, "026869", results[0].Hex)
}

func TestDecode(t *testing.T) {
	results, err := run(t, "decode", "--kind", "int32", "ba", "0xc7ef")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "42", results[0].Value)
	assert.Equal(t, "-17", results[1].Value)
	assert.Equal(t, "short", results[1].Tier)

	results, err = run(t, "decode", "-k", "bool", "54")
	require.NoError(t, err)
	assert.Equal(t, "true", results[0].Value)
}

func TestDecodeErrors(t *testing.T) {
	_, err := run(t, "decode", "--kind", "int32", "ff")
	assert.ErrorIs(t, err, merr.ErrIoMalformed)

	_, err = run(t, "decode", "--kind", "int32", "baba")
	assert.ErrorIs(t, err, merr.ErrIoMalformed)

	_, err = run(t, "decode", "--kind", "int64", "59")
	assert.ErrorIs(t, err, merr.ErrIoUnexpectEOF)

	_, err = run(t, "decode", "--kind", "int32", "zz")
	assert.ErrorIs(t, err, merr.ErrParameterInvalid)
}

func TestUnknownKind(t *testing.T) {
	_, err := run(t, "encode", "--kind", "complex", "1")
	assert.ErrorIs(t, err, merr.ErrParameterInvalid)

	_, err = run(t, "encode", "--kind", "int16", "40000")
	assert.ErrorIs(t, err, merr.ErrParameterInvalid)
}
