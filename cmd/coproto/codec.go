package main

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/samber/lo"

	coproto "github.com/starfederation/coproto-go"
)

type encodeCmd struct {
	Type  string `help:"Value type." enum:"int,double,bigint,string,bool,null" default:"string" short:"t"`
	Value string `arg:"" optional:"" help:"Value text; ignored for null."`
}

func (c *encodeCmd) Run(rc *runContext) error {
	enc, err := encodeScalar(c.Type, c.Value)
	if err != nil {
		return err
	}
	fmt.Fprintln(rc.out, hex.EncodeToString(enc))
	return nil
}

func encodeScalar(typ, text string) ([]byte, error) {
	switch typ {
	case "null":
		return coproto.EncodeNull(), nil
	case "bool":
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("bool value: %w", err)
		}
		return coproto.EncodeBoolean(b), nil
	case "int":
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("int value: %w", err)
		}
		return coproto.EncodeInteger(i), nil
	case "double":
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("double value: %w", err)
		}
		return coproto.EncodeDouble(f)
	case "bigint":
		x, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return nil, fmt.Errorf("bigint value: %q is not a decimal integer", text)
		}
		return coproto.EncodeBigint(x), nil
	default:
		return coproto.EncodeString(text)
	}
}

type decodeCmd struct {
	Hex []string `arg:"" help:"Hex bytes; spaces between groups are allowed."`
}

func (c *decodeCmd) Run(rc *runContext) error {
	b, err := parseHex(c.Hex)
	if err != nil {
		return err
	}
	v, _, err := coproto.DecodeAny(b)
	if err != nil {
		return err
	}
	fmt.Fprintln(rc.out, v.String())
	return nil
}

type inspectCmd struct {
	Hex []string `arg:"" help:"Hex bytes; spaces between groups are allowed."`
}

func (c *inspectCmd) Run(rc *runContext) error {
	b, err := parseHex(c.Hex)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return fmt.Errorf("empty input")
	}
	kind, ok := coproto.KindFromTag(b[0])
	if !ok {
		return &coproto.UnknownTagError{Tag: b[0]}
	}
	fmt.Fprintf(rc.out, "tag       %#02x (%q)\n", b[0], b[0])
	fmt.Fprintf(rc.out, "kind      %s\n", kind)
	v, n, err := coproto.DecodeAny(b)
	if err != nil {
		fmt.Fprintf(rc.out, "error     %v (code %d)\n", err, coproto.Code(err))
		return nil
	}
	fmt.Fprintf(rc.out, "consumed  %d of %d bytes\n", n, len(b))
	if l, ok := v.Len(); ok {
		fmt.Fprintf(rc.out, "len       %d\n", l)
	}
	if m, ok := v.Modifier(); ok {
		fmt.Fprintf(rc.out, "modifier  %c\n", m)
	}
	fmt.Fprintf(rc.out, "value     %s\n", v)
	return nil
}

type segmentsCmd struct {
	Hex []string `arg:"" help:"Hex bytes; spaces between groups are allowed."`
}

func (c *segmentsCmd) Run(rc *runContext) error {
	b, err := parseHex(c.Hex)
	if err != nil {
		return err
	}
	segs := lo.Map(coproto.SplitOnDelimiter(b), func(s []byte, _ int) string {
		return hex.EncodeToString(s)
	})
	for i, s := range segs {
		fmt.Fprintf(rc.out, "%3d  %s\n", i, s)
	}
	return nil
}

type json2cpCmd struct {
	JSON string `arg:"" help:"JSON document (arrays and scalars)."`
}

func (c *json2cpCmd) Run(rc *runContext) error {
	v, err := coproto.FromJSON([]byte(c.JSON))
	if err != nil {
		return err
	}
	fmt.Fprintln(rc.out, hex.EncodeToString(v.Bytes()))
	return nil
}

type cp2jsonCmd struct {
	Hex []string `arg:"" help:"Hex bytes; spaces between groups are allowed."`
}

func (c *cp2jsonCmd) Run(rc *runContext) error {
	b, err := parseHex(c.Hex)
	if err != nil {
		return err
	}
	v, _, err := coproto.DecodeAny(b)
	if err != nil {
		return err
	}
	out, err := coproto.ToJSON(v)
	if err != nil {
		return err
	}
	fmt.Fprintln(rc.out, out)
	return nil
}

func parseHex(groups []string) ([]byte, error) {
	joined := strings.Join(lo.Map(groups, func(g string, _ int) string {
		return strings.Join(strings.Fields(g), "")
	}), "")
	joined = strings.TrimPrefix(joined, "0x")
	b, err := hex.DecodeString(joined)
	if err != nil {
		return nil, fmt.Errorf("hex input: %w", err)
	}
	return b, nil
}
