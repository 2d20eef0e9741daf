package main

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/BertoldVdb/msp430-tools/msphal"
	"github.com/alecthomas/kong"
)

/* intMapper accepts 0x/0 prefixes unless a base is forced */
type intMapper struct {
	base int
}

func (h intMapper) Decode(ctx *kong.DecodeContext, target reflect.Value) error {
	var value string
	err := ctx.Scan.PopValueInto("int", &value)
	if err != nil {
		return err
	}
	i, err := strconv.ParseInt(value, h.base, 64)
	if err != nil {
		return err
	}
	target.SetInt(i)
	return nil
}

/* parseFrame turns "8N1" style strings into a frame */
func parseFrame(s string) (msphal.Frame, error) {
	s = strings.ToUpper(s)
	if len(s) != 3 {
		return msphal.Frame{}, fmt.Errorf("invalid frame %q", s)
	}

	f := msphal.Frame{
		DataBits: int(s[0] - '0'),
		StopBits: int(s[2] - '0'),
	}

	switch s[1] {
	case 'N':
		f.Parity = msphal.ParityNone
	case 'E':
		f.Parity = msphal.ParityEven
	case 'O':
		f.Parity = msphal.ParityOdd
	default:
		return msphal.Frame{}, fmt.Errorf("invalid parity in frame %q", s)
	}

	return f, nil
}

/* ttyParity maps a frame onto the host side setting */
func ttyParity(p msphal.Parity) byte {
	switch p {
	case msphal.ParityEven:
		return 'E'
	case msphal.ParityOdd:
		return 'O'
	}
	return 'N'
}
