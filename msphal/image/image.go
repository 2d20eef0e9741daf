package image

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/sigurn/crc16"
)

var ErrorBadImage = errors.New("malformed TI-TXT image")

type Segment struct {
	Addr int
	Data []byte
}

func (s Segment) End() int {
	return s.Addr + len(s.Data)
}

var crcTab = crc16.MakeTable(crc16.CRC16_CCITT_FALSE)

/* CRC is the CRC-CCITT the MSP430 BSL uses for CRC_CHECK */
func CRC(data []byte) uint16 {
	return crc16.Checksum(data, crcTab)
}

/* Merge sorts segments and joins the ones that touch */
func Merge(segs []Segment) []Segment {
	sorted := make([]Segment, len(segs))
	copy(sorted, segs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Addr < sorted[j].Addr })

	var out []Segment
	for _, m := range sorted {
		if len(m.Data) == 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].End() == m.Addr {
			out[n-1].Data = append(out[n-1].Data, m.Data...)
			continue
		}
		out = append(out, Segment{Addr: m.Addr, Data: append([]byte(nil), m.Data...)})
	}
	return out
}

func WriteTITXT(w io.Writer, segs []Segment) error {
	bw := bufio.NewWriter(w)

	for _, seg := range Merge(segs) {
		fmt.Fprintf(bw, "@%04X\n", seg.Addr)

		data := seg.Data
		for len(data) > 0 {
			l := len(data)
			if l > 16 {
				l = 16
			}

			line := make([]string, l)
			for i, m := range data[:l] {
				line[i] = fmt.Sprintf("%02X", m)
			}
			fmt.Fprintln(bw, strings.Join(line, " "))
			data = data[l:]
		}
	}

	fmt.Fprintln(bw, "q")
	return bw.Flush()
}

func ReadTITXT(r io.Reader) ([]Segment, error) {
	var segs []Segment
	var cur *Segment

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if line == "q" || line == "Q" {
			if cur != nil {
				segs = append(segs, *cur)
			}
			return segs, nil
		}

		if line[0] == '@' {
			addr, err := strconv.ParseUint(line[1:], 16, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, ErrorBadImage)
			}
			if cur != nil {
				segs = append(segs, *cur)
			}
			cur = &Segment{Addr: int(addr)}
			continue
		}

		if cur == nil {
			return nil, fmt.Errorf("line %d: data before address: %w", lineNo, ErrorBadImage)
		}

		for _, m := range strings.Fields(line) {
			v, err := strconv.ParseUint(m, 16, 8)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, ErrorBadImage)
			}
			cur.Data = append(cur.Data, byte(v))
		}
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	return nil, fmt.Errorf("missing terminator: %w", ErrorBadImage)
}
