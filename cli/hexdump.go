package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

/* hexdump prints 16 bytes per line with 20-bit addresses; marked bytes are shown in red */
func hexdump(offset int, data []byte, mark []bool) string {
	var result strings.Builder
	red := color.New(color.FgRed)

	for len(data) > 0 {
		l := len(data)
		if l > 16 {
			l = 16
		}
		work := data[:l]
		data = data[l:]
		var workMark []bool
		if mark != nil {
			workMark = mark[:l]
			mark = mark[l:]
		}

		var workHex string
		var workAscii string
		for i := 0; i < 16; i++ {
			if i >= len(work) {
				workHex += "   "
				workAscii += " "
			} else {
				m := work[i]
				delta := workMark != nil && workMark[i]

				c := m
				if c < 32 || c > 126 {
					c = '.'
				}

				if delta {
					workHex += red.Sprintf("%02x ", m)
					workAscii += red.Sprintf("%c", c)
				} else {
					workHex += fmt.Sprintf("%02x ", m)
					workAscii += fmt.Sprintf("%c", c)
				}
			}
			if i == 7 {
				workHex += " "
			}
		}

		fmt.Fprintf(&result, "%05x  %s|%s|\n", offset, workHex, workAscii)
		offset += l
	}

	return result.String()
}
