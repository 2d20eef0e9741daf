package msphal

import "io"

const (
	StdoutFileno = 1
	StderrFileno = 2
)

/* WriteResult is what the write() hook hands back to the C library: N is -1 on failure */
type WriteResult struct {
	N   int
	Err Errno
}

func (r WriteResult) OK() bool {
	return r.Err == 0
}

/* Write is the stream write hook printf ends up in. Only stdout and stderr go to the UART. */
func (h *HAL) Write(fd int, buf []byte) WriteResult {
	if fd != StdoutFileno && fd != StderrFileno {
		h.log(2, "write(%d): rejected", fd)
		return WriteResult{N: -1, Err: EBADF}
	}

	/* The transport has no partial writes. An error here means the HAL itself broke. */
	if err := h.UARTWriteBytes(buf); err != nil {
		h.log(1, "write(%d): %v", fd, err)
		return WriteResult{N: -1, Err: EIO}
	}

	return WriteResult{N: len(buf)}
}

type stream struct {
	hal *HAL
	fd  int
}

func (s stream) Write(p []byte) (int, error) {
	r := s.hal.Write(s.fd, p)
	if !r.OK() {
		return 0, r.Err
	}
	return r.N, nil
}

/* Stream returns an io.Writer on fd, for use with fmt.Fprintf */
func (h *HAL) Stream(fd int) io.Writer {
	return stream{hal: h, fd: fd}
}
