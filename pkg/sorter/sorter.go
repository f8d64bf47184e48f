package sorter

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/dnsdb/pdnsq/pkg/log"
	"github.com/dnsdb/pdnsq/pkg/types"
)

// KeyFields is the number of space-delimited key columns prepended to each
// payload line.
const KeyFields = 4

// Sorter wraps an external sort(1) subprocess providing global total
// ordering plus dedup over keyed record lines.
//
// The two-pipe topology cannot deadlock because sort emits no output before
// it has seen end-of-input: the caller writes everything, closes stdin, and
// only then starts reading stdout.
type Sorter struct {
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	in         *bufio.Writer
	stdout     io.ReadCloser
	scan       *bufio.Scanner
	terminated bool
	logger     zerolog.Logger
}

// Start spawns the sort subprocess. Keys are two numeric columns (first and
// last seen times) followed by two text columns (collated name and rdata);
// -u collapses duplicate key+payload lines. LC_ALL=C keeps the text
// collation bytewise.
func Start() (*Sorter, error) {
	cmd := exec.Command("sort", "-k1,1n", "-k2,2n", "-k3,3", "-k4,4", "-u")
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create sort stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create sort stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start sort: %w", err)
	}

	scan := bufio.NewScanner(stdout)
	scan.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	logger := log.WithComponent("sorter")
	logger.Debug().Int("pid", cmd.Process.Pid).Msg("sort subprocess started")
	return &Sorter{
		cmd:    cmd,
		stdin:  stdin,
		in:     bufio.NewWriter(stdin),
		stdout: stdout,
		scan:   scan,
		logger: logger,
	}, nil
}

// Add writes one key line per rdata element of the tuple. Absent times key
// as zero; the payload is the record's original JSON encoding. A tuple
// without rdata (summarize results carry only aggregates) still gets one
// key line so it survives the sorted path.
func (s *Sorter) Add(t *types.Tuple) error {
	first := t.First().Value
	last := t.Last().Value
	nameKey := CollateName(t.RRName)
	rdata := t.Rdata
	if len(rdata) == 0 {
		rdata = []string{""}
	}
	for _, rd := range rdata {
		_, err := fmt.Fprintf(s.in, "%d %d %s %s %s\n",
			first, last, nameKey, CollateRdata(t.RRType, rd), t.Raw)
		if err != nil {
			return fmt.Errorf("failed to write to sort: %w", err)
		}
	}
	return nil
}

// CloseInput flushes and closes the subprocess stdin, signalling
// end-of-input. After this the subprocess begins emitting sorted output.
func (s *Sorter) CloseInput() error {
	if err := s.in.Flush(); err != nil {
		s.stdin.Close()
		return fmt.Errorf("failed to flush sort input: %w", err)
	}
	if err := s.stdin.Close(); err != nil {
		return fmt.Errorf("failed to close sort input: %w", err)
	}
	return nil
}

// Next returns the payload of the next sorted line, with the key columns
// stripped. It returns nil, io.EOF when the output is exhausted.
func (s *Sorter) Next() ([]byte, error) {
	if !s.scan.Scan() {
		if err := s.scan.Err(); err != nil {
			return nil, fmt.Errorf("failed to read sort output: %w", err)
		}
		return nil, io.EOF
	}
	return StripKey(s.scan.Bytes())
}

// Discard consumes and drops the next sorted line, reporting false at end
// of output. Draining this way instead of just closing the pipe avoids a
// SIGPIPE-style failure on the subprocess side.
func (s *Sorter) Discard() (bool, error) {
	if !s.scan.Scan() {
		if err := s.scan.Err(); err != nil {
			return false, fmt.Errorf("failed to read sort output: %w", err)
		}
		return false, nil
	}
	return true, nil
}

// Terminate sends the subprocess a terminate signal to bound further drain
// time. It is safe to call more than once; only the first call signals.
func (s *Sorter) Terminate() {
	if s.terminated {
		return
	}
	s.terminated = true
	if err := s.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		s.logger.Warn().Err(err).Msg("failed to signal sort subprocess")
	}
}

// Wait reaps the subprocess. A non-zero exit after Terminate is expected
// and suppressed.
func (s *Sorter) Wait() error {
	err := s.cmd.Wait()
	if err != nil && s.terminated {
		s.logger.Debug().Err(err).Msg("sort exited non-zero after terminate, as expected")
		return nil
	}
	if err != nil {
		return fmt.Errorf("sort subprocess failed: %w", err)
	}
	return nil
}

// StripKey removes the leading KeyFields space-delimited tokens from a
// sorted output line, returning the remaining payload.
func StripKey(line []byte) ([]byte, error) {
	rest := line
	for i := 0; i < KeyFields; i++ {
		sp := bytes.IndexByte(rest, ' ')
		if sp < 0 {
			return nil, fmt.Errorf("sort output line has fewer than %d key fields: %q", KeyFields, line)
		}
		rest = rest[sp+1:]
	}
	return rest, nil
}
