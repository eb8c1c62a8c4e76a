package ai

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/relaylabs/relay/internal/logging"
	"github.com/relaylabs/relay/internal/stream"
)

const (
	defaultWorkerTimeout = 5 * time.Minute

	// stderrPreviewLen bounds each logged stderr line. Worker diagnostics
	// are non-fatal and only the head of a line is useful.
	stderrPreviewLen = 200

	stderrScanBufSize = 256 * 1024
	stdoutReadBufSize = 32 * 1024
)

// CLIRunner supervises one external worker invocation at a time: spawn,
// stream stdout through the framing/decoding pipeline, enforce the
// wall-clock deadline, and resolve exactly once.
type CLIRunner struct {
	Command string        // worker binary, e.g. "claude"
	Model   string        // model identifier passed via --model
	Timeout time.Duration // wall-clock deadline; defaults to 5 minutes
}

// CLIRequest describes one full-mode invocation.
type CLIRequest struct {
	Prompt  string
	WorkDir string
	Resume  bool // pass --continue to resume prior conversational state

	// OnUpdate receives the accumulated snapshot after each text event.
	// Callers wrap it in a stream.Throttler; the runner does not rate-limit.
	OnUpdate func(snapshot string)
}

type resolution struct {
	outcome *Outcome
	err     error
}

// Run executes one worker invocation and blocks until it resolves.
// Resolution happens exactly once, to whichever qualifying event occurs
// first: a result event, process exit, or the deadline.
func (r *CLIRunner) Run(ctx context.Context, req CLIRequest) (*Outcome, error) {
	start := time.Now()
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultWorkerTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{
		"--print",
		"--verbose",
		"--output-format", "stream-json",
		"--dangerously-skip-permissions",
	}
	if r.Model != "" {
		args = append(args, "--model", r.Model)
	}
	if req.Resume {
		args = append(args, "--continue")
	}
	args = append(args, "-p", req.Prompt)

	cmd := exec.CommandContext(ctx, r.Command, args...)
	cmd.Dir = req.WorkDir
	cmd.Env = workerEnv(os.Environ())
	// Stdin is left unset: the worker gets the null device, never the
	// host's stdin, so it cannot block on an interactive prompt.

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout pipe: %v", ErrSpawn, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stderr pipe: %v", ErrSpawn, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
	}

	id := uuid.NewString()[:8]
	logging.Infof("[worker %s] started pid=%d dir=%s resume=%v", id, cmd.Process.Pid, req.WorkDir, req.Resume)

	var stderrWg sync.WaitGroup
	stderrWg.Add(1)
	go func() {
		defer stderrWg.Done()
		drainStderr(id, stderr)
	}()

	// The reading goroutine always resolves: a terminal event resolves
	// early, otherwise process exit (including the deadline kill) drives
	// the exit-code policy. The buffered channel plus non-blocking send
	// makes the first resolution win and every later one a no-op.
	resolved := make(chan resolution, 1)
	resolve := func(o *Outcome, err error) {
		select {
		case resolved <- resolution{o, err}:
		default:
		}
	}

	go func() {
		acc := &stream.Accumulator{}
		framer := &stream.Framer{}
		buf := make([]byte, stdoutReadBufSize)
		done := false

		for {
			n, rerr := stdout.Read(buf)
			if n > 0 && !done {
				for _, line := range framer.Feed(buf[:n]) {
					if done = r.handleLine(line, acc, req.OnUpdate, start, resolve); done {
						break
					}
				}
			}
			if rerr != nil {
				break
			}
		}
		// Any trailing fragment is an incomplete record; protocol lines
		// are newline-terminated, so it is dropped here.

		stderrWg.Wait()
		waitErr := cmd.Wait()
		elapsed := time.Since(start)

		if done {
			return
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			logging.Warnf("[worker %s] killed after deadline %s", id, timeout)
			resolve(nil, fmt.Errorf("%w after %s", ErrTimeout, timeout))
			return
		}
		if acc.Len() > 0 {
			// Non-zero exit after real output: trust the text over the
			// exit code (deliberate leniency, not a bug).
			if waitErr != nil {
				logging.Warnf("[worker %s] non-zero exit with output, treating as success: %v", id, waitErr)
			}
			resolve(&Outcome{Text: acc.Snapshot(), Duration: elapsed}, nil)
			return
		}
		if waitErr != nil {
			resolve(nil, fmt.Errorf("%w: %v", ErrExit, waitErr))
			return
		}
		resolve(nil, fmt.Errorf("%w: stream ended without a result", ErrExit))
	}()

	res := <-resolved
	// A result event resolves before the process dies; cancel so the
	// worker is killed and the exit handler above becomes a no-op.
	cancel()
	logging.Infof("[worker %s] resolved after %s err=%v", id, time.Since(start).Round(time.Millisecond), res.err)
	return res.outcome, res.err
}

// handleLine decodes one stdout record. Returns true when a terminal
// event resolved the invocation; further output is ignored.
func (r *CLIRunner) handleLine(line string, acc *stream.Accumulator, onUpdate func(string), start time.Time, resolve func(*Outcome, error)) bool {
	ev := stream.Decode(line)
	switch ev.Kind {
	case stream.Text:
		if len(ev.Fragments) == 0 {
			return false
		}
		snapshot := acc.Append(ev.Fragments...)
		if onUpdate != nil {
			onUpdate(snapshot)
		}

	case stream.ResultSuccess:
		text := ev.Text
		if text == "" {
			text = acc.Snapshot()
		}
		dur := time.Since(start)
		if ev.DurationMs > 0 {
			dur = time.Duration(ev.DurationMs) * time.Millisecond
		}
		resolve(&Outcome{Text: text, Duration: dur, CostUSD: ev.CostUSD, HasCost: ev.HasCost}, nil)
		return true

	case stream.ResultError:
		msg := ev.Text
		if msg == "" {
			msg = "unspecified failure"
		}
		resolve(nil, fmt.Errorf("%w: %s", ErrReported, msg))
		return true
	}
	return false
}

// workerEnv filters the inherited environment before it reaches the worker:
// the ambient API credential must not leak into the subprocess, and the
// inside-agent marker would make the worker think it is nested.
func workerEnv(env []string) []string {
	out := make([]string, 0, len(env))
	for _, kv := range env {
		name, _, _ := strings.Cut(kv, "=")
		if name == "ANTHROPIC_API_KEY" || name == "CLAUDECODE" {
			continue
		}
		out = append(out, kv)
	}
	return out
}

// drainStderr logs worker diagnostics line by line, each truncated to a
// bounded preview. stderr content is never fatal.
func drainStderr(id string, r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, stderrScanBufSize), stderrScanBufSize)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			logging.Warnf("[worker %s] stderr: %s", id, logging.Preview(line, stderrPreviewLen))
		}
	}
}
