package action

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Runner executes the command of a single target and blocks until it is done
type Runner interface {
	Run(target, command string, log *log.Logger) error
}

// Fault is an unrecoverable condition; the whole build must stop when one
// is returned. A command exiting with a non-zero status is NOT a fault
type Fault struct {
	Op     string
	Target string
	Err    error
}

func (fault *Fault) Error() string {
	if fault.Target == "" {
		return fmt.Sprintf("%s: %s", fault.Op, fault.Err)
	}

	return fmt.Sprintf(`%s "%s": %s`, fault.Op, fault.Target, fault.Err)
}

func (fault *Fault) Unwrap() error {
	return fault.Err
}

// Split turns a command into an argument vector by cutting it on every
// ASCII space. There is no quoting, escaping or expansion of any kind
func Split(command string) []string {
	args := make([]string, 0)
	for _, field := range strings.Split(command, " ") {
		if field == "" {
			continue
		}

		args = append(args, field)
	}

	return args
}

// maxLineSize bounds a single log line; longer output lines are logged in
// several chunks
const maxLineSize = 64 * 1024

// Process runs commands as child processes of the current one
type Process struct {
	// Dir is the working directory of the child; empty means the current one
	Dir string
	// Stdin is given to the child; nil means the stdin of this process
	Stdin io.Reader
}

func (runner Process) Run(target, command string, log *log.Logger) error {
	args := Split(command)
	if len(args) == 0 {
		return nil
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = runner.Dir
	cmd.Stdin = runner.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &Fault{Op: "spawn", Target: target, Err: err}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &Fault{Op: "spawn", Target: target, Err: err}
	}

	start := time.Now()
	err = cmd.Start()
	if err != nil {
		return &Fault{Op: "spawn", Target: target, Err: err}
	}

	// both pipes MUST be drained before waiting on the child
	group := errgroup.Group{}
	group.Go(func() error { return forward(stdout, log) })
	group.Go(func() error { return forward(stderr, log) })
	pipeErr := group.Wait()

	err = cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// the exit status of a command never stops the build
		log.Printf("%s after %s ... ignoring", exitErr.ProcessState, time.Since(start))
		return nil
	}

	if err != nil {
		return &Fault{Op: "wait", Target: target, Err: err}
	}

	if pipeErr != nil {
		return &Fault{Op: "read output", Target: target, Err: pipeErr}
	}

	log.Println("done in " + time.Since(start).String())
	return nil
}

// forward copies every line of reader into log. Only a failure to read
// the pipe is an error
func forward(reader io.Reader, log *log.Logger) error {
	buffered := bufio.NewReader(reader)
	line := make([]byte, 0, bufio.MaxScanTokenSize)
	for {
		chunk, isPrefix, err := buffered.ReadLine()
		if err == io.EOF {
			if len(line) > 0 {
				log.Println(string(line))
			}
			return nil
		}

		if err != nil {
			// keep the child from blocking on a full pipe
			_, _ = io.Copy(io.Discard, reader)
			return err
		}

		line = append(line, chunk...)
		if !isPrefix || len(line) >= maxLineSize {
			log.Println(string(line))
			line = line[:0]
		}
	}
}
