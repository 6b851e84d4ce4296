package parallel

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// chunkRequest is one unit of pool work: apply Op to Items. ID ties the
// response back to the chunk's position in the input.
type chunkRequest struct {
	ID    int      `json:"id"`
	Op    string   `json:"op"`
	Items []string `json:"items"`
}

type chunkResponse struct {
	ID    int      `json:"id"`
	Items []string `json:"items"`
}

// WorkerMain serves transform requests over a JSON-lines stream until r
// is exhausted. It is the body of the hidden pool-worker subcommand; an
// unknown op or a malformed request is fatal for the worker.
func WorkerMain(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	out := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var req chunkRequest
		if err := json.Unmarshal(line, &req); err != nil {
			return fmt.Errorf("decode request: %w", err)
		}

		fn, err := lookupTransform(req.Op)
		if err != nil {
			return err
		}

		items := make([]string, len(req.Items))
		for i, s := range req.Items {
			items[i] = fn(s)
		}
		if err := out.Encode(chunkResponse{ID: req.ID, Items: items}); err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
	}
	return scanner.Err()
}

// workerCommand builds the command used to start one pool worker: this
// same binary re-executed with the pool-worker subcommand. Tests swap it
// out to re-exec the test binary instead.
var workerCommand = func() (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate worker binary: %w", err)
	}
	return exec.Command(exe, "pool-worker"), nil
}

type worker struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	enc    *json.Encoder
	dec    *json.Decoder
	closed bool
}

func startWorker() (*worker, error) {
	cmd, err := workerCommand()
	if err != nil {
		return nil, err
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("worker stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("worker stdout: %w", err)
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("spawn worker: %w", err)
	}

	return &worker{
		cmd:   cmd,
		stdin: stdin,
		enc:   json.NewEncoder(stdin),
		dec:   json.NewDecoder(stdout),
	}, nil
}

// shutdown closes the worker's stdin so its read loop sees EOF, then
// reaps the process. Calling it again is a no-op.
func (w *worker) shutdown() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.stdin.Close()
	return w.cmd.Wait()
}

func startPool(n int) ([]*worker, error) {
	workers := make([]*worker, 0, n)
	for i := 0; i < n; i++ {
		w, err := startWorker()
		if err != nil {
			for _, started := range workers {
				started.shutdown()
			}
			return nil, fmt.Errorf("start worker %d of %d: %w", i+1, n, err)
		}
		workers = append(workers, w)
	}
	return workers, nil
}

// mapChunks fans the chunks out to the pool and reassembles the results
// indexed by chunk position, so output order matches input order no
// matter which worker finishes first. The job queue is pre-filled and
// closed up front; a failing worker never strands a blocked send.
func mapChunks(workers []*worker, op string, chunks [][]string) ([][]string, error) {
	jobs := make(chan int, len(chunks))
	for i := range chunks {
		jobs <- i
	}
	close(jobs)

	results := make([][]string, len(chunks))

	var g errgroup.Group
	for _, w := range workers {
		g.Go(func() error {
			for idx := range jobs {
				req := chunkRequest{ID: idx, Op: op, Items: chunks[idx]}
				if err := w.enc.Encode(req); err != nil {
					return fmt.Errorf("send chunk %d: %w", idx, err)
				}
				var resp chunkResponse
				if err := w.dec.Decode(&resp); err != nil {
					return fmt.Errorf("receive chunk %d: %w", idx, err)
				}
				if resp.ID != idx {
					return fmt.Errorf("chunk %d answered with id %d", idx, resp.ID)
				}
				results[idx] = resp.Items
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
