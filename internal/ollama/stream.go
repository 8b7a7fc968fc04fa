// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"
)

// =============================================================================
// STREAM
// =============================================================================

// Stream is a lazy, ordered, finite sequence of completion fragments.
//
// Recv blocks until the next fragment arrives. After the server's final
// fragment (Done set) Recv returns io.EOF. Any other error is terminal and is
// returned again by every later Recv. A stream cannot be restarted.
//
// Recv must not be called concurrently with itself; Close may be called at
// any time from any goroutine and releases the underlying connection.
type Stream interface {
	Recv() (Fragment, error)
	Close() error
}

type lineStream struct {
	ctx    context.Context
	cancel context.CancelFunc
	frags  <-chan Fragment
	errs   <-chan error
	stall  time.Duration
	err    error
}

func newLineStream(ctx context.Context, stall time.Duration, run func(context.Context, chan<- Fragment) error) Stream {
	streamCtx, cancel := context.WithCancel(ctx)
	frags := make(chan Fragment, 16)
	errs := make(chan error, 1)
	go func() {
		defer close(frags)
		if err := run(streamCtx, frags); err != nil {
			errs <- err
		}
	}()
	return &lineStream{ctx: streamCtx, cancel: cancel, frags: frags, errs: errs, stall: stall}
}

func (s *lineStream) Recv() (Fragment, error) {
	if s.err != nil {
		return Fragment{}, s.err
	}

	// Drain anything already buffered before looking at ctx, so a final
	// fragment racing with Close is not dropped.
	select {
	case frag, ok := <-s.frags:
		return s.result(frag, ok)
	default:
	}

	timer := time.NewTimer(s.stall)
	defer timer.Stop()

	select {
	case frag, ok := <-s.frags:
		return s.result(frag, ok)
	case <-s.ctx.Done():
		s.err = s.ctx.Err()
		return Fragment{}, s.err
	case <-timer.C:
		s.cancel()
		s.err = ErrStalled
		return Fragment{}, s.err
	}
}

func (s *lineStream) result(frag Fragment, ok bool) (Fragment, error) {
	if ok {
		return frag, nil
	}
	select {
	case err := <-s.errs:
		s.err = err
	default:
		s.err = io.EOF
	}
	s.cancel()
	return Fragment{}, s.err
}

func (s *lineStream) Close() error {
	s.cancel()
	return nil
}

// =============================================================================
// LINE READER
// =============================================================================

// readLines decodes newline-delimited JSON from r and emits one fragment per
// line until the server marks the response done.
func readLines(ctx context.Context, r io.Reader, out chan<- Fragment) error {
	reader := bufio.NewReader(r)
	var model string

	for {
		line, readErr := reader.ReadBytes('\n')
		line = bytes.TrimSpace(line)

		if len(line) > 0 {
			var resp ChatResponse
			if err := json.Unmarshal(line, &resp); err != nil {
				return &ClientError{Type: ErrTypeInvalidResponse, Message: "malformed stream line", Cause: err}
			}
			if resp.Error != "" {
				return &ClientError{Type: ErrTypeInvalidResponse, Message: resp.Error}
			}
			if resp.Model != "" {
				model = resp.Model
			}

			frag := Fragment{
				Content: resp.Content(),
				Done:    resp.Done,
				Model:   model,
			}
			if resp.Done {
				frag.DoneReason = resp.DoneReason
				frag.CompletionTokens = resp.EvalCount
				frag.EvalDuration = time.Duration(resp.EvalDuration)
			}

			select {
			case out <- frag:
			case <-ctx.Done():
				return ctx.Err()
			}
			if resp.Done {
				return nil
			}
		}

		if readErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if errors.Is(readErr, io.EOF) {
				return ErrTruncated
			}
			return &ClientError{Type: ErrTypeConnection, Message: "stream read failed", Cause: readErr}
		}
	}
}
