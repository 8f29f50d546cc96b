// ABOUTME: RPC mode for hosts that drive several mood sessions from another process
// ABOUTME: JSONL-based protocol: one request per input line, one response per output line

package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mauromedda/pi-mood-go/internal/log"
)

// Server handles RPC requests from an external client.
type Server struct {
	reader  *bufio.Scanner
	writer  io.Writer
	handler func(context.Context, Request) Response
}

// NewServer creates an RPC server reading requests from in and writing
// responses to out.
func NewServer(in io.Reader, out io.Writer, handler func(context.Context, Request) Response) *Server {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)
	return &Server{
		reader:  scanner,
		writer:  out,
		handler: handler,
	}
}

// Run serves requests in arrival order until the input ends or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	for s.reader.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := s.reader.Bytes()
		if len(line) == 0 {
			continue
		}
		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			if err := s.sendError("", ErrCodeParse, fmt.Sprintf("parse error: %v", err)); err != nil {
				return err
			}
			continue
		}
		if req.Method == "" {
			if err := s.sendError(req.ID, ErrCodeInvalidReq, "method is required"); err != nil {
				return err
			}
			continue
		}

		log.Debug("rpc: %s id=%s", req.Method, req.ID)
		resp := s.handler(ctx, req)
		resp.ID = req.ID

		data, err := json.Marshal(resp)
		if err != nil {
			if err := s.sendError(req.ID, ErrCodeInternal, fmt.Sprintf("internal error: %v", err)); err != nil {
				return err
			}
			continue
		}

		data = append(data, '\n')
		if _, err := s.writer.Write(data); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}

	return s.reader.Err()
}

func (s *Server) sendError(id string, code int, message string) error {
	resp := Response{
		ID:    id,
		Error: &Error{Code: code, Message: message},
	}
	data, _ := json.Marshal(resp)
	data = append(data, '\n')
	if _, err := s.writer.Write(data); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}
