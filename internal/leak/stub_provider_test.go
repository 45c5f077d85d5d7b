package leak

import (
	"context"
	"io"

	"github.com/zee-1/TheSnitchBot-sub001/pkg/llm"
)

type stubStream struct {
	chunks []string
	pos    int
}

func (s *stubStream) Recv() (llm.Chunk, error) {
	if s.pos >= len(s.chunks) {
		return llm.Chunk{}, io.EOF
	}
	chunk := llm.Chunk{Content: s.chunks[s.pos]}
	s.pos++
	return chunk, nil
}

func (s *stubStream) Close() error { return nil }

// stubProvider returns a canned response, or a fixed error, and records the
// last request for assertions.
type stubProvider struct {
	response string
	err      error
	lastReq  llm.Request
	calls    int
}

func (p *stubProvider) Complete(_ context.Context, req llm.Request) (llm.Stream, error) {
	p.lastReq = req
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &stubStream{chunks: []string{p.response}}, nil
}
