package studio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/visionaryvybes/Archi-sub000/internal/providers/generation"
	"github.com/visionaryvybes/Archi-sub000/internal/shared/clock"
)

var epoch = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req generation.GenerateRequest) (*generation.GenerateResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*generation.GenerateResponse)
	return resp, args.Error(1)
}

func (m *mockGenerator) Chat(ctx context.Context, req generation.ChatRequest) (*generation.ChatResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*generation.ChatResponse)
	return resp, args.Error(1)
}

type mockBlobs struct {
	mock.Mock
}

func (m *mockBlobs) Base64(ctx context.Context, ref string) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}

func imageResponse(b64 string) *generation.GenerateResponse {
	return &generation.GenerateResponse{Success: true, ImageBase64: b64}
}

func newTestStore(t *testing.T, gen Generator) (*Store, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(epoch)
	s := New(Options{Clock: clk, Generator: gen})
	t.Cleanup(s.Close)
	return s, clk
}

var (
	anyCtx = mock.Anything
	anyReq = mock.Anything
)

func ctx() context.Context {
	return context.Background()
}
