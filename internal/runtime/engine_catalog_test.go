package runtime

import (
	"context"
	"testing"

	"github.com/aretw0/ussdsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalog records the lookups the engine performs.
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ResolveRoot(code domain.DialCode, operator string) domain.Response {
	args := m.Called(code, operator)
	return args.Get(0).(domain.Response)
}

func (m *MockCatalog) ResolveNext(code domain.DialCode, depth int, key, operator string) domain.Response {
	args := m.Called(code, depth, key, operator)
	return args.Get(0).(domain.Response)
}

func opts(keys ...string) []domain.Option {
	out := make([]domain.Option, 0, len(keys))
	for _, k := range keys {
		out = append(out, domain.Option{Key: k, Text: k})
	}
	return out
}

func TestEngine_CatalogLookups(t *testing.T) {
	cat := new(MockCatalog)
	root := domain.NewResponse("abc", "root", opts("1", "0")...)
	level2 := domain.NewResponse("", "level2", opts("4", "9", "0")...)
	level3 := domain.NewResponse("", "level3")

	cat.On("ResolveRoot", domain.DialCode("*100*1#"), "IAM").Return(root).Once()
	cat.On("ResolveNext", domain.DialCode("*100*1#"), 1, "1", "IAM").Return(level2).Once()
	cat.On("ResolveNext", domain.DialCode("*100*1#"), 2, "4", "IAM").Return(level3).Once()

	engine := NewEngine(cat)
	ctx := context.Background()

	s, err := engine.Dial(ctx, nil, "*100*1#", domain.OperatorContext{Name: "IAM"})
	require.NoError(t, err)
	assert.Equal(t, "abc", s.ID)
	assert.Equal(t, domain.DialCode("*100*1#"), s.DialCode)

	s, out, err := engine.Select(ctx, s, "1")
	require.NoError(t, err)
	assert.Equal(t, "abc", out.Response.SessionID, "engine binds the session id to catalog screens")

	s, _, err = engine.Select(ctx, s, "4")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTerminalDisplayed, s.Status)
	assert.Equal(t, 3, s.Depth())

	cat.AssertExpectations(t)
}

func TestEngine_BackAtRootIsNotSpecialCased(t *testing.T) {
	// A catalog that (wrongly) offers "9" at the root: the engine forwards it like any key.
	cat := new(MockCatalog)
	root := domain.NewResponse("r", "root", opts("9", "0")...)
	cat.On("ResolveRoot", domain.DialCode("*1#"), "Orange").Return(root)
	cat.On("ResolveNext", domain.DialCode("*1#"), 1, "9", "Orange").Return(domain.NewResponse("", "stub"))

	engine := NewEngine(cat)
	s, err := engine.Dial(context.Background(), nil, "*1#", domain.OperatorContext{Name: "Orange"})
	require.NoError(t, err)

	s, _, err = engine.Select(context.Background(), s, "9")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Depth())
	cat.AssertExpectations(t)
}
