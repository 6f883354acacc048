package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/ussdsim/internal/runtime"
	"github.com/aretw0/ussdsim/pkg/adapters/memory"
	"github.com/aretw0/ussdsim/pkg/catalog"
	"github.com/aretw0/ussdsim/pkg/devices"
	"github.com/aretw0/ussdsim/pkg/domain"
	"github.com/aretw0/ussdsim/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	c, err := catalog.Default(catalog.WithIDGenerator(&catalog.SequenceGenerator{Prefix: "mcp"}))
	require.NoError(t, err)
	mgr := session.NewManager(runtime.NewEngine(c), memory.NewStore())
	return NewServer(mgr, devices.Default(), c)
}

func TestTools_DialSelectExit(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	res, err := s.handleDial(ctx, req, map[string]interface{}{
		"code":      "*123#",
		"device_id": "1",
		"sim_slot":  "Slot 2",
	})
	require.NoError(t, err)
	assert.Equal(t, "mcp-1", res.SessionID)
	assert.Equal(t, domain.StatusMenuDisplayed, res.Status)
	assert.Contains(t, res.Message, "Welcome to Orange")
	assert.Len(t, res.Options, 5)
	assert.False(t, res.CanGoBack)

	// Keys sent as JSON numbers are accepted.
	res, err = s.handleSelect(ctx, req, map[string]interface{}{"session_id": "mcp-1", "key": float64(1)})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Depth)
	assert.True(t, res.CanGoBack)

	res, err = s.handleSelect(ctx, req, map[string]interface{}{"session_id": "mcp-1", "key": "9"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Depth)

	res, err = s.handleSelect(ctx, req, map[string]interface{}{"session_id": "mcp-1", "key": "0"})
	require.NoError(t, err)
	assert.True(t, res.Ended)
	assert.Equal(t, "exit", res.Reason)
	assert.Equal(t, domain.StatusIdle, res.Status)
	assert.Equal(t, 0, res.Depth)

	_, err = s.handleGet(ctx, req, map[string]interface{}{"session_id": "mcp-1"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestTools_UnknownCodeThenClose(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	res, err := s.handleDial(ctx, req, map[string]interface{}{"code": "*999#", "operator": "Inwi"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTerminalDisplayed, res.Status)
	assert.Equal(t, "USSD code *999# executed successfully on Inwi network.\n\nService not available at the moment.\nPlease try again later.", res.Message)

	_, err = s.handleSelect(ctx, req, map[string]interface{}{"session_id": res.SessionID, "key": "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := s.handleGet(ctx, req, map[string]interface{}{"session_id": res.SessionID})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTerminalDisplayed, got.Status)

	closed, err := s.handleClose(ctx, req, map[string]interface{}{"session_id": res.SessionID})
	require.NoError(t, err)
	assert.True(t, closed.Ended)
	assert.Equal(t, "closed", closed.Reason)
	assert.Contains(t, closed.Message, "*999#")
}

func TestTools_DialValidation(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	tests := []struct {
		name string
		args map[string]interface{}
		want error
	}{
		{"malformed code", map[string]interface{}{"code": "123", "operator": "IAM"}, domain.ErrInvalidDialCode},
		{"unknown device", map[string]interface{}{"code": "*123#", "device_id": "42", "sim_slot": "Slot 1"}, domain.ErrUnknownDevice},
		{"unknown sim", map[string]interface{}{"code": "*123#", "device_id": "2", "sim_slot": "Slot 9"}, domain.ErrUnknownSIM},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.handleDial(ctx, req, tt.args)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := s.handleDial(ctx, req, map[string]interface{}{"code": "*123#"})
	assert.ErrorContains(t, err, "operator")

	_, err = s.handleDial(ctx, req, map[string]interface{}{"code": "*123#", "operator": "IAM", "pin": "1234"})
	assert.ErrorContains(t, err, "invalid arguments")
}

func TestTools_ListCodes(t *testing.T) {
	s := newTestServer(t)

	all, err := s.handleListCodes(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{})
	require.NoError(t, err)
	assert.Len(t, all.Codes, 6)

	found, err := s.handleListCodes(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"search": "topup"})
	require.NoError(t, err)
	codes := make([]string, 0, len(found.Codes))
	for _, c := range found.Codes {
		codes = append(codes, c.Code)
	}
	assert.Contains(t, codes, "*100#")
	assert.Contains(t, codes, "*131#")
}

func TestJSONResource(t *testing.T) {
	contents, err := jsonResource(DevicesURI, devices.Default().List())
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, DevicesURI, text.URI)

	var got []domain.Device
	require.NoError(t, json.Unmarshal([]byte(text.Text), &got))
	assert.Len(t, got, 3)
}
