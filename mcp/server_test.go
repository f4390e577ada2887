package mcp

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jobgenie/backend/tools"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewServer(tools.NewToolRegistry(tools.NewScoreJobTool()), "test").RegisterRoutes(router.Group("/api"))
	return router
}

func rpc(t *testing.T, router *gin.Engine, body string) MCPResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/mcp", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp MCPResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %s", w.Body.String())
	}
	return resp
}

func TestHandleMCP_Initialize(t *testing.T) {
	resp := rpc(t, newTestRouter(), `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	if resp.Error != nil {
		t.Fatalf("error = %+v", resp.Error)
	}
	result := resp.Result.(map[string]interface{})
	if result["protocolVersion"] != ProtocolVersion {
		t.Errorf("result = %v", result)
	}
}

func TestHandleMCP_ToolsList(t *testing.T) {
	resp := rpc(t, newTestRouter(), `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	data, _ := json.Marshal(resp.Result)
	if !strings.Contains(string(data), "score_job_match") {
		t.Errorf("tools/list = %s", data)
	}
}

func TestHandleMCP_ToolsCall(t *testing.T) {
	body := `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"score_job_match",
		"arguments":{"job":{"title":"Go Engineer"},"refinements":{}}}}`
	resp := rpc(t, newTestRouter(), body)
	data, _ := json.Marshal(resp.Result)
	if strings.Contains(string(data), `"isError":true`) || !strings.Contains(string(data), "matchScore") {
		t.Errorf("tools/call = %s", data)
	}
}

func TestHandleMCP_UnknownToolIsToolError(t *testing.T) {
	body := `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"nope"}}`
	resp := rpc(t, newTestRouter(), body)
	if resp.Error != nil {
		t.Fatalf("unexpected JSON-RPC error: %+v", resp.Error)
	}
	data, _ := json.Marshal(resp.Result)
	if !strings.Contains(string(data), `"isError":true`) {
		t.Errorf("tools/call = %s", data)
	}
}

func TestHandleMCP_UnknownMethod(t *testing.T) {
	resp := rpc(t, newTestRouter(), `{"jsonrpc":"2.0","id":5,"method":"resources/list"}`)
	if resp.Error == nil || resp.Error.Code != codeMethodNotFound {
		t.Errorf("error = %+v", resp.Error)
	}
}
