package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestWriteErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(requestIDKey, "rid-1")

	WriteErrorResponse(c, http.StatusBadRequest, "Invalid date", errors.New("bad"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body[FieldError] != true || body[FieldMessage] != "Invalid date" {
		t.Errorf("unexpected body %v", body)
	}
	if body[FieldDetails] != "bad" || body[FieldRequestID] != "rid-1" {
		t.Errorf("details or request id missing: %v", body)
	}
	if !c.IsAborted() {
		t.Error("context should be aborted")
	}
}
