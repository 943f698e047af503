package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestSuccessEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	Success(ctx, gin.H{"answer": 42})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	env := decodeEnvelope(t, w)
	if env.Code != CodeOK {
		t.Errorf("code = %d, want %d", env.Code, CodeOK)
	}
	if env.Message != "success" {
		t.Errorf("message = %q, want %q", env.Message, "success")
	}
	if env.Data == nil {
		t.Error("data missing from success envelope")
	}
}

func TestErrorEnvelopeOmitsData(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	env := decodeEnvelope(t, w)
	if env.Code != 40001 {
		t.Errorf("code = %d, want 40001", env.Code)
	}
	if env.Data != nil {
		t.Errorf("data = %v, want omitted", env.Data)
	}
}

func TestNotFoundHelper(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	NotFound(ctx, 40401, "post not found")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if env := decodeEnvelope(t, w); env.Code != 40401 {
		t.Errorf("code = %d, want 40401", env.Code)
	}
}

func TestLoginRequiredHelper(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	LoginRequired(ctx)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if env := decodeEnvelope(t, w); env.Code != CodeLoginRequired {
		t.Errorf("code = %d, want %d", env.Code, CodeLoginRequired)
	}
}
