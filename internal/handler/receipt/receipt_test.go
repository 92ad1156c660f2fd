package receipt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"receiptrelay/conf"
	"receiptrelay/internal/model"
	"receiptrelay/internal/service"
	"receiptrelay/pkg/appstore"
	"receiptrelay/pkg/errors"
	"receiptrelay/pkg/errors/ecode"
)

type stubService struct {
	verdict model.Verdict
	err     error
	calls   int
}

func (s *stubService) Validate(_ context.Context, receiptData string) (model.Verdict, error) {
	s.calls++
	return s.verdict, s.err
}

func newEngine(s service.ReceiptService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.POST("/validate-receipt", NewHandler(s).ValidateReceipt())
	return g
}

func post(g http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/validate-receipt", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	g.ServeHTTP(rr, req)
	return rr
}

func TestValidateReceipt_MissingReceiptData(t *testing.T) {
	bodies := map[string]string{
		"absent":     `{}`,
		"empty":      `{"receipt-data":""}`,
		"null":       `{"receipt-data":null}`,
		"not string": `{"receipt-data":42}`,
		"bad json":   `{"receipt-data":`,
		"no body":    ``,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			s := &stubService{}
			rr := post(newEngine(s), body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("unexpected status: got=%d want=%d body=%s", rr.Code, http.StatusBadRequest, rr.Body.String())
			}
			var out model.ErrorRes
			if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if out.Error != "Receipt data is required" {
				t.Errorf("error message mismatch: %q", out.Error)
			}
			if s.calls != 0 {
				t.Errorf("service should not be called, got %d calls", s.calls)
			}
		})
	}
}

func TestValidateReceipt_UpstreamFailureIsGeneric(t *testing.T) {
	cause := errors.New("dial tcp 17.0.0.1:443: secret internal detail")
	s := &stubService{err: errors.Wrap(cause, ecode.UpstreamValidationErr, service.MsgValidationFailed)}
	rr := post(newEngine(s), `{"receipt-data":"abc123"}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: got=%d body=%s", rr.Code, rr.Body.String())
	}
	if strings.Contains(rr.Body.String(), "secret internal detail") {
		t.Errorf("response leaks internal error: %s", rr.Body.String())
	}
	var out model.ErrorRes
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if out.Error != "Validation failed" {
		t.Errorf("error message mismatch: %q", out.Error)
	}
}

func TestValidateReceipt_UnknownErrorIsGeneric(t *testing.T) {
	s := &stubService{err: errors.New("boom")}
	rr := post(newEngine(s), `{"receipt-data":"abc123"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: got=%d body=%s", rr.Code, rr.Body.String())
	}
	if strings.TrimSpace(rr.Body.String()) != `{"error":"Validation failed"}` {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
}

func TestValidateReceipt_Verdict(t *testing.T) {
	s := &stubService{verdict: model.Verdict{
		IsValid:           true,
		Status:            0,
		Environment:       "Production",
		LatestReceiptInfo: json.RawMessage(`[{"expires_date_ms":"1"}]`),
	}}
	rr := post(newEngine(s), `{"receipt-data":"abc123"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d body=%s", rr.Code, rr.Body.String())
	}
	want := `{"isValid":true,"status":0,"environment":"Production","latest_receipt_info":[{"expires_date_ms":"1"}]}`
	if strings.TrimSpace(rr.Body.String()) != want {
		t.Errorf("body mismatch:\n got=%s\nwant=%s", rr.Body.String(), want)
	}
}

func TestValidateReceipt_AbsentReceiptInfoRendersNull(t *testing.T) {
	s := &stubService{verdict: model.Verdict{Status: 21003, Environment: "Production"}}
	rr := post(newEngine(s), `{"receipt-data":"abc123"}`)
	want := `{"isValid":false,"status":21003,"environment":"Production","latest_receipt_info":null}`
	if strings.TrimSpace(rr.Body.String()) != want {
		t.Errorf("body mismatch:\n got=%s\nwant=%s", rr.Body.String(), want)
	}
}

// 真实的 validator + appstore client，对接一个假的 verifyReceipt 服务
func TestValidateReceipt_EndToEndWithSandboxFallback(t *testing.T) {
	future := strconv.FormatInt(time.Now().Add(24*time.Hour).UnixMilli(), 10)
	var prodCalls, sandboxCalls int
	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req appstore.VerifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode vendor request: %v", err)
		}
		if req.Password != "test-secret" || !req.ExcludeOldTransactions || req.ReceiptData != "abc123" {
			t.Errorf("vendor request mismatch: %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/prod":
			prodCalls++
			_, _ = w.Write([]byte(`{"status":21007}`))
		case "/sandbox":
			sandboxCalls++
			_, _ = w.Write([]byte(`{"status":0,"environment":"Sandbox","latest_receipt_info":[{"expires_date_ms":"` + future + `"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer vendor.Close()

	apple := conf.AppleConfig{
		SharedSecret:  "test-secret",
		ProductionURL: vendor.URL + "/prod",
		SandboxURL:    vendor.URL + "/sandbox",
		Timeout:       time.Second,
	}
	validator := service.NewReceiptValidator(appstore.NewClient(apple.SharedSecret, apple.Timeout), apple)

	rr := post(newEngine(validator), `{"receipt-data":"abc123"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d body=%s", rr.Code, rr.Body.String())
	}
	var out struct {
		IsValid           bool              `json:"isValid"`
		Status            int               `json:"status"`
		Environment       string            `json:"environment"`
		LatestReceiptInfo []json.RawMessage `json:"latest_receipt_info"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode verdict: %v", err)
	}
	if !out.IsValid || out.Status != 0 || out.Environment != "Sandbox" || len(out.LatestReceiptInfo) != 1 {
		t.Errorf("verdict mismatch: %+v", out)
	}
	if prodCalls != 1 || sandboxCalls != 1 {
		t.Errorf("vendor calls mismatch: prod=%d sandbox=%d", prodCalls, sandboxCalls)
	}
}

func TestValidateReceipt_EndToEndVendorDown(t *testing.T) {
	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer vendor.Close()

	apple := conf.AppleConfig{
		SharedSecret:  "test-secret",
		ProductionURL: vendor.URL,
		SandboxURL:    vendor.URL,
		Timeout:       time.Second,
	}
	validator := service.NewReceiptValidator(appstore.NewClient(apple.SharedSecret, apple.Timeout), apple)
	rr := post(newEngine(validator), `{"receipt-data":"abc123"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: got=%d body=%s", rr.Code, rr.Body.String())
	}
}
