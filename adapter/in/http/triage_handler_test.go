package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"mailtriage/core/domain"
	"mailtriage/core/port/in"
)

type fakeTriageService struct {
	lastReq *in.ProcessRequest
	resp    *in.ProcessResponse
	records []*domain.TriageRecord
}

func (s *fakeTriageService) Process(_ context.Context, req *in.ProcessRequest) (*in.ProcessResponse, error) {
	s.lastReq = req
	return s.resp, nil
}

func (s *fakeTriageService) History(_ context.Context, _ int) ([]*domain.TriageRecord, error) {
	return s.records, nil
}

func newTestApp(svc in.TriageService) *fiber.App {
	app := fiber.New()
	NewTriageHandler(svc).Register(app.Group("/api/v1"))
	return app
}

func TestProcessJSONBody(t *testing.T) {
	svc := &fakeTriageService{resp: &in.ProcessResponse{
		Category:     string(domain.CategoryProductive),
		Score:        0.72,
		ScoreDisplay: "0.72",
		Reply:        "Prezado(a) Maria, recebemos sua mensagem.",
	}}
	app := newTestApp(svc)

	body := `{"text":"Preciso de suporte urgente","name":"Maria","subject":"Erro no sistema"}`
	req := httptest.NewRequest("POST", "/api/v1/process", strings.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}

	var got in.ProcessResponse
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Category != string(domain.CategoryProductive) || got.ScoreDisplay != "0.72" {
		t.Errorf("response = %+v", got)
	}
	if svc.lastReq == nil || svc.lastReq.Name != "Maria" {
		t.Errorf("service received %+v", svc.lastReq)
	}
}

func TestProcessMultipartFileUpload(t *testing.T) {
	svc := &fakeTriageService{resp: &in.ProcessResponse{Category: string(domain.CategoryUnproductive)}}
	app := newTestApp(svc)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("name", "Carlos")
	_ = w.WriteField("subject", "Agradecimento")
	fw, err := w.CreateFormFile("file", "mensagem.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(fw, "Obrigado pelo excelente atendimento!"); err != nil {
		t.Fatal(err)
	}
	_ = w.Close()

	req := httptest.NewRequest("POST", "/api/v1/process", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}

	if svc.lastReq.Text != "Obrigado pelo excelente atendimento!" {
		t.Errorf("file contents did not replace text: %q", svc.lastReq.Text)
	}
	if svc.lastReq.Name != "Carlos" {
		t.Errorf("form fields lost: %+v", svc.lastReq)
	}
}

func TestProcessRejectsNonTextFile(t *testing.T) {
	svc := &fakeTriageService{resp: &in.ProcessResponse{}}
	app := newTestApp(svc)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, _ := w.CreateFormFile("file", "mensagem.pdf")
	_, _ = io.WriteString(fw, "%PDF-1.4")
	_ = w.Close()

	req := httptest.NewRequest("POST", "/api/v1/process", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if res.StatusCode != fiber.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", res.StatusCode)
	}
	if svc.lastReq != nil {
		t.Error("rejected upload still reached the service")
	}
}

func TestProcessRejectsMalformedJSON(t *testing.T) {
	svc := &fakeTriageService{resp: &in.ProcessResponse{}}
	app := newTestApp(svc)

	req := httptest.NewRequest("POST", "/api/v1/process", strings.NewReader("{broken"))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", res.StatusCode)
	}

	var envelope APIResponse
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Success || envelope.Error == nil {
		t.Errorf("envelope = %+v, want error payload", envelope)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	svc := &fakeTriageService{records: []*domain.TriageRecord{
		{Category: domain.CategoryProductive, Score: 0.78},
		{Category: domain.CategoryUnproductive, Score: 0.21},
	}}
	app := newTestApp(svc)

	req := httptest.NewRequest("GET", "/api/v1/history?limit=10", nil)

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Total int `json:"total"`
		} `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Success || envelope.Data.Total != 2 {
		t.Errorf("envelope = %+v, want success with 2 records", envelope)
	}
}
