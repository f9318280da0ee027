package triage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"mailtriage/core/domain"
	"mailtriage/core/port/in"
	"mailtriage/core/port/out"
	"mailtriage/core/service/boost"
	"mailtriage/core/service/classify"
	"mailtriage/core/service/normalize"
	"mailtriage/core/service/reply"
)

type fakeCache struct {
	stored   map[string]*in.ProcessResponse
	getErr   error
	setCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{stored: make(map[string]*in.ProcessResponse)}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	cached, ok := c.stored[key]
	if !ok {
		return false, nil
	}
	*dest.(*in.ProcessResponse) = *cached
	return true, nil
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.setCalls++
	resp := *value.(*in.ProcessResponse)
	c.stored[key] = &resp
	return nil
}

type fakeHistory struct {
	recorded []*domain.TriageRecord
	listErr  error
}

func (h *fakeHistory) Record(_ context.Context, rec *domain.TriageRecord) error {
	h.recorded = append(h.recorded, rec)
	return nil
}

func (h *fakeHistory) List(_ context.Context, limit int) ([]*domain.TriageRecord, error) {
	if h.listErr != nil {
		return nil, h.listErr
	}
	if limit > len(h.recorded) {
		limit = len(h.recorded)
	}
	return h.recorded[:limit], nil
}

func newTestService(cache out.ResultCache, history out.HistoryRepository) in.TriageService {
	normalizer := normalize.New()
	pipeline := classify.NewPipeline(nil, normalizer, classify.DefaultConfig())
	booster := boost.NewBooster(zerolog.Nop())
	replies := reply.NewService(nil, time.Second)
	return NewService(normalizer, pipeline, booster, replies, cache, history)
}

func TestProcessEmptyText(t *testing.T) {
	svc := newTestService(nil, nil)

	for _, text := range []string{"", "   \n\t "} {
		resp, err := svc.Process(context.Background(), &in.ProcessRequest{Text: text})
		if err != nil {
			t.Fatalf("Process(%q) error = %v", text, err)
		}
		if resp.Category != "Nenhum texto fornecido" {
			t.Errorf("Category = %q", resp.Category)
		}
		if resp.Score != 0 || resp.ScoreDisplay != "0.00" {
			t.Errorf("Score = %v / %q, want 0 / \"0.00\"", resp.Score, resp.ScoreDisplay)
		}
		if resp.Reply != "Forneça um texto ou arquivo." {
			t.Errorf("Reply = %q", resp.Reply)
		}
	}
}

func TestProcessHeuristicTemplateFlow(t *testing.T) {
	svc := newTestService(nil, nil)

	req := &in.ProcessRequest{
		Text:    "Preciso de suporte urgente com um erro no sistema de pagamento. " + strings.TrimSpace(strings.Repeat("detalhe adicional ", 30)),
		Name:    "Maria",
		Email:   "maria@empresa.com.br",
		Subject: "Problema no sistema",
	}

	resp, err := svc.Process(context.Background(), req)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if resp.Category != string(domain.CategoryProductive) {
		t.Errorf("Category = %q, want %q", resp.Category, domain.CategoryProductive)
	}
	if resp.Score <= 0 || resp.Score > 1 {
		t.Errorf("Score = %v, want within (0, 1]", resp.Score)
	}
	if !strings.Contains(resp.ScoreDisplay, ".") || len(resp.ScoreDisplay) != 4 {
		t.Errorf("ScoreDisplay = %q, want two-decimal format", resp.ScoreDisplay)
	}
	if resp.ReplySource != reply.SourceTemplate {
		t.Errorf("ReplySource = %q, want %q", resp.ReplySource, reply.SourceTemplate)
	}
	if !strings.Contains(resp.Reply, "Prezado(a) Maria") {
		t.Errorf("Reply missing greeting: %s", resp.Reply)
	}
	if resp.Cached {
		t.Error("Cached = true on a fresh submission")
	}
}

func TestProcessCacheRoundTrip(t *testing.T) {
	cache := newFakeCache()
	svc := newTestService(cache, nil)

	req := &in.ProcessRequest{Text: "Solicito atualização sobre o andamento do meu pedido de suporte técnico para acesso ao sistema financeiro da empresa", Subject: "Suporte"}

	first, err := svc.Process(context.Background(), req)
	if err != nil {
		t.Fatalf("first Process() error = %v", err)
	}
	if first.Cached {
		t.Error("first call reported a cache hit")
	}
	if cache.setCalls != 1 {
		t.Fatalf("setCalls = %d, want 1", cache.setCalls)
	}

	second, err := svc.Process(context.Background(), req)
	if err != nil {
		t.Fatalf("second Process() error = %v", err)
	}
	if !second.Cached {
		t.Error("second call missed the cache")
	}
	if second.Category != first.Category || second.Reply != first.Reply {
		t.Error("cached response differs from the original")
	}
	if cache.setCalls != 1 {
		t.Errorf("setCalls = %d after a hit, want 1", cache.setCalls)
	}
}

func TestProcessCacheKeyIncludesMetadata(t *testing.T) {
	cache := newFakeCache()
	svc := newTestService(cache, nil)

	text := "Preciso de ajuda com a fatura deste mês, o valor cobrado está incorreto e gostaria de solicitar a revisão do pagamento"

	if _, err := svc.Process(context.Background(), &in.ProcessRequest{Text: text, Name: "Ana"}); err != nil {
		t.Fatal(err)
	}
	resp, err := svc.Process(context.Background(), &in.ProcessRequest{Text: text, Name: "Bruno"})
	if err != nil {
		t.Fatal(err)
	}

	if resp.Cached {
		t.Error("submissions with different senders shared a cache entry")
	}
	if !strings.Contains(resp.Reply, "Bruno") {
		t.Errorf("reply addressed the wrong sender: %s", resp.Reply)
	}
}

func TestProcessSurvivesCacheFailure(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	svc := newTestService(cache, nil)

	resp, err := svc.Process(context.Background(), &in.ProcessRequest{Text: "Solicito informação sobre o contrato de suporte e o prazo de atualização do sistema para a nossa conta corporativa"})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if resp.Category == "" {
		t.Error("cache failure produced an empty result")
	}
}

func TestProcessRecordsHistory(t *testing.T) {
	history := &fakeHistory{}
	svc := newTestService(nil, history)

	_, err := svc.Process(context.Background(), &in.ProcessRequest{Text: "Obrigado pela atenção e parabéns a toda a equipe pelo excelente trabalho realizado durante este ano, desejo boas festas a todos"})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(history.recorded) != 1 {
		t.Fatalf("recorded %d rows, want 1", len(history.recorded))
	}
	rec := history.recorded[0]
	if rec.Category != domain.CategoryUnproductive {
		t.Errorf("recorded Category = %q, want %q", rec.Category, domain.CategoryUnproductive)
	}
	if rec.TokenCount == 0 || rec.WordCount == 0 {
		t.Errorf("recorded counts = %d/%d, want non-zero", rec.TokenCount, rec.WordCount)
	}
}

func TestHistoryWithoutRepository(t *testing.T) {
	svc := newTestService(nil, nil)

	records, err := svc.History(context.Background(), 10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("History() = %v, want empty slice", records)
	}
}

func TestHistoryPropagatesRepositoryError(t *testing.T) {
	history := &fakeHistory{listErr: errors.New("relation does not exist")}
	svc := newTestService(nil, history)

	if _, err := svc.History(context.Background(), 10); err == nil {
		t.Error("History() error = nil, want wrapped repository error")
	}
}

func TestReplyHTML(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain text untouched", "Olá Maria", "Olá Maria"},
		{"single newline becomes break", "linha um\nlinha dois", "linha um<br>linha dois"},
		{"blank line becomes paragraph", "bloco um\n\nbloco dois", "bloco um<p>bloco dois"},
		{"windows endings normalized first", "a\r\n\r\nb\r\nc", "a<p>b<br>c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := replyHTML(tt.text); got != tt.want {
				t.Errorf("replyHTML(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
