package reply

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mailtriage/core/domain"
	"mailtriage/core/port/out"
)

// fakeGenerator returns a canned reply, an error, or panics.
type fakeGenerator struct {
	reply   string
	err     error
	panics  bool
	lastReq out.ReplyRequest
}

func (g *fakeGenerator) GenerateReply(_ context.Context, req out.ReplyRequest) (string, error) {
	g.lastReq = req
	if g.panics {
		panic("generator blew up")
	}
	return g.reply, g.err
}

func TestBuildReplyTemplates(t *testing.T) {
	svc := NewService(nil, time.Second)

	tests := []struct {
		name         string
		sub          domain.Submission
		category     domain.Category
		wantContains []string
	}{
		{
			name:     "productive reply greets by name and quotes the subject",
			sub:      domain.Submission{Text: "Preciso de ajuda com o sistema", Name: "Carlos", Subject: "Suporte"},
			category: domain.CategoryProductive,
			wantContains: []string{
				"Prezado(a) Carlos",
				"'Suporte'",
				"é bastante breve",
				"mais informações",
			},
		},
		{
			name:     "productive reply without metadata uses neutral fallbacks",
			sub:      domain.Submission{Text: "Preciso de ajuda com o sistema"},
			category: domain.CategoryProductive,
			wantContains: []string{
				"Prezado(a),",
				"(sem assunto)",
			},
		},
		{
			name:     "unproductive reply thanks the sender",
			sub:      domain.Submission{Text: "Parabéns pelo trabalho", Name: "Ana"},
			category: domain.CategoryUnproductive,
			wantContains: []string{
				"Prezado(a) Ana",
				"valorizamos sua consideração",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.BuildReply(context.Background(), tt.sub, tt.category, 0.60)

			if got.Category != string(tt.category) {
				t.Errorf("Category = %q, want %q", got.Category, tt.category)
			}
			if got.Score != 0.60 {
				t.Errorf("Score = %v, want 0.60", got.Score)
			}
			if got.Source != SourceTemplate {
				t.Errorf("Source = %q, want %q", got.Source, SourceTemplate)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got.Reply, want) {
					t.Errorf("Reply missing %q:\n%s", want, got.Reply)
				}
			}
		})
	}
}

func TestBuildReplyContentDescriptors(t *testing.T) {
	svc := NewService(nil, time.Second)

	tests := []struct {
		words int
		want  string
	}{
		{10, "é bastante breve"},
		{50, "é concisa"},
		{120, "é detalhada"},
		{250, "é muito completa"},
	}

	for _, tt := range tests {
		sub := domain.Submission{Text: strings.TrimSpace(strings.Repeat("palavra ", tt.words))}
		got := svc.BuildReply(context.Background(), sub, domain.CategoryProductive, 0.5)
		if !strings.Contains(got.Reply, tt.want) {
			t.Errorf("%d words: reply missing %q", tt.words, tt.want)
		}
	}
}

func TestBuildReplyUsesGenerator(t *testing.T) {
	gen := &fakeGenerator{reply: "Olá Carlos, recebemos sua mensagem."}
	svc := NewService(gen, time.Second)

	sub := domain.Submission{Text: "Preciso de ajuda", Name: "Carlos", Subject: "Suporte"}
	got := svc.BuildReply(context.Background(), sub, domain.CategoryProductive, 0.72)

	if got.Reply != "Olá Carlos, recebemos sua mensagem." {
		t.Errorf("Reply = %q", got.Reply)
	}
	if got.Source != SourceGenerator {
		t.Errorf("Source = %q, want %q", got.Source, SourceGenerator)
	}
	if got.Score != 0.72 {
		t.Errorf("Score = %v, want the adjusted score", got.Score)
	}
	if gen.lastReq.Category != string(domain.CategoryProductive) {
		t.Errorf("generator received category %q", gen.lastReq.Category)
	}
}

func TestBuildReplyTruncatesGeneratorInput(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	svc := NewService(gen, time.Second)

	long := strings.Repeat("a", 1000)
	svc.BuildReply(context.Background(), domain.Submission{Text: long}, domain.CategoryProductive, 0.5)

	if len(gen.lastReq.EmailText) != bodyPreviewLen {
		t.Errorf("generator body length = %d, want %d", len(gen.lastReq.EmailText), bodyPreviewLen)
	}
}

func TestBuildReplyExtractsStructuredPayload(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "json object with reply field",
			raw:  `{"category":"Outra","score":0.99,"reply":"Resposta gerada."}`,
			want: "Resposta gerada.",
		},
		{
			name: "fenced json object",
			raw:  "```json\n{\"reply\":\"Resposta cercada.\"}\n```",
			want: "Resposta cercada.",
		},
		{
			name: "plain text passes through",
			raw:  "Resposta direta.",
			want: "Resposta direta.",
		},
		{
			name: "unparseable braces pass through verbatim",
			raw:  "{resposta quebrada",
			want: "{resposta quebrada",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{reply: tt.raw}
			svc := NewService(gen, time.Second)

			got := svc.BuildReply(context.Background(), domain.Submission{Text: "texto"}, domain.CategoryProductive, 0.80)

			if got.Reply != tt.want {
				t.Errorf("Reply = %q, want %q", got.Reply, tt.want)
			}
			// The generator never overrides the locally computed verdict.
			if got.Category != string(domain.CategoryProductive) {
				t.Errorf("Category = %q, want local category", got.Category)
			}
			if got.Score != 0.80 {
				t.Errorf("Score = %v, want local adjusted score", got.Score)
			}
		})
	}
}

func TestBuildReplyFallsBackOnGeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream unavailable")}
	svc := NewService(gen, time.Second)

	got := svc.BuildReply(context.Background(), domain.Submission{Text: "Preciso de ajuda", Subject: "Suporte"}, domain.CategoryProductive, 0.65)

	if got.Source != SourceTemplate {
		t.Errorf("Source = %q, want template fallback", got.Source)
	}
	if !strings.Contains(got.Reply, "'Suporte'") {
		t.Errorf("fallback reply missing subject: %s", got.Reply)
	}
}

func TestBuildReplyRecoversFromPanic(t *testing.T) {
	gen := &fakeGenerator{panics: true}
	svc := NewService(gen, time.Second)

	got := svc.BuildReply(context.Background(), domain.Submission{Text: "texto qualquer"}, domain.CategoryProductive, 0.70)

	if got.Category != string(domain.CategoryError) {
		t.Errorf("Category = %q, want %q", got.Category, domain.CategoryError)
	}
	if got.Score != 0.0 {
		t.Errorf("Score = %v, want 0.0", got.Score)
	}
	if got.Reply == "" {
		t.Error("error reply must not be empty")
	}
}
