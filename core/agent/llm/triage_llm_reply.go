package llm

import (
	"context"
	"fmt"
	"strings"

	"mailtriage/core/port/out"
)

// GenerateReply drafts a short personalized reply for a triaged email.
// Implements out.ReplyGenerator.
func (c *Client) GenerateReply(ctx context.Context, req out.ReplyRequest) (string, error) {
	name := req.Name
	if name == "" {
		name = "Não informado"
	}
	email := req.Email
	if email == "" {
		email = "Não informado"
	}
	subject := req.Subject
	if subject == "" {
		subject = "Sem assunto"
	}

	systemPrompt := `Você é um assistente de suporte corporativo profissional e atencioso.
Gere respostas em português, concisas e bem formatadas.`

	userPrompt := fmt.Sprintf(`Dados do email recebido:
- Remetente: %s
- Email: %s
- Assunto: %s
- Corpo: %s

Categoria detectada: %s

Gere uma resposta profissional, personalizada e concisa (máximo 6 linhas) que:
1. Cumprimente o remetente pelo nome (se fornecido)
2. Reconheça o assunto/conteúdo
3. Forneça orientação apropriada
4. Ofereça disponibilidade

Não adicione explicações, apenas a resposta.`,
		name, email, subject, req.EmailText, req.Category)

	reply, err := c.CompleteWithSystem(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}
