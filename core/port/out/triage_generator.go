package out

import "context"

// ReplyRequest carries everything the external generator needs to draft a reply.
type ReplyRequest struct {
	EmailText string // original body, already truncated by the caller
	Category  string
	Name      string
	Email     string
	Subject   string
}

// ReplyGenerator defines the outbound port for the natural-language reply
// generator. The implementation may be unavailable at runtime; callers must
// treat any error as a signal to take the template path.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, req ReplyRequest) (string, error)
}
