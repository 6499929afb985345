package externalservices

import "context"

type ctxKey string

const (
	sessionIDKey ctxKey = "sessionID"
	orgEmailKey  ctxKey = "orgEmail"
	recIDKey     ctxKey = "recID"
	withAuditKey ctxKey = "withAudit"
	uriKey       ctxKey = "uri"
	requestKey   ctxKey = "request"
)

type AuditData struct {
	SessionID string
	OrgEmail  string
	Request   string
	Uri       string
	RecID     string
	WithAudit bool
}

func GetAuditContext(ctx context.Context, uri string, request []byte) context.Context {
	rCtx := context.WithValue(ctx, withAuditKey, true)
	rCtx = context.WithValue(rCtx, uriKey, uri)
	if len(request) != 0 {
		rCtx = context.WithValue(rCtx, requestKey, string(request))
	}
	return rCtx
}

// GetContextWithRecID recID - емайл кандидата или идентификатор записи, к которой относится запрос
func GetContextWithRecID(ctx context.Context, sessionID, orgEmail, recID string) context.Context {
	ctx = context.WithValue(ctx, sessionIDKey, sessionID)
	ctx = context.WithValue(ctx, orgEmailKey, orgEmail)
	return context.WithValue(ctx, recIDKey, recID)
}

func ExtractAuditData(ctx context.Context) AuditData {
	data := AuditData{}
	data.SessionID, _ = ctx.Value(sessionIDKey).(string)
	data.OrgEmail, _ = ctx.Value(orgEmailKey).(string)
	data.Request, _ = ctx.Value(requestKey).(string)
	data.Uri, _ = ctx.Value(uriKey).(string)
	data.RecID, _ = ctx.Value(recIDKey).(string)
	data.WithAudit, _ = ctx.Value(withAuditKey).(bool)
	return data
}
