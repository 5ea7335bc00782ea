package openapi

import (
	"github.com/google/uuid"
	"github.com/specmock/specmock/internal/models"
	"github.com/specmock/specmock/internal/resolve"
)

// Handlers derives the interception handlers for every operation in the
// document: one handler per (method, resolved server URL) pair, each bound
// to a live resolver that negotiates content and synthesizes a body per
// request.
func Handlers(doc *Document) ([]*models.Handler, error) {
	ops, err := doc.Operations()
	if err != nil {
		return nil, err
	}

	var handlers []*models.Handler
	for i := range ops {
		op := &ops[i]
		resolver := resolve.Operation(op)
		pattern := PathPattern(op.Path)
		for _, root := range ServerRoots(op) {
			handlers = append(handlers, &models.Handler{
				ID:         uuid.New().String(),
				Source:     models.SourceOpenAPI,
				Method:     op.Method,
				URLPattern: JoinURL(root, pattern),
				Resolve:    resolver,
			})
		}
	}
	return handlers, nil
}
