package mock

import (
	"context"
	"net/http"
	"strings"
)

// Operation is one mocked API method: the path it answers on and the
// handler that renders its success payload. Name keys the rate-limit
// policy lookup and the metric labels.
type Operation struct {
	Name    string
	Methods map[string]struct{}
	Path    string
	// PrefixMatch widens Path to strict subpaths, for endpoints that
	// carry a resource id in the URL.
	PrefixMatch bool
	Handle      http.HandlerFunc
}

// OperationSet resolves requests to operations in registration order.
type OperationSet struct {
	ops []*Operation
}

func NewOperationSet() *OperationSet {
	return &OperationSet{}
}

func (s *OperationSet) Add(op *Operation) {
	s.ops = append(s.ops, op)
}

func (s *OperationSet) Operations() []*Operation {
	return s.ops
}

func (s *OperationSet) Match(method, path string) (*Operation, bool) {
	m := strings.ToUpper(method)
	for _, op := range s.ops {
		if _, ok := op.Methods[m]; !ok {
			continue
		}
		p := strings.TrimSuffix(strings.TrimSpace(op.Path), "/")
		if p == "" {
			p = "/"
		}
		if op.PrefixMatch {
			if strings.HasPrefix(path, p+"/") {
				return op, true
			}
			continue
		}
		if path == p {
			return op, true
		}
	}
	return nil, false
}

// --- context helpers ---

type ctxKey int

const keyOperation ctxKey = 0

func WithOperation(r *http.Request, op *Operation) *http.Request {
	ctx := context.WithValue(r.Context(), keyOperation, op)
	return r.WithContext(ctx)
}

func OperationFrom(r *http.Request) (*Operation, bool) {
	v := r.Context().Value(keyOperation)
	if v == nil {
		return nil, false
	}
	op, ok := v.(*Operation)
	return op, ok
}

func methods(ms ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(ms))
	for _, m := range ms {
		out[strings.ToUpper(m)] = struct{}{}
	}
	return out
}
