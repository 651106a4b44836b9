package services

import (
	"strings"

	portssvc "github.com/nimbusfin/coreledger/internal/core/ports/services"
)

// handlerRegistry is the typed dispatch table mapping (entity, action) to a
// registered handler. Populated once at startup; lookups are read-only after
// that, so no locking is needed on the hot path.
type handlerRegistry struct {
	handlers map[portssvc.HandlerKey]portssvc.Handler
}

// NewHandlerRegistry creates an empty handler registry.
func NewHandlerRegistry() portssvc.HandlerRegistry {
	return &handlerRegistry{
		handlers: make(map[portssvc.HandlerKey]portssvc.Handler),
	}
}

var _ portssvc.HandlerRegistry = (*handlerRegistry)(nil)

// Register binds a handler to an (entity, action) pair. Tags are normalized to
// upper case so lookups are case-insensitive.
func (r *handlerRegistry) Register(entity, action string, handler portssvc.Handler) {
	key := NormalizeKey(entity, action)
	r.handlers[key] = handler
}

// Resolve looks up the handler for a key.
func (r *handlerRegistry) Resolve(key portssvc.HandlerKey) (portssvc.Handler, bool) {
	handler, ok := r.handlers[key]
	return handler, ok
}

// NormalizeKey builds a canonical handler key from raw entity and action tags.
func NormalizeKey(entity, action string) portssvc.HandlerKey {
	return portssvc.HandlerKey{
		Entity: strings.ToUpper(strings.TrimSpace(entity)),
		Action: strings.ToUpper(strings.TrimSpace(action)),
	}
}

// staticApprovalPolicy is a fixed (entity, action) -> approval-required map
// loaded from configuration at startup.
type staticApprovalPolicy struct {
	required map[portssvc.HandlerKey]bool
}

// NewStaticApprovalPolicy builds a policy from "ENTITY:ACTION" pair strings.
func NewStaticApprovalPolicy(pairs []string) portssvc.ApprovalPolicy {
	required := make(map[portssvc.HandlerKey]bool, len(pairs))
	for _, pair := range pairs {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			continue
		}
		required[NormalizeKey(parts[0], parts[1])] = true
	}
	return &staticApprovalPolicy{required: required}
}

var _ portssvc.ApprovalPolicy = (*staticApprovalPolicy)(nil)

func (p *staticApprovalPolicy) RequiresApproval(key portssvc.HandlerKey) bool {
	return p.required[key]
}
