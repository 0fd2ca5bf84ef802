package security

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonwraymond/proxykit/audit"
	"github.com/jonwraymond/proxykit/observe"
	"github.com/jonwraymond/proxykit/target"
)

// CapabilityAll is the wildcard capability granting every operation.
const CapabilityAll = "all"

// PermissionTable maps an identity to its capability set. A capability is
// an operation (or attribute) name, or CapabilityAll. The table is read
// only after construction; loading it from configuration is the caller's
// job.
type PermissionTable map[string][]string

// Allows reports whether the identity holds the named capability or the
// wildcard.
func (t PermissionTable) Allows(identity, capability string) bool {
	for _, p := range t[identity] {
		if p == capability || p == CapabilityAll {
			return true
		}
	}
	return false
}

// Knows reports whether the identity exists in the table.
func (t PermissionTable) Knows(identity string) bool {
	_, ok := t[identity]
	return ok
}

// Proxy gates access to a wrapped target behind a login/permission state
// machine and records every action in its audit log.
//
// A Proxy holds at most one active identity. The session fields are guarded
// for memory safety, but the design assumes one logical session at a time:
// interleaving Login and Invoke from different identities on the same Proxy
// gives no useful guarantees. Callers needing multi-tenant sessions should
// create one Proxy per identity.
type Proxy struct {
	target  target.Invoker
	perms   PermissionTable
	log     *audit.Log
	logger  observe.Logger
	metrics observe.Metrics

	mu            sync.Mutex
	currentUser   string
	authenticated bool
}

// NewProxy creates a security proxy over t with its own empty audit log.
// A nil logger or metrics is valid and silent.
func NewProxy(t target.Invoker, perms PermissionTable, logger observe.Logger, metrics observe.Metrics) *Proxy {
	if logger == nil {
		logger = observe.NewNopLogger()
	}
	if metrics == nil {
		metrics = observe.NewNopMetrics()
	}
	return &Proxy{
		target:  t,
		perms:   perms,
		log:     audit.NewLog(),
		logger:  logger,
		metrics: metrics,
	}
}

// Login starts a session for the identity. It returns true and records
// LOGIN_SUCCESS when the identity exists in the permission table; otherwise
// the session state is unchanged, LOGIN_FAILED is recorded, and it returns
// false. Login never returns an error.
func (p *Proxy) Login(ctx context.Context, identity string) bool {
	if !p.perms.Knows(identity) {
		p.record(ctx, audit.ActionLoginFailed, "", fmt.Sprintf("login failed for %s", identity))
		return false
	}

	p.mu.Lock()
	p.currentUser = identity
	p.authenticated = true
	p.mu.Unlock()

	p.record(ctx, audit.ActionLoginSuccess, identity, fmt.Sprintf("%s logged in", identity))
	return true
}

// Logout ends the active session, recording LOGOUT. No-op when logged out.
func (p *Proxy) Logout(ctx context.Context) {
	p.mu.Lock()
	user := p.currentUser
	active := p.authenticated
	p.currentUser = ""
	p.authenticated = false
	p.mu.Unlock()

	if active {
		p.record(ctx, audit.ActionLogout, user, fmt.Sprintf("%s logged out", user))
	}
}

// CurrentUser returns the active identity, if any.
func (p *Proxy) CurrentUser() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentUser, p.authenticated
}

// Invoke calls the named operation on the wrapped target after session and
// permission checks.
//
// Failure order: no session -> ErrNotAuthenticated (nothing recorded);
// missing capability -> AccessError with one ACCESS_DENIED entry; unknown
// operation -> target.ErrUnknownOperation. An authorized call records
// METHOD_CALL, then METHOD_SUCCESS, or METHOD_ERROR with the failure
// description before propagating the target's error unchanged.
func (p *Proxy) Invoke(ctx context.Context, name string, args target.Args) (any, error) {
	user, ok := p.CurrentUser()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	if !p.perms.Allows(user, name) {
		p.record(ctx, audit.ActionAccessDenied, user, fmt.Sprintf("%s denied access to %s", user, name))
		return nil, &AccessError{User: user, Operation: name, Reason: "missing capability"}
	}

	if !p.target.HasOperation(name) {
		return nil, &target.UnknownOperationError{Name: name}
	}

	p.record(ctx, audit.ActionMethodCall, user, fmt.Sprintf("%s calling %s", user, name))

	result, err := p.target.Invoke(ctx, name, args)
	if err != nil {
		p.record(ctx, audit.ActionMethodError, user, fmt.Sprintf("%s call to %s failed: %v", user, name, err))
		return nil, err
	}

	p.record(ctx, audit.ActionMethodSuccess, user, fmt.Sprintf("%s executed %s", user, name))
	return result, nil
}

// Attribute reads a named attribute of the wrapped target after session and
// permission checks, recording ATTRIBUTE_ACCESS. The value is returned
// directly with no success/failure wrapping.
func (p *Proxy) Attribute(ctx context.Context, name string) (any, error) {
	user, ok := p.CurrentUser()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	if !p.perms.Allows(user, name) {
		p.record(ctx, audit.ActionAccessDenied, user, fmt.Sprintf("%s denied access to %s", user, name))
		return nil, &AccessError{User: user, Operation: name, Reason: "missing capability"}
	}

	if !p.target.HasAttribute(name) {
		return nil, &target.UnknownAttributeError{Name: name}
	}

	value, err := p.target.Attribute(name)
	if err != nil {
		return nil, err
	}

	p.record(ctx, audit.ActionAttributeAccess, user, fmt.Sprintf("%s read attribute %s", user, name))
	return value, nil
}

// AuditEntries returns a defensive copy of the audit log, optionally the
// most recent limit entries (limit <= 0 returns everything).
func (p *Proxy) AuditEntries(limit int) []audit.Entry {
	return p.log.Entries(limit)
}

// AuditLen returns the number of recorded audit entries.
func (p *Proxy) AuditLen() int {
	return p.log.Len()
}

func (p *Proxy) record(ctx context.Context, action audit.Action, user, details string) {
	p.log.Record(action, user, details)
	p.metrics.RecordAudit(ctx, string(action))
	p.logger.Info(ctx, "audit "+string(action),
		observe.Field{Key: "audit.user", Value: user},
		observe.Field{Key: "audit.details", Value: details},
	)
}
