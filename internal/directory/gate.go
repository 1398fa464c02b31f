// Package directory adapts contact exports and authorization prompts to the
// PermissionGate and ContactSource contracts.
package directory

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/schema"
	"golang.org/x/term"
)

// AuthorizationKey is the KVStore key holding the user's decision.
const AuthorizationKey = "directory_authorization"

// authorizationVersion is bumped when the stored value layout changes.
const authorizationVersion = 1

// StaticGate reports a fixed status. A request made while the status is
// not_determined resolves to the configured answer.
type StaticGate struct {
	mu     sync.Mutex
	status schema.AuthorizationStatus
	answer schema.AuthorizationStatus
}

var _ contract.PermissionGate = &StaticGate{} // Compile-time check

// NewStaticGate returns a gate starting at status.
func NewStaticGate(status, answer schema.AuthorizationStatus) *StaticGate {
	if status == "" {
		status = schema.NotDetermined
	}
	if answer == "" {
		answer = schema.Authorized
	}
	return &StaticGate{status: status, answer: answer}
}

// CurrentStatus implements the PermissionGate interface.
func (g *StaticGate) CurrentStatus() schema.AuthorizationStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// RequestAccess implements the PermissionGate interface.
func (g *StaticGate) RequestAccess(_ context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status == schema.NotDetermined {
		g.status = g.answer
	}
	return g.status.Granted()
}

// PromptGate asks the user on the terminal and remembers the answer in a KVStore.
type PromptGate struct {
	store       contract.KVStore
	in          io.Reader
	out         io.Writer
	interactive func() bool
	now         func() time.Time

	mu sync.Mutex
	// session applies while nothing is stored, e.g. restricted for a non-interactive run.
	session schema.AuthorizationStatus

	// lines is fed by a single reader goroutine that outlives canceled prompts.
	readerOnce sync.Once
	lines      chan string
}

var _ contract.PermissionGate = &PromptGate{} // Compile-time check

// NewPromptGate returns a gate that prompts on stdin/stderr when stdin is a terminal.
func NewPromptGate(store contract.KVStore) *PromptGate {
	return &PromptGate{
		store:       store,
		in:          os.Stdin,
		out:         os.Stderr,
		interactive: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		now:         time.Now,
	}
}

// CurrentStatus implements the PermissionGate interface.
func (g *PromptGate) CurrentStatus() schema.AuthorizationStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loadLocked()
}

func (g *PromptGate) loadLocked() schema.AuthorizationStatus {
	value, _, _, err := g.store.Get(AuthorizationKey)
	if errors.Is(err, contract.ErrNotFound) {
		if g.session != "" {
			return g.session
		}
		return schema.NotDetermined
	}
	if err != nil {
		log.WithError(err).Warn("cannot read directory authorization")
		return schema.Denied
	}
	status, err := schema.ParseAuthorizationStatus(string(value))
	if err != nil {
		log.WithError(err).Warn("stored directory authorization is invalid")
		return schema.Denied
	}
	return status
}

// RequestAccess implements the PermissionGate interface. A decision already on
// record is returned without prompting.
func (g *PromptGate) RequestAccess(ctx context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	status := g.loadLocked()
	if status != schema.NotDetermined {
		return status.Granted()
	}
	if !g.interactive() {
		log.Debug("stdin is not a terminal; directory access restricted")
		g.session = schema.Restricted
		return false
	}

	status = g.prompt(ctx)
	if status == schema.NotDetermined {
		return false
	}
	if err := g.store.Set(AuthorizationKey, []byte(status), authorizationVersion, g.now().Unix()); err != nil {
		log.WithError(err).Warn("cannot persist directory authorization")
		g.session = schema.Denied
		return false
	}
	return status.Granted()
}

// prompt returns NotDetermined when ctx ends before the user answers.
func (g *PromptGate) prompt(ctx context.Context) schema.AuthorizationStatus {
	_, _ = fmt.Fprint(g.out, "Allow callerid to read your contacts? [y/N] ")

	lines := g.readLines()

	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(g.out)
		return schema.NotDetermined
	case line := <-lines:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return schema.Authorized
		default:
			return schema.Denied
		}
	}
}

// readLines starts the stdin reader on first use. The channel is closed at EOF,
// which reads as an empty answer.
func (g *PromptGate) readLines() <-chan string {
	g.readerOnce.Do(func() {
		g.lines = make(chan string)
		go func() {
			defer close(g.lines)
			r := bufio.NewReader(g.in)
			for {
				line, err := r.ReadString('\n')
				if line != "" || err == nil {
					g.lines <- line
				}
				if err != nil {
					return
				}
			}
		}()
	})
	return g.lines
}

// Reset forgets the stored decision so the next request prompts again.
func (g *PromptGate) Reset() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = ""
	return g.store.Delete(AuthorizationKey)
}
