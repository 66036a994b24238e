package native

import (
	"fmt"
	"sync"

	"keyward/internal/domain"
)

// Dispatch status codes returned to the crypto library. The zero value
// is success; the library retries or fails its handshake on anything
// else.
const (
	DispatchOK         int32 = 0
	DispatchNoHandler  int32 = 1
	DispatchNotFound   int32 = 2
	DispatchBadRequest int32 = 3
)

// RecordRequest asks for one piece of private material by category and,
// for prekey records, numeric id.
type RecordRequest struct {
	Kind domain.RecordKind
	ID   domain.RecordID
}

// RecordResponse carries the requested material. Exactly one field is
// populated, matching the request kind.
type RecordResponse struct {
	Serialized     []byte
	Identity       domain.IdentityKeyPair
	RegistrationID domain.RegistrationID
}

// DispatchHandler serves a record request synchronously. It runs on
// whatever thread the crypto library is doing key agreement on and must
// not block on I/O.
type DispatchHandler func(RecordRequest) (RecordResponse, int32)

// Handler symbol table. Handlers are exported under a name, and the
// bridge resolves them by name at registration time, standing in for
// the dynamic symbol lookup a platform shim would perform.
var (
	symbolMu sync.RWMutex
	symbols  = map[string]DispatchHandler{}
)

// ExportHandler publishes h under name for later resolution.
func ExportHandler(name string, h DispatchHandler) {
	symbolMu.Lock()
	defer symbolMu.Unlock()
	symbols[name] = h
}

func lookupSymbol(name string) (DispatchHandler, bool) {
	symbolMu.RLock()
	defer symbolMu.RUnlock()
	h, ok := symbols[name]
	return h, ok
}

// Bridge owns the registered dispatch handler and the stable trampoline
// handed to the crypto library.
type Bridge struct {
	mu      sync.RWMutex
	handler DispatchHandler
}

// NewBridge returns a bridge with no handler registered.
func NewBridge() *Bridge { return &Bridge{} }

// RegisterDispatch installs h directly.
func (b *Bridge) RegisterDispatch(h DispatchHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = h
}

// RegisterDispatchByName resolves an exported handler by name and
// installs it.
func (b *Bridge) RegisterDispatchByName(name string) error {
	h, ok := lookupSymbol(name)
	if !ok {
		return fmt.Errorf("dispatch handler %q not exported", name)
	}
	b.RegisterDispatch(h)
	return nil
}

// DispatchFunc returns the stable trampoline. The trampoline's only job
// is to invoke whichever handler is currently registered; the crypto
// library holds this one value for the life of the process.
func (b *Bridge) DispatchFunc() DispatchHandler {
	return func(req RecordRequest) (RecordResponse, int32) {
		b.mu.RLock()
		h := b.handler
		b.mu.RUnlock()
		if h == nil {
			return RecordResponse{}, DispatchNoHandler
		}
		return h(req)
	}
}
