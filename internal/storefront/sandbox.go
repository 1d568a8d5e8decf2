package storefront

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/playperu/ticketarcade/internal/catalog"
)

// SandboxProduct configures one product of a Sandbox and how purchases of
// it resolve.
type SandboxProduct struct {
	ID         string         `yaml:"id"`
	Title      string         `yaml:"title"`
	Price      string         `yaml:"price"`
	Kind       string         `yaml:"kind"`
	Payouts    map[string]int `yaml:"payouts"`
	Metadata   string         `yaml:"metadata"`
	Available  *bool          `yaml:"available"`
	Outcome    string         `yaml:"outcome"`
	FailReason string         `yaml:"failReason"`
	Owned      bool           `yaml:"owned"`
}

// SandboxConfig is the document a Sandbox is built from.
type SandboxConfig struct {
	FailInit    bool             `yaml:"failInit"`
	DenyConsent bool             `yaml:"denyConsent"`
	Latency     time.Duration    `yaml:"latency"`
	Products    []SandboxProduct `yaml:"products"`
}

type sandboxProduct struct {
	product catalog.Product
	outcome Status
	reason  string
	owned   bool
}

// Sandbox is an in-process Storefront for development and tests.
// Purchases resolve on their own goroutine after the configured latency.
// Deferred purchases wait for Approve or Decline.
type Sandbox struct {
	mu          sync.Mutex
	cfg         SandboxConfig
	products    []*sandboxProduct
	byID        map[string]*sandboxProduct
	listener    Listener
	initialized bool
	deferred    map[string]bool
	wg          sync.WaitGroup
}

var (
	_ Storefront     = (*Sandbox)(nil)
	_ ConsentChecker = (*Sandbox)(nil)
)

// ErrConsentDenied is returned by a sandbox configured to deny consent.
var ErrConsentDenied = errors.New("storefront: required consent not given")

func NewSandbox(cfg SandboxConfig) (*Sandbox, error) {
	s := &Sandbox{
		cfg:      cfg,
		byID:     make(map[string]*sandboxProduct, len(cfg.Products)),
		deferred: make(map[string]bool),
	}
	for _, sp := range cfg.Products {
		p, err := sp.build()
		if err != nil {
			return nil, fmt.Errorf("sandbox product %q: %w", sp.ID, err)
		}
		if _, dup := s.byID[sp.ID]; dup {
			return nil, fmt.Errorf("sandbox product %q: duplicate id", sp.ID)
		}
		s.products = append(s.products, p)
		s.byID[sp.ID] = p
	}
	return s, nil
}

// LoadSandbox builds a Sandbox from a YAML file.
func LoadSandbox(path string) (*Sandbox, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening storefront config: %w", err)
	}
	defer f.Close()

	var cfg SandboxConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding storefront config: %w", err)
	}
	return NewSandbox(cfg)
}

func (sp SandboxProduct) build() (*sandboxProduct, error) {
	if sp.ID == "" {
		return nil, errors.New("id is required")
	}
	price := decimal.Zero
	if sp.Price != "" {
		p, err := decimal.NewFromString(sp.Price)
		if err != nil {
			return nil, fmt.Errorf("parsing price: %w", err)
		}
		price = p
	}
	kind, err := catalog.ParseKind(sp.Kind)
	if err != nil {
		return nil, err
	}
	var outcome Status
	switch sp.Outcome {
	case "", "completed":
		outcome = Completed
	case "deferred":
		outcome = Deferred
	case "failed":
		outcome = Failed
	default:
		return nil, fmt.Errorf("unknown outcome %q", sp.Outcome)
	}
	available := true
	if sp.Available != nil {
		available = *sp.Available
	}
	payouts := sp.Payouts
	if payouts == nil {
		payouts = make(map[string]int)
	}
	return &sandboxProduct{
		product: catalog.Product{
			ID:        sp.ID,
			Title:     sp.Title,
			Price:     price,
			Kind:      kind,
			Payouts:   payouts,
			Metadata:  sp.Metadata,
			Available: available,
		},
		outcome: outcome,
		reason:  sp.FailReason,
		owned:   sp.Owned,
	}, nil
}

func (s *Sandbox) CheckRequiredConsents(_ context.Context) error {
	if s.cfg.DenyConsent {
		return ErrConsentDenied
	}
	return nil
}

func (s *Sandbox) Initialize(ctx context.Context, l Listener) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.cfg.FailInit {
		return errors.New("storefront: purchasing unavailable")
	}
	s.mu.Lock()
	s.listener = l
	s.initialized = true
	s.mu.Unlock()
	return nil
}

func (s *Sandbox) Products(_ context.Context) ([]catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	out := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p.product)
	}
	return out, nil
}

func (s *Sandbox) Purchase(_ context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrNotInitialized
	}
	p, ok := s.byID[productID]
	if !ok {
		return ErrUnknownProduct
	}
	if !p.product.Available {
		return ErrUnavailable
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if s.cfg.Latency > 0 {
			time.Sleep(s.cfg.Latency)
		}
		s.resolve(p)
	}()
	return nil
}

func (s *Sandbox) resolve(p *sandboxProduct) {
	id := p.product.ID
	switch p.outcome {
	case Deferred:
		s.mu.Lock()
		s.deferred[id] = true
		s.mu.Unlock()
		s.emit(Outcome{ProductID: id, Status: Deferred})
	case Failed:
		reason := p.reason
		if reason == "" {
			reason = "purchase failed"
		}
		s.emit(Outcome{ProductID: id, Status: Failed, Reason: reason})
	default:
		s.complete(p)
	}
}

func (s *Sandbox) complete(p *sandboxProduct) {
	s.mu.Lock()
	if p.product.Kind == catalog.NonConsumable {
		p.owned = true
	}
	s.mu.Unlock()
	s.emit(Outcome{ProductID: p.product.ID, Status: Completed, Receipt: uuid.NewString()})
}

// Approve completes a deferred purchase of productID.
func (s *Sandbox) Approve(productID string) error {
	p, err := s.takeDeferred(productID)
	if err != nil {
		return err
	}
	s.complete(p)
	return nil
}

// Decline fails a deferred purchase of productID.
func (s *Sandbox) Decline(productID, reason string) error {
	if _, err := s.takeDeferred(productID); err != nil {
		return err
	}
	s.emit(Outcome{ProductID: productID, Status: Failed, Reason: reason})
	return nil
}

func (s *Sandbox) takeDeferred(productID string) (*sandboxProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.deferred[productID] {
		return nil, fmt.Errorf("no deferred purchase for %q: %w", productID, ErrUnknownProduct)
	}
	delete(s.deferred, productID)
	return s.byID[productID], nil
}

func (s *Sandbox) Receipts(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	var ids []string
	for _, p := range s.products {
		if p.owned {
			ids = append(ids, p.product.ID)
		}
	}
	return ids, nil
}

// Initialized reports whether Initialize succeeded.
func (s *Sandbox) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Wait blocks until every in-flight purchase goroutine has reported.
func (s *Sandbox) Wait() { s.wg.Wait() }

func (s *Sandbox) emit(o Outcome) {
	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()
	if l != nil {
		l(o)
	}
}
