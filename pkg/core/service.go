package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/quire/pkg/wallet"
)

// SignatureVerifier reports whether signature over message was produced by address.
// It must be total: malformed input is false, never a panic.
type SignatureVerifier func(message, signature, address string) bool

// Service handles the business logic for notes: it enforces who may read, write
// and delete which record before touching the repository.
type Service struct {
	repo   Repository
	verify SignatureVerifier
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	mu              sync.RWMutex
	eventBufferSize int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithVerifier replaces the signature verifier (defaults to wallet.VerifySignature).
func WithVerifier(v SignatureVerifier) ServiceOption {
	return func(s *Service) {
		if v != nil {
			s.verify = v
		}
	}
}

// WithServiceLogger sets the logger used for denied operations.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for CreatedAt/UpdatedAt.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how new note IDs are produced.
func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithEventBufferSize sets the buffer of channels returned by Watch. Zero means default (100).
func WithEventBufferSize(size int) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.eventBufferSize = size
		}
	}
}

// NewService creates a new Service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:            repo,
		verify:          wallet.VerifySignature,
		logger:          slog.New(slog.DiscardHandler),
		now:             time.Now,
		newID:           uuid.NewString,
		eventBufferSize: 100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repository returns the underlying repository.
func (s *Service) Repository() Repository {
	return s.repo
}

// ListNotes returns the notes authored by walletAddr.
// walletAddr must be a well-formed address; matching is by canonical lowercase equality.
func (s *Service) ListNotes(ctx context.Context, walletAddr string) ([]Note, error) {
	if !wallet.IsValidAddress(walletAddr) {
		s.deny("list", walletAddr, ErrInvalidAddress)
		return nil, ErrInvalidAddress
	}
	author := wallet.NormalizeAddress(walletAddr)

	if lister, ok := s.repo.(AuthorLister); ok {
		return lister.ListByAuthor(ctx, author)
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	notes := make([]Note, 0, len(all))
	for _, n := range all {
		if n.Author == author {
			notes = append(notes, n)
		}
	}
	return notes, nil
}

// GetNote retrieves a note on behalf of walletAddr.
// The stored author must equal walletAddr (case-insensitively).
func (s *Service) GetNote(ctx context.Context, id, walletAddr string) (Note, error) {
	if id == "" {
		return Note{}, fmt.Errorf("%w: id", ErrMissingFields)
	}
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return Note{}, err
	}
	if walletAddr == "" || !wallet.SameAddress(n.Author, walletAddr) {
		s.deny("read", walletAddr, ErrUnauthorized)
		return Note{}, ErrUnauthorized
	}
	return n, nil
}

// CreateNote persists a new note once the author is well-formed and the signature
// recovers to that author.
func (s *Service) CreateNote(ctx context.Context, req CreateRequest) (Note, error) {
	if !wallet.IsValidAddress(req.Author) {
		s.deny("create", req.Author, ErrInvalidAddress)
		return Note{}, ErrInvalidAddress
	}
	if !s.verify(req.Message, req.Signature, req.Author) {
		s.deny("create", req.Author, ErrInvalidSignature)
		return Note{}, ErrInvalidSignature
	}

	now := s.now().UTC()
	n := Note{
		ID:        s.newID(),
		Title:     req.Title,
		Content:   req.Content,
		Author:    wallet.NormalizeAddress(req.Author),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Save(ctx, n); err != nil {
		return Note{}, fmt.Errorf("failed to save note: %w", err)
	}
	return n, nil
}

// UpdateNote applies a partial update after re-verifying ownership and signature.
func (s *Service) UpdateNote(ctx context.Context, id string, req UpdateRequest) (Note, error) {
	n, err := s.authorizeMutation(ctx, "update", id, req.Authorization)
	if err != nil {
		return Note{}, err
	}

	if req.Title != nil {
		n.Title = *req.Title
	}
	if req.Content != nil {
		n.Content = *req.Content
	}
	n.UpdatedAt = s.now().UTC()

	if err := s.repo.Save(ctx, n); err != nil {
		return Note{}, fmt.Errorf("failed to save note: %w", err)
	}
	return n, nil
}

// DeleteNote removes a note after re-verifying ownership and signature.
func (s *Service) DeleteNote(ctx context.Context, id string, auth Authorization) error {
	if _, err := s.authorizeMutation(ctx, "delete", id, auth); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// authorizeMutation loads the note and checks that auth.Author owns it and signed the message.
// Ownership is checked before the signature, so a foreign author is always ErrUnauthorized.
func (s *Service) authorizeMutation(ctx context.Context, op, id string, auth Authorization) (Note, error) {
	if id == "" {
		return Note{}, fmt.Errorf("%w: id", ErrMissingFields)
	}
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return Note{}, err
	}
	if auth.Author == "" || !wallet.SameAddress(n.Author, auth.Author) {
		s.deny(op, auth.Author, ErrUnauthorized)
		return Note{}, ErrUnauthorized
	}
	if !s.verify(auth.Message, auth.Signature, auth.Author) {
		s.deny(op, auth.Author, ErrInvalidSignature)
		return Note{}, ErrInvalidSignature
	}
	return n, nil
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	src, err := w.Watch(ctx, pattern)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	size := s.eventBufferSize
	s.mu.RUnlock()

	out := make(chan Event, size)
	go func() {
		defer close(out)
		for e := range src {
			select {
			case out <- e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *Service) deny(op, walletAddr string, reason error) {
	s.logger.Debug("operation denied", "op", op, "wallet", walletAddr, "reason", reason)
}
