// Package exploretest provides test doubles for the explore list collaborators.
package exploretest

import (
	"context"
	"errors"
	"sync"

	"github.com/vvka-141/dexplore/pkg/dexplore"
)

// Response is one scripted reply of a Service.
type Response struct {
	Result *dexplore.MetadataListResult
	Err    error

	// Gate, when set, holds the reply until it is closed or the request
	// context is done.
	Gate chan struct{}
}

// Service is a scripted dexplore.MetadataService. Replies are consumed in
// order; once the script is exhausted the last reply repeats.
type Service struct {
	mu        sync.Mutex
	responses []Response
	calls     []dexplore.ListParams
	started   chan dexplore.ListParams
}

// NewService creates a Service replying with responses in order.
func NewService(responses ...Response) *Service {
	return &Service{
		responses: responses,
		started:   make(chan dexplore.ListParams, 16),
	}
}

// Returning creates a Service that always succeeds with result.
func Returning(result *dexplore.MetadataListResult) *Service {
	return NewService(Response{Result: result})
}

// Failing creates a Service that always fails with err.
func Failing(err error) *Service {
	return NewService(Response{Err: err})
}

// GetMetadataList implements dexplore.MetadataService.
func (s *Service) GetMetadataList(ctx context.Context, params dexplore.ListParams) (*dexplore.MetadataListResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, params)
	var resp Response
	switch {
	case len(s.responses) > 1:
		resp = s.responses[0]
		s.responses = s.responses[1:]
	case len(s.responses) == 1:
		resp = s.responses[0]
	default:
		resp = Response{Err: errors.New("exploretest: no scripted response")}
	}
	s.mu.Unlock()

	select {
	case s.started <- params:
	default:
	}

	if resp.Gate != nil {
		select {
		case <-resp.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return resp.Result, resp.Err
}

// Started delivers the params of each request as it arrives.
func (s *Service) Started() <-chan dexplore.ListParams {
	return s.started
}

// Calls returns the params of every request received so far.
func (s *Service) Calls() []dexplore.ListParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dexplore.ListParams, len(s.calls))
	copy(out, s.calls)
	return out
}

// LastCall returns the params of the most recent request.
func (s *Service) LastCall() (dexplore.ListParams, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return dexplore.ListParams{}, false
	}
	return s.calls[len(s.calls)-1], true
}

// Indicator records Show and Hide calls.
type Indicator struct {
	mu      sync.Mutex
	shows   int
	hides   int
	visible bool
}

func (i *Indicator) Show() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.shows++
	i.visible = true
}

func (i *Indicator) Hide() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.hides++
	i.visible = false
}

// Counts returns the number of Show and Hide calls.
func (i *Indicator) Counts() (shows, hides int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.shows, i.hides
}

// Visible reports whether the last call was Show.
func (i *Indicator) Visible() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.visible
}

// Reporter collects reported errors.
type Reporter struct {
	mu   sync.Mutex
	errs []error
}

func (r *Reporter) Report(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

// Errors returns the reported errors in order.
func (r *Reporter) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}

// Page builds a result holding records with the given total.
func Page(number, size int, total int64, records ...dexplore.Metadata) *dexplore.MetadataListResult {
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	res := &dexplore.MetadataListResult{
		Page: dexplore.PageInfo{Size: size, TotalElements: total, TotalPages: pages, Number: number},
	}
	if records != nil {
		res.Embedded = &dexplore.EmbeddedMetadata{Metadatas: records}
	}
	return res
}

// StaticStore is a dexplore.SelectionStore returning a fixed selection.
type StaticStore dexplore.Selection

func (s StaticStore) Snapshot() dexplore.Selection {
	return dexplore.Selection(s)
}

var (
	_ dexplore.MetadataService   = (*Service)(nil)
	_ dexplore.LoadingIndicator  = (*Indicator)(nil)
	_ dexplore.ExceptionReporter = (*Reporter)(nil)
	_ dexplore.SelectionStore    = StaticStore{}
)
