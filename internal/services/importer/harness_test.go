package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/carteira-app/carteira/internal/common"
	"github.com/carteira-app/carteira/internal/interfaces"
	"github.com/carteira-app/carteira/internal/models"
)

// fakeLedger is a scriptable LedgerClient for service tests.
type fakeLedger struct {
	mu sync.Mutex

	uploadFn func(fileName string) (*models.Document, error)
	parseFn  func(call int) (*models.ParseResult, error)
	commitFn func(req *models.CommitRequest) (*models.CommitResponse, error)

	uploads     []string
	parseCalls  int
	commitCalls int
	deleted     []string
}

var _ interfaces.LedgerClient = (*fakeLedger)(nil)

func (f *fakeLedger) UploadDocument(_ context.Context, _ io.Reader, fileName, _, _ string) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, fileName)
	if f.uploadFn != nil {
		return f.uploadFn(fileName)
	}
	return &models.Document{ID: "doc-" + fileName, FileName: fileName}, nil
}

func (f *fakeLedger) StartParse(context.Context, string, bool) (*models.ParseResult, error) {
	return &models.ParseResult{Status: models.ParseStatusPending}, nil
}

func (f *fakeLedger) GetParseResult(context.Context, string) (*models.ParseResult, error) {
	f.mu.Lock()
	f.parseCalls++
	call := f.parseCalls
	fn := f.parseFn
	f.mu.Unlock()
	if fn != nil {
		return fn(call)
	}
	return &models.ParseResult{Status: models.ParseStatusCompleted, Data: &models.ExtractedData{}}, nil
}

func (f *fakeLedger) CommitDocument(_ context.Context, _ string, req *models.CommitRequest) (*models.CommitResponse, error) {
	f.mu.Lock()
	f.commitCalls++
	fn := f.commitFn
	f.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	return &models.CommitResponse{}, nil
}

func (f *fakeLedger) DeleteDocument(_ context.Context, documentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, documentID)
	return nil
}

func (f *fakeLedger) ListDocuments(context.Context) ([]*models.Document, error) {
	return nil, nil
}

func (f *fakeLedger) ListAccounts(context.Context) ([]*models.Account, error) {
	return nil, nil
}

func (f *fakeLedger) parseCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.parseCalls
}

// memoryHistory is an in-memory DocumentHistoryStore.
type memoryHistory struct {
	mu   sync.Mutex
	recs map[string]*models.DocumentRecord
}

var _ interfaces.DocumentHistoryStore = (*memoryHistory)(nil)

func newMemoryHistory() *memoryHistory {
	return &memoryHistory{recs: map[string]*models.DocumentRecord{}}
}

func (m *memoryHistory) Save(_ context.Context, rec *models.DocumentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.recs[rec.ID] = &cp
	return nil
}

func (m *memoryHistory) Get(_ context.Context, id string) (*models.DocumentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[id]
	if !ok {
		return nil, fmt.Errorf("document record '%s' not found", id)
	}
	cp := *rec
	return &cp, nil
}

func (m *memoryHistory) List(context.Context) ([]*models.DocumentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.DocumentRecord, 0, len(m.recs))
	for _, rec := range m.recs {
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memoryHistory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recs, id)
	return nil
}

func (m *memoryHistory) Close() error { return nil }

func newTestService(client interfaces.LedgerClient, history interfaces.DocumentHistoryStore, opts ...ServiceOption) *Service {
	return NewService(client, history, common.NewSilentLogger(), opts...)
}

// writeMinimalPDF writes a structurally valid one-page PDF, computing the
// xref offsets from the assembled body.
func writeMinimalPDF(t *testing.T, dir, name string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	offsets := make([]int, 0, 3)
	for _, obj := range []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>\nendobj\n",
	} {
		offsets = append(offsets, b.Len())
		b.WriteString(obj)
	}

	xref := b.Len()
	b.WriteString("xref\n0 4\n")
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	b.WriteString("trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n")
	fmt.Fprintf(&b, "%d\n%%%%EOF\n", xref)

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("failed to write test PDF: %v", err)
	}
	return path
}
