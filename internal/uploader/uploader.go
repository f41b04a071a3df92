package uploader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/modeldocs/portal/internal/catalog"
	"github.com/modeldocs/portal/internal/identity"
	"github.com/modeldocs/portal/internal/models"
)

// State is the upload workflow state. The workflow runs
// Idle -> Validating -> CheckingDuplicate -> Submitting and returns to
// Idle when done, whatever the outcome.
type State string

const (
	StateIdle        State = "idle"
	StateValidating  State = "validating"
	StateCheckingDup State = "checking_duplicate"
	StateSubmitting  State = "submitting"
)

// duplicateKeyMarker identifies the server's unique-constraint violation
// in an error message.
const duplicateKeyMarker = "duplicate key"

var (
	// ErrSubmitInFlight is returned when Submit is called while another
	// submission is running. The second attempt is ignored, not queued.
	ErrSubmitInFlight = errors.New("a submission is already in progress")

	// ErrAuthRequired mirrors the catalog client sentinel; no request is
	// made without an employee identifier.
	ErrAuthRequired = catalog.ErrAuthRequired
)

// ValidationError reports the required fields missing from a draft.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// DuplicateError reports a title collision with an existing catalog item.
type DuplicateError struct {
	Title string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("an item titled %q already exists: choose a different title", e.Title)
}

// Confirmation is emitted after a successful submission.
type Confirmation struct {
	EmployeeID  string `json:"employee_id"`
	SubmittedAt string `json:"submitted_at"`
}

// CatalogAPI is the slice of the catalog client the workflow needs.
type CatalogAPI interface {
	GetArticles(ctx context.Context, p catalog.ItemParams) ([]models.CatalogItem, error)
	GetNotebooks(ctx context.Context, p catalog.ItemParams) ([]models.CatalogItem, error)
	CreateArticle(ctx context.Context, draft *models.UploadDraft, employeeID string) error
	CreateNotebook(ctx context.Context, draft *models.UploadDraft, employeeID string) error
}

// Refresher is notified after a successful submission so the cached
// catalog view gets reloaded.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Workflow validates, duplicate-checks, and submits upload drafts. Only
// one submission runs at a time.
type Workflow struct {
	client    CatalogAPI
	ident     identity.Provider
	refresher Refresher

	mu       sync.Mutex
	state    State
	inFlight bool
}

// New creates an upload workflow. refresher may be nil.
func New(client CatalogAPI, ident identity.Provider, refresher Refresher) *Workflow {
	return &Workflow{
		client:    client,
		ident:     ident,
		refresher: refresher,
		state:     StateIdle,
	}
}

// State returns the current workflow state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// Submit runs the full workflow for the draft. On success the draft is
// reset to defaults and the catalog view refreshed. An attempt without an
// identity token is rejected before any network call, leaving the
// workflow Idle.
func (w *Workflow) Submit(ctx context.Context, draft *models.UploadDraft) (*Confirmation, error) {
	employeeID, ok := w.ident.EmployeeID()
	if !ok {
		return nil, ErrAuthRequired
	}

	w.mu.Lock()
	if w.inFlight {
		w.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	w.inFlight = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.inFlight = false
		w.state = StateIdle
		w.mu.Unlock()
	}()

	w.setState(StateValidating)
	if err := Validate(draft); err != nil {
		return nil, err
	}

	w.setState(StateCheckingDup)
	if err := w.checkDuplicate(ctx, draft); err != nil {
		return nil, err
	}

	w.setState(StateSubmitting)
	var err error
	switch draft.Kind {
	case models.KindNotebook:
		err = w.client.CreateNotebook(ctx, draft, employeeID)
	default:
		err = w.client.CreateArticle(ctx, draft, employeeID)
	}
	if err != nil {
		if strings.Contains(err.Error(), duplicateKeyMarker) {
			return nil, &DuplicateError{Title: draft.Title}
		}
		return nil, err
	}

	*draft = models.UploadDraft{Kind: draft.Kind}

	if w.refresher != nil {
		if err := w.refresher.Refresh(ctx); err != nil {
			slog.Warn("Catalog refresh after upload failed", "error", err)
		}
	}

	return &Confirmation{
		EmployeeID:  employeeID,
		SubmittedAt: time.Now().Format("2006-01-02 15:04:05"),
	}, nil
}

// Validate checks the kind-specific required fields. Articles need title,
// year, category, and subcategory; notebooks need a file and a name.
func Validate(draft *models.UploadDraft) error {
	var missing []string
	switch draft.Kind {
	case models.KindNotebook:
		if len(draft.FileData) == 0 && draft.FilePath == "" {
			missing = append(missing, "file")
		}
		if draft.Title == "" {
			missing = append(missing, "name")
		}
	default:
		if draft.Title == "" {
			missing = append(missing, "title")
		}
		if draft.Year == 0 {
			missing = append(missing, "year")
		}
		if draft.CategoryID == "" {
			missing = append(missing, "category")
		}
		if draft.SubcategoryID == "" {
			missing = append(missing, "subcategory")
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// checkDuplicate fetches the full unfiltered item list and compares the
// candidate title case-insensitively against every existing title. A
// network failure during the check lets the submission proceed: the server
// still enforces uniqueness, and availability wins over a strict
// pre-check.
func (w *Workflow) checkDuplicate(ctx context.Context, draft *models.UploadDraft) error {
	var items []models.CatalogItem
	var err error
	switch draft.Kind {
	case models.KindNotebook:
		items, err = w.client.GetNotebooks(ctx, catalog.ItemParams{})
	default:
		items, err = w.client.GetArticles(ctx, catalog.ItemParams{})
	}
	if err != nil {
		slog.Warn("Duplicate pre-check failed, proceeding with submission", "error", err)
		return nil
	}

	for _, item := range items {
		if strings.EqualFold(item.Title, draft.Title) {
			return &DuplicateError{Title: draft.Title}
		}
	}
	return nil
}
