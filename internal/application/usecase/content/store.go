package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
	"github.com/khoahotran/portfolio-cms/pkg/metrics"
)

type RestoreOutcome string

const (
	OutcomeRestored    RestoreOutcome = "restored"
	OutcomeSeeded      RestoreOutcome = "seeded"
	OutcomeCorrupt     RestoreOutcome = "corrupt"
	OutcomeUnavailable RestoreOutcome = "unavailable"
)

// Result carries the profile after a mutation. Advisory is set when the
// change is applied in memory but could not be written to the durable slot.
type Result struct {
	Profile  portfolio.Profile
	Advisory error
}

const (
	newDocumentTitle = "New Document"
	newProjectTitle  = "New Project"
)

// Store owns the single live Profile. Reads get deep copies; writes are
// serialized and, when a slot is configured, followed by a snapshot save.
type Store struct {
	mu       sync.RWMutex
	current  portfolio.Profile
	slot     portfolio.SnapshotStore
	gateway  service.StorageGateway
	buckets  service.Buckets
	recorder *metrics.Recorder
	logger   logger.Logger
	now      func() time.Time
}

type Options struct {
	// Slot is nil when persistence is disabled.
	Slot     portfolio.SnapshotStore
	Gateway  service.StorageGateway
	Buckets  service.Buckets
	Recorder *metrics.Recorder
	Clock    func() time.Time
}

// NewStore starts from the seed record. Call RestoreFromCache to pick up a
// previously persisted snapshot.
func NewStore(opts Options, log logger.Logger) *Store {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		current:  portfolio.Seed(),
		slot:     opts.Slot,
		gateway:  opts.Gateway,
		buckets:  opts.Buckets,
		recorder: opts.Recorder,
		logger:   log,
		now:      clock,
	}
}

func (s *Store) Get() portfolio.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// commit replaces the live profile and persists it. Caller holds s.mu.
func (s *Store) commit(ctx context.Context, next portfolio.Profile) Result {
	next.Normalize()
	s.current = next
	return Result{Profile: next.Clone(), Advisory: s.persist(ctx, next)}
}

func (s *Store) persist(ctx context.Context, p portfolio.Profile) error {
	if s.slot == nil {
		return nil
	}
	data, err := json.Marshal(p)
	if err == nil {
		err = s.slot.Save(ctx, data)
	}
	if err != nil {
		s.recorder.RecordPersistFailure()
		s.logger.Warn("Failed to persist profile snapshot, keep changes in memory", zap.Error(err))
		return apperror.NewPersistence("profile snapshot was not saved", err)
	}
	return nil
}

// Update shallow-merges patch into the live profile. Replacement collections
// get ids for entries that lack one; a merged profile that would not restore
// from the slot is rejected and the live profile is left as it was.
func (s *Store) Update(ctx context.Context, patch portfolio.Patch) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := patch.Apply(s.current)
	if patch.Projects != nil {
		for i := range next.Projects {
			if next.Projects[i].ID == uuid.Nil {
				next.Projects[i].ID = uuid.New()
			}
		}
	}
	if patch.Documents != nil {
		for i := range next.Documents {
			if next.Documents[i].ID == "" {
				next.Documents[i].ID = uuid.NewString()
			}
		}
	}
	if err := next.Validate(); err != nil {
		return Result{}, rejectPatch(err)
	}
	return s.commit(ctx, next), nil
}

func rejectPatch(err error) error {
	if errors.Is(err, portfolio.ErrDuplicateProject) || errors.Is(err, portfolio.ErrDuplicateDocument) {
		return apperror.NewAppError(apperror.ErrConflict, "profile conflict", err.Error(), err)
	}
	return apperror.NewInvalidInput(err.Error(), err)
}

// UpdateProjectAt replaces the project at a position. A project passed
// without an id keeps the id of the slot it replaces.
func (s *Store) UpdateProjectAt(ctx context.Context, index int, project portfolio.Project) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.current.Projects)
	if index < 0 || index >= n {
		return Result{}, apperror.NewOutOfRange("project", index, n)
	}
	if project.ID == uuid.Nil {
		project.ID = s.current.Projects[index].ID
	}
	if other := s.current.ProjectIndex(project.ID); other >= 0 && other != index {
		return Result{}, apperror.NewConflict("project", "id", project.ID.String())
	}

	next := s.current.Clone()
	next.Projects[index] = project.Clone()
	return s.commit(ctx, next), nil
}

func (s *Store) UpdateProject(ctx context.Context, id uuid.UUID, project portfolio.Project) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.current.ProjectIndex(id)
	if i < 0 {
		return Result{}, apperror.NewNotFound("project", id.String())
	}
	project.ID = id

	next := s.current.Clone()
	next.Projects[i] = project.Clone()
	return s.commit(ctx, next), nil
}

// SetProjectImage points a project at a new image and reports the position
// it held at that moment.
func (s *Store) SetProjectImage(ctx context.Context, id uuid.UUID, image string) (int, Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.current.ProjectIndex(id)
	if i < 0 {
		return -1, Result{}, apperror.NewNotFound("project", id.String())
	}
	next := s.current.Clone()
	next.Projects[i].Image = image
	return i, s.commit(ctx, next), nil
}

// AddProject appends a project. The id is generated unless the caller passes
// one that is not already taken.
func (s *Store) AddProject(ctx context.Context, project portfolio.Project) (portfolio.Project, Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for project.ID == uuid.Nil || s.current.ProjectIndex(project.ID) >= 0 {
		project.ID = uuid.New()
	}
	if project.Title == "" {
		project.Title = newProjectTitle
	}
	project = project.Clone()

	next := s.current.Clone()
	next.Projects = append(next.Projects, project)
	return project.Clone(), s.commit(ctx, next)
}

func (s *Store) RemoveProject(ctx context.Context, id uuid.UUID) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.current.ProjectIndex(id)
	if i < 0 {
		return Result{}, apperror.NewNotFound("project", id.String())
	}
	next := s.current.Clone()
	next.Projects = append(next.Projects[:i], next.Projects[i+1:]...)
	return s.commit(ctx, next), nil
}

// AddDocument appends a placeholder document the owner then edits in place.
func (s *Store) AddDocument(ctx context.Context) (portfolio.Document, Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	for s.current.DocumentIndex(id) >= 0 {
		id = uuid.NewString()
	}
	doc := portfolio.Document{
		ID:       id,
		Title:    newDocumentTitle,
		Category: portfolio.CategoryCertification,
		Date:     s.now().Format("2006"),
	}

	next := s.current.Clone()
	next.Documents = append(next.Documents, doc)
	return doc, s.commit(ctx, next)
}

func (s *Store) UpdateDocument(ctx context.Context, id string, patch portfolio.DocumentPatch) (portfolio.Document, Result, error) {
	if patch.Category != nil && !patch.Category.Valid() {
		return portfolio.Document{}, Result{}, apperror.NewInvalidInput(fmt.Sprintf("unknown document category %q", *patch.Category), portfolio.ErrInvalidDocCategory)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.current.DocumentIndex(id)
	if i < 0 {
		return portfolio.Document{}, Result{}, apperror.NewNotFound("document", id)
	}
	next := s.current.Clone()
	next.Documents[i] = patch.Apply(next.Documents[i])
	return next.Documents[i], s.commit(ctx, next), nil
}

func (s *Store) RemoveDocument(ctx context.Context, id string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.current.DocumentIndex(id)
	if i < 0 {
		return Result{}, apperror.NewNotFound("document", id)
	}
	next := s.current.Clone()
	next.Documents = append(next.Documents[:i], next.Documents[i+1:]...)
	return s.commit(ctx, next), nil
}

// RestoreFromCache replaces the live profile with the persisted snapshot if
// one exists and is structurally valid, otherwise with the seed. A corrupt
// snapshot is cleared. Calling it again with the same slot contents yields
// the same profile.
func (s *Store) RestoreFromCache(ctx context.Context) (portfolio.Profile, RestoreOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slot == nil {
		s.current = portfolio.Seed()
		return s.current.Clone(), OutcomeSeeded
	}

	data, err := s.slot.Load(ctx)
	if err != nil {
		s.logger.Warn("Snapshot slot unavailable, start from seed", zap.Error(err))
		s.current = portfolio.Seed()
		return s.current.Clone(), OutcomeUnavailable
	}
	if len(data) == 0 {
		s.current = portfolio.Seed()
		return s.current.Clone(), OutcomeSeeded
	}

	restored, err := decodeSnapshot(data)
	if err != nil {
		s.logger.Warn("Cached snapshot is corrupt, discard it", zap.Error(err))
		if clearErr := s.slot.Clear(ctx); clearErr != nil {
			s.logger.Warn("Failed to clear corrupt snapshot", zap.Error(clearErr))
		}
		s.current = portfolio.Seed()
		return s.current.Clone(), OutcomeCorrupt
	}

	s.current = restored
	return s.current.Clone(), OutcomeRestored
}

var errEmptySnapshot = errors.New("snapshot is an empty document")

func decodeSnapshot(data []byte) (portfolio.Profile, error) {
	var p portfolio.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return portfolio.Profile{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if p.Name == "" && len(p.Projects) == 0 && len(p.Documents) == 0 {
		return portfolio.Profile{}, errEmptySnapshot
	}
	if err := p.Validate(); err != nil {
		return portfolio.Profile{}, fmt.Errorf("validate snapshot: %w", err)
	}
	p.Normalize()
	return p, nil
}

// RefreshFromStorage points the profile image and resume at the gateway's
// public objects, with a cache-busting query so clients refetch them.
func (s *Store) RefreshFromStorage(ctx context.Context) (Result, error) {
	if s.gateway == nil {
		return Result{}, apperror.NewNotConfigured("no storage gateway")
	}
	image := s.gateway.PublicURL(s.buckets.Images, service.ProfileImagePath)
	resume := s.gateway.PublicURL(s.buckets.CV, service.ResumePath)
	if image == "" || resume == "" {
		return Result{}, apperror.NewNotConfigured("storage has no public URL")
	}
	bust := "?t=" + strconv.FormatInt(s.now().UnixMilli(), 10)

	return s.Update(ctx, portfolio.Patch{
		ProfileImage: portfolio.Ptr(image + bust),
		ResumeURL:    portfolio.Ptr(resume + bust),
	})
}

// Reset discards every edit: the seed becomes live and the slot is emptied.
func (s *Store) Reset(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = portfolio.Seed()
	res := Result{Profile: s.current.Clone()}
	if s.slot != nil {
		if err := s.slot.Clear(ctx); err != nil {
			s.logger.Warn("Failed to clear profile snapshot", zap.Error(err))
			res.Advisory = apperror.NewPersistence("profile snapshot was not cleared", err)
		}
	}
	return res
}

// ProjectPosition reports the current index of a project.
func (s *Store) ProjectPosition(id uuid.UUID) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.current.ProjectIndex(id)
	return i, i >= 0
}

func (s *Store) HasDocument(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.DocumentIndex(id) >= 0
}
