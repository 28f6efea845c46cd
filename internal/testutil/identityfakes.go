package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/campushq/campushub/internal/app/identity"
	"github.com/campushq/campushub/internal/domain/models"
	"github.com/rs/xid"
)

// FakeMembers is an in-memory identity.MemberDirectory with per-call fault
// injection. Safe for concurrent use.
type FakeMembers struct {
	mu   sync.Mutex
	Docs map[string]models.Member

	FindErr   error
	MergeErr  error
	InsertErr error
	DeleteErr error
}

// NewFakeMembers returns an empty in-memory member directory.
func NewFakeMembers() *FakeMembers {
	return &FakeMembers{Docs: make(map[string]models.Member)}
}

func (f *FakeMembers) Get(ctx context.Context, id string) (*models.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	if m, ok := f.Docs[id]; ok {
		copy := m
		return &copy, nil
	}
	return nil, nil
}

func (f *FakeMembers) FindByEmail(ctx context.Context, email string) (*models.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	for _, m := range f.Docs {
		if m.Email == email {
			copy := m
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *FakeMembers) Insert(ctx context.Context, m models.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.InsertErr != nil {
		return f.InsertErr
	}
	f.Docs[m.ID] = m
	return nil
}

func (f *FakeMembers) Merge(ctx context.Context, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MergeErr != nil {
		return f.MergeErr
	}
	m := f.Docs[id] // zero value when absent: upsert semantics
	m.ID = id
	applyMemberFields(&m, fields)
	f.Docs[id] = m
	return nil
}

func (f *FakeMembers) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	delete(f.Docs, id)
	return nil
}

func applyMemberFields(m *models.Member, fields map[string]any) {
	for k, v := range fields {
		switch k {
		case "full_name":
			m.FullName = v.(string)
		case "full_name_ci":
			m.FullNameCI = v.(string)
		case "email":
			m.Email = v.(string)
		case "phone":
			m.Phone = v.(string)
		case "photo_url":
			m.PhotoURL = v.(string)
		case "organization_id":
			m.OrganizationID = v.(string)
		case "created_at":
			m.CreatedAt = v.(time.Time)
		case "updated_at":
			m.UpdatedAt = v.(time.Time)
		}
	}
}

// FakeStaff is an in-memory identity.StaffDirectory.
type FakeStaff struct {
	mu   sync.Mutex
	Docs map[string]models.Staff

	FindErr   error
	MergeErr  error
	InsertErr error
	DeleteErr error
}

// NewFakeStaff returns an empty in-memory staff directory.
func NewFakeStaff() *FakeStaff {
	return &FakeStaff{Docs: make(map[string]models.Staff)}
}

func (f *FakeStaff) Get(ctx context.Context, id string) (*models.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	if s, ok := f.Docs[id]; ok {
		copy := s
		return &copy, nil
	}
	return nil, nil
}

func (f *FakeStaff) FindByEmail(ctx context.Context, email string) (*models.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	for _, s := range f.Docs {
		if s.Email == email {
			copy := s
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *FakeStaff) FindByEmailInScope(ctx context.Context, email, orgID, subgroupID string) (*models.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	for _, s := range f.Docs {
		if s.Email == email && s.OrganizationID == orgID && s.SubgroupID == subgroupID {
			copy := s
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *FakeStaff) Insert(ctx context.Context, s models.Staff) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.InsertErr != nil {
		return f.InsertErr
	}
	f.Docs[s.ID] = s
	return nil
}

func (f *FakeStaff) Merge(ctx context.Context, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MergeErr != nil {
		return f.MergeErr
	}
	s := f.Docs[id]
	s.ID = id
	applyStaffFields(&s, fields)
	f.Docs[id] = s
	return nil
}

func (f *FakeStaff) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	delete(f.Docs, id)
	return nil
}

// ListByScope mirrors the store's scope query, sorted by name.
func (f *FakeStaff) ListByScope(ctx context.Context, orgID, subgroupID string) ([]models.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	var out []models.Staff
	for _, s := range f.Docs {
		if s.OrganizationID != orgID {
			continue
		}
		if subgroupID != "" && s.SubgroupID != subgroupID {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func applyStaffFields(s *models.Staff, fields map[string]any) {
	for k, v := range fields {
		switch k {
		case "full_name":
			s.FullName = v.(string)
		case "full_name_ci":
			s.FullNameCI = v.(string)
		case "email":
			s.Email = v.(string)
		case "phone":
			s.Phone = v.(string)
		case "address":
			s.Address = v.(string)
		case "designation":
			s.Designation = v.(string)
		case "student_id":
			s.StudentID = v.(string)
		case "photo_url":
			s.PhotoURL = v.(string)
		case "permissions":
			s.Permissions = v.([]string)
		case "organization_id":
			s.OrganizationID = v.(string)
		case "subgroup_id":
			s.SubgroupID = v.(string)
		case "password":
			s.Password = v.(string)
		case "password_hash":
			s.PasswordHash = v.(string)
		case "updated_by_id":
			s.UpdatedByID = v.(string)
		case "updated_by_name":
			s.UpdatedByName = v.(string)
		case "created_at":
			s.CreatedAt = v.(time.Time)
		case "updated_at":
			s.UpdatedAt = v.(time.Time)
		}
	}
}

// FakeProvider is an in-memory identity.Provider with fault injection
// hooks for session acquisition, account creation, and deletion.
type FakeProvider struct {
	mu       sync.Mutex
	Accounts map[string]string // email -> uid

	SessionErr error
	CreateErr  error
	DeleteErr  error

	// OnCreate runs inside CreateAccount before the result is decided.
	// Tests use it to mutate the directories mid-flight, simulating a
	// concurrent assign that wins the race.
	OnCreate func(email string)

	CreateCalls int
	CloseCalls  int
}

// NewFakeProvider returns an empty in-memory provider.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{Accounts: make(map[string]string)}
}

// Register seeds an existing account, simulating an identity the document
// store does not know about.
func (p *FakeProvider) Register(email, uid string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Accounts[email] = uid
}

// AccountCount reports how many identities exist.
func (p *FakeProvider) AccountCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Accounts)
}

func (p *FakeProvider) NewSession(ctx context.Context) (identity.Session, error) {
	if p.SessionErr != nil {
		return nil, p.SessionErr
	}
	return &fakeSession{p: p}, nil
}

func (p *FakeProvider) DeleteAccount(ctx context.Context, uid string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.DeleteErr != nil {
		return p.DeleteErr
	}
	for email, u := range p.Accounts {
		if u == uid {
			delete(p.Accounts, email)
			return nil
		}
	}
	return nil
}

type fakeSession struct {
	p *FakeProvider
}

func (s *fakeSession) CreateAccount(ctx context.Context, email, password string) (string, error) {
	if s.p.OnCreate != nil {
		s.p.OnCreate(email)
	}
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.CreateCalls++
	if s.p.CreateErr != nil {
		return "", s.p.CreateErr
	}
	if _, exists := s.p.Accounts[email]; exists {
		return "", identity.ErrEmailTaken
	}
	uid := xid.New().String()
	s.p.Accounts[email] = uid
	return uid, nil
}

func (s *fakeSession) UpdateProfile(ctx context.Context, uid, displayName, photoURL string) error {
	return nil
}

func (s *fakeSession) Close(ctx context.Context) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.CloseCalls++
	return nil
}
