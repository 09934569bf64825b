package portfolio

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

type DocumentCategory string

const (
	CategoryCertification DocumentCategory = "Certification"
	CategoryTranscript    DocumentCategory = "Transcript"
	CategoryAward         DocumentCategory = "Award"
	CategoryOther         DocumentCategory = "Other"
)

func (c DocumentCategory) Valid() bool {
	switch c {
	case CategoryCertification, CategoryTranscript, CategoryAward, CategoryOther:
		return true
	}
	return false
}

type ContactInfo struct {
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Location     string `json:"location"`
	LinkedIn     string `json:"linkedin"`
	LinkedInURL  string `json:"linkedinUrl,omitempty"`
	GitHubURL    string `json:"githubUrl,omitempty"`
	TwitterURL   string `json:"twitterUrl,omitempty"`
	InstagramURL string `json:"instagramUrl,omitempty"`
}

type Education struct {
	Degree      string   `json:"degree"`
	Institution string   `json:"institution"`
	Period      string   `json:"period"`
	Details     []string `json:"details,omitempty"`
}

type Experience struct {
	Role        string   `json:"role"`
	Company     string   `json:"company"`
	Period      string   `json:"period"`
	Location    string   `json:"location,omitempty"`
	Description []string `json:"description"`
}

type Project struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Technologies []string  `json:"technologies"`
	Description  []string  `json:"description"`
	DemoURL      string    `json:"demoUrl,omitempty"`
	GitHubURL    string    `json:"githubUrl,omitempty"`
	Image        string    `json:"image,omitempty"`
}

type Document struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Category DocumentCategory `json:"category"`
	Issuer   string           `json:"issuer"`
	Date     string           `json:"date"`
	URL      string           `json:"url"`
}

type SkillCategory struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// Profile is the root aggregate rendered by the public site. There is exactly
// one per process, owned by the content store.
type Profile struct {
	Name             string          `json:"name"`
	Title            string          `json:"title"`
	Summary          string          `json:"summary"`
	ProfileImage     string          `json:"profileImage,omitempty"`
	ResumeURL        string          `json:"resumeUrl,omitempty"`
	Contact          ContactInfo     `json:"contact"`
	CoreCompetencies []string        `json:"coreCompetencies"`
	Education        []Education     `json:"education"`
	Experience       []Experience    `json:"experience"`
	Projects         []Project       `json:"projects"`
	Documents        []Document      `json:"documents"`
	Skills           []SkillCategory `json:"skills"`
	Languages        []string        `json:"languages"`
}

var (
	ErrEmptyName          = errors.New("profile name is required")
	ErrDuplicateDocument  = errors.New("duplicate document id")
	ErrDuplicateProject   = errors.New("duplicate project id")
	ErrMissingIdentifier  = errors.New("collection entry without id")
	ErrInvalidDocCategory = errors.New("invalid document category")
	// ErrQuotaExceeded is returned by a SnapshotStore when the encoded
	// profile is larger than the slot accepts.
	ErrQuotaExceeded      = errors.New("snapshot exceeds storage quota")
)

// Validate is the structural check applied to snapshots read back from a
// durable slot.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return ErrEmptyName
	}
	seenProjects := make(map[uuid.UUID]struct{}, len(p.Projects))
	for i, pr := range p.Projects {
		if pr.ID == uuid.Nil {
			return fmt.Errorf("project %d: %w", i, ErrMissingIdentifier)
		}
		if _, dup := seenProjects[pr.ID]; dup {
			return fmt.Errorf("project %s: %w", pr.ID, ErrDuplicateProject)
		}
		seenProjects[pr.ID] = struct{}{}
	}
	seenDocs := make(map[string]struct{}, len(p.Documents))
	for i, d := range p.Documents {
		if d.ID == "" {
			return fmt.Errorf("document %d: %w", i, ErrMissingIdentifier)
		}
		if _, dup := seenDocs[d.ID]; dup {
			return fmt.Errorf("document %s: %w", d.ID, ErrDuplicateDocument)
		}
		if !d.Category.Valid() {
			return fmt.Errorf("document %s: %w", d.ID, ErrInvalidDocCategory)
		}
		seenDocs[d.ID] = struct{}{}
	}
	return nil
}

// Normalize replaces nil collections with empty ones so the aggregate is
// always fully populated when serialized.
func (p *Profile) Normalize() {
	if p.CoreCompetencies == nil {
		p.CoreCompetencies = []string{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	if p.Projects == nil {
		p.Projects = []Project{}
	}
	if p.Documents == nil {
		p.Documents = []Document{}
	}
	if p.Skills == nil {
		p.Skills = []SkillCategory{}
	}
	if p.Languages == nil {
		p.Languages = []string{}
	}
}

func (p Project) Clone() Project {
	p.Technologies = slices.Clone(p.Technologies)
	p.Description = slices.Clone(p.Description)
	return p
}

// Clone returns a deep copy. Snapshots handed to callers never alias the
// store's slices.
func (p Profile) Clone() Profile {
	out := p
	out.CoreCompetencies = slices.Clone(p.CoreCompetencies)
	out.Languages = slices.Clone(p.Languages)
	out.Documents = slices.Clone(p.Documents)

	out.Education = make([]Education, len(p.Education))
	for i, e := range p.Education {
		e.Details = slices.Clone(e.Details)
		out.Education[i] = e
	}
	out.Experience = make([]Experience, len(p.Experience))
	for i, e := range p.Experience {
		e.Description = slices.Clone(e.Description)
		out.Experience[i] = e
	}
	out.Projects = make([]Project, len(p.Projects))
	for i, pr := range p.Projects {
		out.Projects[i] = pr.Clone()
	}
	out.Skills = make([]SkillCategory, len(p.Skills))
	for i, s := range p.Skills {
		s.Items = slices.Clone(s.Items)
		out.Skills[i] = s
	}
	out.Normalize()
	return out
}

func (p *Profile) ProjectIndex(id uuid.UUID) int {
	return slices.IndexFunc(p.Projects, func(pr Project) bool { return pr.ID == id })
}

func (p *Profile) DocumentIndex(id string) int {
	return slices.IndexFunc(p.Documents, func(d Document) bool { return d.ID == id })
}

// SnapshotStore is the single durable slot holding the serialized profile.
// Load returns (nil, nil) when the slot is empty.
type SnapshotStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}
