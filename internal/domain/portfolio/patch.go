package portfolio

// Patch is a partial update of Profile. A nil field is left untouched; a
// non-nil field replaces the whole top-level value. Collections are replaced,
// never merged element-wise.
type Patch struct {
	Name             *string          `json:"name,omitempty"`
	Title            *string          `json:"title,omitempty"`
	Summary          *string          `json:"summary,omitempty"`
	ProfileImage     *string          `json:"profileImage,omitempty"`
	ResumeURL        *string          `json:"resumeUrl,omitempty"`
	Contact          *ContactInfo     `json:"contact,omitempty"`
	CoreCompetencies *[]string        `json:"coreCompetencies,omitempty"`
	Education        *[]Education     `json:"education,omitempty"`
	Experience       *[]Experience    `json:"experience,omitempty"`
	Projects         *[]Project       `json:"projects,omitempty"`
	Documents        *[]Document      `json:"documents,omitempty"`
	Skills           *[]SkillCategory `json:"skills,omitempty"`
	Languages        *[]string        `json:"languages,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Apply returns base with the patch merged in. base is not modified; the
// replacement collections are copied so the result does not alias the patch.
func (p Patch) Apply(base Profile) Profile {
	next := base
	if p.Name != nil {
		next.Name = *p.Name
	}
	if p.Title != nil {
		next.Title = *p.Title
	}
	if p.Summary != nil {
		next.Summary = *p.Summary
	}
	if p.ProfileImage != nil {
		next.ProfileImage = *p.ProfileImage
	}
	if p.ResumeURL != nil {
		next.ResumeURL = *p.ResumeURL
	}
	if p.Contact != nil {
		next.Contact = *p.Contact
	}
	if p.CoreCompetencies != nil {
		next.CoreCompetencies = *p.CoreCompetencies
	}
	if p.Education != nil {
		next.Education = *p.Education
	}
	if p.Experience != nil {
		next.Experience = *p.Experience
	}
	if p.Projects != nil {
		next.Projects = *p.Projects
	}
	if p.Documents != nil {
		next.Documents = *p.Documents
	}
	if p.Skills != nil {
		next.Skills = *p.Skills
	}
	if p.Languages != nil {
		next.Languages = *p.Languages
	}
	return next.Clone()
}

// DocumentPatch edits a single document in place.
type DocumentPatch struct {
	Title    *string           `json:"title,omitempty"`
	Category *DocumentCategory `json:"category,omitempty"`
	Issuer   *string           `json:"issuer,omitempty"`
	Date     *string           `json:"date,omitempty"`
	URL      *string           `json:"url,omitempty"`
}

func (p DocumentPatch) Apply(d Document) Document {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Category != nil {
		d.Category = *p.Category
	}
	if p.Issuer != nil {
		d.Issuer = *p.Issuer
	}
	if p.Date != nil {
		d.Date = *p.Date
	}
	if p.URL != nil {
		d.URL = *p.URL
	}
	return d
}

func Ptr[T any](v T) *T {
	return &v
}
