package http

import (
	"github.com/google/uuid"

	"github.com/khoahotran/portfolio-cms/internal/application/usecase/content"
	"github.com/khoahotran/portfolio-cms/internal/domain/notice"
	"github.com/khoahotran/portfolio-cms/internal/domain/portfolio"
)

// Auth DTOs
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	SessionID   uuid.UUID `json:"session_id"`
}

type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	State         string `json:"state"`
	Username      string `json:"username,omitempty"`
}

// Content DTOs

// MutationResponse is returned by every content write. Warning carries the
// persistence advisory; the change itself is always applied.
type MutationResponse struct {
	Profile portfolio.Profile `json:"profile"`
	Warning string            `json:"warning,omitempty"`
}

func ToMutationResponse(res content.Result) MutationResponse {
	return MutationResponse{Profile: res.Profile, Warning: advisoryMessage(res.Advisory)}
}

type ProjectRequest struct {
	ID           string   `json:"id"`
	Title        string   `json:"title" binding:"required"`
	Technologies []string `json:"technologies"`
	Description  []string `json:"description"`
	DemoURL      string   `json:"demoUrl"`
	GitHubURL    string   `json:"githubUrl"`
	Image        string   `json:"image"`
}

func (r ProjectRequest) ToDomain() (portfolio.Project, error) {
	p := portfolio.Project{
		Title:        r.Title,
		Technologies: r.Technologies,
		Description:  r.Description,
		DemoURL:      r.DemoURL,
		GitHubURL:    r.GitHubURL,
		Image:        r.Image,
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	if p.Description == nil {
		p.Description = []string{}
	}
	if r.ID != "" {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return portfolio.Project{}, err
		}
		p.ID = id
	}
	return p, nil
}

type ProjectResponse struct {
	Project portfolio.Project `json:"project"`
	MutationResponse
}

type DocumentResponse struct {
	Document portfolio.Document `json:"document"`
	MutationResponse
}

// Asset DTOs
type NoticeDTO struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Operation string    `json:"operation"`
	Provider  string    `json:"provider,omitempty"`
	Bucket    string    `json:"bucket"`
	Path      string    `json:"path"`
	CreatedAt string    `json:"created_at"`
}

func ToNoticeDTO(n notice.Notice) NoticeDTO {
	return NoticeDTO{
		ID:        n.ID,
		Kind:      string(n.Kind),
		Message:   n.Message,
		Operation: n.Operation,
		Provider:  n.Provider,
		Bucket:    n.Bucket,
		Path:      n.Path,
		CreatedAt: n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func ToNoticeDTOs(ns []notice.Notice) []NoticeDTO {
	out := make([]NoticeDTO, len(ns))
	for i, n := range ns {
		out[i] = ToNoticeDTO(n)
	}
	return out
}

type AssetResponse struct {
	PreviewURL string     `json:"preview_url"`
	Bucket     string     `json:"bucket"`
	Path       string     `json:"path"`
	Status     string     `json:"status"`
	Notice     *NoticeDTO `json:"notice,omitempty"`
	MutationResponse
}

type StorageStatusResponse struct {
	Provider string            `json:"provider"`
	Ready    bool              `json:"ready"`
	Buckets  map[string]string `json:"buckets"`
}
